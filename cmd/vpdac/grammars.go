package main

import (
	"sort"
	"strings"

	"github.com/vpdac/vpdac/automaton"
	"github.com/vpdac/vpdac/combinator"
)

// builtin is a demonstration grammar bundled with the CLI: a graph builder
// plus the initial accumulator its updates fold into.
type builtin struct {
	build   func() *automaton.Nondeterministic[byte]
	acc     any
	accType string
}

var builtinGrammars = map[string]builtin{
	"integer":  {build: integerGrammar, acc: 0, accType: "int"},
	"dyck":     {build: dyckGrammar, acc: nil, accType: "()"},
	"brackets": {build: bracketsGrammar, acc: 0, accType: "int"},
}

func grammarNames() string {
	names := make([]string, 0, len(builtinGrammars))
	for name := range builtinGrammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// integerGrammar accepts one or more decimal digits, folding them into an
// int.
func integerGrammar() *automaton.Nondeterministic[byte] {
	fold := automaton.Update[byte]{
		Src: "|acc, tok| acc*10 + (tok - '0')", InType: "int", OutType: "int",
		Run: func(acc any, tok byte) any {
			n := 0
			if acc != nil {
				n = acc.(int)
			}
			return n*10 + int(tok-'0')
		},
	}
	digit := func() *automaton.Nondeterministic[byte] { return combinator.Lit[byte]('0', '9', fold) }
	return combinator.Sequence(digit(), combinator.Star(digit()))
}

// dyckGrammar accepts balanced parentheses: one state, with '(' opening
// region "parentheses" back into itself and ')' closing it.
func dyckGrammar() *automaton.Nondeterministic[byte] {
	g := automaton.NewNondeterministic[byte]()
	g.AddState(automaton.NState[byte]{
		Curry: automaton.Scrutinize[byte, automaton.NTransition[byte]](automaton.NewRangeMap[byte, automaton.NTransition[byte]](
			automaton.Entry(automaton.Unit[byte]('('),
				automaton.Call[byte](automaton.Single(0), "parentheses", automaton.Single(0), automaton.IdentityCombine("()"))),
			automaton.Entry(automaton.Unit[byte](')'),
				automaton.Return[byte]("parentheses", automaton.Single(0), automaton.Identity[byte]("()"))),
		)),
	})
	g.Initial = automaton.Single(0)
	return g
}

// bracketsGrammar accepts nested bracketed digit strings like "[1[20]]",
// summing each closed bracket's value into its enclosing one.
func bracketsGrammar() *automaton.Nondeterministic[byte] {
	fold := automaton.Update[byte]{
		Src: "|acc, tok| acc*10 + (tok - '0')", InType: "int", OutType: "int",
		Run: func(acc any, tok byte) any {
			n := 0
			if acc != nil {
				n = acc.(int)
			}
			return n*10 + int(tok-'0')
		},
	}
	add := automaton.Combine{
		Src: "|lhs, rhs| lhs + rhs", LhsType: "int", RhsType: "int", OutType: "int",
		Run: func(lhs, rhs any) any {
			l, r := 0, 0
			if lhs != nil {
				l = lhs.(int)
			}
			if rhs != nil {
				r = rhs.(int)
			}
			return l + r
		},
	}
	g := automaton.NewNondeterministic[byte]()
	g.AddState(automaton.NState[byte]{
		Curry: automaton.Scrutinize[byte, automaton.NTransition[byte]](automaton.NewRangeMap[byte, automaton.NTransition[byte]](
			automaton.Entry(automaton.Range[byte]{First: '0', Last: '9'}, automaton.Lateral[byte](automaton.Single(0), fold)),
			automaton.Entry(automaton.Unit[byte]('['), automaton.Call[byte](automaton.Single(0), "brackets", automaton.Single(0), add)),
			automaton.Entry(automaton.Unit[byte](']'), automaton.Return[byte]("brackets", automaton.Single(0), automaton.Identity[byte]("int"))),
		)),
	})
	g.Initial = automaton.Single(0)
	return g
}
