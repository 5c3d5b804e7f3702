package combinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpdac/vpdac/automaton"
	"github.com/vpdac/vpdac/interpreter"
)

func tokens(s string) []byte { return []byte(s) }

func unit[I any](name string) automaton.Update[I] { return automaton.Identity[I](name) }

// --- Integer literal grammar ----------------------------------------------

func digitGraph() *automaton.Nondeterministic[byte] {
	fold := automaton.Update[byte]{
		Src: "|acc, tok| acc*10 + (tok-'0')", InType: "int", OutType: "int",
		Run: func(acc any, tok byte) any {
			n := 0
			if acc != nil {
				n = acc.(int)
			}
			return n*10 + int(tok-'0')
		},
	}
	return Lit[byte]('0', '9', fold)
}

func integerGraph() *automaton.Nondeterministic[byte] {
	return Sequence(digitGraph(), Star(digitGraph()))
}

func TestIntegerScenario(t *testing.T) {
	g := integerGraph()
	require.NoError(t, g.Check())

	out, err := interpreter.Run(g, tokens("42"), 0, "int")
	require.NoError(t, err)
	assert.Equal(t, 42, out)

	out, err = interpreter.Run(g, tokens("0"), 0, "int")
	require.NoError(t, err)
	assert.Equal(t, 0, out)

	_, err = interpreter.Run(g, tokens("4a"), 0, "int")
	require.Error(t, err)
	var parseErr *interpreter.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.NotNil(t, parseErr.BadInput)
	assert.Equal(t, interpreter.Absurd, parseErr.BadInput.Reason)
	assert.Equal(t, 1, parseErr.BadInput.Pos)
}

// TestRecurseTailLoop expresses a* as tail recursion through the tag table
// rather than through Star.
func TestRecurseTailLoop(t *testing.T) {
	loop := Tag("loop", Union(Epsilon[byte](), Sequence(Lit[byte]('a', 'a', unit[byte]("unit")), Recurse[byte]("loop"))))
	require.NoError(t, loop.Check())

	for _, s := range []string{"", "a", "aaa"} {
		assert.Truef(t, interpreter.Accept(loop, tokens(s)), "expected %q to be accepted", s)
	}
	assert.False(t, interpreter.Accept(loop, tokens("b")))
	assert.False(t, interpreter.Accept(loop, tokens("ab ")))
}

// --- Balanced parentheses grammar ------------------------------------------

// dyckGraph is the balanced-parentheses automaton in its smallest form: a
// single state where '(' opens region "parentheses" back into the same
// state and ')' closes it, with the interpreter's stack carrying the
// nesting depth.
func dyckGraph() *automaton.Nondeterministic[byte] {
	g := automaton.NewNondeterministic[byte]()
	g.AddState(automaton.NState[byte]{
		Curry: automaton.Scrutinize[byte, automaton.NTransition[byte]](automaton.NewRangeMap[byte, automaton.NTransition[byte]](
			automaton.Entry(automaton.Unit[byte]('('),
				automaton.Call[byte](automaton.Single(0), "parentheses", automaton.Single(0), automaton.IdentityCombine("unit"))),
			automaton.Entry(automaton.Unit[byte](')'),
				automaton.Return[byte]("parentheses", automaton.Single(0), unit[byte]("unit"))),
		)),
	})
	g.Initial = automaton.Single(0)
	return g
}

func TestDyckScenario(t *testing.T) {
	g := dyckGraph()
	require.NoError(t, g.Check())

	accept := []string{"", "()", "(())", "()()"}
	for _, s := range accept {
		assert.Truef(t, interpreter.Accept(g, tokens(s)), "expected %q to be accepted", s)
	}

	reject := []string{"(", ")(", "())"}
	for _, s := range reject {
		assert.Falsef(t, interpreter.Accept(g, tokens(s)), "expected %q to be rejected", s)
	}
}

func TestDyckSurvivesDeterminize(t *testing.T) {
	d, err := automaton.Determinize(dyckGraph())
	require.NoError(t, err)
	dn := automaton.Generalize(d)

	for _, s := range []string{"", "()", "(())", "()()", "(", ")(", "())"} {
		assert.Equalf(t, interpreter.Accept(dyckGraph(), tokens(s)), interpreter.Accept(dn, tokens(s)),
			"determinization changed acceptance of %q", s)
	}
}

// --- Delimited region via the combinator builder -----------------------------

// groupGraph wraps a single letter in parentheses using Region, with the
// letter's value surfaced through the region's Combine.
func groupGraph() *automaton.Nondeterministic[byte] {
	letter := Lit[byte]('A', 'C', automaton.Update[byte]{
		Src: "|_, tok| tok - 'A'", InType: "()", OutType: "int",
		Run: func(_ any, tok byte) any { return int(tok - 'A') },
	})
	keepInner := automaton.Combine{
		Src: "|_, rhs| rhs", LhsType: "int", RhsType: "int", OutType: "int",
		Run: func(_, rhs any) any { return rhs },
	}
	return Region("group", automaton.Unit[byte]('('), automaton.Unit[byte](')'), letter, keepInner)
}

func TestRegionScenario(t *testing.T) {
	g := groupGraph()
	require.NoError(t, g.Check())

	out, err := interpreter.Run(g, tokens("(B)"), 0, "int")
	require.NoError(t, err)
	assert.Equal(t, 1, out)

	for input, reason := range map[string]interpreter.InputError{
		"(A": interpreter.Unclosed,
		"()": interpreter.Absurd,
		"A)": interpreter.Absurd,
	} {
		_, err := interpreter.Run(g, tokens(input), 0, "int")
		var parseErr *interpreter.ParseError
		require.ErrorAsf(t, err, &parseErr, "input %q", input)
		require.NotNilf(t, parseErr.BadInput, "input %q", input)
		assert.Equalf(t, reason, parseErr.BadInput.Reason, "input %q", input)
	}
}

// --- Parenthesized letter-list grammar --------------------------------------

// abcGraph implements '(' ( letter ',' | letter (', ' letter)+ )? ')':
// a lone element requires a trailing comma, two-or-more elements are
// joined by ", " with no trailing comma required or allowed twice.
func abcGraph() *automaton.Nondeterministic[byte] {
	letter := Union(Union(
		Lit[byte]('A', 'A', unit[byte]("unit")),
		Lit[byte]('B', 'B', unit[byte]("unit"))),
		Lit[byte]('C', 'C', unit[byte]("unit")))

	comma := Lit[byte](',', ',', unit[byte]("unit"))
	sepItem := Sequence(Sequence(comma, Lit[byte](' ', ' ', unit[byte]("unit"))), letter)

	oneWithComma := Sequence(letter, comma)
	twoOrMore := Sequence(letter, Sequence(sepItem, Star(sepItem)))
	body := Union(oneWithComma, twoOrMore)

	full := Sequence(Sequence(Lit[byte]('(', '(', unit[byte]("unit")), Optional(body)), Lit[byte](')', ')', unit[byte]("unit")))
	return full
}

func TestABCScenario(t *testing.T) {
	g := abcGraph()
	require.NoError(t, g.Check())

	accept := []string{"()", "(A,)", "(A, B)", "(A, B, C)"}
	for _, s := range accept {
		assert.Truef(t, interpreter.Accept(g, tokens(s)), "expected %q to be accepted", s)
	}

	reject := []string{"(A,,)", "(A)"}
	for _, s := range reject {
		assert.Falsef(t, interpreter.Accept(g, tokens(s)), "expected %q to be rejected", s)
	}
}

// --- US phone number grammar -------------------------------------------------

// phoneGraph covers three concrete separator forms explicitly, rather than
// a fully parameterized "pick any of {' ','.','-',''}
// and reuse it consistently" grammar: expressing "the same separator must
// recur at every position" needs either one alternative per separator
// (done here, proportionate to the three named examples) or a
// context-carrying accumulator check that Update functions have no hook to
// reject on (an Update never aborts a match).
func phoneGraph() *automaton.Nondeterministic[byte] {
	digits := func(n int) *automaton.Nondeterministic[byte] {
		g := Lit[byte]('0', '9', unit[byte]("unit"))
		for i := 1; i < n; i++ {
			g = Sequence(g, Lit[byte]('0', '9', unit[byte]("unit")))
		}
		return g
	}
	variant := func(sep string) *automaton.Nondeterministic[byte] {
		g := digits(3)
		for _, r := range sep {
			g = Sequence(g, Lit[byte](byte(r), byte(r), unit[byte]("unit")))
		}
		g = Sequence(g, digits(3))
		for _, r := range sep {
			g = Sequence(g, Lit[byte](byte(r), byte(r), unit[byte]("unit")))
		}
		g = Sequence(g, digits(4))
		return g
	}
	sameSep := variant("")
	for _, sep := range []string{" ", ".", "-"} {
		sameSep = Union(sameSep, variant(sep))
	}
	parenDashed := Sequence(Sequence(Lit[byte]('(', '(', unit[byte]("unit")), digits(3)), Sequence(Lit[byte](')', ')', unit[byte]("unit")), Sequence(Lit[byte](' ', ' ', unit[byte]("unit")), Sequence(digits(3), Sequence(Lit[byte]('-', '-', unit[byte]("unit")), digits(4))))))
	return Union(sameSep, parenDashed)
}

func TestPhoneScenario(t *testing.T) {
	g := phoneGraph()
	require.NoError(t, g.Check())

	accept := []string{"5551234567", "555 123 4567", "555.123.4567", "555-123-4567", "(555) 123-4567"}
	for _, s := range accept {
		assert.Truef(t, interpreter.Accept(g, tokens(s)), "expected %q to be accepted", s)
	}

	// Separators must recur consistently across components.
	reject := []string{"555  123 4567", "555 123-4567", "555.123 4567"}
	for _, s := range reject {
		assert.Falsef(t, interpreter.Accept(g, tokens(s)), "expected %q to be rejected", s)
	}
}

// --- Ambiguous callback witness ----------------------------------------------

func TestAmbiguityWitnessFailsDeterminize(t *testing.T) {
	updA := automaton.Update[byte]{Src: "f", InType: "unit", OutType: "unit", Run: func(acc any, _ byte) any { return acc }}
	updB := automaton.Update[byte]{Src: "g", InType: "unit", OutType: "unit", Run: func(acc any, _ byte) any { return acc }}
	g := Union(Lit[byte]('A', 'A', updA), Lit[byte]('A', 'A', updB))

	_, err := automaton.Determinize(g)
	require.Error(t, err)
	var illFormed *automaton.IllFormed[byte]
	require.ErrorAs(t, err, &illFormed)
	assert.Equal(t, automaton.IncompatibleCallbacks, illFormed.Kind)
}

// --- Minimization shrinks a determinized graph -------------------------------

func TestMinimizationShrinksABC(t *testing.T) {
	g := abcGraph()
	d, err := automaton.Determinize(g)
	require.NoError(t, err)
	m, err := automaton.Minimize(d)
	require.NoError(t, err)
	assert.Less(t, len(m.States), len(d.States))

	dn := automaton.Generalize(d)
	mn := automaton.Generalize(m)
	for _, s := range []string{"()", "(A,)", "(A, B)", "(A, B, C)", "(A,,)", "(A)"} {
		assert.Equal(t, interpreter.Accept(dn, tokens(s)), interpreter.Accept(mn, tokens(s)), "mismatch on %q", s)
	}
}
