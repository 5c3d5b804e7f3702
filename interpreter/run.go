package interpreter

import (
	"cmp"

	"github.com/vpdac/vpdac/automaton"
)

// frame is one entry of the interpreter's parse stack: the region that was
// opened, the control to resume at on return, the caller's half-built
// accumulator, and the Combine that will fold the callee's result into it.
type frame struct {
	region  string
	resume  automaton.Ctrl
	acc     any
	accType string
	combine automaton.Combine
}

// InProgress rides a nondeterministic graph over a token sequence one token
// at a time: each call to Next either advances the state (consuming the
// token laterally, or consuming it as a region's open/close delimiter) or
// reports that the input was rejected or the graph is broken.
type InProgress[I cmp.Ordered] struct {
	graph   *automaton.Nondeterministic[I]
	ctrl    automaton.Ctrl
	stack   []frame
	acc     any
	accType string
}

// New starts a run of g with the given initial accumulator value and its
// source-form type name.
func New[I cmp.Ordered](g *automaton.Nondeterministic[I], initialAcc any, initialType string) (*InProgress[I], error) {
	if _, err := g.Initial.Resolve(g.Tags); err != nil {
		return nil, brokenParser(err)
	}
	return &InProgress[I]{graph: g, ctrl: g.Initial, acc: initialAcc, accType: initialType}, nil
}

// Accepting reports whether the current control set, with an empty stack,
// would be accepted if input ended right now.
func (p *InProgress[I]) Accepting() (bool, error) {
	states, err := p.resolveStates()
	if err != nil {
		return false, err
	}
	for _, st := range states {
		if st.Accepting() {
			return true, nil
		}
	}
	return false, nil
}

// Result returns the interpreter's current accumulator value and its
// source-form type name.
func (p *InProgress[I]) Result() (any, string) { return p.acc, p.accType }

// StackDepth reports how many regions are currently open.
func (p *InProgress[I]) StackDepth() int { return len(p.stack) }

func (p *InProgress[I]) resolveStates() ([]automaton.NState[I], error) {
	indices, err := p.ctrl.Resolve(p.graph.Tags)
	if err != nil {
		return nil, brokenParser(err)
	}
	out := make([]automaton.NState[I], 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(p.graph.States) {
			return nil, brokenParser(&indexOutOfBounds{idx: i})
		}
		out = append(out, p.graph.States[i])
	}
	return out, nil
}

type indexOutOfBounds struct{ idx int }

func (e *indexOutOfBounds) Error() string { return "state index out of bounds" }

// Finish signals end of input: it succeeds only if the stack is empty and
// at least one constituent of the current control set is accepting.
func (p *InProgress[I]) Finish() error {
	if len(p.stack) != 0 {
		return rejectInput(Unclosed)
	}
	ok, err := p.Accepting()
	if err != nil {
		return err
	}
	if !ok {
		return rejectInput(NotAccepting)
	}
	return nil
}

// Next advances the run by exactly one token. Every transition shape
// consumes its token: a Lateral updates the accumulator, a Call consumes
// the opening delimiter while pushing a stack frame, and a Return consumes
// the closing delimiter while popping one -- which of the three a given
// token does is fixed by the token itself, the visibly-pushdown discipline.
func (p *InProgress[I]) Next(tok I) error {
	states, err := p.resolveStates()
	if err != nil {
		return err
	}

	var mega *automaton.NTransition[I]
	for _, st := range states {
		t, ok := st.Curry.Get(tok)
		if !ok {
			continue
		}
		if mega == nil {
			cp := t
			mega = &cp
			continue
		}
		fused, err := automaton.MergeTransitions(0, *mega, t)
		if err != nil {
			return brokenParser(err)
		}
		mega = &fused
	}
	if mega == nil {
		return rejectInput(Absurd)
	}

	switch mega.Kind {
	case automaton.KLateral:
		p.acc = mega.Update.Run(p.acc, tok)
		p.accType = mega.Update.OutType
		p.ctrl = mega.Dst
		return nil
	case automaton.KCall:
		p.stack = append(p.stack, frame{
			region:  mega.Region,
			resume:  mega.Detour,
			acc:     p.acc,
			accType: p.accType,
			combine: mega.Combine,
		})
		// The callee builds its own accumulator from scratch.
		p.acc = nil
		p.accType = ""
		p.ctrl = mega.Dst
		return nil
	case automaton.KReturn:
		if len(p.stack) == 0 {
			return rejectInput(Unopened)
		}
		top := p.stack[len(p.stack)-1]
		if top.region != mega.Region {
			return rejectInput(Unopened)
		}
		p.stack = p.stack[:len(p.stack)-1]
		calleeAcc := p.acc
		if mega.Update.Run != nil {
			calleeAcc = mega.Update.Run(calleeAcc, tok)
		}
		if top.combine.Run != nil {
			p.acc = top.combine.Run(top.acc, calleeAcc)
			p.accType = top.combine.OutType
		} else {
			p.acc = top.acc
			p.accType = top.accType
		}
		// The remembered resume point (the Detour pushed at Call time) is
		// authoritative, not the static Dst baked into this Return edge:
		// the same Return edge can be reached from different call sites
		// (e.g. a recursive region), each expecting to resume somewhere
		// different.
		p.ctrl = top.resume
		return nil
	}
	return rejectInput(Absurd)
}

// Accept reports whether g accepts tokens, discarding the accumulated
// value. It exists for property tests that only care about acceptance,
// not the output an Update/Combine chain builds along the way.
func Accept[I cmp.Ordered](g *automaton.Nondeterministic[I], tokens []I) bool {
	_, err := Run(g, tokens, nil, "")
	return err == nil
}

// Run drives a full token sequence to completion, returning the final
// accumulator on success.
func Run[I cmp.Ordered](g *automaton.Nondeterministic[I], tokens []I, initialAcc any, initialType string) (any, error) {
	p, err := New(g, initialAcc, initialType)
	if err != nil {
		return nil, err
	}
	for i, tok := range tokens {
		if err := p.Next(tok); err != nil {
			return nil, errAt(err, i)
		}
	}
	if err := p.Finish(); err != nil {
		return nil, errAt(err, len(tokens))
	}
	acc, _ := p.Result()
	return acc, nil
}
