// Package combinator builds Nondeterministic graphs out of small reusable
// pieces: literal ranges, union, sequencing, repetition, and named regions.
// It is the minimum surface the compiler's own test suite needs to build
// the seed grammars exercised by automaton/determinize, automaton/minimize,
// and the interpreter -- not a general-purpose parser-combinator DSL.
package combinator

import (
	"cmp"

	"github.com/vpdac/vpdac/automaton"
)

// Lit builds a two-state graph that consumes exactly one token in
// [lo, hi], applying update and then accepting.
func Lit[I cmp.Ordered](lo, hi I, update automaton.Update[I]) *automaton.Nondeterministic[I] {
	g := automaton.NewNondeterministic[I]()
	start := g.AddState(automaton.NState[I]{
		Curry: automaton.Scrutinize[I, automaton.NTransition[I]](
			automaton.NewRangeMap[I, automaton.NTransition[I]](
				automaton.Entry(automaton.Range[I]{First: lo, Last: hi}, automaton.Lateral[I](automaton.Single(1), update)),
			),
		),
		NonAccepting: map[string]struct{}{"mid-literal": {}},
	})
	g.AddState(automaton.NState[I]{
		Curry:        automaton.Scrutinize[I, automaton.NTransition[I]](automaton.NewRangeMap[I, automaton.NTransition[I]]()),
		NonAccepting: nil,
	})
	g.Initial = automaton.Single(start)
	return g
}

// Epsilon builds a one-state graph accepting only the empty token
// sequence.
func Epsilon[I cmp.Ordered]() *automaton.Nondeterministic[I] {
	g := automaton.NewNondeterministic[I]()
	g.AddState(automaton.NState[I]{
		Curry:        automaton.Scrutinize[I, automaton.NTransition[I]](automaton.NewRangeMap[I, automaton.NTransition[I]]()),
		NonAccepting: nil,
	})
	g.Initial = automaton.Single(0)
	return g
}

// splice appends b's states after a's, returning the offset to add to any
// of b's own state indices to land them in the combined slice, plus the
// combined graph (states only -- callers finish wiring Initial/Tags).
func splice[I cmp.Ordered](a, b *automaton.Nondeterministic[I]) (*automaton.Nondeterministic[I], int) {
	out := automaton.NewNondeterministic[I]()
	offset := 0
	for _, st := range a.States {
		out.AddState(st)
		offset++
	}
	for name, ctrl := range a.Tags {
		out.Tag(name, ctrl)
	}
	shifted := offset
	for _, st := range b.States {
		out.AddState(shiftState(st, shifted))
	}
	for name, ctrl := range b.Tags {
		out.Tag(name, shiftCtrl(ctrl, shifted))
	}
	return out, shifted
}

func shiftCtrl(c automaton.Ctrl, delta int) automaton.Ctrl {
	refs := c.View()
	out := make([]automaton.Ref, len(refs))
	for i, r := range refs {
		if r.ByTag {
			out[i] = r
		} else {
			out[i] = automaton.IndexRef(r.Index + delta)
		}
	}
	return automaton.NewCtrl(out...)
}

func shiftTransition[I cmp.Ordered](t automaton.NTransition[I], delta int) automaton.NTransition[I] {
	t.Dst = shiftCtrl(t.Dst, delta)
	if t.Kind == automaton.KCall {
		t.Detour = shiftCtrl(t.Detour, delta)
	}
	return t
}

func shiftCurry[I cmp.Ordered](c automaton.Curry[I, automaton.NTransition[I]], delta int) automaton.Curry[I, automaton.NTransition[I]] {
	if c.IsWildcard() {
		return automaton.Wildcard[I, automaton.NTransition[I]](shiftTransition(c.MustWildcard(), delta))
	}
	rm := automaton.NewRangeMap[I, automaton.NTransition[I]]()
	for _, e := range c.MustScrutinize().Entries() {
		rm = rm.Insert(e.Key, shiftTransition(e.Value, delta))
	}
	return automaton.Scrutinize[I, automaton.NTransition[I]](rm)
}

func shiftState[I cmp.Ordered](s automaton.NState[I], delta int) automaton.NState[I] {
	return automaton.NState[I]{Curry: shiftCurry(s.Curry, delta), NonAccepting: s.NonAccepting}
}

// acceptingIndices returns the indices of every accepting state in g.
func acceptingIndices[I cmp.Ordered](g *automaton.Nondeterministic[I]) []int {
	var out []int
	for i, st := range g.States {
		if st.Accepting() {
			out = append(out, i)
		}
	}
	return out
}

// Union builds a graph accepting everything either a or b accepts: no new
// state is added; the initial control is the union of both constituents'
// initial control sets.
func Union[I cmp.Ordered](a, b *automaton.Nondeterministic[I]) *automaton.Nondeterministic[I] {
	out, offset := splice(a, b)
	out.Initial = a.Initial.Union(shiftCtrl(b.Initial, offset))
	return out
}

// Sequence builds a graph accepting every string formed by concatenating a
// string a accepts with a string b accepts. A Lateral transition always
// consumes a token, so bridging the seam with an actual new transition
// would silently eat one extra token of input; instead every
// reference to one of a's accepting states, wherever it occurs in the
// spliced graph (including a's own Initial, for a grammar that accepts the
// empty string), is rewritten via automaton.SubstituteRef to point
// directly at b's initial control set. a's now-unreferenced accepting
// states stay in the state slice as harmless orphans -- Determinize never
// visits a subset nothing points to.
func Sequence[I cmp.Ordered](a, b *automaton.Nondeterministic[I]) *automaton.Nondeterministic[I] {
	out, offset := splice(a, b)
	bInitial := shiftCtrl(b.Initial, offset)
	out.Initial = a.Initial
	for _, idx := range acceptingIndices[I](a) {
		automaton.SubstituteRef[I](out, idx, bInitial)
	}
	return out
}

// Star builds a graph accepting zero or more repetitions of a: a fresh
// "done" state folded into the initial superposition alongside a's own
// initial states, and every one of a's accepting states substituted (per
// Sequence's note on SubstituteRef) to resume at that same superposition --
// so after any repetition the automaton is simultaneously "willing to stop"
// and "willing to start another repetition," which is the standard NFA
// construction for Kleene star.
func Star[I cmp.Ordered](a *automaton.Nondeterministic[I]) *automaton.Nondeterministic[I] {
	out := automaton.NewNondeterministic[I]()
	for _, st := range a.States {
		out.AddState(st)
	}
	for name, ctrl := range a.Tags {
		out.Tag(name, ctrl)
	}
	zero := out.AddState(automaton.NState[I]{
		Curry:        automaton.Scrutinize[I, automaton.NTransition[I]](automaton.NewRangeMap[I, automaton.NTransition[I]]()),
		NonAccepting: nil,
	})
	out.Initial = a.Initial.Union(automaton.Single(zero))
	for _, idx := range acceptingIndices[I](a) {
		automaton.SubstituteRef[I](out, idx, out.Initial)
	}
	return out
}

// Optional builds a graph accepting either the empty string or whatever a
// accepts.
func Optional[I cmp.Ordered](a *automaton.Nondeterministic[I]) *automaton.Nondeterministic[I] {
	return Union(a, Epsilon[I]())
}

// Region wraps inner in open/close delimiters under the pushdown symbol
// region: a fresh entry state consumes a token in open as a Call, pushing
// region and jumping to inner's initial states; every one of inner's
// accepting states gains a Return edge consuming a token in close,
// targeting a fresh exit state after folding inner's accumulator into the
// caller's via combine. The exit state is this graph's sole accepting
// state, so a Region graph composes with Sequence/Union/Star exactly like
// any other atomic piece. The Call's Detour and the Return's Dst are both
// statically fixed to that same exit state, which is exact here because
// this builder only emits flat (non-self-recursive) regions; a
// self-recursive region is built by hand, with the Detour naming the
// per-call-site resume control (see the interpreter's stack discipline).
//
// An accepting inner state whose dispatch is a Wildcard cannot also accept
// the close delimiter as a Return; the builder panics rather than silently
// shadow one of the two. None of the builders in this package produce that
// shape.
func Region[I cmp.Ordered](region string, open, close automaton.Range[I], inner *automaton.Nondeterministic[I], combine automaton.Combine) *automaton.Nondeterministic[I] {
	out := automaton.NewNondeterministic[I]()
	for _, st := range inner.States {
		out.AddState(st)
	}
	for name, ctrl := range inner.Tags {
		out.Tag(name, ctrl)
	}

	entry := len(inner.States)
	exit := entry + 1
	for _, idx := range acceptingIndices[I](out) {
		st := out.States[idx]
		if st.Curry.IsWildcard() {
			panic("combinator: cannot add a close delimiter to a wildcard state")
		}
		ret := automaton.Return[I](region, automaton.Single(exit), automaton.Identity[I](combine.RhsType))
		st.Curry = automaton.Scrutinize[I, automaton.NTransition[I]](st.Curry.MustScrutinize().Insert(close, ret))
		st.NonAccepting = map[string]struct{}{"region not yet closed": {}}
		out.States[idx] = st
	}

	got := out.AddState(automaton.NState[I]{
		Curry: automaton.Scrutinize[I, automaton.NTransition[I]](automaton.NewRangeMap[I, automaton.NTransition[I]](
			automaton.Entry(open, automaton.Call[I](inner.Initial, region, automaton.Single(exit), combine)),
		)),
		NonAccepting: map[string]struct{}{"region not yet opened": {}},
	})
	if got != entry {
		panic("combinator: Region entry/exit bookkeeping drifted")
	}
	out.AddState(automaton.NState[I]{
		Curry:        automaton.Scrutinize[I, automaton.NTransition[I]](automaton.NewRangeMap[I, automaton.NTransition[I]]()),
		NonAccepting: nil,
	})
	out.Initial = automaton.Single(entry)
	return out
}

// Tag records name in g's tag table as a reference to g's own initial
// control set, letting Recurse refer back to it before g's final shape (and
// therefore its state indices) is known.
func Tag[I cmp.Ordered](name string, g *automaton.Nondeterministic[I]) *automaton.Nondeterministic[I] {
	g.Tag(name, g.Initial)
	return g
}

// Recurse builds a zero-state graph whose initial control is a bare tag
// reference: spliced as the tail of a Sequence, it becomes a jump back to
// whatever graph Tag recorded under name -- a tail call, resolved by
// Determinize (and by the interpreter) against the final graph's tag table.
// It has no accepting states of its own, so nothing can be sequenced after
// it; recursion anywhere but tail position needs a Region's pushdown frame
// instead.
func Recurse[I cmp.Ordered](name string) *automaton.Nondeterministic[I] {
	g := automaton.NewNondeterministic[I]()
	g.Initial = automaton.NewCtrl(automaton.TagRef(name))
	return g
}
