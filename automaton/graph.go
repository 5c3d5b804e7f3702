package automaton

import "cmp"

// Nondeterministic is a graph before determinization: states addressed by
// Ctrl (a set of indices/tags, run in superposition), with a tag table
// letting combinators refer to a not-yet-known state index by name (needed
// for recursive grammars, whose entry state isn't known until the whole
// graph is assembled).
type Nondeterministic[I cmp.Ordered] struct {
	States  []NState[I]
	Initial Ctrl
	Tags    map[string]Ctrl
}

// Deterministic is a graph after determinization: states addressed by a
// plain resolved index, with a tag table of plain indices for diagnostics
// and for Reverse/Minimize to re-seed a fresh Nondeterministic graph from.
type Deterministic[I cmp.Ordered] struct {
	States  []DState[I]
	Initial int
	Tags    map[string]int
}

// NewNondeterministic builds an empty graph ready to have states appended.
func NewNondeterministic[I cmp.Ordered]() *Nondeterministic[I] {
	return &Nondeterministic[I]{Tags: map[string]Ctrl{}}
}

// AddState appends a state and returns its index.
func (g *Nondeterministic[I]) AddState(st NState[I]) int {
	g.States = append(g.States, st)
	return len(g.States) - 1
}

// Tag records name as referring to ctrl, for forward references resolved
// later by Ctrl.Resolve.
func (g *Nondeterministic[I]) Tag(name string, ctrl Ctrl) {
	g.Tags[name] = ctrl
}
