package automaton

import "cmp"

// Minimize computes the canonical minimal deterministic graph accepting the
// same language as g, via the Brzozowski double-reversal construction:
// minimize(G) = determinize(reverse(determinize(reverse(G)))). Two
// determinize passes are each already a subset construction that merges
// every pair of states reachable by the same strings going forward (resp.
// backward); composing them through a reversal in between is what collapses
// states that are merely forward-equivalent-but-not-identical, without
// needing a separate Hopcroft-style partition refinement pass.
func Minimize[I cmp.Ordered](g *Deterministic[I]) (*Deterministic[I], error) {
	r1, err := Reverse(g)
	if err != nil {
		return nil, err
	}
	d1, err := Determinize(r1)
	if err != nil {
		return nil, err
	}
	r2, err := Reverse(d1)
	if err != nil {
		return nil, err
	}
	d2, err := Determinize(r2)
	if err != nil {
		return nil, err
	}
	return Sort(d2), nil
}
