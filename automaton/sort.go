package automaton

import (
	"cmp"
	"sort"
)

// Sort canonicalizes a Deterministic graph's state ordering: states are
// reordered by a structural comparison (so two graphs that differ only in
// the order states happen to have been discovered get an identical byte
// representation), then adjacent structurally-identical states are fused
// and the whole pass repeats until a fixpoint -- since fusing two states
// can expose a transition that now points at the same place from two
// different edges, which can in turn make a further pair of states
// collapse.
func Sort[I cmp.Ordered](g *Deterministic[I]) *Deterministic[I] {
	cur := dropOrphans(g)
	for {
		canon := sortOnce(cur)
		fused, changed := dedupAdjacent(canon)
		if !changed {
			return fused
		}
		cur = fused
	}
}

// dropOrphans removes states unreachable from the initial state and the tag
// table, remapping every surviving index. Orphans appear when composition
// redirects all references away from a state (e.g. an accepting state
// spliced over by Sequence) and would otherwise spoil canonical comparison.
func dropOrphans[I cmp.Ordered](g *Deterministic[I]) *Deterministic[I] {
	n := len(g.States)
	seen := make([]bool, n)
	stack := []int{g.Initial}
	for _, idx := range g.Tags {
		stack = append(stack, idx)
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[i] {
			continue
		}
		seen[i] = true
		push := func(t DTransition[I]) {
			stack = append(stack, t.Dst)
			if t.Kind == KCall {
				stack = append(stack, t.Detour)
			}
		}
		st := g.States[i]
		if st.Curry.IsWildcard() {
			push(st.Curry.MustWildcard())
			continue
		}
		for _, e := range st.Curry.MustScrutinize().Entries() {
			push(e.Value)
		}
	}

	oldToNew := make([]int, n)
	next := 0
	for i := 0; i < n; i++ {
		if seen[i] {
			oldToNew[i] = next
			next++
		}
	}
	if next == n {
		return g
	}

	states := make([]DState[I], 0, next)
	for i := 0; i < n; i++ {
		if seen[i] {
			states = append(states, remapState(g.States[i], oldToNew))
		}
	}
	tags := make(map[string]int, len(g.Tags))
	for name, idx := range g.Tags {
		tags[name] = oldToNew[idx]
	}
	return &Deterministic[I]{States: states, Initial: oldToNew[g.Initial], Tags: tags}
}

// sortOnce reorders states by structural comparison and remaps every
// transition/tag index through the resulting permutation.
func sortOnce[I cmp.Ordered](g *Deterministic[I]) *Deterministic[I] {
	n := len(g.States)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return compareDState(g.States[order[a]], g.States[order[b]]) < 0
	})

	oldToNew := make([]int, n)
	for newIdx, oldIdx := range order {
		oldToNew[oldIdx] = newIdx
	}

	states := make([]DState[I], n)
	for newIdx, oldIdx := range order {
		states[newIdx] = remapState(g.States[oldIdx], oldToNew)
	}

	tags := make(map[string]int, len(g.Tags))
	for name, idx := range g.Tags {
		tags[name] = oldToNew[idx]
	}

	return &Deterministic[I]{States: states, Initial: oldToNew[g.Initial], Tags: tags}
}

func remapState[I cmp.Ordered](s DState[I], oldToNew []int) DState[I] {
	remapT := func(t DTransition[I]) DTransition[I] {
		t.Dst = oldToNew[t.Dst]
		if t.Kind == KCall {
			t.Detour = oldToNew[t.Detour]
		}
		return t
	}
	if s.Curry.IsWildcard() {
		return DState[I]{Curry: Wildcard[I, DTransition[I]](remapT(s.Curry.MustWildcard())), NonAccepting: s.NonAccepting}
	}
	rm := s.Curry.MustScrutinize()
	out := NewRangeMap[I, DTransition[I]]()
	for _, e := range rm.Entries() {
		out = out.Insert(e.Key, remapT(e.Value))
	}
	return DState[I]{Curry: Scrutinize[I, DTransition[I]](coalesceAdjacent(out)), NonAccepting: s.NonAccepting}
}

// coalesceAdjacent fuses neighboring range-map entries whose ranges abut
// and whose transitions are structurally identical, so that two grammars
// differing only in how they carved up a token range (one [a,b] entry
// versus separate [a,a] and [b,b] entries) canonicalize to the same map.
// Token types without integer successor arithmetic never abut under nextOf
// and pass through unchanged.
func coalesceAdjacent[I cmp.Ordered](rm RangeMap[I, DTransition[I]]) RangeMap[I, DTransition[I]] {
	entries := rm.Entries()
	if len(entries) < 2 {
		return rm
	}
	out := NewRangeMap[I, DTransition[I]]()
	cur := entries[0]
	for _, e := range entries[1:] {
		if nextOf(cur.Key.Last) == e.Key.First && compareDTransition(cur.Value, e.Value) == 0 {
			cur.Key.Last = e.Key.Last
			continue
		}
		out = out.Insert(cur.Key, cur.Value)
		cur = e
	}
	return out.Insert(cur.Key, cur.Value)
}

// dedupAdjacent scans the (now sorted) state slice for adjacent pairs that
// compare structurally equal, fuses each pair into one representative, and
// remaps every reference to the fused-away index onto its survivor. It
// reports whether any fusion happened, the repeat-to-fixpoint signal Sort
// relies on.
func dedupAdjacent[I cmp.Ordered](g *Deterministic[I]) (*Deterministic[I], bool) {
	n := len(g.States)
	survivor := make([]int, n)
	keep := make([]bool, n)
	next := 0
	for i := 0; i < n; i++ {
		if i > 0 && compareDState(g.States[i-1], g.States[i]) == 0 {
			survivor[i] = survivor[i-1]
			continue
		}
		survivor[i] = next
		keep[i] = true
		next++
	}
	if next == n {
		return g, false
	}

	states := make([]DState[I], 0, next)
	for i := 0; i < n; i++ {
		if keep[i] {
			states = append(states, remapState(g.States[i], survivor))
		}
	}
	tags := make(map[string]int, len(g.Tags))
	for name, idx := range g.Tags {
		tags[name] = survivor[idx]
	}
	return &Deterministic[I]{States: states, Initial: survivor[g.Initial], Tags: tags}, true
}

// Equal reports structural equality of two graphs: same states in the same
// order, same initial index, same tag table. Update and Combine values
// compare by source text, consistent with merge; meaningful mostly after
// both sides have been through Sort.
func (g *Deterministic[I]) Equal(other *Deterministic[I]) bool {
	if len(g.States) != len(other.States) || g.Initial != other.Initial || len(g.Tags) != len(other.Tags) {
		return false
	}
	for name, idx := range g.Tags {
		if o, ok := other.Tags[name]; !ok || o != idx {
			return false
		}
	}
	for i := range g.States {
		if compareDState(g.States[i], other.States[i]) != 0 {
			return false
		}
	}
	return true
}

// compareDState gives states a total structural order: first by the sorted
// NonAccepting reason set, then by Curry shape, then by scrutinize/wildcard
// contents.
func compareDState[I cmp.Ordered](a, b DState[I]) int {
	if d := compareNonAccepting(a.NonAccepting, b.NonAccepting); d != 0 {
		return d
	}
	return compareCurry(a.Curry, b.Curry)
}

func compareNonAccepting(a, b map[string]struct{}) int {
	as, bs := sortedKeys(a), sortedKeys(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			if as[i] < bs[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func compareCurry[I cmp.Ordered](a, b Curry[I, DTransition[I]]) int {
	if a.IsWildcard() != b.IsWildcard() {
		if a.IsWildcard() {
			return -1
		}
		return 1
	}
	if a.IsWildcard() {
		return compareDTransition(a.MustWildcard(), b.MustWildcard())
	}
	ae, be := a.MustScrutinize().Entries(), b.MustScrutinize().Entries()
	for i := 0; i < len(ae) && i < len(be); i++ {
		if d := ae[i].Key.Compare(be[i].Key); d != 0 {
			return d
		}
		if d := compareDTransition(ae[i].Value, be[i].Value); d != 0 {
			return d
		}
	}
	switch {
	case len(ae) < len(be):
		return -1
	case len(ae) > len(be):
		return 1
	default:
		return 0
	}
}

func compareDTransition[I cmp.Ordered](a, b DTransition[I]) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	if a.Dst != b.Dst {
		if a.Dst < b.Dst {
			return -1
		}
		return 1
	}
	if a.Region != b.Region {
		if a.Region < b.Region {
			return -1
		}
		return 1
	}
	if a.Update.Src != b.Update.Src {
		if a.Update.Src < b.Update.Src {
			return -1
		}
		return 1
	}
	if a.Combine.Src != b.Combine.Src {
		if a.Combine.Src < b.Combine.Src {
			return -1
		}
		return 1
	}
	if a.Detour != b.Detour {
		if a.Detour < b.Detour {
			return -1
		}
		return 1
	}
	return 0
}
