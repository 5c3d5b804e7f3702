package automaton

import "cmp"

// revEdge is one reversed edge before assembly into a Curry: the token
// label it fires on (inherited from the forward edge that produced it) plus
// the reversed transition itself.
type revEdge[I cmp.Ordered] struct {
	wildcard bool
	key      Range[I]
	t        NTransition[I]
}

// Reverse builds the nondeterministic graph that accepts the reverse of
// what g accepts: edges point the other way but keep their token labels,
// the old accepting states become the new (superposed) initial control, and
// the old initial state becomes the sole new accepting state.
//
// Lateral edges reverse exactly: an edge s -[r](update)-> t becomes t
// -[r](update)-> s, firing on the same token range r. Update values are
// preserved structurally, not semantically reinterpreted; the determinize
// pass that follows a Reverse re-fuses them.
//
// Call/Return edges reverse by swapping Kind (Call becomes Return and vice
// versa) with src/dst exchanged and Region held fixed. This is an
// approximation for grammars with nested same-named regions: the detour
// carried by a forward Call and the update carried by a forward Return are
// both dropped in the reversed edge, since neither has a well-defined
// counterpart once traversal direction flips. Flat (non-recursive) region
// usage, the only shape the combinator package's Region builder emits, is
// unaffected.
//
// Reverse fails with an IllFormed witness when two forward edges that
// converge on the same state carry different semantic actions for an
// overlapping token range: the reversed state would need two distinct
// transitions for one token, which the nondeterministic data model cannot
// represent (its nondeterminism lives in control sets, not in duplicate
// dispatch entries).
func Reverse[I cmp.Ordered](g *Deterministic[I]) (*Nondeterministic[I], error) {
	edges := make([][]revEdge[I], len(g.States))

	visit := func(srcIdx int, wildcard bool, key Range[I], t DTransition[I]) {
		var rt NTransition[I]
		switch t.Kind {
		case KLateral:
			rt = NTransition[I]{Kind: KLateral, Dst: Single(srcIdx), Update: t.Update}
		case KCall:
			rt = NTransition[I]{Kind: KReturn, Dst: Single(srcIdx), Region: t.Region, Update: Identity[I](t.Combine.OutType)}
		case KReturn:
			rt = NTransition[I]{Kind: KCall, Dst: Single(srcIdx), Region: t.Region, Detour: Single(srcIdx), Combine: IdentityCombine(t.Update.OutType)}
		}
		edges[t.Dst] = append(edges[t.Dst], revEdge[I]{wildcard: wildcard, key: key, t: rt})
	}

	for idx, st := range g.States {
		if st.Curry.IsWildcard() {
			visit(idx, true, Range[I]{}, st.Curry.MustWildcard())
			continue
		}
		for _, e := range st.Curry.MustScrutinize().Entries() {
			visit(idx, false, e.Key, e.Value)
		}
	}

	var acceptingRefs []Ref
	for idx, st := range g.States {
		if st.Accepting() {
			acceptingRefs = append(acceptingRefs, IndexRef(idx))
		}
	}

	out := NewNondeterministic[I]()
	for idx := range g.States {
		curry, err := assembleReversed(idx, edges[idx])
		if err != nil {
			return nil, err
		}
		nonAccepting := map[string]struct{}{}
		if idx != g.Initial {
			nonAccepting["not the entry state of the forward graph"] = struct{}{}
		} else if len(acceptingRefs) == 0 {
			// The forward graph accepts nothing, so its reversal must too.
			nonAccepting["forward graph has no accepting state"] = struct{}{}
		}
		out.AddState(NState[I]{Curry: curry, NonAccepting: nonAccepting})
	}

	if len(acceptingRefs) == 0 {
		acceptingRefs = append(acceptingRefs, IndexRef(g.Initial))
	}
	out.Initial = NewCtrl(acceptingRefs...)

	for name, idx := range g.Tags {
		out.Tag(name, Single(idx))
	}

	return out, nil
}

// assembleReversed folds a state's accumulated reversed edges into a single
// Curry. Ranged edges land in a range map, with overlaps fused by
// mergeTransition; wildcard edges fuse with each other and, when ranged
// edges coexist with a wildcard, the wildcard is folded into every ranged
// entry the same way mergeCurry degrades a Wildcard meeting a Scrutinize.
func assembleReversed[I cmp.Ordered](stateIdx int, edges []revEdge[I]) (Curry[I, NTransition[I]], error) {
	var wild *NTransition[I]
	rm := NewRangeMap[I, NTransition[I]]()
	for _, e := range edges {
		if e.wildcard {
			if wild == nil {
				cp := e.t
				wild = &cp
				continue
			}
			fused, err := mergeTransition(stateIdx, *wild, e.t)
			if err != nil {
				return Curry[I, NTransition[I]]{}, err
			}
			wild = &fused
			continue
		}
		merged, err := MergeRangeMaps(rm, NewRangeMap(Entry(e.key, e.t)), func(a, b NTransition[I]) (NTransition[I], error) {
			return mergeTransition(stateIdx, a, b)
		})
		if err != nil {
			return Curry[I, NTransition[I]]{}, err
		}
		rm = merged
	}

	switch {
	case wild != nil && rm.Len() == 0:
		return Wildcard[I, NTransition[I]](*wild), nil
	case wild == nil:
		// Covers the no-edges case too: an empty range map is a dead end,
		// which is exactly right for a state nothing pointed at forward.
		return Scrutinize[I, NTransition[I]](rm), nil
	default:
		out := NewRangeMap[I, NTransition[I]]()
		for _, e := range rm.Entries() {
			fused, err := mergeTransition(stateIdx, e.Value, *wild)
			if err != nil {
				return Curry[I, NTransition[I]]{}, err
			}
			out = out.Insert(e.Key, fused)
		}
		return Scrutinize[I, NTransition[I]](out), nil
	}
}
