package automaton

import "cmp"

// mergeUpdate fuses two Update values encountered on the same edge shape
// during a Lateral/Return merge. Updates merge only when their source text
// is identical; anything else is an unsound fusion the compiler must
// refuse rather than silently pick a side.
func mergeUpdate[I cmp.Ordered](a, b Update[I]) (Update[I], error) {
	if a.InType != b.InType || a.OutType != b.OutType {
		return Update[I]{}, incompatibleCallbacks[I](a.Src, b.Src)
	}
	if !a.Equal(b) {
		return Update[I]{}, incompatibleCallbacks[I](a.Src, b.Src)
	}
	return a, nil
}

// mergeCombine fuses two Combine values encountered on the same Call edge
// during merge, by the same syntactic-equality rule as mergeUpdate.
func mergeCombine[I cmp.Ordered](a, b Combine) (Combine, error) {
	if a.LhsType != b.LhsType || a.RhsType != b.RhsType || a.OutType != b.OutType {
		return Combine{}, incompatibleCombinators[I](a.Src, b.Src)
	}
	if !a.Equal(b) {
		return Combine{}, incompatibleCombinators[I](a.Src, b.Src)
	}
	return a, nil
}

// mergeTransition fuses two transitions reached by the same token (or the
// same wildcard) out of the same subset-construction worklist entry:
//   - Lateral + Lateral: union the destination control sets, require equal
//     updates.
//   - Call + Call: union the callee and detour control sets, require equal
//     combine functions.
//   - Return + Return: require equal region (a state can only be mid-parse
//     of one region at a time along any given path) and equal updates,
//     union the resume control sets.
//   - any other pairing (Lateral with Call, Call with Return, etc.) has no
//     sound unification and is IncompatibleActions.
func mergeTransition[I cmp.Ordered](stateIdx int, a, b NTransition[I]) (NTransition[I], error) {
	if a.Kind != b.Kind {
		return NTransition[I]{}, incompatibleActions[I](stateIdx)
	}
	switch a.Kind {
	case KLateral:
		upd, err := mergeUpdate(a.Update, b.Update)
		if err != nil {
			return NTransition[I]{}, err
		}
		return NTransition[I]{Kind: KLateral, Dst: a.Dst.Union(b.Dst), Update: upd}, nil
	case KCall:
		if a.Region != b.Region {
			return NTransition[I]{}, ambiguousRegions[I](a.Region)
		}
		comb, err := mergeCombine[I](a.Combine, b.Combine)
		if err != nil {
			return NTransition[I]{}, err
		}
		return NTransition[I]{
			Kind:    KCall,
			Dst:     a.Dst.Union(b.Dst),
			Region:  a.Region,
			Detour:  a.Detour.Union(b.Detour),
			Combine: comb,
		}, nil
	case KReturn:
		if a.Region != b.Region {
			return NTransition[I]{}, ambiguousRegions[I](a.Region)
		}
		upd, err := mergeUpdate(a.Update, b.Update)
		if err != nil {
			return NTransition[I]{}, err
		}
		return NTransition[I]{Kind: KReturn, Dst: a.Dst.Union(b.Dst), Region: a.Region, Update: upd}, nil
	default:
		return NTransition[I]{}, incompatibleActions[I](stateIdx)
	}
}

// MergeTransitions exposes mergeTransition for callers outside the package
// (the reference interpreter superposes several nondeterministic states at
// once and needs to fuse whatever each contributes for the current token).
func MergeTransitions[I cmp.Ordered](stateIdx int, a, b NTransition[I]) (NTransition[I], error) {
	return mergeTransition(stateIdx, a, b)
}

// mergeCurry fuses two dispatch tables belonging to states that are about
// to become one subset-construction state. Wildcard+Wildcard and
// Scrutinize+Scrutinize both collapse cleanly; a Wildcard meeting a
// Scrutinize degrades to a Scrutinize whose entries are each fused with the
// wildcard's transition, since a Curry cannot represent "scrutinize these
// ranges, then fall back to a separate wildcard" as a single value -- the
// merged Curry does not dispatch tokens outside the scrutinize map's
// domain, so the wildcard's transition is dropped for those tokens.
func mergeCurry[I cmp.Ordered](stateIdx int, a, b Curry[I, NTransition[I]]) (Curry[I, NTransition[I]], error) {
	switch {
	case a.IsWildcard() && b.IsWildcard():
		t, err := mergeTransition(stateIdx, a.MustWildcard(), b.MustWildcard())
		if err != nil {
			return Curry[I, NTransition[I]]{}, err
		}
		return Wildcard[I, NTransition[I]](t), nil
	case !a.IsWildcard() && !b.IsWildcard():
		rm, err := MergeRangeMaps(a.MustScrutinize(), b.MustScrutinize(), func(x, y NTransition[I]) (NTransition[I], error) {
			return mergeTransition(stateIdx, x, y)
		})
		if err != nil {
			return Curry[I, NTransition[I]]{}, err
		}
		return Scrutinize[I, NTransition[I]](rm), nil
	default:
		var wild NTransition[I]
		var rm RangeMap[I, NTransition[I]]
		if a.IsWildcard() {
			wild, rm = a.MustWildcard(), b.MustScrutinize()
		} else {
			wild, rm = b.MustWildcard(), a.MustScrutinize()
		}
		out := NewRangeMap[I, NTransition[I]]()
		for _, e := range rm.Entries() {
			t, err := mergeTransition(stateIdx, e.Value, wild)
			if err != nil {
				return Curry[I, NTransition[I]]{}, err
			}
			out = out.Insert(e.Key, t)
		}
		return Scrutinize[I, NTransition[I]](out), nil
	}
}
