package automaton

import "cmp"

// Generalize un-determinizes a Deterministic graph back into a
// Nondeterministic one with identical behavior: every plain index becomes
// a singleton Ctrl. It exists for callers that want to run one more round
// of Merge-based editing (e.g. Union-ing in a second already-compiled
// grammar) without re-deriving a nondeterministic graph from scratch.
func Generalize[I cmp.Ordered](g *Deterministic[I]) *Nondeterministic[I] {
	out := NewNondeterministic[I]()
	for _, st := range g.States {
		out.AddState(NState[I]{Curry: generalizeCurry(st.Curry), NonAccepting: st.NonAccepting})
	}
	out.Initial = Single(g.Initial)
	for name, idx := range g.Tags {
		out.Tag(name, Single(idx))
	}
	return out
}

func generalizeCurry[I cmp.Ordered](c Curry[I, DTransition[I]]) Curry[I, NTransition[I]] {
	convert := func(t DTransition[I]) NTransition[I] {
		out := NTransition[I]{Kind: t.Kind, Dst: Single(t.Dst), Update: t.Update, Region: t.Region, Combine: t.Combine}
		if t.Kind == KCall {
			out.Detour = Single(t.Detour)
		}
		return out
	}
	if c.IsWildcard() {
		return Wildcard[I, NTransition[I]](convert(c.MustWildcard()))
	}
	rm := NewRangeMap[I, NTransition[I]]()
	for _, e := range c.MustScrutinize().Entries() {
		rm = rm.Insert(e.Key, convert(e.Value))
	}
	return Scrutinize[I, NTransition[I]](rm)
}

// PostProcess chains fn onto every Lateral transition whose destination is
// an accepting state (Call and Return edges are left unchanged), a
// deterministic-graph analogue of a "Graph >> F" process
// combinator: it lets a caller attach a final pure transformation to a
// grammar's output without
// threading it through every Region's Combine by hand. fn's InType must
// match the accumulator type produced along every accepting path, or
// PostProcess returns TypeMismatch.
func (g *Deterministic[I]) PostProcess(fn Update[I]) (*Deterministic[I], error) {
	states := make([]DState[I], len(g.States))
	copy(states, g.States)

	chain := func(u Update[I]) (Update[I], error) {
		if u.OutType != fn.InType {
			return Update[I]{}, typeMismatch[I](fn.InType, u.OutType)
		}
		prevRun := u.Run
		fnRun := fn.Run
		return Update[I]{
			Src:     u.Src + " |> " + fn.Src,
			InType:  u.InType,
			OutType: fn.OutType,
			Run: func(acc any, tok I) any {
				return fnRun(prevRun(acc, tok), tok)
			},
		}, nil
	}

	accepting := make([]bool, len(g.States))
	for i, st := range g.States {
		accepting[i] = st.Accepting()
	}

	for i, st := range states {
		newCurry, err := postProcessCurry(st.Curry, accepting, chain)
		if err != nil {
			return nil, err
		}
		states[i].Curry = newCurry
	}

	return &Deterministic[I]{States: states, Initial: g.Initial, Tags: g.Tags}, nil
}

func postProcessCurry[I cmp.Ordered](c Curry[I, DTransition[I]], accepting []bool, chain func(Update[I]) (Update[I], error)) (Curry[I, DTransition[I]], error) {
	convert := func(t DTransition[I]) (DTransition[I], error) {
		if t.Kind != KLateral || !accepting[t.Dst] {
			return t, nil
		}
		upd, err := chain(t.Update)
		if err != nil {
			return DTransition[I]{}, err
		}
		t.Update = upd
		return t, nil
	}
	if c.IsWildcard() {
		t, err := convert(c.MustWildcard())
		if err != nil {
			return Curry[I, DTransition[I]]{}, err
		}
		return Wildcard[I, DTransition[I]](t), nil
	}
	rm := NewRangeMap[I, DTransition[I]]()
	for _, e := range c.MustScrutinize().Entries() {
		t, err := convert(e.Value)
		if err != nil {
			return Curry[I, DTransition[I]]{}, err
		}
		rm = rm.Insert(e.Key, t)
	}
	return Scrutinize[I, DTransition[I]](rm), nil
}
