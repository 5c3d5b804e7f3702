package automaton

import "cmp"

// SubstituteRef rewrites every reference to state index from, throughout
// g (every transition destination and detour, the initial control, and
// every tag), replacing it with the control set to -- a one-to-many
// generalization of the index renames applied after concatenating state
// vectors. This is what lets a combinator splice two graphs together at a
// seam without adding an extra transition at the splice point. A Lateral transition
// always consumes one token, so an actual new bridging transition at a
// splice point would silently eat an extra token of input; rewriting
// the incoming references instead produces a true epsilon-like splice
// that Determinize's subset construction resolves for free the first time
// it visits the substituted control set.
func SubstituteRef[I cmp.Ordered](g *Nondeterministic[I], from int, to Ctrl) {
	subst := func(c Ctrl) Ctrl {
		refs := c.View()
		changed := false
		for _, r := range refs {
			if !r.ByTag && r.Index == from {
				changed = true
				break
			}
		}
		if !changed {
			return c
		}
		out := make([]Ref, 0, len(refs)+len(to.View()))
		for _, r := range refs {
			if !r.ByTag && r.Index == from {
				out = append(out, to.View()...)
			} else {
				out = append(out, r)
			}
		}
		return NewCtrl(out...)
	}

	for i, st := range g.States {
		g.States[i].Curry = substCurry(st.Curry, subst)
	}
	g.Initial = subst(g.Initial)
	for name, ctrl := range g.Tags {
		g.Tags[name] = subst(ctrl)
	}
}

func substCurry[I cmp.Ordered](c Curry[I, NTransition[I]], subst func(Ctrl) Ctrl) Curry[I, NTransition[I]] {
	convert := func(t NTransition[I]) NTransition[I] {
		t.Dst = subst(t.Dst)
		if t.Kind == KCall {
			t.Detour = subst(t.Detour)
		}
		return t
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
