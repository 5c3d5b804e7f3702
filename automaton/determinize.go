package automaton

import (
	"cmp"
	"sort"
	"strconv"
	"strings"
)

// subsetKey renders a sorted, deduped set of nondeterministic state indices
// as a stable map key.
func subsetKey(indices []int) string {
	var b strings.Builder
	for i, v := range indices {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// determinizer holds the worklist state shared across one Determinize run.
type determinizer[I cmp.Ordered] struct {
	src        *Nondeterministic[I]
	keyToIndex map[string]int
	subsets    [][]int
	out        []DState[I]
}

// Determinize performs subset construction on g: each DFA state corresponds
// to a set of NFA states reachable together; transitions
// merge via Merge whenever two constituents disagree on the same token;
// NonAccepting sets combine by intersection, which (per nonAcceptingIntersection's
// doc comment) yields "accepting if any constituent accepts."
//
// Call/Return edges are resolved the same way Lateral edges are: a Call's
// callee and Detour are just more Ctrl values, registered on the same
// worklist as any other destination, so the whole pipeline is one uniform
// subset-construction walk instead of a special-cased pushdown variant.
func Determinize[I cmp.Ordered](g *Nondeterministic[I]) (*Deterministic[I], error) {
	d := &determinizer[I]{src: g, keyToIndex: map[string]int{}}

	initial, err := g.Initial.Resolve(g.Tags)
	if err != nil {
		return nil, resolveErr[I](err)
	}
	initIdx, err := d.register(initial)
	if err != nil {
		return nil, err
	}

	// Register tag subsets up front (in name order, for reproducible state
	// numbering) so the worklist below expands them along with everything
	// reachable from the initial subset.
	tagNames := make([]string, 0, len(g.Tags))
	for name := range g.Tags {
		tagNames = append(tagNames, name)
	}
	sort.Strings(tagNames)
	tags := map[string]int{}
	for _, name := range tagNames {
		resolved, err := g.Tags[name].Resolve(g.Tags)
		if err != nil {
			return nil, resolveErr[I](err)
		}
		idx, err := d.register(resolved)
		if err != nil {
			return nil, err
		}
		tags[name] = idx
	}

	for i := 0; i < len(d.subsets); i++ {
		if err := d.expand(i); err != nil {
			return nil, err
		}
	}

	return &Deterministic[I]{States: d.out, Initial: initIdx, Tags: tags}, nil
}

// register finds or creates the DFA state for a given sorted/deduped NFA
// index subset, pushing it onto the worklist (via its position in
// d.subsets) if new.
func (d *determinizer[I]) register(indices []int) (int, error) {
	key := subsetKey(indices)
	if idx, ok := d.keyToIndex[key]; ok {
		return idx, nil
	}
	idx := len(d.subsets)
	d.keyToIndex[key] = idx
	d.subsets = append(d.subsets, indices)
	d.out = append(d.out, DState[I]{}) // placeholder, filled in by expand
	return idx, nil
}

// expand computes the merged Curry and NonAccepting set for the subset at
// worklist position idx, registering any new destination subsets it
// discovers along the way.
func (d *determinizer[I]) expand(idx int) error {
	indices := d.subsets[idx]

	nonAccSets := make([]map[string]struct{}, 0, len(indices))
	var merged *Curry[I, NTransition[I]]
	for _, nIdx := range indices {
		if nIdx < 0 || nIdx >= len(d.src.States) {
			return outOfBounds[I](nIdx)
		}
		st := d.src.States[nIdx]
		nonAccSets = append(nonAccSets, st.NonAccepting)
		if merged == nil {
			c := st.Curry
			merged = &c
			continue
		}
		fused, err := mergeCurry[I](idx, *merged, st.Curry)
		if err != nil {
			return err
		}
		merged = &fused
	}

	nonAccepting := nonAcceptingIntersection(nonAccSets...)

	dCurry, err := d.resolveCurry(*merged)
	if err != nil {
		return err
	}

	d.out[idx] = DState[I]{Curry: dCurry, NonAccepting: nonAccepting}
	return nil
}

// resolveCurry converts a Curry of NTransition (Ctrl-valued destinations)
// into a Curry of DTransition (plain-int destinations), registering every
// destination/detour subset it encounters.
func (d *determinizer[I]) resolveCurry(c Curry[I, NTransition[I]]) (Curry[I, DTransition[I]], error) {
	convert := func(t NTransition[I]) (DTransition[I], error) {
		dst, err := t.Dst.Resolve(d.src.Tags)
		if err != nil {
			return DTransition[I]{}, resolveErr[I](err)
		}
		dstIdx, err := d.register(dst)
		if err != nil {
			return DTransition[I]{}, err
		}
		out := DTransition[I]{Kind: t.Kind, Dst: dstIdx, Update: t.Update, Region: t.Region, Combine: t.Combine}
		if t.Kind == KCall {
			detour, err := t.Detour.Resolve(d.src.Tags)
			if err != nil {
				return DTransition[I]{}, resolveErr[I](err)
			}
			detourIdx, err := d.register(detour)
			if err != nil {
				return DTransition[I]{}, err
			}
			out.Detour = detourIdx
		}
		return out, nil
	}

	if c.IsWildcard() {
		t, err := convert(c.MustWildcard())
		if err != nil {
			return Curry[I, DTransition[I]]{}, err
		}
		return Wildcard[I, DTransition[I]](t), nil
	}

	rm := c.MustScrutinize()
	entries := rm.Entries()
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key.Compare(entries[j].Key) < 0 })
	out := NewRangeMap[I, DTransition[I]]()
	for _, e := range entries {
		t, err := convert(e.Value)
		if err != nil {
			return Curry[I, DTransition[I]]{}, err
		}
		out = out.Insert(e.Key, t)
	}
	return Scrutinize[I, DTransition[I]](out), nil
}
