package automaton

import (
	"cmp"
	"fmt"
	"sort"
)

// IllFormedKind enumerates the ways a Graph can fail well-formedness
// checking.
type IllFormedKind int

const (
	// OutOfBounds: a transition's destination names a state index past the
	// end of the graph's state slice.
	OutOfBounds IllFormedKind = iota
	// ProlongingDeath: a transition's destination control set is empty.
	ProlongingDeath
	// InvertedRange: a range's First is greater than its Last.
	InvertedRange
	// RangeMapOverlap: two keys of the same RangeMap intersect.
	RangeMapOverlap
	// WildcardMask: a state has both a wildcard transition and a scrutinize
	// range map, and the range map's domain is not a strict subset of what
	// the wildcard would otherwise catch (the wildcard can never fire).
	WildcardMask
	// Superposition: a nondeterministic control set names more than one
	// state where the caller required a single resolved destination (e.g.
	// the graph's Initial control, before determinization).
	Superposition
	// IncompatibleCallbacks: two Update values with different Src or
	// different InType/OutType collided during merge.
	IncompatibleCallbacks
	// IncompatibleCombinators: two Combine values with different Src or
	// different LhsType/RhsType/OutType collided during merge.
	IncompatibleCombinators
	// IncompatibleActions: merge was asked to fuse a Lateral transition with
	// a Call or Return transition (or a Call with a Return), which has no
	// sound unification.
	IncompatibleActions
	// DuplicateState: Deterministic.Check found two distinct states that
	// compare structurally equal, which Sort would have fused.
	DuplicateState
	// TagDNE: a Ctrl referenced a tag name absent from the graph's tag
	// table.
	TagDNE
	// InitialNotUnit: the graph's Initial control resolves to anything
	// other than exactly one state (see Superposition).
	InitialNotUnit
	// TypeMismatch: the input type a function expects does not match the
	// accumulator type the preceding update produces (raised by PostProcess
	// when fn.InType differs from an accepting edge's Update.OutType).
	TypeMismatch
	// WrongReturnType: a Return transition's update output type does not
	// match what the call site's Combine expects as its Rhs.
	WrongReturnType
	// AmbiguousRegions: two Call (or two Return) transitions for different
	// region names collided during merge.
	AmbiguousRegions
)

var illFormedNames = map[IllFormedKind]string{
	OutOfBounds:             "OutOfBounds",
	ProlongingDeath:         "ProlongingDeath",
	InvertedRange:           "InvertedRange",
	RangeMapOverlap:         "RangeMapOverlap",
	WildcardMask:            "WildcardMask",
	Superposition:           "Superposition",
	IncompatibleCallbacks:   "IncompatibleCallbacks",
	IncompatibleCombinators: "IncompatibleCombinators",
	IncompatibleActions:     "IncompatibleActions",
	DuplicateState:          "DuplicateState",
	TagDNE:                  "TagDNE",
	InitialNotUnit:          "InitialNotUnit",
	TypeMismatch:            "TypeMismatch",
	WrongReturnType:         "WrongReturnType",
	AmbiguousRegions:        "AmbiguousRegions",
}

func (k IllFormedKind) String() string {
	if s, ok := illFormedNames[k]; ok {
		return s
	}
	return "Unknown"
}

// IllFormed is the witness returned when a Graph fails Check. It is
// intentionally flat (not a variant-per-field sum type) so that a witness
// never carries more than a handful of scalars. Str1/Str2 carry
// defect-specific text (a tag name, an update's Src, a region name);
// Int1/Int2 carry state/transition
// indices; Range1/Range2 carry offending ranges. Ctrl.Resolve, which cannot
// know its caller's token type, produces IllFormed[int]; resolveErr re-types
// such witnesses at the generic call sites.
type IllFormed[I cmp.Ordered] struct {
	Kind   IllFormedKind
	Str1   string
	Str2   string
	Int1   int
	Int2   int
	Range1 Range[I]
	Range2 Range[I]
}

// Error renders a human-readable description of the defect with a short
// contextual prefix rather than a bare struct dump.
func (e *IllFormed[I]) Error() string {
	switch e.Kind {
	case OutOfBounds:
		return fmt.Sprintf("automaton: state index %d is out of bounds", e.Int1)
	case ProlongingDeath:
		return "automaton: transition destination names no states"
	case InvertedRange:
		return fmt.Sprintf("automaton: inverted range [%v, %v]", e.Range1.First, e.Range1.Last)
	case RangeMapOverlap:
		return fmt.Sprintf("automaton: overlapping range-map entries at state %d", e.Int1)
	case WildcardMask:
		return fmt.Sprintf("automaton: wildcard transition at state %d can never fire", e.Int1)
	case Superposition:
		return fmt.Sprintf("automaton: expected exactly one resolved state, found %d", e.Int1)
	case IncompatibleCallbacks:
		return fmt.Sprintf("automaton: cannot merge updates %q and %q", e.Str1, e.Str2)
	case IncompatibleCombinators:
		return fmt.Sprintf("automaton: cannot merge combine functions %q and %q", e.Str1, e.Str2)
	case IncompatibleActions:
		return fmt.Sprintf("automaton: cannot merge transitions of different shapes at state %d", e.Int1)
	case DuplicateState:
		return fmt.Sprintf("automaton: states %d and %d are structurally identical after sort", e.Int1, e.Int2)
	case TagDNE:
		return fmt.Sprintf("automaton: tag %q does not exist", e.Str1)
	case InitialNotUnit:
		return fmt.Sprintf("automaton: initial control resolves to %d states, expected 1", e.Int1)
	case TypeMismatch:
		return fmt.Sprintf("automaton: expected accumulator type %q, found %q", e.Str1, e.Str2)
	case WrongReturnType:
		return fmt.Sprintf("automaton: return update produces %q, call site expects %q", e.Str1, e.Str2)
	case AmbiguousRegions:
		return fmt.Sprintf("automaton: region %q collides with a different region on the same token", e.Str1)
	default:
		return "automaton: ill-formed graph"
	}
}

// resolveErr rebuilds a Ctrl.Resolve error as an IllFormed over the
// caller's token type. Ctrl is not generic over I, so Resolve can only
// produce IllFormed[int]; callers that know their token type re-type the
// witness on the way out so errors.As works uniformly for their users.
func resolveErr[I cmp.Ordered](err error) error {
	if err == nil {
		return nil
	}
	if ill, ok := err.(*IllFormed[int]); ok {
		return &IllFormed[I]{Kind: ill.Kind, Str1: ill.Str1, Str2: ill.Str2, Int1: ill.Int1, Int2: ill.Int2}
	}
	return err
}

func outOfBounds[I cmp.Ordered](idx int) *IllFormed[I] {
	return &IllFormed[I]{Kind: OutOfBounds, Int1: idx}
}

func prolongingDeath[I cmp.Ordered]() *IllFormed[I] {
	return &IllFormed[I]{Kind: ProlongingDeath}
}

func invertedRange[I cmp.Ordered](r Range[I]) *IllFormed[I] {
	return &IllFormed[I]{Kind: InvertedRange, Range1: r}
}

func rangeMapOverlap[I cmp.Ordered](stateIdx int) *IllFormed[I] {
	return &IllFormed[I]{Kind: RangeMapOverlap, Int1: stateIdx}
}

func incompatibleCallbacks[I cmp.Ordered](a, b string) *IllFormed[I] {
	return &IllFormed[I]{Kind: IncompatibleCallbacks, Str1: a, Str2: b}
}

func incompatibleCombinators[I cmp.Ordered](a, b string) *IllFormed[I] {
	return &IllFormed[I]{Kind: IncompatibleCombinators, Str1: a, Str2: b}
}

func incompatibleActions[I cmp.Ordered](stateIdx int) *IllFormed[I] {
	return &IllFormed[I]{Kind: IncompatibleActions, Int1: stateIdx}
}

func duplicateState[I cmp.Ordered](a, b int) *IllFormed[I] {
	return &IllFormed[I]{Kind: DuplicateState, Int1: a, Int2: b}
}

func tagDNE[I cmp.Ordered](tag string) *IllFormed[I] {
	return &IllFormed[I]{Kind: TagDNE, Str1: tag}
}

func typeMismatch[I cmp.Ordered](want, got string) *IllFormed[I] {
	return &IllFormed[I]{Kind: TypeMismatch, Str1: want, Str2: got}
}

func ambiguousRegions[I cmp.Ordered](region string) *IllFormed[I] {
	return &IllFormed[I]{Kind: AmbiguousRegions, Str1: region}
}

// Check validates a Nondeterministic graph's structural well-formedness:
// every transition targets an in-bounds, non-empty control set; every
// RangeMap is internally disjoint; no wildcard is masked by its sibling
// scrutinize map; every tag resolves. It does not check the semantic
// (type-level) defects -- those surface during Merge/Determinize, where the
// relevant Update/Combine values are actually in scope.
func (g Nondeterministic[I]) Check() error {
	n := len(g.States)
	for idx, st := range g.States {
		if err := st.Curry.check(n, idx); err != nil {
			return err
		}
	}
	if _, err := g.Initial.Resolve(g.Tags); err != nil {
		return resolveErr[I](err)
	}
	for name, ctrl := range g.Tags {
		if resolved, err := ctrl.Resolve(g.Tags); err != nil {
			return resolveErr[I](err)
		} else if len(resolved) == 0 {
			return tagDNE[I](name)
		}
	}
	return nil
}

// Check validates a Deterministic graph: in-bounds destinations and tag
// values, well-formed disjoint range maps, and no two structurally
// identical states -- Sort fuses those, so their survival in a compiled
// graph means a compiler bug rather than a user error.
func (g Deterministic[I]) Check() error {
	n := len(g.States)
	if g.Initial < 0 || g.Initial >= n {
		return outOfBounds[I](g.Initial)
	}
	for _, idx := range g.Tags {
		if idx < 0 || idx >= n {
			return outOfBounds[I](idx)
		}
	}

	checkTransition := func(t DTransition[I]) error {
		if t.Dst < 0 || t.Dst >= n {
			return outOfBounds[I](t.Dst)
		}
		if t.Kind == KCall && (t.Detour < 0 || t.Detour >= n) {
			return outOfBounds[I](t.Detour)
		}
		return nil
	}
	for idx, st := range g.States {
		if st.Curry.IsWildcard() {
			if err := checkTransition(st.Curry.MustWildcard()); err != nil {
				return err
			}
			continue
		}
		rm := st.Curry.MustScrutinize()
		if _, ok := rm.SelfOverlap(); ok {
			return rangeMapOverlap[I](idx)
		}
		for _, e := range rm.Entries() {
			if !e.Key.Valid() {
				return invertedRange[I](e.Key)
			}
			if err := checkTransition(e.Value); err != nil {
				return err
			}
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return compareDState(g.States[order[a]], g.States[order[b]]) < 0
	})
	for i := 1; i < n; i++ {
		if compareDState(g.States[order[i-1]], g.States[order[i]]) == 0 {
			return duplicateState[I](order[i-1], order[i])
		}
	}
	return nil
}

func (c Curry[I, T]) check(nStates, stateIdx int) error {
	checkTransition := func(t NTransition[I]) error {
		if t.Dst.Empty() {
			return prolongingDeath[I]()
		}
		for _, r := range t.Dst.View() {
			if !r.ByTag && (r.Index < 0 || r.Index >= nStates) {
				return outOfBounds[I](r.Index)
			}
		}
		if t.Kind == KCall {
			for _, r := range t.Detour.View() {
				if !r.ByTag && (r.Index < 0 || r.Index >= nStates) {
					return outOfBounds[I](r.Index)
				}
			}
		}
		return nil
	}

	if c.isWildcard {
		return checkTransition(any(c.wildcard).(NTransition[I]))
	}
	rm := any(c.scrutinize).(RangeMap[I, NTransition[I]])
	if _, ok := rm.SelfOverlap(); ok {
		return rangeMapOverlap[I](stateIdx)
	}
	for _, e := range rm.Entries() {
		if !e.Key.Valid() {
			return invertedRange[I](e.Key)
		}
		if err := checkTransition(e.Value); err != nil {
			return err
		}
	}
	return nil
}
