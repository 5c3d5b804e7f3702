package automaton

import "cmp"

// Curry is a state's per-token dispatch table: either a single Wildcard
// value fired for every token, or a Scrutinize range map fired only for
// tokens its ranges cover (with no fallback -- an unmatched token is simply
// not accepted).
type Curry[I cmp.Ordered, T any] struct {
	isWildcard bool
	wildcard   T
	scrutinize RangeMap[I, T]
}

// Wildcard builds a Curry that dispatches every token to the same value.
func Wildcard[I cmp.Ordered, T any](value T) Curry[I, T] {
	return Curry[I, T]{isWildcard: true, wildcard: value}
}

// Scrutinize builds a Curry that dispatches by range-map lookup.
func Scrutinize[I cmp.Ordered, T any](rm RangeMap[I, T]) Curry[I, T] {
	return Curry[I, T]{scrutinize: rm}
}

// IsWildcard reports whether this Curry is the Wildcard shape.
func (c Curry[I, T]) IsWildcard() bool { return c.isWildcard }

// MustWildcard returns the wildcard value, panicking if this Curry is
// actually a Scrutinize. Callers that have already branched on IsWildcard
// use this to avoid a second type assertion.
func (c Curry[I, T]) MustWildcard() T {
	if !c.isWildcard {
		panic("automaton: MustWildcard called on a Scrutinize Curry")
	}
	return c.wildcard
}

// MustScrutinize returns the range map, panicking if this Curry is actually
// a Wildcard.
func (c Curry[I, T]) MustScrutinize() RangeMap[I, T] {
	if c.isWildcard {
		panic("automaton: MustScrutinize called on a Wildcard Curry")
	}
	return c.scrutinize
}

// Get dispatches a token to its value, if any. A Wildcard Curry always
// matches; a Scrutinize Curry matches only tokens its range map covers.
func (c Curry[I, T]) Get(tok I) (T, bool) {
	if c.isWildcard {
		return c.wildcard, true
	}
	return c.scrutinize.Get(tok)
}

// CurryOverlap is the witness returned by Disjoint when two dispatch tables
// both claim some token: the two conflicting values, plus the range they
// conflict on. HasRange is false when the conflict covers every token
// (wildcard against wildcard).
type CurryOverlap[I cmp.Ordered, T any] struct {
	HasRange bool
	Range    Range[I]
	Lhs      T
	Rhs      T
}

// Disjoint asserts that c and other never fire on the same token, returning
// the first conflict found when they do. A wildcard conflicts with another
// wildcard everywhere, and with a scrutinize map at each of its keys; two
// scrutinize maps delegate to range-map disjointness.
func (c Curry[I, T]) Disjoint(other Curry[I, T]) (CurryOverlap[I, T], bool) {
	switch {
	case c.isWildcard && other.isWildcard:
		return CurryOverlap[I, T]{Lhs: c.wildcard, Rhs: other.wildcard}, true
	case c.isWildcard != other.isWildcard:
		wild, rm := c, other
		if !c.isWildcard {
			wild, rm = other, c
		}
		entries := rm.scrutinize.Entries()
		if len(entries) == 0 {
			return CurryOverlap[I, T]{}, false
		}
		witness := CurryOverlap[I, T]{HasRange: true, Range: entries[0].Key, Lhs: wild.wildcard, Rhs: entries[0].Value}
		if !c.isWildcard {
			witness.Lhs, witness.Rhs = witness.Rhs, witness.Lhs
		}
		return witness, true
	default:
		overlap, ok := c.scrutinize.Disjoint(other.scrutinize)
		if !ok {
			return CurryOverlap[I, T]{}, false
		}
		return CurryOverlap[I, T]{HasRange: true, Range: overlap.Intersection, Lhs: overlap.Lhs, Rhs: overlap.Rhs}, true
	}
}
