package automaton

import (
	"cmp"
	"sort"
)

// rangeEntry pairs a range key with its value, kept in a RangeMap's sorted
// entries slice.
type rangeEntry[I cmp.Ordered, T any] struct {
	Key   Range[I]
	Value T
}

// RangeMap is a mapping from disjoint ranges of tokens to values, kept in
// range order. The "no two keys intersect" invariant is established by
// Check and maintained by Merge; RangeMap itself does not enforce it on
// construction, deferring consistency checks to a separate pass instead of
// paying for it on every insert.
type RangeMap[I cmp.Ordered, T any] struct {
	entries []rangeEntry[I, T]
}

// NewRangeMap builds a RangeMap from entries in any order, sorting them into
// range order. Like Insert, it does not check for overlapping keys.
func NewRangeMap[I cmp.Ordered, T any](entries ...rangeEntryPair[I, T]) RangeMap[I, T] {
	m := RangeMap[I, T]{entries: make([]rangeEntry[I, T], len(entries))}
	for i, e := range entries {
		m.entries[i] = rangeEntry[I, T]{Key: e.Key, Value: e.Value}
	}
	sort.Slice(m.entries, func(i, j int) bool {
		return m.entries[i].Key.Compare(m.entries[j].Key) < 0
	})
	return m
}

// rangeEntryPair is the exported constructor shape for NewRangeMap, kept
// separate from the internal rangeEntry so callers outside the package
// cannot smuggle in an unsorted internal value.
type rangeEntryPair[I cmp.Ordered, T any] struct {
	Key   Range[I]
	Value T
}

// Entry constructs a rangeEntryPair for use with NewRangeMap.
func Entry[I cmp.Ordered, T any](key Range[I], value T) rangeEntryPair[I, T] {
	return rangeEntryPair[I, T]{Key: key, Value: value}
}

// Len returns the number of entries.
func (m RangeMap[I, T]) Len() int { return len(m.entries) }

// Entries returns the entries in range order. The returned slice must not
// be mutated by the caller.
func (m RangeMap[I, T]) Entries() []rangeEntry[I, T] { return m.entries }

// Insert adds a single range/value pair, keeping entries sorted. It does not
// check for overlap with existing entries; that is Check's job.
func (m RangeMap[I, T]) Insert(key Range[I], value T) RangeMap[I, T] {
	idx := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].Key.Compare(key) >= 0
	})
	out := make([]rangeEntry[I, T], 0, len(m.entries)+1)
	out = append(out, m.entries[:idx]...)
	out = append(out, rangeEntry[I, T]{Key: key, Value: value})
	out = append(out, m.entries[idx:]...)
	return RangeMap[I, T]{entries: out}
}

// Get returns the unique value whose range contains tok, if any. Per the
// well-formedness invariant, at most one entry can match; Get trusts that
// invariant and returns the first match found by binary search rather than
// re-verifying disjointness (Check is responsible for that).
func (m RangeMap[I, T]) Get(tok I) (T, bool) {
	var zero T
	// Binary search for the first entry whose Last >= tok.
	idx := sort.Search(len(m.entries), func(i int) bool {
		return !(m.entries[i].Key.Last < tok)
	})
	if idx < len(m.entries) && m.entries[idx].Key.Contains(tok) {
		return m.entries[idx].Value, true
	}
	return zero, false
}

// RangeOverlap is the witness returned by Disjoint when two range maps
// share at least one key.
type RangeOverlap[I cmp.Ordered, T any] struct {
	Intersection Range[I]
	Lhs          T
	Rhs          T
}

// Disjoint asserts that m and other have no ranges in common, returning the
// first conflict found (as an intersection range plus the two offending
// values) when they do.
func (m RangeMap[I, T]) Disjoint(other RangeMap[I, T]) (RangeOverlap[I, T], bool) {
	i, j := 0, 0
	for i < len(m.entries) && j < len(other.entries) {
		a, b := m.entries[i], other.entries[j]
		if overlap, ok := a.Key.Intersection(b.Key); ok {
			return RangeOverlap[I, T]{Intersection: overlap, Lhs: a.Value, Rhs: b.Value}, true
		}
		if a.Key.Last < b.Key.First {
			i++
		} else {
			j++
		}
	}
	return RangeOverlap[I, T]{}, false
}

// SelfOverlap reports the first pair of entries within m whose ranges
// intersect each other -- the well-formedness defect RangeMapOverlap.
func (m RangeMap[I, T]) SelfOverlap() (Range[I], bool) {
	for i := 1; i < len(m.entries); i++ {
		if overlap, ok := m.entries[i-1].Key.Intersection(m.entries[i].Key); ok {
			return overlap, true
		}
	}
	return Range[I]{}, false
}

// MergeRangeMaps merges two range maps: non-overlapping keys are unioned;
// overlapping keys are split into up to three sub-ranges
// (lhs-only, intersection, rhs-only) and the value at the intersection is
// produced by mergeValue.
func MergeRangeMaps[I cmp.Ordered, T any](a, b RangeMap[I, T], mergeValue func(T, T) (T, error)) (RangeMap[I, T], error) {
	var out []rangeEntry[I, T]
	// Entries are consumed destructively (an overlapped entry's remainder is
	// written back in place), so work on copies to keep a and b intact.
	ai := append([]rangeEntry[I, T](nil), a.entries...)
	bi := append([]rangeEntry[I, T](nil), b.entries...)
	i, j := 0, 0
	for i < len(ai) && j < len(bi) {
		ea, eb := ai[i], bi[j]
		overlap, ok := ea.Key.Intersection(eb.Key)
		if !ok {
			if ea.Key.Last < eb.Key.First {
				out = append(out, ea)
				i++
			} else {
				out = append(out, eb)
				j++
			}
			continue
		}

		// lhs-only prefix
		if ea.Key.First < overlap.First {
			out = append(out, rangeEntry[I, T]{Key: Range[I]{First: ea.Key.First, Last: prevOf(overlap.First)}, Value: ea.Value})
		}
		if eb.Key.First < overlap.First {
			out = append(out, rangeEntry[I, T]{Key: Range[I]{First: eb.Key.First, Last: prevOf(overlap.First)}, Value: eb.Value})
		}

		merged, err := mergeValue(ea.Value, eb.Value)
		if err != nil {
			return RangeMap[I, T]{}, err
		}
		out = append(out, rangeEntry[I, T]{Key: overlap, Value: merged})

		// Advance past whichever entry ends at the overlap's Last; carry the
		// remainder of the other entry forward as a new shrunk entry.
		switch {
		case ea.Key.Last == overlap.Last && eb.Key.Last == overlap.Last:
			i++
			j++
		case ea.Key.Last == overlap.Last:
			ai[i] = ea // no-op, kept for clarity
			bi[j] = rangeEntry[I, T]{Key: Range[I]{First: nextOf(overlap.Last), Last: eb.Key.Last}, Value: eb.Value}
			i++
		default:
			ai[i] = rangeEntry[I, T]{Key: Range[I]{First: nextOf(overlap.Last), Last: ea.Key.Last}, Value: ea.Value}
			j++
		}
	}
	out = append(out, ai[i:]...)
	out = append(out, bi[j:]...)
	sort.Slice(out, func(x, y int) bool { return out[x].Key.Compare(out[y].Key) < 0 })
	return RangeMap[I, T]{entries: out}, nil
}

// prevOf and nextOf step a token value down/up by one ordinal position.
// Token types used by this module are integer-like (runes, bytes, small
// enums) so plain +/-1 on the underlying ordered value works; callers using
// a token type without a meaningful successor/predecessor should keep
// ranges to unit width, in which case these helpers are never invoked.
func prevOf[I cmp.Ordered](v I) I {
	return stepInt(v, -1)
}

func nextOf[I cmp.Ordered](v I) I {
	return stepInt(v, 1)
}

// stepInt performs integer-ish successor/predecessor arithmetic via a type
// switch over the concrete token representations this compiler supports
// (runes and bytes, both backed by integer kinds). It is the one place the
// range-splitting logic in MergeRangeMaps needs concrete knowledge of I's
// representation.
func stepInt[I cmp.Ordered](v I, delta int) I {
	switch x := any(v).(type) {
	case rune:
		return any(rune(int(x) + delta)).(I)
	case byte:
		return any(byte(int(x) + delta)).(I)
	case int:
		return any(x + delta).(I)
	default:
		// Token type has no known integer representation; since
		// MergeRangeMaps only calls this on ranges strictly wider than a
		// unit range, and callers are expected to keep such token types to
		// unit ranges, this path should not be reached in practice.
		return v
	}
}
