package automaton

import "sort"

// Ref is one element of a nondeterministic control set: either a direct
// state index or a tag name resolved against a graph's tag table at
// merge/run time.
type Ref struct {
	Index int
	Tag   string
	ByTag bool
}

// IndexRef builds a direct-index control reference.
func IndexRef(i int) Ref { return Ref{Index: i} }

// TagRef builds a tag-name control reference.
func TagRef(name string) Ref { return Ref{Tag: name, ByTag: true} }

// Compare gives refs a total order: indices before tags, each ordered
// amongst themselves.
func (r Ref) Compare(other Ref) int {
	if r.ByTag != other.ByTag {
		if !r.ByTag {
			return -1
		}
		return 1
	}
	if r.ByTag {
		switch {
		case r.Tag < other.Tag:
			return -1
		case r.Tag > other.Tag:
			return 1
		default:
			return 0
		}
	}
	switch {
	case r.Index < other.Index:
		return -1
	case r.Index > other.Index:
		return 1
	default:
		return 0
	}
}

// Ctrl is a nondeterministic control value: a non-empty, sorted, deduped
// set of Refs, executed in superposition -- either direct state indices or
// unresolved tag names, resolved against a graph's tag table.
type Ctrl struct {
	refs []Ref
}

// NewCtrl builds a Ctrl from refs, sorting and deduplicating them.
func NewCtrl(refs ...Ref) Ctrl {
	cp := append([]Ref(nil), refs...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Compare(cp[j]) < 0 })
	out := cp[:0]
	for i, r := range cp {
		if i == 0 || r.Compare(out[len(out)-1]) != 0 {
			out = append(out, r)
		}
	}
	return Ctrl{refs: out}
}

// Single is shorthand for NewCtrl(IndexRef(i)).
func Single(i int) Ctrl { return NewCtrl(IndexRef(i)) }

// View returns the refs in sorted order. The returned slice must not be
// mutated.
func (c Ctrl) View() []Ref { return c.refs }

// Empty reports whether the control set is empty -- the ProlongingDeath
// defect when it occurs as a transition destination.
func (c Ctrl) Empty() bool { return len(c.refs) == 0 }

// Union merges two control sets, used whenever two nondeterministic
// transitions are merged rather than rejected.
func (c Ctrl) Union(other Ctrl) Ctrl {
	return NewCtrl(append(append([]Ref(nil), c.refs...), other.refs...)...)
}

// Equal reports structural equality.
func (c Ctrl) Equal(other Ctrl) bool {
	if len(c.refs) != len(other.refs) {
		return false
	}
	for i := range c.refs {
		if c.refs[i].Compare(other.refs[i]) != 0 {
			return false
		}
	}
	return true
}

// Compare gives Ctrl values a total order, used by Sort.
func (c Ctrl) Compare(other Ctrl) int {
	for i := 0; i < len(c.refs) && i < len(other.refs); i++ {
		if d := c.refs[i].Compare(other.refs[i]); d != 0 {
			return d
		}
	}
	switch {
	case len(c.refs) < len(other.refs):
		return -1
	case len(c.refs) > len(other.refs):
		return 1
	default:
		return 0
	}
}

// Resolve replaces every tag reference with the direct index it names,
// returning a plain sorted set of indices. It fails with TagDNE if any tag
// is absent from tags.
func (c Ctrl) Resolve(tags map[string]Ctrl) ([]int, error) {
	seen := make(map[int]struct{}, len(c.refs))
	seenTags := map[string]struct{}{}
	var out []int
	var walk func(Ctrl) error
	walk = func(cur Ctrl) error {
		for _, r := range cur.refs {
			if !r.ByTag {
				if _, ok := seen[r.Index]; !ok {
					seen[r.Index] = struct{}{}
					out = append(out, r.Index)
				}
				continue
			}
			// A tag already on this walk contributes nothing new; skipping
			// it also makes cyclic tag tables terminate.
			if _, ok := seenTags[r.Tag]; ok {
				continue
			}
			seenTags[r.Tag] = struct{}{}
			target, ok := tags[r.Tag]
			if !ok {
				return &IllFormed[int]{Kind: TagDNE, Str1: r.Tag}
			}
			if err := walk(target); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(c); err != nil {
		return nil, err
	}
	sort.Ints(out)
	return out, nil
}
