package automaton

// Update is a one-argument accumulator update: (acc, token) -> acc'. Per
// DESIGN.md, the compiler treats Update as an opaque pair of (a) a
// source-form string -- the only thing merge can compare two updates by,
// since the compiler cannot inspect arbitrary Go closures for behavioral
// equality -- and (b) a runtime callable for the reference interpreter.
//
// Two Updates with equal Src are treated as equal even if Run differs in
// address; two Updates with different Src are always treated as distinct,
// even if they happen to compute the same result. That asymmetry only ever
// causes the compiler to conservatively refuse a fusion, never to accept an
// unsound one.
type Update[I any] struct {
	// Src is the source-form text of the update function, used as a
	// syntactic equality proxy during merge and echoed in IllFormed
	// witnesses.
	Src string
	// InType and OutType are the source-form names of the accumulator's
	// type before and after this update runs.
	InType  string
	OutType string
	// Run is the callable itself, used only by the reference interpreter.
	Run func(acc any, tok I) any
}

// Equal reports whether two updates are interchangeable for merge purposes:
// same source text, which stands in for "same behavior."
func (u Update[I]) Equal(other Update[I]) bool {
	return u.Src == other.Src
}

// Combine is a two-argument fold used when a Call transition returns: it
// folds the callee's output back into the caller's half-built accumulator,
// (lhs, rhs) -> out.
type Combine struct {
	Src     string
	LhsType string
	RhsType string
	OutType string
	Run     func(lhs, rhs any) any
}

// Equal reports whether two combine functions are interchangeable for merge
// purposes.
func (c Combine) Equal(other Combine) bool {
	return c.Src == other.Src
}

// Identity returns an Update that passes the accumulator through unchanged,
// ignoring the token. It is the placeholder update for edges that carry no
// semantic action of their own, e.g. the Return edges Region adds and the
// Return edges Reverse builds from forward Calls.
func Identity[I any](typeName string) Update[I] {
	return Update[I]{
		Src:     "|acc, _tok| acc",
		InType:  typeName,
		OutType: typeName,
		Run:     func(acc any, _ I) any { return acc },
	}
}

// IdentityCombine returns a Combine that discards the callee's result and
// keeps the caller's accumulator, the default for regions whose return
// value is not folded into anything (e.g. the Dyck grammar's matched
// parentheses, which combine "()" with "()").
func IdentityCombine(typeName string) Combine {
	return Combine{
		Src:     "|lhs, _rhs| lhs",
		LhsType: typeName,
		RhsType: typeName,
		OutType: typeName,
		Run:     func(lhs, _ any) any { return lhs },
	}
}
