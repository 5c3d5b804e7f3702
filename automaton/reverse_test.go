package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// litAcceptor builds a 2-state deterministic graph accepting exactly one
// token in [lo,hi].
func litAcceptor(lo, hi byte) *Deterministic[byte] {
	return &Deterministic[byte]{
		States: []DState[byte]{
			{
				Curry: Scrutinize[byte, DTransition[byte]](NewRangeMap[byte, DTransition[byte]](
					Entry(Range[byte]{First: lo, Last: hi}, DTransition[byte]{Kind: KLateral, Dst: 1, Update: upd("f")}),
				)),
				NonAccepting: map[string]struct{}{"mid": {}},
			},
			{Curry: Scrutinize[byte, DTransition[byte]](NewRangeMap[byte, DTransition[byte]]())},
		},
		Initial: 0,
	}
}

func TestReverseSwapsInitialAndAccepting(t *testing.T) {
	g := litAcceptor('a', 'a')
	rev, err := Reverse(g)
	require.NoError(t, err)
	// The old accepting state (index 1) becomes the new initial.
	assert.True(t, rev.Initial.Equal(Single(1)))
	// The old initial state (index 0) is the only accepting state of rev.
	require.Len(t, rev.States, 2)
	assert.True(t, rev.States[0].Accepting())
	assert.False(t, rev.States[1].Accepting())
}

func TestReversePreservesTokenRanges(t *testing.T) {
	g := litAcceptor('a', 'z')
	rev, err := Reverse(g)
	require.NoError(t, err)

	// The reversed edge out of the new initial state fires on exactly the
	// forward edge's range, not on every token.
	entry := rev.States[1]
	require.False(t, entry.Curry.IsWildcard())
	_, ok := entry.Curry.Get('m')
	assert.True(t, ok)
	_, ok = entry.Curry.Get('0')
	assert.False(t, ok)
}

func TestReverseDeterminizeAcceptsReversedLanguage(t *testing.T) {
	g := litAcceptor('a', 'a')
	rev, err := Reverse(g)
	require.NoError(t, err)
	d, err := Determinize(rev)
	require.NoError(t, err)
	// A single-token language is its own reverse: still only "a" is accepted.
	initSt := d.States[d.Initial]
	tr, ok := initSt.Curry.Get('a')
	require.True(t, ok)
	assert.True(t, d.States[tr.Dst].Accepting())
	_, ok = initSt.Curry.Get('b')
	assert.False(t, ok)
}

// TestReverseRejectsUnmergeableConvergence: two forward edges into the same
// state on the same token with different updates cannot be represented as
// one reversed dispatch entry.
func TestReverseRejectsUnmergeableConvergence(t *testing.T) {
	g := &Deterministic[byte]{
		States: []DState[byte]{
			{
				Curry: Scrutinize[byte, DTransition[byte]](NewRangeMap[byte, DTransition[byte]](
					Entry(Range[byte]{First: 'a', Last: 'a'}, DTransition[byte]{Kind: KLateral, Dst: 2, Update: upd("f")}),
					Entry(Range[byte]{First: 'b', Last: 'b'}, DTransition[byte]{Kind: KLateral, Dst: 1, Update: upd("f")}),
				)),
				NonAccepting: map[string]struct{}{"mid": {}},
			},
			{
				Curry: Scrutinize[byte, DTransition[byte]](NewRangeMap[byte, DTransition[byte]](
					Entry(Range[byte]{First: 'a', Last: 'a'}, DTransition[byte]{Kind: KLateral, Dst: 2, Update: upd("g")}),
				)),
				NonAccepting: map[string]struct{}{"mid": {}},
			},
			{Curry: Scrutinize[byte, DTransition[byte]](NewRangeMap[byte, DTransition[byte]]())},
		},
		Initial: 0,
	}
	_, err := Reverse(g)
	require.Error(t, err)
	var illFormed *IllFormed[byte]
	require.ErrorAs(t, err, &illFormed)
	assert.Equal(t, IncompatibleCallbacks, illFormed.Kind)
}

// TestReverseTwiceRoundTripsLanguage: determinizing the double reversal of
// a literal acceptor lands back on a graph with the same single-token
// language.
func TestReverseTwiceRoundTripsLanguage(t *testing.T) {
	g := litAcceptor('a', 'z')
	r1, err := Reverse(g)
	require.NoError(t, err)
	d1, err := Determinize(r1)
	require.NoError(t, err)
	r2, err := Reverse(d1)
	require.NoError(t, err)
	d2, err := Determinize(r2)
	require.NoError(t, err)

	initSt := d2.States[d2.Initial]
	tr, ok := initSt.Curry.Get('q')
	require.True(t, ok)
	assert.True(t, d2.States[tr.Dst].Accepting())
	_, ok = initSt.Curry.Get('A')
	assert.False(t, ok)
}
