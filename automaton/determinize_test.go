package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nfaTwoPathsToSameLetter builds a 3-state nondeterministic graph where
// states 0 and 1 are both live (superposed in Initial) and each has a
// Lateral 'a' transition into the shared accepting state 2. When
// sameUpdate is false the two transitions carry different Update sources,
// which should surface as IncompatibleCallbacks during Determinize.
func nfaTwoPathsToSameLetter(sameUpdate bool) *Nondeterministic[byte] {
	g := NewNondeterministic[byte]()
	g.AddState(NState[byte]{
		Curry: Scrutinize[byte, NTransition[byte]](NewRangeMap[byte, NTransition[byte]](
			Entry(Range[byte]{First: 'a', Last: 'a'}, Lateral[byte](Single(2), upd("f"))),
		)),
		NonAccepting: map[string]struct{}{"mid": {}},
	})
	secondSrc := "f"
	if !sameUpdate {
		secondSrc = "g"
	}
	g.AddState(NState[byte]{
		Curry: Scrutinize[byte, NTransition[byte]](NewRangeMap[byte, NTransition[byte]](
			Entry(Range[byte]{First: 'a', Last: 'a'}, Lateral[byte](Single(2), upd(secondSrc))),
		)),
		NonAccepting: map[string]struct{}{"mid": {}},
	})
	g.AddState(NState[byte]{Curry: Scrutinize[byte, NTransition[byte]](NewRangeMap[byte, NTransition[byte]]())})
	g.Initial = NewCtrl(IndexRef(0), IndexRef(1))
	return g
}

func TestDeterminizeMergesCompatibleTransitions(t *testing.T) {
	d, err := Determinize(nfaTwoPathsToSameLetter(true))
	require.NoError(t, err)
	// initial superposition {0,1} plus the shared destination {2}: 2 DFA states.
	assert.Len(t, d.States, 2)
	assert.False(t, d.States[d.Initial].Curry.IsWildcard())
}

func TestDeterminizeRejectsIncompatibleCallbacks(t *testing.T) {
	_, err := Determinize(nfaTwoPathsToSameLetter(false))
	require.Error(t, err)
	var illFormed *IllFormed[byte]
	require.ErrorAs(t, err, &illFormed)
	assert.Equal(t, IncompatibleCallbacks, illFormed.Kind)
}

func TestDeterminizeTagDNE(t *testing.T) {
	g := nfaTwoPathsToSameLetter(true)
	g.Initial = NewCtrl(TagRef("nope"))
	_, err := Determinize(g)
	require.Error(t, err)
	var illFormed *IllFormed[byte]
	require.ErrorAs(t, err, &illFormed)
	assert.Equal(t, TagDNE, illFormed.Kind)
}

// TestDeterminizeIdempotentUnderGeneralize checks that rebuilding a
// deterministic graph via Generalize then Determinize recovers the same
// graph up to sort.
func TestDeterminizeIdempotentUnderGeneralize(t *testing.T) {
	d1, err := Determinize(nfaTwoPathsToSameLetter(true))
	require.NoError(t, err)
	d2, err := Determinize(Generalize(d1))
	require.NoError(t, err)
	assert.True(t, Sort(d1).Equal(Sort(d2)))
}
