package assignment

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector_EmptyCandidates(t *testing.T) {
	selector := NewSelectorWithSource(rand.NewSource(1))

	_, ok := selector.Pick(nil)
	assert.False(t, ok)

	_, ok = selector.Pick([]Candidate{})
	assert.False(t, ok)
}

func TestSelector_AllZeroWeights(t *testing.T) {
	selector := NewSelectorWithSource(rand.NewSource(1))
	candidates := []Candidate{
		{OperatorID: "op-1", Weight: 0, MaxLoad: 5, AvailableCapacity: 5},
		{OperatorID: "op-2", Weight: 0, MaxLoad: 5, AvailableCapacity: 5},
	}

	for i := 0; i < 100; i++ {
		_, ok := selector.Pick(candidates)
		require.False(t, ok)
	}
}

func TestSelector_SingleCandidate(t *testing.T) {
	selector := NewSelectorWithSource(rand.NewSource(1))
	candidates := []Candidate{{OperatorID: "op-1", Weight: 7, MaxLoad: 5, AvailableCapacity: 5}}

	for i := 0; i < 50; i++ {
		winner, ok := selector.Pick(candidates)
		require.True(t, ok)
		require.Equal(t, "op-1", winner.OperatorID)
	}
}

func TestSelector_ZeroWeightNeverChosen(t *testing.T) {
	selector := NewSelectorWithSource(rand.NewSource(42))
	candidates := []Candidate{
		{OperatorID: "op-zero", Weight: 0},
		{OperatorID: "op-one", Weight: 1},
	}

	for i := 0; i < 1000; i++ {
		winner, ok := selector.Pick(candidates)
		require.True(t, ok)
		require.Equal(t, "op-one", winner.OperatorID)
	}
}

func TestSelector_DistributionMatchesWeights(t *testing.T) {
	selector := NewSelectorWithSource(rand.NewSource(7))
	candidates := []Candidate{
		{OperatorID: "op-1", Weight: 1},
		{OperatorID: "op-2", Weight: 3},
	}

	const draws = 20000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		winner, ok := selector.Pick(candidates)
		require.True(t, ok)
		counts[winner.OperatorID]++
	}

	assert.InDelta(t, 0.25, float64(counts["op-1"])/draws, 0.02)
	assert.InDelta(t, 0.75, float64(counts["op-2"])/draws, 0.02)
}

func TestSelector_ReproducibleForFixedSeed(t *testing.T) {
	candidates := []Candidate{
		{OperatorID: "op-1", Weight: 2},
		{OperatorID: "op-2", Weight: 5},
		{OperatorID: "op-3", Weight: 1},
	}

	first := NewSelectorWithSource(rand.NewSource(99))
	second := NewSelectorWithSource(rand.NewSource(99))

	for i := 0; i < 200; i++ {
		a, okA := first.Pick(candidates)
		b, okB := second.Pick(candidates)
		require.Equal(t, okA, okB)
		require.Equal(t, a.OperatorID, b.OperatorID)
	}
}
