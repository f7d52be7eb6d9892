package cfl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreedyActivation_PrefersCheapSource(t *testing.T) {
	// one source covers all demand; the cheaper one wins
	inst, err := NewInstance(
		[]float64{100, 100},
		[]float64{10, 15},
		[]float64{50, 50},
		[][]float64{{5, 8}, {6, 7}},
	)
	require.NoError(t, err)

	y := greedyActivation(inst, defaultTolerance)
	assert.Equal(t, []float64{1, 0}, y)
}

func TestGreedyActivation_OpensUntilDemandCovered(t *testing.T) {
	// each source holds 60, demand is 100: both must open
	inst, err := NewInstance(
		[]float64{60, 60},
		[]float64{10, 15},
		[]float64{50, 50},
		[][]float64{{5, 8}, {6, 7}},
	)
	require.NoError(t, err)

	y := greedyActivation(inst, defaultTolerance)
	assert.Equal(t, []float64{1, 1}, y)
}

func TestGreedyActivation_CoversDemand(t *testing.T) {
	inst, err := NewInstance(
		[]float64{40, 30, 50, 20},
		[]float64{12, 7, 20, 3},
		[]float64{25, 30, 20},
		[][]float64{
			{10, 15, 12, 9},
			{8, 20, 18, 11},
			{12, 10, 25, 7},
		},
	)
	require.NoError(t, err)

	y := greedyActivation(inst, defaultTolerance)

	opened := 0.0
	for j, v := range y {
		assert.Contains(t, []float64{0, 1}, v)
		if v == 1 {
			opened += inst.Capacity(j)
		}
	}
	assert.GreaterOrEqual(t, opened, inst.TotalDemand()-defaultTolerance)
}

func TestGreedyActivation_SingleSource(t *testing.T) {
	inst, err := NewInstance([]float64{10}, []float64{5}, []float64{10}, [][]float64{{2}})
	require.NoError(t, err)

	assert.Equal(t, []float64{1}, greedyActivation(inst, defaultTolerance))
}
