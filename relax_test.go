package cfl

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestRelaxer_Root_Trivial(t *testing.T) {
	inst, err := NewInstance([]float64{10}, []float64{5}, []float64{10}, [][]float64{{2}})
	require.NoError(t, err)

	r := &relaxer{inst: inst}
	root := newRootNode()
	require.NoError(t, r.evaluate(root))

	assert.True(t, root.feasible)
	assert.InDelta(t, 25, root.lowerBound, 1e-9)
	require.Len(t, root.lpY, 1)
	assert.InDelta(t, 1, root.lpY[0], 1e-9)
}

func TestRelaxer_Root_FractionalActivation(t *testing.T) {
	// demand 100 against two sources of capacity 60: the relaxation opens the
	// second source fractionally
	inst, err := NewInstance(
		[]float64{60, 60},
		[]float64{10, 15},
		[]float64{50, 50},
		[][]float64{{5, 8}, {6, 7}},
	)
	require.NoError(t, err)

	r := &relaxer{inst: inst}
	root := newRootNode()
	require.NoError(t, r.evaluate(root))

	require.True(t, root.feasible)
	assert.InDelta(t, 610, root.lowerBound, 1e-6)
	assert.InDelta(t, 1.0, root.lpY[0], 1e-6)
	assert.InDelta(t, 2.0/3.0, root.lpY[1], 1e-6)
	assert.False(t, root.isIntegerSolution())
	assert.Equal(t, 1, root.mostFractional())
}

func TestRelaxer_FixedActivationHonored(t *testing.T) {
	inst, err := NewInstance(
		[]float64{60, 60},
		[]float64{10, 15},
		[]float64{50, 50},
		[][]float64{{5, 8}, {6, 7}},
	)
	require.NoError(t, err)

	r := &relaxer{inst: inst}
	root := newRootNode()
	require.NoError(t, r.evaluate(root))

	opened := newChildNode(root, 1, 1, 1)
	require.NoError(t, r.evaluate(opened))

	require.True(t, opened.feasible)
	assert.InDelta(t, 615, opened.lowerBound, 1e-6)
	assert.InDelta(t, 1, opened.lpY[1], 1e-9)
	assert.True(t, opened.isIntegerSolution())
}

func TestRelaxer_InfeasibleFixing(t *testing.T) {
	// closing the only source that can cover the demand leaves an empty LP
	inst, err := NewInstance([]float64{10}, []float64{5}, []float64{10}, [][]float64{{2}})
	require.NoError(t, err)

	r := &relaxer{inst: inst}
	root := newRootNode()
	require.NoError(t, r.evaluate(root))

	closed := newChildNode(root, 1, 0, 0)
	require.NoError(t, r.evaluate(closed))

	assert.False(t, closed.feasible)
	assert.True(t, math.IsInf(closed.lowerBound, 1))
}

func TestRelaxer_Deterministic(t *testing.T) {
	inst, err := NewInstance(
		[]float64{60, 60},
		[]float64{10, 15},
		[]float64{50, 50},
		[][]float64{{5, 8}, {6, 7}},
	)
	require.NoError(t, err)

	r := &relaxer{inst: inst}
	a := newRootNode()
	b := newRootNode()
	require.NoError(t, r.evaluate(a))
	require.NoError(t, r.evaluate(b))

	assert.Equal(t, a.lowerBound, b.lowerBound)
	assert.Equal(t, a.lpY, b.lpY)
}

func Test_convertToEqualities(t *testing.T) {
	c := []float64{1, 2}
	A := mat.NewDense(1, 2, []float64{1, 1})
	b := []float64{4}
	G := mat.NewDense(2, 2, []float64{
		1, 0,
		0, -1,
	})
	h := []float64{3, -1}

	cNew, aNew, bNew := convertToEqualities(c, A, b, G, h)

	assert.Equal(t, []float64{1, 2, 0, 0}, cNew)
	assert.Equal(t, []float64{4, 3, -1}, bNew)

	want := mat.NewDense(3, 4, []float64{
		1, 1, 0, 0,
		1, 0, 1, 0,
		0, -1, 0, 1,
	})
	assert.True(t, mat.Equal(want, aNew), "got:\n%v", mat.Formatted(aNew))
}

func Test_convertToEqualities_NilG(t *testing.T) {
	assert.Panics(t, func() {
		convertToEqualities([]float64{1}, nil, nil, nil, nil)
	})
}

func Test_sanityCheckDimensions(t *testing.T) {
	G := mat.NewDense(1, 2, []float64{1, 0})

	assert.Error(t, sanityCheckDimensions([]float64{1, 2}, nil, nil, nil, nil))
	assert.Error(t, sanityCheckDimensions([]float64{1, 2}, nil, nil, G, nil))
	assert.Error(t, sanityCheckDimensions([]float64{1, 2}, nil, nil, G, []float64{1, 2}))
	assert.NoError(t, sanityCheckDimensions([]float64{1, 2}, nil, nil, G, []float64{1}))
}
