package cfl

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// integralityTol is the hard-coded threshold under which an LP activation
// value counts as integer. The simplex routinely returns values like
// 0.9999999 for activations that are integral in exact arithmetic.
const integralityTol = 1e-6

// searchNode is one vertex of the branch-and-bound tree. A node is created
// either as the root or by extending a parent's fixed assignments with one
// extra binding, then filled in by the LP relaxation. Once it leaves the
// frontier it is never mutated.
type searchNode struct {
	id     int64
	parent int64

	depth int

	// branching decisions accumulated above this node: source index -> 0 or 1.
	fixed map[int]float64

	// continuous activation values after solving this node's relaxation.
	lpY []float64

	// LP objective; a valid lower bound on any integer solution below this node.
	lowerBound float64

	// true iff the relaxation was solved to optimality.
	feasible bool
}

func newRootNode() *searchNode {
	return &searchNode{
		id:         0,
		parent:     0,
		fixed:      map[int]float64{},
		lowerBound: math.Inf(1),
	}
}

// newChildNode clones the parent's fixed set and adds the binding j -> v.
// The fixed map is copied by value so children share no state with the parent.
// It is the caller's responsibility that j is not already fixed.
func newChildNode(parent *searchNode, id int64, j int, v float64) *searchNode {
	fixed := make(map[int]float64, len(parent.fixed)+1)
	for k, val := range parent.fixed {
		fixed[k] = val
	}
	fixed[j] = v

	return &searchNode{
		id:         id,
		parent:     parent.id,
		depth:      parent.depth + 1,
		fixed:      fixed,
		lowerBound: math.Inf(1),
	}
}

// isIntegerSolution reports whether every activation value is within
// integralityTol of an integer.
func (n *searchNode) isIntegerSolution() bool {
	for _, v := range n.lpY {
		if !scalar.EqualWithinAbs(v, math.Round(v), integralityTol) {
			return false
		}
	}
	return true
}

// mostFractional returns the unfixed source index whose activation value is
// farthest from an integer, ties broken by lowest index. It returns -1 when
// every unfixed activation is integral.
func (n *searchNode) mostFractional() int {
	candidate := -1
	maxFrac := integralityTol

	for j, v := range n.lpY {
		if _, isFixed := n.fixed[j]; isFixed {
			continue
		}
		frac := math.Abs(v - math.Round(v))
		if frac > maxFrac {
			maxFrac = frac
			candidate = j
		}
	}

	return candidate
}

// roundedY returns the activation vector rounded to exact binaries.
func (n *searchNode) roundedY() []float64 {
	y := make([]float64, len(n.lpY))
	for j, v := range n.lpY {
		y[j] = math.Round(v)
	}
	return y
}
