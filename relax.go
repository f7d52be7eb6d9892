package cfl

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// ErrLPSolver is returned when the simplex reports a status that the CFL
// formulation cannot legally produce, such as unboundedness or an internal
// failure. It is fatal to the solve in progress.
var ErrLPSolver = errors.New("LP solver error")

// simplex failure modes that are expected during the search and mean the
// node's relaxation has no feasible point. Anything else is fatal.
var expectedFailures = map[error]bool{
	lp.ErrInfeasible: true,
	lp.ErrSingular:   true,
}

// relaxer builds and solves the continuous relaxation of a node's restricted
// subproblem. It is pure with respect to the instance and the node's fixed
// set: the same inputs produce the same numerical outputs.
type relaxer struct {
	inst *Instance
}

// evaluate solves the node's LP relaxation and writes the outcome into the
// node: lowerBound and lpY on optimality, feasible=false when the relaxation
// has no feasible point. A non-nil error aborts the whole solve.
//
// Column layout: columns 0..n*m-1 are the flows
// x[i][j] at index i*m+j, columns n*m..n*m+m-1 are the activations y[j].
//
//	minimize   sum_j f_j*y_j + sum_ij c_ij*x_ij
//	s.t.       sum_j x_ij                 = d_i    (demand, per client)
//	           sum_i x_ij - cap_j*y_j    <= 0      (capacity, per source)
//	           y_j                       <= u_j    (u_j = 1, or the fixed value)
//	          -y_j                       <= -l_j   (only when l_j > 0)
//	           x, y                      >= 0
func (r *relaxer) evaluate(n *searchNode) error {
	numClients := r.inst.NumClients()
	numSources := r.inst.NumSources()
	numFlowVars := numClients * numSources
	totalVars := numFlowVars + numSources

	// objective
	c := make([]float64, totalVars)
	for i := 0; i < numClients; i++ {
		for j := 0; j < numSources; j++ {
			c[i*numSources+j] = r.inst.TransportCost(i, j)
		}
	}
	for j := 0; j < numSources; j++ {
		c[numFlowVars+j] = r.inst.ActivationCost(j)
	}

	// demand equalities
	b := make([]float64, numClients)
	Adata := make([]float64, numClients*totalVars)
	for i := 0; i < numClients; i++ {
		row := Adata[i*totalVars : (i+1)*totalVars]
		for j := 0; j < numSources; j++ {
			row[i*numSources+j] = 1
		}
		b[i] = r.inst.Demand(i)
	}
	A := mat.NewDense(numClients, totalVars, Adata)

	// inequalities: capacity rows first, then activation bound rows
	var Gdata []float64
	var h []float64

	for j := 0; j < numSources; j++ {
		row := make([]float64, totalVars)
		for i := 0; i < numClients; i++ {
			row[i*numSources+j] = 1
		}
		row[numFlowVars+j] = -r.inst.Capacity(j)
		Gdata = append(Gdata, row...)
		h = append(h, 0)
	}

	for j := 0; j < numSources; j++ {
		upper := 1.0
		lower := 0.0
		if v, isFixed := n.fixed[j]; isFixed {
			upper = v
			lower = v
		}

		uRow := make([]float64, totalVars)
		uRow[numFlowVars+j] = 1
		Gdata = append(Gdata, uRow...)
		h = append(h, upper)

		// the >= 0 side is already the simplex domain
		if lower > 0 {
			lRow := make([]float64, totalVars)
			lRow[numFlowVars+j] = -1
			Gdata = append(Gdata, lRow...)
			h = append(h, -lower)
		}
	}
	G := mat.NewDense(len(h), totalVars, Gdata)

	cStd, AStd, bStd := convertToEqualities(c, A, b, G, h)

	z, x, err := lp.Simplex(cStd, AStd, bStd, 0, nil)
	if err != nil {
		if expectedFailures[err] {
			n.feasible = false
			n.lowerBound = math.Inf(1)
			return nil
		}
		return fmt.Errorf("%w: node %d: %v", ErrLPSolver, n.id, err)
	}

	n.feasible = true
	n.lowerBound = z
	n.lpY = append([]float64(nil), x[numFlowVars:numFlowVars+numSources]...)
	return nil
}

// convertToEqualities rewrites a problem with inequalities (G, h) as one with
// only nonnegative equalities by appending one slack variable per inequality
// row. A may be nil when the problem has no native equality constraints.
func convertToEqualities(c []float64, A *mat.Dense, b []float64, G *mat.Dense, h []float64) (cNew []float64, aNew *mat.Dense, bNew []float64) {
	if G == nil {
		panic("provided pointer to G matrix is nil")
	}
	if insane := sanityCheckDimensions(c, A, b, G, h); insane != nil {
		panic(insane)
	}

	nVar := len(c)
	nCons := len(b)
	nIneq := len(h)
	nNewVar := nVar + nIneq
	nNewCons := nCons + nIneq

	// slack variables have zero objective coefficients
	cNew = make([]float64, nNewVar)
	copy(cNew, c)

	bNew = make([]float64, nNewCons)
	copy(bNew, b)
	copy(bNew[nCons:], h)

	aNew = mat.NewDense(nNewCons, nNewVar, nil)

	// embed the original equality rows in the top-left block
	if A != nil {
		aNew.Slice(0, nCons, 0, nVar).(*mat.Dense).Copy(A)
	}

	// embed G below the equality rows
	aNew.Slice(nCons, nNewCons, 0, nVar).(*mat.Dense).Copy(G)

	// identity block marking each inequality row's slack variable
	bottomRight := aNew.Slice(nCons, nNewCons, nVar, nNewVar).(*mat.Dense)
	for i := 0; i < nIneq; i++ {
		bottomRight.Set(i, i, 1)
	}

	return cNew, aNew, bNew
}

// sanityCheckDimensions validates that the c/A/b/G/h shapes agree.
func sanityCheckDimensions(c []float64, A *mat.Dense, b []float64, G *mat.Dense, h []float64) error {
	if G == nil && A == nil {
		return errors.New("no constraint matrices provided")
	}

	if G != nil {
		if h == nil {
			return errors.New("h vector is nil while G matrix is provided")
		}
		rG, cG := G.Dims()
		if rG != len(h) {
			return errors.New("number of rows in G matrix is not equal to length of h")
		}
		if cG != len(c) {
			return errors.New("number of columns in G matrix is not equal to number of variables")
		}
	}
	if h != nil && G == nil {
		return errors.New("G matrix is nil while h vector is provided")
	}

	if A != nil {
		rA, cA := A.Dims()
		if rA != len(b) {
			return errors.New("number of rows in A matrix is not equal to length of b")
		}
		if cA != len(c) {
			return errors.New("number of columns in A matrix is not equal to number of variables")
		}
	}
	if b != nil && A == nil {
		return errors.New("A matrix is nil while b vector is provided")
	}

	return nil
}
