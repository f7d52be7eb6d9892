package cfl

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
	"k8s.io/klog/v2"
)

// defaultTolerance is used for Options.Tolerance when left zero.
const defaultTolerance = 1e-6

// Options configures one solve.
type Options struct {
	// MaxIterations caps the number of nodes dequeued from the frontier.
	// Must be positive.
	MaxIterations int

	// Tolerance is the numerical slack used for every bound comparison and
	// for the optimality gap. Defaults to 1e-6.
	Tolerance float64

	// Middleware observes search events. Optional.
	Middleware Middleware
}

// Result is the outcome of a solve.
type Result struct {
	// BestValue is the cost of the incumbent, +Inf when none was found.
	BestValue float64

	// BestY is the incumbent activation vector (entries 0 or 1), nil when no
	// incumbent exists.
	BestY []float64

	// Feasible reports whether a usable incumbent was found.
	Feasible bool

	// Iterations is the number of nodes dequeued.
	Iterations int

	// LowerBound is the lowest bound on the frontier as last observed; once
	// the frontier empties it keeps the value seen before that. The solve is
	// optimal within tolerance when BestValue-LowerBound is within the
	// configured tolerance.
	LowerBound float64

	// WallTime is the elapsed solve duration.
	WallTime time.Duration
}

// Gap returns the absolute optimality gap, +Inf without an incumbent.
func (r Result) Gap() float64 {
	if !r.Feasible {
		return math.Inf(1)
	}
	return math.Abs(r.BestValue - r.LowerBound)
}

// Solve runs branch-and-bound on the instance: a greedy incumbent seeds the
// upper bound, nodes are explored best-bound-first, each node is either
// pruned, accepted as an integer candidate, or split on its most fractional
// activation. The search stops on an empty frontier, a closed optimality
// gap, or the iteration budget.
func Solve(inst *Instance, opts Options) (Result, error) {
	if opts.MaxIterations <= 0 {
		return Result{}, fmt.Errorf("max iterations must be positive, got %d", opts.MaxIterations)
	}
	tol := opts.Tolerance
	if tol == 0 {
		tol = defaultTolerance
	}
	if tol < 0 {
		return Result{}, fmt.Errorf("tolerance must be positive, got %v", tol)
	}
	mw := opts.Middleware
	if mw == nil {
		mw = discardMiddleware{}
	}

	e := &bnbEngine{
		inst:      inst,
		tol:       tol,
		maxIter:   opts.MaxIterations,
		mw:        mw,
		relaxer:   &relaxer{inst: inst},
		frontier:  newNodeFrontier(),
		bestUpper: math.Inf(1),
		bestLower: math.Inf(-1),
	}
	return e.run()
}

// bnbEngine holds the state of one solve: the frontier, the incumbent, and
// the iteration count. It lives only for the duration of Solve.
type bnbEngine struct {
	inst    *Instance
	tol     float64
	maxIter int
	mw      Middleware
	relaxer *relaxer

	frontier *nodeFrontier

	bestUpper float64
	bestY     []float64
	bestLower float64

	iterations int
	nextID     int64
}

func (e *bnbEngine) run() (Result, error) {
	start := time.Now()

	// globally infeasible instances never reach the LP
	if e.inst.TotalCapacity() < e.inst.TotalDemand() {
		return e.result(start), fmt.Errorf("%w: total capacity %v cannot cover total demand %v",
			ErrInvalidInstance, e.inst.TotalCapacity(), e.inst.TotalDemand())
	}

	// greedy incumbent seeds the upper bound
	greedyY := greedyActivation(e.inst, e.tol)
	greedyCost := exactCost(e.inst, greedyY, e.tol)
	if !math.IsInf(greedyCost, 1) {
		e.bestUpper = greedyCost
		e.bestY = append([]float64(nil), greedyY...)
	}
	klog.V(2).InfoS("greedy incumbent", "cost", greedyCost)

	root := newRootNode()
	e.nextID = 1
	e.mw.NodeCreated(root)
	if err := e.relaxer.evaluate(root); err != nil {
		return e.result(start), err
	}
	if !root.feasible {
		// the relaxation of the whole problem is empty; the greedy incumbent,
		// if any, is all we have
		e.mw.Decision(root, NODE_LP_INFEASIBLE)
		klog.V(2).InfoS("root relaxation infeasible")
		return e.result(start), nil
	}

	e.frontier.push(root)
	e.bestLower = root.lowerBound

	for e.frontier.len() > 0 && e.iterations < e.maxIter {
		e.iterations++
		n := e.frontier.pop()

		if err := e.step(n); err != nil {
			return e.result(start), err
		}

		// the frontier head carries the best lower bound; an emptied frontier
		// keeps the last observed value so the reported gap stays meaningful
		if e.frontier.len() > 0 {
			e.bestLower = e.frontier.peek().lowerBound
		}
		e.mw.Bounds(e.iterations, e.bestLower, e.bestUpper)

		if scalar.EqualWithinAbs(e.bestUpper, e.bestLower, e.tol) {
			klog.V(2).InfoS("optimality gap closed", "upper", e.bestUpper, "lower", e.bestLower)
			break
		}
	}

	return e.result(start), nil
}

// step classifies one dequeued node: prune by bound, accept as an integer
// candidate, or branch on the most fractional activation.
func (e *bnbEngine) step(n *searchNode) error {
	if n.lowerBound >= e.bestUpper+e.tol {
		e.mw.Decision(n, NODE_PRUNED_BY_BOUND)
		return nil
	}

	if n.isIntegerSolution() {
		y := n.roundedY()
		cost := exactCost(e.inst, y, e.tol)
		// exactCost is one-sided: +Inf is not proof of infeasibility, it only
		// fails to improve the incumbent; the node is discarded either way
		if cost <= e.bestUpper+e.tol && cost >= 0 && !math.IsInf(cost, 1) {
			e.bestUpper = cost
			e.bestY = y
			e.mw.Decision(n, NODE_NEW_INCUMBENT)
			klog.V(2).InfoS("new incumbent", "cost", cost, "iteration", e.iterations)
		} else {
			e.mw.Decision(n, NODE_INTEGER_DISCARDED)
		}
		return nil
	}

	branchOn := n.mostFractional()
	if branchOn < 0 {
		// the integrality test and the branching rule disagree within their
		// tolerances; treat as a solver numerical artifact
		e.mw.Decision(n, NODE_NUMERICAL_ARTIFACT)
		klog.V(4).InfoS("discarding numerical artifact node", "id", n.id)
		return nil
	}
	e.mw.Decision(n, NODE_BRANCHED)

	for _, v := range []float64{0, 1} {
		child := newChildNode(n, e.nextID, branchOn, v)
		e.nextID++
		e.mw.NodeCreated(child)

		if err := e.relaxer.evaluate(child); err != nil {
			return err
		}
		switch {
		case !child.feasible:
			e.mw.Decision(child, NODE_LP_INFEASIBLE)
		case child.lowerBound > e.bestUpper+e.tol:
			e.mw.Decision(child, NODE_PRUNED_AT_ENQUEUE)
		default:
			e.frontier.push(child)
		}
		klog.V(4).InfoS("branched", "parent", n.id, "child", child.id,
			"source", branchOn, "value", v, "feasible", child.feasible, "bound", child.lowerBound)
	}

	return nil
}

func (e *bnbEngine) result(start time.Time) Result {
	feasible := !math.IsInf(e.bestUpper, 1)
	res := Result{
		BestValue:  e.bestUpper,
		Feasible:   feasible,
		Iterations: e.iterations,
		LowerBound: e.bestLower,
		WallTime:   time.Since(start),
	}
	if feasible {
		res.BestY = append([]float64(nil), e.bestY...)
	}
	return res
}
