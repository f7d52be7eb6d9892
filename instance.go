package cfl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidInstance is returned when instance data is malformed: bad file
// contents, negative values, dimension mismatches, or a global capacity that
// cannot cover the global demand.
var ErrInvalidInstance = errors.New("invalid instance")

// Instance holds the data of one capacitated facility location problem.
// It is immutable after construction and safe to share across concurrent
// independent solves.
type Instance struct {
	numSources int
	numClients int

	capacities      []float64
	activationCosts []float64
	demands         []float64

	// transportCosts[i][j] is the unit cost of serving client i from source j.
	transportCosts [][]float64

	totalDemand   float64
	totalCapacity float64
}

// NewInstance validates and copies the given problem data.
func NewInstance(capacities, activationCosts, demands []float64, transportCosts [][]float64) (*Instance, error) {
	m := len(capacities)
	n := len(demands)

	if m < 1 {
		return nil, fmt.Errorf("%w: need at least one source", ErrInvalidInstance)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: need at least one client", ErrInvalidInstance)
	}
	if len(activationCosts) != m {
		return nil, fmt.Errorf("%w: %d activation costs for %d sources", ErrInvalidInstance, len(activationCosts), m)
	}
	if len(transportCosts) != n {
		return nil, fmt.Errorf("%w: %d transport cost rows for %d clients", ErrInvalidInstance, len(transportCosts), n)
	}

	inst := &Instance{
		numSources:      m,
		numClients:      n,
		capacities:      append([]float64(nil), capacities...),
		activationCosts: append([]float64(nil), activationCosts...),
		demands:         append([]float64(nil), demands...),
		transportCosts:  make([][]float64, n),
	}

	for i, row := range transportCosts {
		if len(row) != m {
			return nil, fmt.Errorf("%w: transport cost row %d has %d entries, want %d", ErrInvalidInstance, i, len(row), m)
		}
		inst.transportCosts[i] = append([]float64(nil), row...)
	}

	check := func(kind string, vals []float64) error {
		for k, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return fmt.Errorf("%w: %s[%d] = %v", ErrInvalidInstance, kind, k, v)
			}
		}
		return nil
	}
	if err := check("capacity", inst.capacities); err != nil {
		return nil, err
	}
	if err := check("activation cost", inst.activationCosts); err != nil {
		return nil, err
	}
	if err := check("demand", inst.demands); err != nil {
		return nil, err
	}
	for i, row := range inst.transportCosts {
		if err := check(fmt.Sprintf("transport cost row %d", i), row); err != nil {
			return nil, err
		}
	}

	inst.totalDemand = floats.Sum(inst.demands)
	inst.totalCapacity = floats.Sum(inst.capacities)

	if inst.totalCapacity < inst.totalDemand {
		return nil, fmt.Errorf("%w: total capacity %v cannot cover total demand %v",
			ErrInvalidInstance, inst.totalCapacity, inst.totalDemand)
	}

	return inst, nil
}

// ReadInstance parses the whitespace-delimited instance format:
//
//	line 1:        m n
//	line 2:        m capacities
//	line 3:        m activation costs
//	line 4:        n demands
//	lines 5..n+4:  n rows of m transport costs
func ReadInstance(r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	nextToken := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("%w: %v", ErrInvalidInstance, err)
			}
			return "", fmt.Errorf("%w: unexpected end of input", ErrInvalidInstance)
		}
		return sc.Text(), nil
	}

	nextInt := func(what string) (int, error) {
		tok, err := nextToken()
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return 0, fmt.Errorf("%w: bad %s %q", ErrInvalidInstance, what, tok)
		}
		return v, nil
	}

	nextFloats := func(what string, k int) ([]float64, error) {
		vals := make([]float64, k)
		for idx := range vals {
			tok, err := nextToken()
			if err != nil {
				return nil, err
			}
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad %s %q", ErrInvalidInstance, what, tok)
			}
			vals[idx] = v
		}
		return vals, nil
	}

	m, err := nextInt("source count")
	if err != nil {
		return nil, err
	}
	n, err := nextInt("client count")
	if err != nil {
		return nil, err
	}
	if m < 1 || n < 1 {
		return nil, fmt.Errorf("%w: dimensions %d x %d", ErrInvalidInstance, m, n)
	}

	capacities, err := nextFloats("capacity", m)
	if err != nil {
		return nil, err
	}
	activationCosts, err := nextFloats("activation cost", m)
	if err != nil {
		return nil, err
	}
	demands, err := nextFloats("demand", n)
	if err != nil {
		return nil, err
	}

	transportCosts := make([][]float64, n)
	for i := range transportCosts {
		row, err := nextFloats("transport cost", m)
		if err != nil {
			return nil, err
		}
		transportCosts[i] = row
	}

	if sc.Scan() {
		return nil, fmt.Errorf("%w: trailing data %q", ErrInvalidInstance, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInstance, err)
	}

	return NewInstance(capacities, activationCosts, demands, transportCosts)
}

// LoadInstance reads an instance file from disk.
func LoadInstance(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadInstance(f)
}

// NumSources returns the number of candidate production sources.
func (inst *Instance) NumSources() int { return inst.numSources }

// NumClients returns the number of clients.
func (inst *Instance) NumClients() int { return inst.numClients }

// Capacity returns the capacity of source j.
func (inst *Instance) Capacity(j int) float64 { return inst.capacities[j] }

// ActivationCost returns the fixed cost of opening source j.
func (inst *Instance) ActivationCost(j int) float64 { return inst.activationCosts[j] }

// Demand returns the demand of client i.
func (inst *Instance) Demand(i int) float64 { return inst.demands[i] }

// TransportCost returns the unit cost of serving client i from source j.
func (inst *Instance) TransportCost(i, j int) float64 { return inst.transportCosts[i][j] }

// TotalDemand returns the cached sum of all client demands.
func (inst *Instance) TotalDemand() float64 { return inst.totalDemand }

// TotalCapacity returns the cached sum of all source capacities.
func (inst *Instance) TotalCapacity() float64 { return inst.totalCapacity }

// Capacities returns a copy of the capacity vector.
func (inst *Instance) Capacities() []float64 {
	return append([]float64(nil), inst.capacities...)
}

// Demands returns a copy of the demand vector.
func (inst *Instance) Demands() []float64 {
	return append([]float64(nil), inst.demands...)
}

// String renders the full instance for inspection.
func (inst *Instance) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CFL instance: %d sources, %d clients\n", inst.numSources, inst.numClients)
	fmt.Fprintf(&sb, "capacities:       %v\n", inst.capacities)
	fmt.Fprintf(&sb, "activation costs: %v\n", inst.activationCosts)
	fmt.Fprintf(&sb, "demands:          %v\n", inst.demands)
	sb.WriteString("transport costs:\n")
	for _, row := range inst.transportCosts {
		fmt.Fprintf(&sb, "  %v\n", row)
	}
	return sb.String()
}
