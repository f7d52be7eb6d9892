package cfl

import (
	"math"
	"sort"
)

// exactCost prices a binary activation vector by assigning each client's
// entire demand to a single opened source. It returns +Inf when the opened
// capacity cannot cover total demand or the no-split assignment runs out of
// capacity.
//
// This is a one-sided bound computer, not a subproblem solver: refusing to
// split a client across sources can label an activation infeasible even when
// a split assignment would fit. Callers must treat +Inf as "no usable upper
// bound", never as proof of infeasibility.
func exactCost(inst *Instance, y []float64, tol float64) float64 {
	openedCapacity := 0.0
	for j := range y {
		if y[j] > 0.5 {
			openedCapacity += inst.Capacity(j)
		}
	}
	if openedCapacity < inst.TotalDemand() {
		return math.Inf(1)
	}

	total := 0.0
	for j := range y {
		if y[j] > 0.5 {
			total += inst.ActivationCost(j)
		}
	}

	remaining := inst.Capacities()

	// rank clients by the cost density of their cheapest opened source
	type clientKey struct {
		density float64
		client  int
	}
	byDensity := make([]clientKey, 0, inst.NumClients())
	for i := 0; i < inst.NumClients(); i++ {
		best := math.Inf(1)
		for j := range y {
			if y[j] > 0.5 && inst.TransportCost(i, j) < best {
				best = inst.TransportCost(i, j)
			}
		}
		if !math.IsInf(best, 1) {
			byDensity = append(byDensity, clientKey{
				density: best / inst.Demand(i),
				client:  i,
			})
		}
	}
	sort.Slice(byDensity, func(a, b int) bool {
		if byDensity[a].density != byDensity[b].density {
			return byDensity[a].density < byDensity[b].density
		}
		return byDensity[a].client < byDensity[b].client
	})

	for _, ck := range byDensity {
		demand := inst.Demand(ck.client)

		// among opened sources with remaining capacity, take the one with the
		// best cost per unit of remaining capacity
		bestSource := -1
		bestCost := math.Inf(1)
		bestEfficiency := math.Inf(1)
		for j := range y {
			if y[j] > 0.5 && remaining[j] > tol {
				cost := inst.TransportCost(ck.client, j)
				efficiency := cost / remaining[j]
				if efficiency < bestEfficiency {
					bestEfficiency = efficiency
					bestCost = cost
					bestSource = j
				}
			}
		}

		if bestSource == -1 {
			return math.Inf(1)
		}

		total += bestCost * demand
		remaining[bestSource] -= demand
	}

	return total
}
