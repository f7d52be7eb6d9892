package cfl

import "sort"

// greedyActivation builds an activation vector that covers the total demand,
// opening sources in order of a virtual per-unit cost. For each source the
// clients it could serve are ranked by transport cost per demand unit and
// greedily packed into its capacity; the resulting transport estimate plus
// the activation cost, normalized by capacity, scores the source.
//
// The returned vector is binary but not guaranteed to admit a no-split
// assignment; its cost comes from exactCost.
func greedyActivation(inst *Instance, tol float64) []float64 {
	numSources := inst.NumSources()
	numClients := inst.NumClients()

	type clientKey struct {
		density float64
		demand  float64
		client  int
	}

	type sourceScore struct {
		score  float64
		source int
	}

	scores := make([]sourceScore, 0, numSources)
	for j := 0; j < numSources; j++ {
		byDensity := make([]clientKey, 0, numClients)
		for i := 0; i < numClients; i++ {
			byDensity = append(byDensity, clientKey{
				density: inst.TransportCost(i, j) / inst.Demand(i),
				demand:  inst.Demand(i),
				client:  i,
			})
		}
		sort.Slice(byDensity, func(a, b int) bool {
			if byDensity[a].density != byDensity[b].density {
				return byDensity[a].density < byDensity[b].density
			}
			if byDensity[a].demand != byDensity[b].demand {
				return byDensity[a].demand < byDensity[b].demand
			}
			return byDensity[a].client < byDensity[b].client
		})

		transportOpt := 0.0
		available := inst.Capacity(j)
		for _, ck := range byDensity {
			if ck.demand <= available {
				transportOpt += ck.demand * inst.TransportCost(ck.client, j)
				available -= ck.demand
			}
		}

		scores = append(scores, sourceScore{
			score:  (inst.ActivationCost(j) + transportOpt) / inst.Capacity(j),
			source: j,
		})
	}

	sort.Slice(scores, func(a, b int) bool {
		if scores[a].score != scores[b].score {
			return scores[a].score < scores[b].score
		}
		return scores[a].source < scores[b].source
	})

	y := make([]float64, numSources)
	opened := 0.0
	for _, sc := range scores {
		if opened >= inst.TotalDemand()-tol {
			break
		}
		y[sc.source] = 1
		opened += inst.Capacity(sc.source)
	}

	return y
}
