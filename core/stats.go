package core

import (
	"gonum.org/v1/gonum/stat"

	"github.com/orbitalmesh/ldmr-sim/model"
)

// Stats aggregates one run's results for the exporter collaborator.
// Rates are fractions of the total demand count; means cover accepted paths
// of valid demands only.
type Stats struct {
	Demands int

	SuccessRate     float64
	PartialRate     float64
	UnreachableRate float64
	InvalidRate     float64

	MeanPathCount     float64
	MeanPathDelayMs   float64
	StdDevPathDelayMs float64
	MeanHopCount      float64

	DisjointRate float64
}

// Aggregate computes run statistics over all demand results.
func Aggregate(results []model.DemandResult) Stats {
	s := Stats{Demands: len(results), DisjointRate: DisjointRate(results)}
	if len(results) == 0 {
		s.DisjointRate = 1
		return s
	}

	var counts struct{ success, partial, unreachable, invalid int }
	var pathCounts, pathDelays, pathHops []float64

	for _, res := range results {
		switch res.Outcome {
		case model.OutcomeSuccess:
			counts.success++
		case model.OutcomePartial:
			counts.partial++
		case model.OutcomeUnreachable:
			counts.unreachable++
		case model.OutcomeInvalid:
			counts.invalid++
		}
		if res.Outcome == model.OutcomeInvalid {
			continue
		}
		pathCounts = append(pathCounts, float64(len(res.Paths)))
		for _, p := range res.Paths {
			pathDelays = append(pathDelays, p.DelayMs)
			pathHops = append(pathHops, float64(p.Hops()))
		}
	}

	total := float64(len(results))
	s.SuccessRate = float64(counts.success) / total
	s.PartialRate = float64(counts.partial) / total
	s.UnreachableRate = float64(counts.unreachable) / total
	s.InvalidRate = float64(counts.invalid) / total

	if len(pathCounts) > 0 {
		s.MeanPathCount = stat.Mean(pathCounts, nil)
	}
	if len(pathDelays) > 0 {
		s.MeanPathDelayMs = stat.Mean(pathDelays, nil)
		s.MeanHopCount = stat.Mean(pathHops, nil)
	}
	if len(pathDelays) > 1 {
		s.StdDevPathDelayMs = stat.StdDev(pathDelays, nil)
	}
	return s
}
