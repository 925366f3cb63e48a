package core

import "github.com/orbitalmesh/ldmr-sim/model"

// Conflict describes a disjointness failure: the offending edge and the
// indices of the two paths that both contain it.
type Conflict struct {
	Edge       model.EdgeID
	FirstPath  int
	SecondPath int
}

// VerifyDisjoint confirms that no edge occurs in more than one of the
// result's accepted paths. Direction is irrelevant: edge IDs are canonical,
// so two paths crossing the same link opposite ways still conflict.
//
// The LDMR engine calls this after every commit and treats a failure as
// fatal; exporters can reuse it to audit persisted results.
func VerifyDisjoint(res model.DemandResult) (bool, *Conflict) {
	seen := make(map[model.EdgeID]int)
	for i, p := range res.Paths {
		for _, id := range p.Edges {
			if first, dup := seen[id]; dup {
				return false, &Conflict{Edge: id, FirstPath: first, SecondPath: i}
			}
			seen[id] = i
		}
	}
	return true, nil
}

// DisjointRate returns the fraction of multi-path results that verify as
// link-disjoint. Results with fewer than two paths are trivially disjoint
// and excluded from the denominator; an empty denominator yields 1.
func DisjointRate(results []model.DemandResult) float64 {
	var checked, disjoint int
	for _, res := range results {
		if len(res.Paths) < 2 {
			continue
		}
		checked++
		if ok, _ := VerifyDisjoint(res); ok {
			disjoint++
		}
	}
	if checked == 0 {
		return 1
	}
	return float64(disjoint) / float64(checked)
}
