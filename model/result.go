package model

import "fmt"

// PathRole labels a path's position within a demand's accepted set.
type PathRole string

// RolePrimary tags the first (lowest-delay) accepted path.
const RolePrimary PathRole = "primary"

// BackupRole returns the role tag for the k-th backup path (k starts at 1).
func BackupRole(k int) PathRole { return PathRole(fmt.Sprintf("backup-%d", k)) }

// Path is an ordered node/edge sequence with its cumulative propagation
// delay. Delay always reflects base link delays, never adaptive search
// weights.
type Path struct {
	Nodes   []string
	Edges   []EdgeID
	DelayMs float64
}

// Hops returns the number of links on the path.
func (p Path) Hops() int { return len(p.Edges) }

// PathResult is one accepted path within a demand's result set.
type PathResult struct {
	Path
	Role PathRole
}

// Outcome is the per-demand result tag. Unreachable and partial are normal
// outcomes on sparse or partitioned topologies, not errors.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomePartial     Outcome = "partial"
	OutcomeUnreachable Outcome = "unreachable"
	OutcomeInvalid     Outcome = "invalid"
)

// DemandResult is the accepted path set for one demand. Within one result no
// edge may appear in more than one path; the engine verifies this after every
// commit.
type DemandResult struct {
	Demand  Demand
	Paths   []PathResult
	Outcome Outcome
}

// TotalDelayMs returns the summed cumulative delay of all accepted paths.
func (r DemandResult) TotalDelayMs() float64 {
	var total float64
	for _, p := range r.Paths {
		total += p.DelayMs
	}
	return total
}
