package model

// EdgeID canonically identifies an undirected link. The lexicographically
// smaller endpoint is always stored in A, so two demands traversing the same
// link in opposite directions resolve to the same ID.
type EdgeID struct {
	A string
	B string
}

// MakeEdgeID builds the canonical ID for the link between a and b.
func MakeEdgeID(a, b string) EdgeID {
	if b < a {
		a, b = b, a
	}
	return EdgeID{A: a, B: b}
}

// Other returns the endpoint opposite to node, or "" if node is not an
// endpoint of this edge.
func (id EdgeID) Other(node string) string {
	switch node {
	case id.A:
		return id.B
	case id.B:
		return id.A
	}
	return ""
}

func (id EdgeID) String() string { return id.A + "~" + id.B }

// Edge is an undirected link with static propagation delay and capacity.
// Edges are immutable for the duration of a simulation run; adaptive search
// weights live outside the graph (core.UsageState).
type Edge struct {
	ID           EdgeID
	DelayMs      float64
	CapacityMbps float64
}

// BaseWeight is the static search weight of the edge, derived from its
// propagation delay.
func (e *Edge) BaseWeight() float64 { return e.DelayMs }
