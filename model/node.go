package model

// NodeKind classifies a network node by the platform that carries it.
type NodeKind string

const (
	NodeSatellite     NodeKind = "SATELLITE"
	NodeGroundStation NodeKind = "GROUND_STATION"
)

// Position is an ECEF position in kilometres.
type Position struct {
	X float64
	Y float64
	Z float64
}

// Node is a routing endpoint in the topology snapshot. The kind tag is
// informational metadata; it does not affect path cost.
type Node struct {
	ID       string
	Kind     NodeKind
	Position Position
}
