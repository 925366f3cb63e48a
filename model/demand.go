package model

// TrafficClass tags a demand by its volume relative to the configured
// elephant threshold. Purely informational.
type TrafficClass string

const (
	TrafficElephant TrafficClass = "elephant"
	TrafficMouse    TrafficClass = "mouse"
)

// Demand is a source/destination/volume traffic request. Demands are
// immutable once generated; Order records the position in the list the
// collaborator supplied, which serves as the stable tie-break when the engine
// sorts demands by descending volume.
type Demand struct {
	Source      string
	Destination string
	VolumeMbps  float64
	Class       TrafficClass
	Order       int
}
