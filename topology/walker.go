package topology

import (
	"fmt"
	"math"
	"sort"

	"github.com/orbitalmesh/ldmr-sim/model"
)

// ConstellationConfig describes a Walker-style LEO shell: evenly spaced
// circular orbital planes with evenly spaced satellites per plane.
type ConstellationConfig struct {
	Name           string
	NumPlanes      int
	SatsPerPlane   int
	AltitudeKm     float64
	InclinationDeg float64

	IntraPlaneLinks bool
	InterPlaneLinks bool
}

// GlobalStar returns the 48-satellite GlobalStar-like shell (8 planes of 6
// at 1400 km, 55° inclination).
func GlobalStar() ConstellationConfig {
	return ConstellationConfig{
		Name:            "GlobalStar",
		NumPlanes:       8,
		SatsPerPlane:    6,
		AltitudeKm:      1400,
		InclinationDeg:  55,
		IntraPlaneLinks: true,
		InterPlaneLinks: true,
	}
}

// Iridium returns the 66-satellite Iridium-like shell (6 planes of 11 at
// 780 km, near-polar).
func Iridium() ConstellationConfig {
	return ConstellationConfig{
		Name:            "Iridium",
		NumPlanes:       6,
		SatsPerPlane:    11,
		AltitudeKm:      780,
		InclinationDeg:  90,
		IntraPlaneLinks: true,
		InterPlaneLinks: true,
	}
}

// ConstellationByName resolves a preset by its lower-case name.
func ConstellationByName(name string) (ConstellationConfig, error) {
	switch name {
	case "globalstar":
		return GlobalStar(), nil
	case "iridium":
		return Iridium(), nil
	}
	return ConstellationConfig{}, fmt.Errorf("unknown constellation preset %q", name)
}

// GroundStation is a named ground site.
type GroundStation struct {
	Name   string
	LatDeg float64
	LonDeg float64
}

// MajorCityStations returns ground stations at fifteen major cities,
// matching the reference scenario set.
func MajorCityStations() []GroundStation {
	return []GroundStation{
		{Name: "Beijing", LatDeg: 39.9042, LonDeg: 116.4074},
		{Name: "New_York", LatDeg: 40.7128, LonDeg: -74.0060},
		{Name: "London", LatDeg: 51.5074, LonDeg: -0.1278},
		{Name: "Tokyo", LatDeg: 35.6762, LonDeg: 139.6503},
		{Name: "Sydney", LatDeg: -33.8688, LonDeg: 151.2093},
		{Name: "Moscow", LatDeg: 55.7558, LonDeg: 37.6173},
		{Name: "Cairo", LatDeg: 30.0444, LonDeg: 31.2357},
		{Name: "Sao_Paulo", LatDeg: -23.5505, LonDeg: -46.6333},
		{Name: "Mumbai", LatDeg: 19.0760, LonDeg: 72.8777},
		{Name: "Lagos", LatDeg: 6.5244, LonDeg: 3.3792},
		{Name: "Berlin", LatDeg: 52.5200, LonDeg: 13.4050},
		{Name: "Toronto", LatDeg: 43.6532, LonDeg: -79.3832},
		{Name: "Dubai", LatDeg: 25.2048, LonDeg: 55.2708},
		{Name: "Singapore", LatDeg: 1.3521, LonDeg: 103.8198},
		{Name: "Mexico_City", LatDeg: 19.4326, LonDeg: -99.1332},
	}
}

// LinkConfig controls which links the builders create and how they are
// dimensioned.
type LinkConfig struct {
	SatCapacityMbps    float64
	GroundCapacityMbps float64

	MaxISLRangeKm    float64
	MaxGroundRangeKm float64
	MinElevationDeg  float64

	// GroundLinksPerStation caps how many visible satellites each ground
	// station connects to (nearest first).
	GroundLinksPerStation int
}

// DefaultLinkConfig mirrors the reference scenario: 10 Gbps ISLs, 5 Gbps
// ground links, ISLs up to 8000 km, ground links up to 5000 km above 10°
// elevation, two ground links per station.
func DefaultLinkConfig() LinkConfig {
	return LinkConfig{
		SatCapacityMbps:       10000,
		GroundCapacityMbps:    5000,
		MaxISLRangeKm:         8000,
		MaxGroundRangeKm:      5000,
		MinElevationDeg:       10,
		GroundLinksPerStation: 2,
	}
}

// gravitational parameter of Earth, km^3/s^2
const earthMu = 398600.4418

// satelliteID names the satellite at (plane, index).
func satelliteID(plane, idx int) string {
	return fmt.Sprintf("S_%d_%d", plane, idx)
}

// SatellitePosition computes the ECEF position of the satellite at
// (plane, idx) after atSeconds of orbital motion from the epoch.
func (c ConstellationConfig) SatellitePosition(plane, idx int, atSeconds float64) model.Position {
	orbitRadius := EarthRadiusKm + c.AltitudeKm
	period := 2 * math.Pi * math.Sqrt(orbitRadius*orbitRadius*orbitRadius/earthMu)

	planeAngle := 2 * math.Pi * float64(plane) / float64(c.NumPlanes)
	satAngle := 2*math.Pi*float64(idx)/float64(c.SatsPerPlane) + 2*math.Pi*atSeconds/period
	inc := c.InclinationDeg * math.Pi / 180

	return model.Position{
		X: orbitRadius * (math.Cos(satAngle)*math.Cos(planeAngle) -
			math.Sin(satAngle)*math.Sin(planeAngle)*math.Cos(inc)),
		Y: orbitRadius * (math.Cos(satAngle)*math.Sin(planeAngle) +
			math.Sin(satAngle)*math.Cos(planeAngle)*math.Cos(inc)),
		Z: orbitRadius * math.Sin(satAngle) * math.Sin(inc),
	}
}

// BuildWalker constructs a topology snapshot from an analytic Walker shell
// at the given offset from the epoch, plus ground stations linked to their
// nearest visible satellites.
//
// ISLs follow the reference pattern: each satellite links to its two
// intra-plane ring neighbors and to the same-index satellite in each
// adjacent plane, subject to the maximum ISL range.
func BuildWalker(cc ConstellationConfig, stations []GroundStation, lc LinkConfig, atSeconds float64) (*model.Graph, error) {
	if cc.NumPlanes <= 0 || cc.SatsPerPlane <= 0 {
		return nil, fmt.Errorf("constellation %q: need positive plane and satellite counts", cc.Name)
	}

	g := model.NewGraph()
	for plane := 0; plane < cc.NumPlanes; plane++ {
		for idx := 0; idx < cc.SatsPerPlane; idx++ {
			n := model.Node{
				ID:       satelliteID(plane, idx),
				Kind:     model.NodeSatellite,
				Position: cc.SatellitePosition(plane, idx, atSeconds),
			}
			if err := g.AddNode(n); err != nil {
				return nil, err
			}
		}
	}

	if err := addWalkerISLs(g, cc, lc); err != nil {
		return nil, err
	}
	if err := addGroundStations(g, stations, lc); err != nil {
		return nil, err
	}
	return g, nil
}

func addWalkerISLs(g *model.Graph, cc ConstellationConfig, lc LinkConfig) error {
	addLink := func(a, b string) error {
		if g.Edge(a, b) != nil {
			return nil
		}
		pa, pb := g.Node(a).Position, g.Node(b).Position
		if lc.MaxISLRangeKm > 0 && Distance(pa, pb) > lc.MaxISLRangeKm {
			return nil
		}
		return g.AddEdge(a, b, PropagationDelayMs(pa, pb), lc.SatCapacityMbps)
	}

	for plane := 0; plane < cc.NumPlanes; plane++ {
		for idx := 0; idx < cc.SatsPerPlane; idx++ {
			id := satelliteID(plane, idx)

			if cc.IntraPlaneLinks && cc.SatsPerPlane > 1 {
				next := satelliteID(plane, (idx+1)%cc.SatsPerPlane)
				if next != id {
					if err := addLink(id, next); err != nil {
						return err
					}
				}
			}
			if cc.InterPlaneLinks && cc.NumPlanes > 1 {
				adjacent := satelliteID((plane+1)%cc.NumPlanes, idx)
				if adjacent != id {
					if err := addLink(id, adjacent); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// addGroundStations adds one node per station and links it to its nearest
// visible satellites: above the minimum elevation and within range.
func addGroundStations(g *model.Graph, stations []GroundStation, lc LinkConfig) error {
	type candidate struct {
		id   string
		dist float64
	}

	sats := make([]*model.Node, 0, g.NumNodes())
	for _, n := range g.Nodes() {
		if n.Kind == model.NodeSatellite {
			sats = append(sats, n)
		}
	}

	for i, st := range stations {
		id := fmt.Sprintf("GS_%d_%s", i, st.Name)
		pos := LatLonToECEF(st.LatDeg, st.LonDeg, 0)
		if err := g.AddNode(model.Node{ID: id, Kind: model.NodeGroundStation, Position: pos}); err != nil {
			return err
		}

		var visible []candidate
		for _, sat := range sats {
			d := Distance(pos, sat.Position)
			if lc.MaxGroundRangeKm > 0 && d > lc.MaxGroundRangeKm {
				continue
			}
			// The elevation cut already implies line of sight for a
			// station sitting on the sphere surface.
			if ElevationDegrees(pos, sat.Position) < lc.MinElevationDeg {
				continue
			}
			visible = append(visible, candidate{id: sat.ID, dist: d})
		}
		sort.Slice(visible, func(a, b int) bool {
			if visible[a].dist != visible[b].dist {
				return visible[a].dist < visible[b].dist
			}
			return visible[a].id < visible[b].id
		})

		limit := lc.GroundLinksPerStation
		if limit <= 0 || limit > len(visible) {
			limit = len(visible)
		}
		for _, c := range visible[:limit] {
			pa := g.Node(c.id).Position
			if err := g.AddEdge(id, c.id, PropagationDelayMs(pos, pa), lc.GroundCapacityMbps); err != nil {
				return err
			}
		}
	}
	return nil
}
