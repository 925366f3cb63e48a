package topology

import (
	"fmt"
	"sort"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/orbitalmesh/ldmr-sim/model"
)

// TLE is a named two-line element set.
type TLE struct {
	Name  string
	Line1 string
	Line2 string
}

// BuildFromTLE constructs a topology snapshot from real TLE sets, propagated
// to the given epoch with SGP4. Unlike the analytic Walker builder there is
// no plane structure to exploit, so each satellite links to its nearest
// in-range neighbors (four by default), and ground stations attach exactly
// as in BuildWalker.
func BuildFromTLE(tles []TLE, stations []GroundStation, lc LinkConfig, epoch time.Time) (*model.Graph, error) {
	return BuildFromTLEWithNeighbors(tles, stations, lc, epoch, 4)
}

// BuildFromTLEWithNeighbors is BuildFromTLE with an explicit cap on ISLs per
// satellite.
func BuildFromTLEWithNeighbors(tles []TLE, stations []GroundStation, lc LinkConfig, epoch time.Time, islNeighbors int) (*model.Graph, error) {
	if len(tles) == 0 {
		return nil, fmt.Errorf("no TLE sets supplied")
	}
	if islNeighbors <= 0 {
		return nil, fmt.Errorf("ISL neighbor cap must be positive, got %d", islNeighbors)
	}

	g := model.NewGraph()
	for _, t := range tles {
		if t.Name == "" {
			return nil, fmt.Errorf("TLE set without a name")
		}
		pos, err := propagateECEF(t, epoch)
		if err != nil {
			return nil, fmt.Errorf("propagate %q: %w", t.Name, err)
		}
		if err := g.AddNode(model.Node{ID: t.Name, Kind: model.NodeSatellite, Position: pos}); err != nil {
			return nil, err
		}
	}

	if err := addNearestNeighborISLs(g, lc, islNeighbors); err != nil {
		return nil, err
	}
	if err := addGroundStations(g, stations, lc); err != nil {
		return nil, err
	}
	return g, nil
}

// propagateECEF runs SGP4 for the TLE at the given time and converts the ECI
// state to an ECEF position in kilometres.
func propagateECEF(t TLE, at time.Time) (model.Position, error) {
	sat := satellite.TLEToSat(t.Line1, t.Line2, satellite.GravityWGS72)

	at = at.UTC()
	year, month, day := at.Date()
	hour, min, sec := at.Clock()

	posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	pos := model.Position{X: posECEF.X, Y: posECEF.Y, Z: posECEF.Z}
	if norm(pos) < EarthRadiusKm {
		return model.Position{}, fmt.Errorf("propagated position is inside the Earth (decayed or bad TLE)")
	}
	return pos, nil
}

// addNearestNeighborISLs links every satellite to its closest in-range,
// line-of-sight neighbors, capped at islNeighbors links per satellite.
// Iteration over the sorted node list keeps the result deterministic.
func addNearestNeighborISLs(g *model.Graph, lc LinkConfig, islNeighbors int) error {
	sats := g.Nodes()
	degree := make(map[string]int, len(sats))

	type candidate struct {
		id   string
		dist float64
	}

	for _, sat := range sats {
		var near []candidate
		for _, other := range sats {
			if other.ID == sat.ID {
				continue
			}
			d := Distance(sat.Position, other.Position)
			if lc.MaxISLRangeKm > 0 && d > lc.MaxISLRangeKm {
				continue
			}
			if !HasLineOfSight(sat.Position, other.Position) {
				continue
			}
			near = append(near, candidate{id: other.ID, dist: d})
		}
		sort.Slice(near, func(a, b int) bool {
			if near[a].dist != near[b].dist {
				return near[a].dist < near[b].dist
			}
			return near[a].id < near[b].id
		})

		for _, c := range near {
			if degree[sat.ID] >= islNeighbors {
				break
			}
			if degree[c.id] >= islNeighbors {
				continue
			}
			if g.Edge(sat.ID, c.id) != nil {
				continue
			}
			pa, pb := sat.Position, g.Node(c.id).Position
			if err := g.AddEdge(sat.ID, c.id, PropagationDelayMs(pa, pb), lc.SatCapacityMbps); err != nil {
				return err
			}
			degree[sat.ID]++
			degree[c.id]++
		}
	}
	return nil
}
