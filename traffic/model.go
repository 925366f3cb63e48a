// Package traffic generates synthetic demand lists from a population-based
// gravity model: zone pairs are weighted by population product and distance
// decay, and per-flow volumes follow a Pareto distribution so a small share
// of elephant flows carries most of the traffic.
package traffic

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/orbitalmesh/ldmr-sim/model"
	"github.com/orbitalmesh/ldmr-sim/topology"
)

// Zone is a populated region that sources and sinks traffic.
type Zone struct {
	Name       string
	LatDeg     float64
	LonDeg     float64
	Population int
}

// MajorCityZones returns the reference set of fifteen major cities with
// rough metro populations.
func MajorCityZones() []Zone {
	return []Zone{
		{Name: "Beijing", LatDeg: 39.9042, LonDeg: 116.4074, Population: 21_500_000},
		{Name: "New_York", LatDeg: 40.7128, LonDeg: -74.0060, Population: 8_400_000},
		{Name: "London", LatDeg: 51.5074, LonDeg: -0.1278, Population: 9_000_000},
		{Name: "Tokyo", LatDeg: 35.6762, LonDeg: 139.6503, Population: 13_900_000},
		{Name: "Sydney", LatDeg: -33.8688, LonDeg: 151.2093, Population: 5_300_000},
		{Name: "Moscow", LatDeg: 55.7558, LonDeg: 37.6173, Population: 12_500_000},
		{Name: "Cairo", LatDeg: 30.0444, LonDeg: 31.2357, Population: 10_200_000},
		{Name: "Sao_Paulo", LatDeg: -23.5505, LonDeg: -46.6333, Population: 12_300_000},
		{Name: "Mumbai", LatDeg: 19.0760, LonDeg: 72.8777, Population: 20_400_000},
		{Name: "Lagos", LatDeg: 6.5244, LonDeg: 3.3792, Population: 14_800_000},
		{Name: "Berlin", LatDeg: 52.5200, LonDeg: 13.4050, Population: 3_700_000},
		{Name: "Toronto", LatDeg: 43.6532, LonDeg: -79.3832, Population: 6_200_000},
		{Name: "Dubai", LatDeg: 25.2048, LonDeg: 55.2708, Population: 3_400_000},
		{Name: "Singapore", LatDeg: 1.3521, LonDeg: 103.8198, Population: 5_900_000},
		{Name: "Mexico_City", LatDeg: 19.4326, LonDeg: -99.1332, Population: 9_200_000},
	}
}

// Config parameterizes demand generation.
type Config struct {
	NumDemands int

	// Alpha is the population exponent and Beta the distance-decay
	// exponent of the gravity model.
	Alpha float64
	Beta  float64

	// ParetoShape/ParetoScaleMbps parameterize the per-flow volume
	// distribution (scale is the minimum volume).
	ParetoShape     float64
	ParetoScaleMbps float64

	// ElephantThresholdMbps splits flows into elephant and mouse classes.
	ElephantThresholdMbps float64

	Seed uint64
}

// DefaultConfig mirrors the reference traffic defaults.
func DefaultConfig() Config {
	return Config{
		NumDemands:            100,
		Alpha:                 0.5,
		Beta:                  2.0,
		ParetoShape:           1.5,
		ParetoScaleMbps:       20,
		ElephantThresholdMbps: 50,
		Seed:                  1,
	}
}

// Validate checks generation parameters.
func (c Config) Validate() error {
	if c.NumDemands <= 0 {
		return fmt.Errorf("traffic: demand count must be positive, got %d", c.NumDemands)
	}
	if c.Beta < 0 {
		return fmt.Errorf("traffic: distance decay must be non-negative, got %v", c.Beta)
	}
	if c.ParetoShape <= 0 || c.ParetoScaleMbps <= 0 {
		return fmt.Errorf("traffic: Pareto shape and scale must be positive, got shape=%v scale=%v",
			c.ParetoShape, c.ParetoScaleMbps)
	}
	return nil
}

// Generator produces deterministic demand lists: the same config, zones, and
// graph always yield the same demands.
type Generator struct {
	cfg    Config
	zones  []Zone
	rng    *rand.Rand
	volume distuv.Pareto
}

// NewGenerator validates the config and seeds the generator.
func NewGenerator(cfg Config, zones []Zone) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(zones) < 2 {
		return nil, fmt.Errorf("traffic: need at least two zones, got %d", len(zones))
	}
	src := rand.NewSource(cfg.Seed)
	return &Generator{
		cfg:   cfg,
		zones: zones,
		rng:   rand.New(src),
		volume: distuv.Pareto{
			Xm:    cfg.ParetoScaleMbps,
			Alpha: cfg.ParetoShape,
			Src:   src,
		},
	}, nil
}

// Demands generates cfg.NumDemands demands between ground-station nodes of
// the graph. Each zone is mapped to its nearest ground station; zone pairs
// are then drawn from the gravity-model weights and volumes from the Pareto
// distribution. Pairs whose zones map to the same station are skipped and
// redrawn.
func (g *Generator) Demands(graph *model.Graph) ([]model.Demand, error) {
	stationByZone, err := g.mapZonesToStations(graph)
	if err != nil {
		return nil, err
	}

	type pair struct{ from, to int }
	var (
		pairs   []pair
		weights []float64
		total   float64
	)
	for i := range g.zones {
		for j := range g.zones {
			if i == j || stationByZone[i] == stationByZone[j] {
				continue
			}
			w := g.gravityWeight(g.zones[i], g.zones[j])
			if w <= 0 {
				continue
			}
			pairs = append(pairs, pair{from: i, to: j})
			weights = append(weights, w)
			total += w
		}
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("traffic: no zone pair maps to distinct ground stations")
	}

	demands := make([]model.Demand, 0, g.cfg.NumDemands)
	for n := 0; n < g.cfg.NumDemands; n++ {
		p := pairs[g.weightedIndex(weights, total)]
		volume := g.volume.Rand()

		class := model.TrafficMouse
		if volume >= g.cfg.ElephantThresholdMbps {
			class = model.TrafficElephant
		}
		demands = append(demands, model.Demand{
			Source:      stationByZone[p.from],
			Destination: stationByZone[p.to],
			VolumeMbps:  volume,
			Class:       class,
			Order:       n,
		})
	}
	return demands, nil
}

// gravityWeight is the gravity-model attraction between two zones:
// (pop_a^alpha * pop_b^alpha) / dist^beta.
func (g *Generator) gravityWeight(a, b Zone) float64 {
	dist := greatCircleKm(a.LatDeg, a.LonDeg, b.LatDeg, b.LonDeg)
	if dist < 1 {
		dist = 1
	}
	pop := math.Pow(float64(a.Population), g.cfg.Alpha) * math.Pow(float64(b.Population), g.cfg.Alpha)
	return pop / math.Pow(dist, g.cfg.Beta)
}

// weightedIndex draws an index proportionally to weights.
func (g *Generator) weightedIndex(weights []float64, total float64) int {
	target := g.rng.Float64() * total
	var acc float64
	for i, w := range weights {
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}

// mapZonesToStations resolves every zone to the ID of the nearest
// ground-station node in the graph.
func (g *Generator) mapZonesToStations(graph *model.Graph) ([]string, error) {
	var stations []*model.Node
	for _, n := range graph.Nodes() {
		if n.Kind == model.NodeGroundStation {
			stations = append(stations, n)
		}
	}
	if len(stations) == 0 {
		return nil, fmt.Errorf("traffic: graph has no ground-station nodes")
	}

	out := make([]string, len(g.zones))
	for i, z := range g.zones {
		pos := topology.LatLonToECEF(z.LatDeg, z.LonDeg, 0)
		best := stations[0]
		bestDist := topology.Distance(pos, best.Position)
		for _, st := range stations[1:] {
			if d := topology.Distance(pos, st.Position); d < bestDist {
				best = st
				bestDist = d
			}
		}
		out[i] = best.ID
	}
	return out, nil
}

// greatCircleKm is the haversine distance between two lat/lon points.
func greatCircleKm(lat1, lon1, lat2, lon2 float64) float64 {
	const deg = math.Pi / 180
	la1, lo1 := lat1*deg, lon1*deg
	la2, lo2 := lat2*deg, lon2*deg

	dLat := la2 - la1
	dLon := lo2 - lo1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * topology.EarthRadiusKm * math.Asin(math.Sqrt(a))
}
