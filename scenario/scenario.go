// Package scenario loads and validates YAML simulation scenarios: the
// constellation to build, the ground stations, the traffic model, and the
// algorithm parameters.
package scenario

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/orbitalmesh/ldmr-sim/core"
	"github.com/orbitalmesh/ldmr-sim/topology"
	"github.com/orbitalmesh/ldmr-sim/traffic"
)

// Scenario is the root of a YAML scenario file. Zero-valued sections fall
// back to the reference defaults, so a minimal file can configure just the
// parts it cares about.
type Scenario struct {
	Name string `yaml:"name"`

	Constellation  ConstellationSection  `yaml:"constellation"`
	Links          LinksSection          `yaml:"links"`
	GroundStations []GroundStationRecord `yaml:"ground_stations"`
	Traffic        TrafficSection        `yaml:"traffic"`
	Algorithm      AlgorithmSection      `yaml:"algorithm"`
	Output         OutputSection         `yaml:"output"`
}

// ConstellationSection selects a preset shell or describes a custom one.
type ConstellationSection struct {
	Preset string `yaml:"preset"`

	Planes         int     `yaml:"planes"`
	SatsPerPlane   int     `yaml:"sats_per_plane"`
	AltitudeKm     float64 `yaml:"altitude_km"`
	InclinationDeg float64 `yaml:"inclination_deg"`

	// SnapshotOffsetSec shifts the orbital phase of the snapshot.
	SnapshotOffsetSec float64 `yaml:"snapshot_offset_sec"`
}

// LinksSection dimensions the generated links. MinElevationDeg is a pointer
// because zero is a meaningful value (horizon-level visibility), unlike the
// other fields where zero just means "use the default".
type LinksSection struct {
	SatCapacityMbps       float64  `yaml:"sat_capacity_mbps"`
	GroundCapacityMbps    float64  `yaml:"ground_capacity_mbps"`
	MaxISLRangeKm         float64  `yaml:"max_isl_range_km"`
	MaxGroundRangeKm      float64  `yaml:"max_ground_range_km"`
	MinElevationDeg       *float64 `yaml:"min_elevation_deg"`
	GroundLinksPerStation int      `yaml:"ground_links_per_station"`
}

// GroundStationRecord is one ground site; an empty list selects the
// major-city default set.
type GroundStationRecord struct {
	Name   string  `yaml:"name"`
	LatDeg float64 `yaml:"lat_deg"`
	LonDeg float64 `yaml:"lon_deg"`
}

// TrafficSection parameterizes demand generation.
type TrafficSection struct {
	Demands               int     `yaml:"demands"`
	Alpha                 float64 `yaml:"alpha"`
	Beta                  float64 `yaml:"beta"`
	ParetoShape           float64 `yaml:"pareto_shape"`
	ParetoScaleMbps       float64 `yaml:"pareto_scale_mbps"`
	ElephantThresholdMbps float64 `yaml:"elephant_threshold_mbps"`
	Seed                  uint64  `yaml:"seed"`
}

// AlgorithmSection parameterizes the routing engines. Preset selects one of
// the documented parameter sets; explicit fields override the preset. NeTh is
// a pointer because zero is a valid threshold (penalize from the first use),
// not a "use the default" marker.
type AlgorithmSection struct {
	Preset string `yaml:"preset"`

	K            int     `yaml:"k"`
	R1           float64 `yaml:"r1"`
	R2           float64 `yaml:"r2"`
	R3           float64 `yaml:"r3"`
	NeTh         *int    `yaml:"ne_th"`
	ECMPMaxPaths int     `yaml:"ecmp_max_paths"`
}

// OutputSection controls where results are written.
type OutputSection struct {
	Dir string `yaml:"dir"`
}

// Default returns the scenario used when no file is supplied: a GlobalStar
// shell over the major-city stations with the reference traffic and
// algorithm defaults.
func Default() *Scenario {
	return &Scenario{
		Name:          "globalstar-default",
		Constellation: ConstellationSection{Preset: "globalstar"},
		Output:        OutputSection{Dir: "results"},
	}
}

// Load decodes a scenario from r on top of the defaults and validates it.
func Load(r io.Reader) (*Scenario, error) {
	s := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && err != io.EOF {
		return nil, fmt.Errorf("scenario: decode failed: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile reads and decodes the scenario at path.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	defer f.Close()
	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Validate resolves every section into its runtime form and aggregates the
// first failure. Configuration failures are fatal: nothing runs against an
// inconsistent scenario.
func (s *Scenario) Validate() error {
	if _, err := s.ConstellationConfig(); err != nil {
		return err
	}
	if _, err := s.AlgorithmConfig(); err != nil {
		return err
	}
	if err := s.TrafficConfig().Validate(); err != nil {
		return err
	}
	return nil
}

// ConstellationConfig resolves the constellation section.
func (s *Scenario) ConstellationConfig() (topology.ConstellationConfig, error) {
	sec := s.Constellation
	if sec.Preset != "" {
		cc, err := topology.ConstellationByName(sec.Preset)
		if err != nil {
			return topology.ConstellationConfig{}, err
		}
		return cc, nil
	}
	if sec.Planes <= 0 || sec.SatsPerPlane <= 0 {
		return topology.ConstellationConfig{}, fmt.Errorf(
			"scenario: custom constellation needs positive planes (%d) and sats_per_plane (%d)",
			sec.Planes, sec.SatsPerPlane)
	}
	if sec.AltitudeKm <= 0 {
		return topology.ConstellationConfig{}, fmt.Errorf(
			"scenario: custom constellation needs positive altitude_km, got %v", sec.AltitudeKm)
	}
	return topology.ConstellationConfig{
		Name:            s.Name,
		NumPlanes:       sec.Planes,
		SatsPerPlane:    sec.SatsPerPlane,
		AltitudeKm:      sec.AltitudeKm,
		InclinationDeg:  sec.InclinationDeg,
		IntraPlaneLinks: true,
		InterPlaneLinks: true,
	}, nil
}

// LinkConfig resolves the links section over the defaults.
func (s *Scenario) LinkConfig() topology.LinkConfig {
	lc := topology.DefaultLinkConfig()
	sec := s.Links
	if sec.SatCapacityMbps > 0 {
		lc.SatCapacityMbps = sec.SatCapacityMbps
	}
	if sec.GroundCapacityMbps > 0 {
		lc.GroundCapacityMbps = sec.GroundCapacityMbps
	}
	if sec.MaxISLRangeKm > 0 {
		lc.MaxISLRangeKm = sec.MaxISLRangeKm
	}
	if sec.MaxGroundRangeKm > 0 {
		lc.MaxGroundRangeKm = sec.MaxGroundRangeKm
	}
	if sec.MinElevationDeg != nil {
		lc.MinElevationDeg = *sec.MinElevationDeg
	}
	if sec.GroundLinksPerStation > 0 {
		lc.GroundLinksPerStation = sec.GroundLinksPerStation
	}
	return lc
}

// Stations resolves the ground-station list, defaulting to the major-city
// set.
func (s *Scenario) Stations() []topology.GroundStation {
	if len(s.GroundStations) == 0 {
		return topology.MajorCityStations()
	}
	out := make([]topology.GroundStation, 0, len(s.GroundStations))
	for _, gs := range s.GroundStations {
		out = append(out, topology.GroundStation{
			Name:   gs.Name,
			LatDeg: gs.LatDeg,
			LonDeg: gs.LonDeg,
		})
	}
	return out
}

// TrafficConfig resolves the traffic section over the defaults.
func (s *Scenario) TrafficConfig() traffic.Config {
	cfg := traffic.DefaultConfig()
	sec := s.Traffic
	if sec.Demands > 0 {
		cfg.NumDemands = sec.Demands
	}
	if sec.Alpha > 0 {
		cfg.Alpha = sec.Alpha
	}
	if sec.Beta > 0 {
		cfg.Beta = sec.Beta
	}
	if sec.ParetoShape > 0 {
		cfg.ParetoShape = sec.ParetoShape
	}
	if sec.ParetoScaleMbps > 0 {
		cfg.ParetoScaleMbps = sec.ParetoScaleMbps
	}
	if sec.ElephantThresholdMbps > 0 {
		cfg.ElephantThresholdMbps = sec.ElephantThresholdMbps
	}
	if sec.Seed != 0 {
		cfg.Seed = sec.Seed
	}
	return cfg
}

// AlgorithmConfig resolves the algorithm section: preset first, explicit
// overrides second, then validation.
func (s *Scenario) AlgorithmConfig() (core.Config, error) {
	cfg := core.DefaultConfig()
	sec := s.Algorithm
	if sec.Preset != "" {
		preset, err := AlgorithmPreset(sec.Preset)
		if err != nil {
			return core.Config{}, err
		}
		cfg = preset
	}
	if sec.K > 0 {
		cfg.K = sec.K
	}
	if sec.R1 > 0 {
		cfg.R1 = sec.R1
	}
	if sec.R2 > 0 {
		cfg.R2 = sec.R2
	}
	if sec.R3 > 0 {
		cfg.R3 = sec.R3
	}
	if sec.NeTh != nil {
		cfg.NeTh = *sec.NeTh
	}
	if sec.ECMPMaxPaths > 0 {
		cfg.ECMPMaxPaths = sec.ECMPMaxPaths
	}
	if err := cfg.Validate(); err != nil {
		return core.Config{}, err
	}
	return cfg, nil
}

// AlgorithmPreset returns a documented LDMR parameter set by name.
func AlgorithmPreset(name string) (core.Config, error) {
	cfg := core.DefaultConfig()
	switch name {
	case "testing":
		cfg.K, cfg.R1, cfg.R2, cfg.R3, cfg.NeTh = 2, 1, 5, 20, 1
	case "light_load":
		cfg.K, cfg.R1, cfg.R2, cfg.R3, cfg.NeTh = 2, 1, 10, 30, 2
	case "heavy_load":
		cfg.K, cfg.R1, cfg.R2, cfg.R3, cfg.NeTh = 2, 1, 10, 50, 3
	case "high_reliability":
		cfg.K, cfg.R1, cfg.R2, cfg.R3, cfg.NeTh = 3, 1, 15, 60, 2
	default:
		return core.Config{}, fmt.Errorf("unknown algorithm preset %q", name)
	}
	return cfg, nil
}
