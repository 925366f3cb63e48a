package core

import "github.com/orbitalmesh/ldmr-sim/model"

// ScalingFunc maps a penalized edge's usage count to the multiplier applied
// to its base weight. Implementations must be deterministic and monotonically
// non-decreasing in usage; the caller clamps the resulting weight into
// [R1, R3].
type ScalingFunc func(cfg Config, usage int) float64

// DefaultScaling ramps the multiplier linearly with the usage excess over
// the threshold, starting at R2. The reference algorithm draws a random
// weight from [r2, r3] once a link crosses Ne_th; this policy keeps the same
// band but replaces the draw with a deterministic ramp so identical runs
// produce identical paths.
func DefaultScaling(cfg Config, usage int) float64 {
	excess := usage - cfg.NeTh
	if excess < 0 {
		excess = 0
	}
	return cfg.R2 * float64(excess+1)
}

// UsageState is the only cross-demand memory in a run: per-edge counters of
// committed path traversals, plus the weight view derived from them. One
// instance belongs to exactly one run, which is what makes independent runs
// safe to execute in parallel.
type UsageState struct {
	cfg    Config
	scale  ScalingFunc
	counts map[model.EdgeID]int
}

// NewUsageState constructs a zeroed state for one run.
func NewUsageState(cfg Config) *UsageState {
	scale := cfg.Scaling
	if scale == nil {
		scale = DefaultScaling
	}
	return &UsageState{
		cfg:    cfg,
		scale:  scale,
		counts: make(map[model.EdgeID]int),
	}
}

// Usage returns how many committed paths traverse the edge so far.
func (s *UsageState) Usage(id model.EdgeID) int { return s.counts[id] }

// Record increments the usage counter of every edge on the path. Called once
// per committed path, after the owning demand's search has finished.
func (s *UsageState) Record(p model.Path) {
	for _, id := range p.Edges {
		s.counts[id]++
	}
}

// Reset zeroes all counters. Runs call this once before processing demands.
func (s *UsageState) Reset() {
	s.counts = make(map[model.EdgeID]int)
}

// Weight computes the current search weight of an edge: the base weight
// while its usage stays below Ne_th, otherwise the scaled base weight
// clamped into [R1, R3]. The value is always derived on the fly from the
// counter; there is no separately mutable weight.
func (s *UsageState) Weight(e *model.Edge) float64 {
	usage := s.counts[e.ID]
	if usage < s.cfg.NeTh {
		return e.BaseWeight()
	}
	w := e.BaseWeight() * s.scale(s.cfg, usage)
	if w < s.cfg.R1 {
		w = s.cfg.R1
	}
	if w > s.cfg.R3 {
		w = s.cfg.R3
	}
	return w
}

// Counts returns a copy of the usage counters, for auditing and tests.
func (s *UsageState) Counts() map[model.EdgeID]int {
	out := make(map[model.EdgeID]int, len(s.counts))
	for id, n := range s.counts {
		out[id] = n
	}
	return out
}
