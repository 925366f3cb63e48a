package core

import "fmt"

// Algorithm selects one of the closed set of routing engines.
type Algorithm string

const (
	AlgorithmLDMR Algorithm = "ldmr"
	AlgorithmSPF  Algorithm = "spf"
	AlgorithmECMP Algorithm = "ecmp"
)

// Algorithms lists every supported algorithm kind.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmLDMR, AlgorithmSPF, AlgorithmECMP}
}

// Config holds the tunable parameters shared by the routing engines.
//
// K is the number of link-disjoint paths LDMR searches for per demand.
// R1 ≤ R2 ≤ R3 bound the adaptive search weight of a penalized link, and
// NeTh is the usage count at which the penalty kicks in. ECMPMaxPaths caps
// equal-cost path enumeration in the ECMP baseline.
type Config struct {
	K    int
	R1   float64
	R2   float64
	R3   float64
	NeTh int

	ECMPMaxPaths int

	// Scaling overrides the weight scaling policy; nil selects
	// DefaultScaling.
	Scaling ScalingFunc
}

// DefaultConfig returns the parameter set the reference evaluation found to
// perform best under general load (K=2, weights bounded by [1, 50],
// penalty threshold 2).
func DefaultConfig() Config {
	return Config{
		K:            2,
		R1:           1,
		R2:           10,
		R3:           50,
		NeTh:         2,
		ECMPMaxPaths: 4,
	}
}

// Validate checks parameter consistency. A failure here is fatal for the
// whole run; no demand is processed against an inconsistent configuration.
func (c Config) Validate() error {
	if c.K <= 0 {
		return fmt.Errorf("%w: K must be positive, got %d", ErrInvalidConfig, c.K)
	}
	if c.R1 <= 0 {
		return fmt.Errorf("%w: r1 must be positive, got %v", ErrInvalidConfig, c.R1)
	}
	if c.R1 > c.R2 || c.R2 > c.R3 {
		return fmt.Errorf("%w: require r1 <= r2 <= r3, got r1=%v r2=%v r3=%v",
			ErrInvalidConfig, c.R1, c.R2, c.R3)
	}
	if c.NeTh < 0 {
		return fmt.Errorf("%w: Ne_th must be non-negative, got %d", ErrInvalidConfig, c.NeTh)
	}
	if c.ECMPMaxPaths < 0 {
		return fmt.Errorf("%w: ECMP max paths must be non-negative, got %d",
			ErrInvalidConfig, c.ECMPMaxPaths)
	}
	return nil
}
