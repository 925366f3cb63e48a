package core

import (
	"context"
	"fmt"
	"time"

	"github.com/orbitalmesh/ldmr-sim/internal/logging"
	"github.com/orbitalmesh/ldmr-sim/model"
)

// RunResult bundles everything one simulation run produces.
type RunResult struct {
	Algorithm Algorithm
	Results   []model.DemandResult
	Stats     Stats
	Elapsed   time.Duration
}

// Run executes one algorithm over a graph snapshot and demand list, then
// aggregates statistics. The algorithm kind is a closed set; there is no
// plugin-style extension point.
//
// Each call owns its engine and state, so callers may run several algorithms
// (or seeds) concurrently. A fully built graph snapshot is read-only during
// runs and safe to share across calls.
func Run(ctx context.Context, algo Algorithm, g *model.Graph, demands []model.Demand, cfg Config, log logging.Logger) (*RunResult, error) {
	if log == nil {
		log = logging.Noop()
	}
	start := time.Now()

	var (
		results []model.DemandResult
		err     error
	)
	switch algo {
	case AlgorithmLDMR:
		var engine *LDMREngine
		engine, err = NewLDMREngine(g, cfg)
		if err == nil {
			engine.Log = log
			results, err = engine.Run(ctx, demands)
		}
	case AlgorithmSPF:
		var engine *SPFEngine
		engine, err = NewSPFEngine(g)
		if err == nil {
			engine.Log = log
			results, err = engine.Run(ctx, demands)
		}
	case AlgorithmECMP:
		var engine *ECMPEngine
		engine, err = NewECMPEngine(g, cfg.ECMPMaxPaths)
		if err == nil {
			engine.Log = log
			results, err = engine.Run(ctx, demands)
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
	}
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", algo, err)
	}

	res := &RunResult{
		Algorithm: algo,
		Results:   results,
		Stats:     Aggregate(results),
		Elapsed:   time.Since(start),
	}
	log.Info(ctx, "run finished",
		logging.String("algorithm", string(algo)),
		logging.Int("demands", res.Stats.Demands),
		logging.String("elapsed", res.Elapsed.String()),
	)
	return res, nil
}
