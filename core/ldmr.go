package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/orbitalmesh/ldmr-sim/internal/logging"
	"github.com/orbitalmesh/ldmr-sim/model"
)

// LDMREngine computes up to K mutually link-disjoint paths per demand,
// processing demands in descending-volume order while the usage-derived
// weight view biases later searches away from links that earlier demands
// already committed to.
//
// Demand processing is strictly sequential: weights read by a search depend
// on every commit that preceded it, so the per-run ordering is part of the
// observable contract.
type LDMREngine struct {
	graph *model.Graph
	cfg   Config
	state *UsageState

	// Log receives per-demand progress; defaults to a no-op logger.
	Log logging.Logger
}

// NewLDMREngine validates cfg and builds an engine with a fresh usage state
// owned by this engine alone.
func NewLDMREngine(g *model.Graph, cfg Config) (*LDMREngine, error) {
	if g == nil {
		return nil, fmt.Errorf("graph must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &LDMREngine{
		graph: g,
		cfg:   cfg,
		state: NewUsageState(cfg),
		Log:   logging.Noop(),
	}, nil
}

// State exposes the engine's usage state for auditing and tests.
func (e *LDMREngine) State() *UsageState { return e.state }

// Run processes all demands and returns one result per demand, in processing
// order. It aborts with ErrDisjointnessViolation if a committed path set
// fails verification; that indicates an engine defect and is never a
// legitimate outcome.
func (e *LDMREngine) Run(ctx context.Context, demands []model.Demand) ([]model.DemandResult, error) {
	e.state.Reset()
	ordered := SortDemands(demands)
	results := make([]model.DemandResult, 0, len(ordered))

	for _, d := range ordered {
		res := e.processDemand(d)

		if len(res.Paths) > 0 {
			for _, p := range res.Paths {
				e.state.Record(p.Path)
			}
			if ok, conflict := VerifyDisjoint(res); !ok {
				return nil, fmt.Errorf(
					"demand %s->%s: edge %s shared by paths %d and %d: %w",
					d.Source, d.Destination, conflict.Edge,
					conflict.FirstPath, conflict.SecondPath,
					ErrDisjointnessViolation)
			}
		}

		e.Log.Debug(ctx, "demand processed",
			logging.String("source", d.Source),
			logging.String("destination", d.Destination),
			logging.String("outcome", string(res.Outcome)),
			logging.Int("paths", len(res.Paths)),
		)
		results = append(results, res)
	}
	return results, nil
}

// processDemand runs the per-demand search: primary path on the current
// weight view, then up to K-1 backups, each excluding every edge the demand
// has already accepted. The loop stops at the first failed backup search;
// exclusions are never relaxed.
func (e *LDMREngine) processDemand(d model.Demand) model.DemandResult {
	if err := ValidateDemand(e.graph, d); err != nil {
		return model.DemandResult{Demand: d, Outcome: model.OutcomeInvalid}
	}

	primary, err := ShortestPath(e.graph, d.Source, d.Destination, e.state.Weight, nil)
	if err != nil {
		return model.DemandResult{Demand: d, Outcome: model.OutcomeUnreachable}
	}

	paths := []model.PathResult{{Path: primary, Role: model.RolePrimary}}
	excluded := NewEdgeSet()
	excluded.AddPath(primary)

	for k := 2; k <= e.cfg.K; k++ {
		backup, err := ShortestPath(e.graph, d.Source, d.Destination, e.state.Weight, excluded)
		if err != nil {
			break
		}
		paths = append(paths, model.PathResult{Path: backup, Role: model.BackupRole(k - 1)})
		excluded.AddPath(backup)
	}

	outcome := model.OutcomeSuccess
	if len(paths) < e.cfg.K {
		outcome = model.OutcomePartial
	}
	return model.DemandResult{Demand: d, Paths: paths, Outcome: outcome}
}

// ValidateDemand rejects self-referential demands and demands naming unknown
// nodes, before any search runs.
func ValidateDemand(g *model.Graph, d model.Demand) error {
	if d.Source == d.Destination {
		return fmt.Errorf("%w: source equals destination (%q)", ErrInvalidDemand, d.Source)
	}
	if !g.HasNode(d.Source) {
		return fmt.Errorf("%w: unknown source node %q", ErrInvalidDemand, d.Source)
	}
	if !g.HasNode(d.Destination) {
		return fmt.Errorf("%w: unknown destination node %q", ErrInvalidDemand, d.Destination)
	}
	return nil
}

// SortDemands returns a copy of demands in processing order: descending
// volume, ties broken by the position in the supplied list. The copy's Order
// fields record those positions. The engine never alters this order.
func SortDemands(demands []model.Demand) []model.Demand {
	out := make([]model.Demand, len(demands))
	copy(out, demands)
	for i := range out {
		out[i].Order = i
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].VolumeMbps > out[j].VolumeMbps
	})
	return out
}
