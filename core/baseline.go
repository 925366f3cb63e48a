package core

import (
	"context"
	"fmt"
	"math"

	"github.com/orbitalmesh/ldmr-sim/internal/logging"
	"github.com/orbitalmesh/ldmr-sim/model"
)

// SPFEngine is the shortest-path-first baseline: one path per demand over
// static base weights, no adaptive state, no disjointness requirement.
type SPFEngine struct {
	graph *model.Graph

	Log logging.Logger
}

// NewSPFEngine builds the SPF baseline over the given snapshot.
func NewSPFEngine(g *model.Graph) (*SPFEngine, error) {
	if g == nil {
		return nil, fmt.Errorf("graph must not be nil")
	}
	return &SPFEngine{graph: g, Log: logging.Noop()}, nil
}

// Run computes one base-weight shortest path per demand. Demands are
// processed in the same descending-volume order as LDMR so result rows line
// up across algorithms; with no shared state the order has no effect on the
// paths themselves.
func (e *SPFEngine) Run(ctx context.Context, demands []model.Demand) ([]model.DemandResult, error) {
	ordered := SortDemands(demands)
	results := make([]model.DemandResult, 0, len(ordered))
	for _, d := range ordered {
		results = append(results, e.processDemand(d))
	}
	return results, nil
}

func (e *SPFEngine) processDemand(d model.Demand) model.DemandResult {
	if err := ValidateDemand(e.graph, d); err != nil {
		return model.DemandResult{Demand: d, Outcome: model.OutcomeInvalid}
	}
	p, err := ShortestPath(e.graph, d.Source, d.Destination, BaseDelayWeight, nil)
	if err != nil {
		return model.DemandResult{Demand: d, Outcome: model.OutcomeUnreachable}
	}
	return model.DemandResult{
		Demand:  d,
		Paths:   []model.PathResult{{Path: p, Role: model.RolePrimary}},
		Outcome: model.OutcomeSuccess,
	}
}

// ECMPEngine is the equal-cost multipath baseline: for each demand it finds
// the minimum weighted distance and then enumerates every path achieving it,
// up to MaxPaths. The enumerated paths need not be link-disjoint, and the
// engine never mutates shared state.
type ECMPEngine struct {
	graph    *model.Graph
	maxPaths int

	Log logging.Logger
}

// NewECMPEngine builds the ECMP baseline. maxPaths caps enumeration per
// demand; 0 means unbounded.
func NewECMPEngine(g *model.Graph, maxPaths int) (*ECMPEngine, error) {
	if g == nil {
		return nil, fmt.Errorf("graph must not be nil")
	}
	if maxPaths < 0 {
		return nil, fmt.Errorf("%w: ECMP max paths must be non-negative, got %d",
			ErrInvalidConfig, maxPaths)
	}
	return &ECMPEngine{graph: g, maxPaths: maxPaths, Log: logging.Noop()}, nil
}

// Run enumerates equal-cost shortest paths per demand.
func (e *ECMPEngine) Run(ctx context.Context, demands []model.Demand) ([]model.DemandResult, error) {
	ordered := SortDemands(demands)
	results := make([]model.DemandResult, 0, len(ordered))
	for _, d := range ordered {
		results = append(results, e.processDemand(d))
	}
	return results, nil
}

// distEpsilon absorbs float accumulation error when testing whether an edge
// lies on some shortest path.
const distEpsilon = 1e-9

func (e *ECMPEngine) processDemand(d model.Demand) model.DemandResult {
	if err := ValidateDemand(e.graph, d); err != nil {
		return model.DemandResult{Demand: d, Outcome: model.OutcomeInvalid}
	}

	distSrc := shortestDistances(e.graph, d.Source, BaseDelayWeight, nil)
	best, reachable := distSrc[d.Destination]
	if !reachable {
		return model.DemandResult{Demand: d, Outcome: model.OutcomeUnreachable}
	}
	// The graph is undirected, so distances from the destination double as
	// distances to it.
	distDst := shortestDistances(e.graph, d.Destination, BaseDelayWeight, nil)

	paths := e.enumerate(d, distDst, best)
	results := make([]model.PathResult, 0, len(paths))
	for i, p := range paths {
		role := model.RolePrimary
		if i > 0 {
			role = model.BackupRole(i)
		}
		results = append(results, model.PathResult{Path: p, Role: role})
	}
	return model.DemandResult{Demand: d, Paths: results, Outcome: model.OutcomeSuccess}
}

// enumerate backtracks over the graph restricted to edges lying on some
// shortest path: edge (u,v) qualifies when dist(src,u) + w + dist(v,dst)
// equals the best total. Neighbor order is deterministic, so the enumeration
// order is too.
func (e *ECMPEngine) enumerate(d model.Demand, distDst map[string]float64, best float64) []model.Path {
	var (
		found   []model.Path
		nodes   = []string{d.Source}
		edges   []model.EdgeID
		onStack = map[string]bool{d.Source: true}
	)

	var walk func(u string, acc float64)
	walk = func(u string, acc float64) {
		if e.maxPaths > 0 && len(found) >= e.maxPaths {
			return
		}
		if u == d.Destination {
			p := model.Path{
				Nodes: append([]string(nil), nodes...),
				Edges: append([]model.EdgeID(nil), edges...),
			}
			for _, id := range p.Edges {
				p.DelayMs += e.graph.EdgeByID(id).DelayMs
			}
			found = append(found, p)
			return
		}
		for _, edge := range e.graph.Neighbors(u) {
			v := edge.ID.Other(u)
			if onStack[v] {
				continue
			}
			w := edge.BaseWeight()
			if w < minEdgeWeight {
				w = minEdgeWeight
			}
			tail, ok := distDst[v]
			if !ok {
				continue
			}
			if math.Abs(acc+w+tail-best) > distEpsilon {
				continue
			}
			nodes = append(nodes, v)
			edges = append(edges, edge.ID)
			onStack[v] = true
			walk(v, acc+w)
			onStack[v] = false
			nodes = nodes[:len(nodes)-1]
			edges = edges[:len(edges)-1]
		}
	}
	walk(d.Source, 0)
	return found
}
