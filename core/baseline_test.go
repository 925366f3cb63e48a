package core

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/orbitalmesh/ldmr-sim/model"
)

// diamondGraph has two equal-cost routes A-B-D and A-C-D.
func diamondGraph(t *testing.T) *model.Graph {
	t.Helper()
	return buildGraph(t,
		[]string{"A", "B", "C", "D"},
		[]struct {
			a, b  string
			delay float64
		}{
			{"A", "B", 1}, {"A", "C", 1}, {"B", "D", 1}, {"C", "D", 1},
		})
}

func TestSPF_SinglePathPerDemand(t *testing.T) {
	g := ringGraph(t)
	engine, err := NewSPFEngine(g)
	if err != nil {
		t.Fatalf("NewSPFEngine: %v", err)
	}

	results, err := engine.Run(context.Background(), []model.Demand{
		{Source: "A", Destination: "C", VolumeMbps: 10},
		{Source: "A", Destination: "A", VolumeMbps: 5},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if results[0].Outcome != model.OutcomeSuccess || len(results[0].Paths) != 1 {
		t.Errorf("valid demand: outcome %s with %d paths, want success with 1",
			results[0].Outcome, len(results[0].Paths))
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, results[0].Paths[0].Nodes); diff != "" {
		t.Errorf("SPF path mismatch (-want +got):\n%s", diff)
	}
	if results[1].Outcome != model.OutcomeInvalid {
		t.Errorf("self demand: outcome %s, want invalid", results[1].Outcome)
	}
}

func TestECMP_EnumeratesEqualCostPaths(t *testing.T) {
	g := diamondGraph(t)
	engine, err := NewECMPEngine(g, 0)
	if err != nil {
		t.Fatalf("NewECMPEngine: %v", err)
	}

	results, err := engine.Run(context.Background(), []model.Demand{
		{Source: "A", Destination: "D", VolumeMbps: 10},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	res := results[0]
	if res.Outcome != model.OutcomeSuccess {
		t.Fatalf("Outcome = %s, want success", res.Outcome)
	}
	if len(res.Paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(res.Paths))
	}
	// Neighbor expansion is ordered, so the route through B comes first.
	if diff := cmp.Diff([]string{"A", "B", "D"}, res.Paths[0].Nodes); diff != "" {
		t.Errorf("first path mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "C", "D"}, res.Paths[1].Nodes); diff != "" {
		t.Errorf("second path mismatch (-want +got):\n%s", diff)
	}
	if res.Paths[0].Role != model.RolePrimary || res.Paths[1].Role != model.BackupRole(1) {
		t.Errorf("roles = [%s %s], want [primary %s]",
			res.Paths[0].Role, res.Paths[1].Role, model.BackupRole(1))
	}
}

func TestECMP_SkipsLongerPaths(t *testing.T) {
	g := ringGraph(t)
	engine, err := NewECMPEngine(g, 0)
	if err != nil {
		t.Fatalf("NewECMPEngine: %v", err)
	}

	// A-B and A-D-C-B both reach B, but only the direct hop has minimum cost.
	results, err := engine.Run(context.Background(), []model.Demand{
		{Source: "A", Destination: "B", VolumeMbps: 10},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results[0].Paths) != 1 {
		t.Errorf("got %d paths, want only the direct hop", len(results[0].Paths))
	}
}

func TestECMP_MaxPathsCap(t *testing.T) {
	g := diamondGraph(t)
	engine, err := NewECMPEngine(g, 1)
	if err != nil {
		t.Fatalf("NewECMPEngine: %v", err)
	}

	results, err := engine.Run(context.Background(), []model.Demand{
		{Source: "A", Destination: "D", VolumeMbps: 10},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results[0].Paths) != 1 {
		t.Errorf("got %d paths, want cap of 1", len(results[0].Paths))
	}
}

func TestECMP_UnreachableAndInvalid(t *testing.T) {
	g := buildGraph(t,
		[]string{"A", "B", "C"},
		[]struct {
			a, b  string
			delay float64
		}{
			{"A", "B", 1},
		})

	engine, err := NewECMPEngine(g, 4)
	if err != nil {
		t.Fatalf("NewECMPEngine: %v", err)
	}
	results, err := engine.Run(context.Background(), []model.Demand{
		{Source: "A", Destination: "C", VolumeMbps: 10},
		{Source: "A", Destination: "A", VolumeMbps: 5},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Outcome != model.OutcomeUnreachable {
		t.Errorf("disconnected demand: outcome %s, want unreachable", results[0].Outcome)
	}
	if results[1].Outcome != model.OutcomeInvalid {
		t.Errorf("self demand: outcome %s, want invalid", results[1].Outcome)
	}
}

func TestECMP_RejectsNegativeCap(t *testing.T) {
	if _, err := NewECMPEngine(ringGraph(t), -1); err == nil {
		t.Errorf("expected error for negative max paths")
	}
}
