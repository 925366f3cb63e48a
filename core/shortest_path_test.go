package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/orbitalmesh/ldmr-sim/model"
)

// buildGraph constructs a test graph from node IDs and weighted links.
func buildGraph(t *testing.T, nodes []string, edges []struct {
	a, b  string
	delay float64
}) *model.Graph {
	t.Helper()
	g := model.NewGraph()
	for _, id := range nodes {
		if err := g.AddNode(model.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e.a, e.b, e.delay, 100); err != nil {
			t.Fatalf("AddEdge(%s,%s): %v", e.a, e.b, err)
		}
	}
	return g
}

// ringGraph is a four-node cycle A-B-C-D-A with unit delays.
func ringGraph(t *testing.T) *model.Graph {
	t.Helper()
	return buildGraph(t,
		[]string{"A", "B", "C", "D"},
		[]struct {
			a, b  string
			delay float64
		}{
			{"A", "B", 1}, {"B", "C", 1}, {"C", "D", 1}, {"D", "A", 1},
		})
}

func TestShortestPath_PicksMinimumDelay(t *testing.T) {
	g := buildGraph(t,
		[]string{"A", "B", "C"},
		[]struct {
			a, b  string
			delay float64
		}{
			{"A", "B", 1}, {"B", "C", 1}, {"A", "C", 5},
		})

	p, err := ShortestPath(g, "A", "C", BaseDelayWeight, nil)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	want := []string{"A", "B", "C"}
	if diff := cmp.Diff(want, p.Nodes); diff != "" {
		t.Errorf("path nodes mismatch (-want +got):\n%s", diff)
	}
	if p.DelayMs != 2 {
		t.Errorf("DelayMs = %v, want 2", p.DelayMs)
	}
}

func TestShortestPath_TieBreaksOnNodeID(t *testing.T) {
	// A-B-C and A-D-C both cost 2; the search must settle on the route
	// through B, the lexicographically smaller frontier node.
	g := ringGraph(t)

	p, err := ShortestPath(g, "A", "C", BaseDelayWeight, nil)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	want := []string{"A", "B", "C"}
	if diff := cmp.Diff(want, p.Nodes); diff != "" {
		t.Errorf("tie-break path mismatch (-want +got):\n%s", diff)
	}
}

func TestShortestPath_Deterministic(t *testing.T) {
	g := ringGraph(t)

	first, err := ShortestPath(g, "A", "C", BaseDelayWeight, nil)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := ShortestPath(g, "A", "C", BaseDelayWeight, nil)
		if err != nil {
			t.Fatalf("ShortestPath (run %d): %v", i, err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d diverged (-first +again):\n%s", i, diff)
		}
	}
}

func TestShortestPath_HonorsExclusions(t *testing.T) {
	g := ringGraph(t)

	excluded := NewEdgeSet()
	excluded.Add(model.MakeEdgeID("A", "B"))

	p, err := ShortestPath(g, "A", "C", BaseDelayWeight, excluded)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	want := []string{"A", "D", "C"}
	if diff := cmp.Diff(want, p.Nodes); diff != "" {
		t.Errorf("excluded-edge path mismatch (-want +got):\n%s", diff)
	}
}

func TestShortestPath_NoPath(t *testing.T) {
	g := buildGraph(t,
		[]string{"A", "B", "C"},
		[]struct {
			a, b  string
			delay float64
		}{
			{"A", "B", 1},
		})

	_, err := ShortestPath(g, "A", "C", BaseDelayWeight, nil)
	if !errors.Is(err, ErrNoPath) {
		t.Errorf("expected ErrNoPath, got %v", err)
	}
}

func TestShortestPath_ExclusionDisconnects(t *testing.T) {
	g := buildGraph(t,
		[]string{"A", "B", "C"},
		[]struct {
			a, b  string
			delay float64
		}{
			{"A", "B", 1}, {"B", "C", 1},
		})

	excluded := NewEdgeSet()
	excluded.Add(model.MakeEdgeID("A", "B"))

	_, err := ShortestPath(g, "A", "C", BaseDelayWeight, excluded)
	if !errors.Is(err, ErrNoPath) {
		t.Errorf("expected ErrNoPath under exclusion, got %v", err)
	}
}

func TestShortestPath_UnknownNodes(t *testing.T) {
	g := ringGraph(t)
	if _, err := ShortestPath(g, "X", "C", BaseDelayWeight, nil); err == nil {
		t.Errorf("expected error for unknown source")
	}
	if _, err := ShortestPath(g, "A", "X", BaseDelayWeight, nil); err == nil {
		t.Errorf("expected error for unknown destination")
	}
}

func TestShortestPath_ZeroWeightFloor(t *testing.T) {
	// Zero-delay links must not break the label-setting search.
	g := buildGraph(t,
		[]string{"A", "B", "C"},
		[]struct {
			a, b  string
			delay float64
		}{
			{"A", "B", 0}, {"B", "C", 0},
		})

	p, err := ShortestPath(g, "A", "C", BaseDelayWeight, nil)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if p.Hops() != 2 {
		t.Errorf("Hops = %d, want 2", p.Hops())
	}
	if p.DelayMs != 0 {
		t.Errorf("DelayMs = %v, want 0 (base delays, not search weights)", p.DelayMs)
	}
}

func TestEdgeSet_AddPath(t *testing.T) {
	s := NewEdgeSet()
	p := model.Path{Edges: []model.EdgeID{
		model.MakeEdgeID("A", "B"),
		model.MakeEdgeID("B", "C"),
	}}
	s.AddPath(p)

	if !s.Has(model.MakeEdgeID("B", "A")) {
		t.Errorf("canonical edge ID should match regardless of direction")
	}
	if s.Has(model.MakeEdgeID("C", "D")) {
		t.Errorf("unexpected membership for absent edge")
	}
}
