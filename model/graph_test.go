package model

import (
	"sync"
	"testing"
)

func TestMakeEdgeID_Canonical(t *testing.T) {
	if MakeEdgeID("B", "A") != MakeEdgeID("A", "B") {
		t.Errorf("edge ID should not depend on argument order")
	}
	id := MakeEdgeID("S_1_0", "GS_0_London")
	if id.A != "GS_0_London" || id.B != "S_1_0" {
		t.Errorf("expected lexicographic canonical form, got %v", id)
	}
}

func TestEdgeID_Other(t *testing.T) {
	id := MakeEdgeID("A", "B")
	if got := id.Other("A"); got != "B" {
		t.Errorf("Other(A) = %q, want B", got)
	}
	if got := id.Other("B"); got != "A" {
		t.Errorf("Other(B) = %q, want A", got)
	}
	if got := id.Other("C"); got != "" {
		t.Errorf("Other(C) = %q, want empty", got)
	}
}

func TestAddNode_Validation(t *testing.T) {
	g := NewGraph()
	if err := g.AddNode(Node{ID: ""}); err == nil {
		t.Errorf("expected error for empty node ID")
	}
	if err := g.AddNode(Node{ID: "A"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(Node{ID: "A"}); err == nil {
		t.Errorf("expected error for duplicate node ID")
	}
}

func TestAddEdge_Validation(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"A", "B"} {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}

	if err := g.AddEdge("A", "A", 1, 100); err == nil {
		t.Errorf("expected error for self-loop")
	}
	if err := g.AddEdge("A", "C", 1, 100); err == nil {
		t.Errorf("expected error for missing endpoint")
	}
	if err := g.AddEdge("A", "B", -1, 100); err == nil {
		t.Errorf("expected error for negative delay")
	}
	if err := g.AddEdge("A", "B", 1, 100); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge("B", "A", 1, 100); err == nil {
		t.Errorf("expected error for duplicate edge regardless of direction")
	}
}

func TestEdge_OrderIndependentLookup(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"A", "B"} {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	if err := g.AddEdge("B", "A", 2.5, 100); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	e := g.Edge("A", "B")
	if e == nil {
		t.Fatalf("Edge(A,B) not found")
	}
	if g.Edge("B", "A") != e {
		t.Errorf("Edge lookup should be direction-independent")
	}
	if e.DelayMs != 2.5 {
		t.Errorf("DelayMs = %v, want 2.5", e.DelayMs)
	}
}

func TestNeighbors_SortedByFarEndpoint(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"M", "A", "Z", "B"} {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	// Insert out of order on purpose.
	for _, pair := range [][2]string{{"M", "Z"}, {"M", "A"}, {"M", "B"}} {
		if err := g.AddEdge(pair[0], pair[1], 1, 100); err != nil {
			t.Fatalf("AddEdge(%v): %v", pair, err)
		}
	}

	var got []string
	for _, e := range g.Neighbors("M") {
		got = append(got, e.ID.Other("M"))
	}
	want := []string{"A", "B", "Z"}
	if len(got) != len(want) {
		t.Fatalf("Neighbors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Neighbors[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNeighbors_ConcurrentFirstUse(t *testing.T) {
	// Parallel runs share one snapshot, and the first Neighbors calls may
	// land concurrently before any run has triggered the adjacency sort.
	g := NewGraph()
	for _, id := range []string{"M", "A", "Z", "B"} {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, pair := range [][2]string{{"M", "Z"}, {"M", "A"}, {"M", "B"}} {
		if err := g.AddEdge(pair[0], pair[1], 1, 100); err != nil {
			t.Fatalf("AddEdge(%v): %v", pair, err)
		}
	}

	want := []string{"A", "B", "Z"}
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				edges := g.Neighbors("M")
				for k, e := range edges {
					if e.ID.Other("M") != want[k] {
						t.Errorf("neighbor %d = %q, want %q", k, e.ID.Other("M"), want[k])
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

func TestNodesAndEdges_DeterministicOrder(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"C", "A", "B"} {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	if err := g.AddEdge("C", "A", 1, 100); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge("B", "A", 1, 100); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	ids := g.NodeIDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("NodeIDs not ascending: %v", ids)
		}
	}
	edges := g.Edges()
	if len(edges) != 2 {
		t.Fatalf("NumEdges = %d, want 2", len(edges))
	}
	if edges[0].ID.String() != "A~B" || edges[1].ID.String() != "A~C" {
		t.Errorf("edge order = [%s %s], want [A~B A~C]", edges[0].ID, edges[1].ID)
	}
}
