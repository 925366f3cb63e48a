package model

import (
	"fmt"
	"sort"
	"sync"
)

// Graph is a topology snapshot: nodes plus undirected weighted links.
// It is built once and treated as read-only afterwards. All iteration orders
// (node IDs, edges, adjacency) are deterministic so that repeated runs over
// the same snapshot explore the graph identically. A fully built snapshot is
// safe to share across concurrent runs: the lazy adjacency sort is guarded,
// and nothing else mutates after construction.
type Graph struct {
	nodes map[string]*Node
	edges map[EdgeID]*Edge
	adj   map[string][]*Edge

	mu     sync.Mutex
	sorted bool
}

// NewGraph constructs an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[EdgeID]*Edge),
		adj:   make(map[string][]*Edge),
	}
}

// AddNode adds a node. It returns an error if the ID is empty or taken.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return fmt.Errorf("node ID must not be empty")
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("node %q already exists", n.ID)
	}
	stored := n
	g.nodes[n.ID] = &stored
	return nil
}

// AddEdge adds an undirected link between a and b. Both endpoints must exist
// and the link must not duplicate an existing one.
func (g *Graph) AddEdge(a, b string, delayMs, capacityMbps float64) error {
	if a == b {
		return fmt.Errorf("self-loop on node %q is not allowed", a)
	}
	if _, ok := g.nodes[a]; !ok {
		return fmt.Errorf("endpoint %q does not exist", a)
	}
	if _, ok := g.nodes[b]; !ok {
		return fmt.Errorf("endpoint %q does not exist", b)
	}
	id := MakeEdgeID(a, b)
	if _, exists := g.edges[id]; exists {
		return fmt.Errorf("edge %s already exists", id)
	}
	if delayMs < 0 {
		return fmt.Errorf("edge %s: delay must be non-negative, got %v", id, delayMs)
	}
	e := &Edge{ID: id, DelayMs: delayMs, CapacityMbps: capacityMbps}
	g.edges[id] = e
	g.adj[a] = append(g.adj[a], e)
	g.adj[b] = append(g.adj[b], e)
	g.mu.Lock()
	g.sorted = false
	g.mu.Unlock()
	return nil
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given ID, or nil if not found.
func (g *Graph) Node(id string) *Node { return g.nodes[id] }

// Edge returns the link between a and b regardless of argument order, or nil.
func (g *Graph) Edge(a, b string) *Edge { return g.edges[MakeEdgeID(a, b)] }

// EdgeByID returns the link with the given canonical ID, or nil.
func (g *Graph) EdgeByID(id EdgeID) *Edge { return g.edges[id] }

// Neighbors returns the links incident to node id, ordered by the far
// endpoint's ID so traversals expand neighbors deterministically.
func (g *Graph) Neighbors(id string) []*Edge {
	g.ensureSorted()
	return g.adj[id]
}

// NodeIDs returns all node IDs in ascending order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Nodes returns all nodes ordered by ID.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range g.NodeIDs() {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all links ordered by canonical ID.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID.A != out[j].ID.A {
			return out[i].ID.A < out[j].ID.A
		}
		return out[i].ID.B < out[j].ID.B
	})
	return out
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the link count.
func (g *Graph) NumEdges() int { return len(g.edges) }

// ensureSorted sorts adjacency lists on first use. The lock makes the first
// Neighbors call safe even when several runs share one snapshot.
func (g *Graph) ensureSorted() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sorted {
		return
	}
	for id, edges := range g.adj {
		nodeID := id
		sort.Slice(edges, func(i, j int) bool {
			return edges[i].ID.Other(nodeID) < edges[j].ID.Other(nodeID)
		})
	}
	g.sorted = true
}
