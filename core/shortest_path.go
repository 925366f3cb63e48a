package core

import (
	"container/heap"
	"fmt"

	"github.com/orbitalmesh/ldmr-sim/model"
)

// WeightFunc supplies the search weight for an edge. Implementations must
// return values derived from positive delay/penalty terms; the search clamps
// anything smaller to minEdgeWeight so label-setting stays valid.
type WeightFunc func(e *model.Edge) float64

// BaseDelayWeight weights edges by their static propagation delay.
func BaseDelayWeight(e *model.Edge) float64 { return e.BaseWeight() }

// minEdgeWeight is the positive floor applied to every edge weight.
const minEdgeWeight = 1e-9

// EdgeSet is a set of canonical edge IDs, used to exclude links from a
// search.
type EdgeSet map[model.EdgeID]struct{}

// NewEdgeSet returns an empty edge set.
func NewEdgeSet() EdgeSet { return make(EdgeSet) }

// Add inserts the edge ID.
func (s EdgeSet) Add(id model.EdgeID) { s[id] = struct{}{} }

// AddPath inserts every edge of the path.
func (s EdgeSet) AddPath(p model.Path) {
	for _, id := range p.Edges {
		s[id] = struct{}{}
	}
}

// Has reports membership.
func (s EdgeSet) Has(id model.EdgeID) bool {
	_, ok := s[id]
	return ok
}

// ShortestPath runs a label-setting (Dijkstra) search from src to dst over
// the weight view, skipping every edge in excluded. It returns ErrNoPath when
// the two nodes are disconnected under the exclusion set.
//
// The search is deterministic: the heap breaks distance ties on ascending
// node ID, neighbors are expanded in ascending far-endpoint order, and a
// node's predecessor is only replaced on a strictly shorter distance. The
// returned path's DelayMs is the sum of base link delays, independent of the
// weight view used for the search.
func ShortestPath(g *model.Graph, src, dst string, weight WeightFunc, excluded EdgeSet) (model.Path, error) {
	if !g.HasNode(src) {
		return model.Path{}, fmt.Errorf("source node %q does not exist", src)
	}
	if !g.HasNode(dst) {
		return model.Path{}, fmt.Errorf("destination node %q does not exist", dst)
	}

	dist := map[string]float64{src: 0}
	prev := make(map[string]model.EdgeID)
	visited := make(map[string]bool)

	pq := &nodeQueue{{id: src, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(nodeItem)
		u := item.id
		if visited[u] {
			continue
		}
		visited[u] = true
		if u == dst {
			break
		}

		for _, e := range g.Neighbors(u) {
			if excluded.Has(e.ID) {
				continue
			}
			v := e.ID.Other(u)
			if visited[v] {
				continue
			}
			w := weight(e)
			if w < minEdgeWeight {
				w = minEdgeWeight
			}
			next := item.dist + w
			if best, seen := dist[v]; !seen || next < best {
				dist[v] = next
				prev[v] = e.ID
				heap.Push(pq, nodeItem{id: v, dist: next})
			}
		}
	}

	if !visited[dst] {
		return model.Path{}, fmt.Errorf("%s -> %s: %w", src, dst, ErrNoPath)
	}
	return reconstruct(g, prev, src, dst), nil
}

// shortestDistances runs the same label-setting search from src but finalizes
// every reachable node, returning the distance map. Used by the ECMP baseline
// to identify edges on some shortest path.
func shortestDistances(g *model.Graph, src string, weight WeightFunc, excluded EdgeSet) map[string]float64 {
	dist := map[string]float64{src: 0}
	final := make(map[string]float64, g.NumNodes())
	visited := make(map[string]bool)

	pq := &nodeQueue{{id: src, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(nodeItem)
		u := item.id
		if visited[u] {
			continue
		}
		visited[u] = true
		final[u] = item.dist

		for _, e := range g.Neighbors(u) {
			if excluded.Has(e.ID) {
				continue
			}
			v := e.ID.Other(u)
			if visited[v] {
				continue
			}
			w := weight(e)
			if w < minEdgeWeight {
				w = minEdgeWeight
			}
			next := item.dist + w
			if best, seen := dist[v]; !seen || next < best {
				dist[v] = next
				heap.Push(pq, nodeItem{id: v, dist: next})
			}
		}
	}
	return final
}

func reconstruct(g *model.Graph, prev map[string]model.EdgeID, src, dst string) model.Path {
	var edges []model.EdgeID
	cur := dst
	for cur != src {
		id := prev[cur]
		edges = append(edges, id)
		cur = id.Other(cur)
	}
	// prev chains run destination-first; flip into source order.
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	nodes := make([]string, 0, len(edges)+1)
	nodes = append(nodes, src)
	var delay float64
	at := src
	for _, id := range edges {
		at = id.Other(at)
		nodes = append(nodes, at)
		delay += g.EdgeByID(id).DelayMs
	}
	return model.Path{Nodes: nodes, Edges: edges, DelayMs: delay}
}

type nodeItem struct {
	id   string
	dist float64
}

// nodeQueue is a min-heap ordered by (distance, node ID). The secondary key
// keeps pop order stable when several frontier nodes share a distance.
type nodeQueue []nodeItem

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].id < q[j].id
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(nodeItem)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
