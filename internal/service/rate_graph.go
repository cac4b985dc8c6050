package service

import "billing-core/pkg/money"

type rateEdge struct {
	to     int64
	weight money.Money
}

// rateGraph is a directed weighted multigraph over currency ids. Parallel
// edges are kept; Dijkstra picks the cheaper one naturally.
type rateGraph struct {
	nodes map[int64]bool
	edges map[int64][]rateEdge
}

func newRateGraph() *rateGraph {
	return &rateGraph{
		nodes: make(map[int64]bool),
		edges: make(map[int64][]rateEdge),
	}
}

func (g *rateGraph) addNode(id int64) {
	g.nodes[id] = true
}

func (g *rateGraph) addEdge(from, to int64, weight money.Money) {
	g.nodes[from] = true
	g.nodes[to] = true
	g.edges[from] = append(g.edges[from], rateEdge{to: to, weight: weight})
}

// cheapestProduct returns the minimal product of edge weights along any path
// from -> to. ok is false for unknown nodes or unreachable pairs.
func (g *rateGraph) cheapestProduct(from, to int64) (money.Money, bool) {
	if !g.nodes[from] || !g.nodes[to] {
		return money.Zero, false
	}
	dist := g.dijkstra(from)
	rate, ok := dist[to]
	return rate, ok
}

// singleSourceProducts returns the minimal product to every reachable node.
func (g *rateGraph) singleSourceProducts(from int64) map[int64]money.Money {
	if !g.nodes[from] {
		return map[int64]money.Money{}
	}
	return g.dijkstra(from)
}

// dijkstra accumulates multiplicative distances. The currency set is tiny; a
// linear min scan beats heap bookkeeping here.
func (g *rateGraph) dijkstra(from int64) map[int64]money.Money {
	dist := map[int64]money.Money{from: money.One}
	visited := make(map[int64]bool, len(g.nodes))

	for {
		var u int64
		found := false
		for node, d := range dist {
			if visited[node] {
				continue
			}
			if !found || d.LessThan(dist[u]) {
				u = node
				found = true
			}
		}
		if !found {
			return dist
		}
		visited[u] = true

		for _, e := range g.edges[u] {
			// Settled nodes are final. Inverse edges can weigh less than one,
			// and a rate table is not guaranteed arbitrage-free; relaxing
			// settled nodes through such a cycle would grind distances down
			// forever, starting with dist[from] itself.
			if visited[e.to] {
				continue
			}
			candidate := dist[u].Mul(e.weight)
			if current, ok := dist[e.to]; !ok || candidate.LessThan(current) {
				dist[e.to] = candidate
			}
		}
	}
}
