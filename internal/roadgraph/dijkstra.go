package roadgraph

import (
	"container/heap"
	"math"

	"tourplanner/internal/domain"
)

// PathResult is the outcome of a single-source, single-target shortest
// path search: the total travel time in seconds and the sequence of node
// IDs visited, inclusive of both endpoints. Reachable is false if no path
// exists, in which case TravelTimeS is +Inf and NodePath is nil.
type PathResult struct {
	TravelTimeS float64
	LengthM     float64
	NodePath    []int
	Reachable   bool
}

type pqItem struct {
	node int
	dist float64
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)         { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}

// ShortestPath runs Dijkstra's algorithm from source to a single target,
// weighting edges by TravelTimeS, and reconstructs the node path from the
// predecessor map it records along the way.
func ShortestPath(graph *domain.RoadGraph, source, target int) PathResult {
	dist, lengthAccum, pred := runDijkstra(graph, source, map[int]bool{target: true})

	return reconstructPath(source, target, dist, lengthAccum, pred)
}

// ShortestPathToMany runs a single Dijkstra search from source, early-
// exiting once every target has been settled, and returns a map from
// each target node ID to its PathResult.
func ShortestPathToMany(graph *domain.RoadGraph, source int, targets []int) map[int]PathResult {
	targetSet := make(map[int]bool, len(targets))
	for _, t := range targets {
		targetSet[t] = true
	}

	dist, lengthAccum, pred := runDijkstra(graph, source, targetSet)

	results := make(map[int]PathResult, len(targets))
	for _, t := range targets {
		results[t] = reconstructPath(source, t, dist, lengthAccum, pred)
	}

	return results
}

// runDijkstra computes shortest travel times from source to every node,
// terminating early once all of targets have been popped off the queue
// with a final (non-stale) distance.
func runDijkstra(graph *domain.RoadGraph, source int, targets map[int]bool) (dist, lengthAccum map[int]float64, pred map[int]int) {
	dist = map[int]float64{source: 0}
	lengthAccum = map[int]float64{source: 0}
	pred = map[int]int{}

	pq := &priorityQueue{{node: source, dist: 0}}
	heap.Init(pq)

	settled := make(map[int]bool)
	remaining := len(targets)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		if settled[item.node] {
			continue
		}
		settled[item.node] = true

		if targets[item.node] {
			remaining--
			if remaining <= 0 {
				break
			}
		}

		if item.node >= len(graph.AdjList) {
			continue
		}

		for _, edgeIdx := range graph.AdjList[item.node] {
			edge := graph.Edges[edgeIdx]
			next := dist[item.node] + edge.TravelTimeS
			if existing, ok := dist[edge.To]; !ok || next < existing {
				dist[edge.To] = next
				lengthAccum[edge.To] = lengthAccum[item.node] + edge.LengthM
				pred[edge.To] = item.node
				heap.Push(pq, pqItem{node: edge.To, dist: next})
			}
		}
	}

	return dist, lengthAccum, pred
}

func reconstructPath(source, target int, dist, lengthAccum map[int]float64, pred map[int]int) PathResult {
	d, ok := dist[target]
	if !ok {
		return PathResult{TravelTimeS: math.Inf(1), Reachable: false}
	}

	path := []int{target}
	cur := target
	for cur != source {
		prev, ok := pred[cur]
		if !ok {
			return PathResult{TravelTimeS: math.Inf(1), Reachable: false}
		}
		path = append(path, prev)
		cur = prev
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return PathResult{
		TravelTimeS: d,
		LengthM:     lengthAccum[target],
		NodePath:    path,
		Reachable:   true,
	}
}
