package roadgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourplanner/internal/domain"
)

// linearGraph builds 0 -> 1 -> 2 -> 3 with 1000 m, 100 s edges, plus an
// isolated node 4 with no connecting edges.
func linearGraph() *domain.RoadGraph {
	g := &domain.RoadGraph{}
	for i := 0; i < 5; i++ {
		g.AddNode(domain.Coordinate{Lat: float64(i), Lon: float64(i)})
	}
	for i := 0; i < 3; i++ {
		g.AddEdge(domain.RoadEdge{From: i, To: i + 1, LengthM: 1000, SpeedKMH: 36, TravelTimeS: 100})
	}

	return g
}

func TestShortestPath_Reachable(t *testing.T) {
	g := linearGraph()

	result := ShortestPath(g, 0, 3)
	require.True(t, result.Reachable)
	assert.Equal(t, []int{0, 1, 2, 3}, result.NodePath)
	assert.InDelta(t, 300, result.TravelTimeS, 0.01)
	assert.InDelta(t, 3000, result.LengthM, 0.01)
}

func TestShortestPath_Unreachable(t *testing.T) {
	g := linearGraph()

	result := ShortestPath(g, 0, 4)
	assert.False(t, result.Reachable)
	assert.True(t, result.TravelTimeS > 0) // +Inf
}

func TestShortestPathToMany(t *testing.T) {
	g := linearGraph()

	results := ShortestPathToMany(g, 0, []int{1, 2, 3, 4})
	assert.True(t, results[1].Reachable)
	assert.True(t, results[2].Reachable)
	assert.True(t, results[3].Reachable)
	assert.False(t, results[4].Reachable)
	assert.InDelta(t, 200, results[2].TravelTimeS, 0.01)
}
