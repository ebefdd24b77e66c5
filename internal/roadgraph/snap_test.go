package roadgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourplanner/internal/domain"
)

func TestGridIndex_Nearest(t *testing.T) {
	g := &domain.RoadGraph{}
	g.AddNode(domain.Coordinate{Lat: 0, Lon: 0})
	g.AddNode(domain.Coordinate{Lat: 1, Lon: 1})
	g.AddNode(domain.Coordinate{Lat: 2, Lon: 2})

	idx := NewGridIndex(g, 50)

	id, ok := idx.Nearest(0.01, 0.01)
	require.True(t, ok)
	assert.Equal(t, 0, id)

	id, ok = idx.Nearest(1.9, 1.9)
	require.True(t, ok)
	assert.Equal(t, 2, id)
}

func TestGridIndex_Nearest_EmptyGraph(t *testing.T) {
	idx := NewGridIndex(&domain.RoadGraph{}, 1)

	_, ok := idx.Nearest(0, 0)
	assert.False(t, ok)
}

func TestGridIndex_Nearest_TieBreaksOnLowestID(t *testing.T) {
	g := &domain.RoadGraph{}
	g.AddNode(domain.Coordinate{Lat: 0, Lon: 0})
	g.AddNode(domain.Coordinate{Lat: 0, Lon: 0})

	idx := NewGridIndex(g, 1)

	id, ok := idx.Nearest(0, 0)
	require.True(t, ok)
	assert.Equal(t, 0, id)
}
