package schedule

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourplanner/internal/domain"
)

func buildGraph() *domain.RoadGraph {
	g := &domain.RoadGraph{}
	for i := 0; i < 3; i++ {
		g.AddNode(domain.Coordinate{Lat: float64(i), Lon: float64(i)})
	}
	g.AddEdge(domain.RoadEdge{From: 0, To: 1, LengthM: 1000, TravelTimeS: 100})
	g.AddEdge(domain.RoadEdge{From: 1, To: 2, LengthM: 1000, TravelTimeS: 100})
	g.AddEdge(domain.RoadEdge{From: 2, To: 0, LengthM: 1000, TravelTimeS: 100})

	return g
}

func TestReify_AdvancesWallClockAndEmitsPolyline(t *testing.T) {
	g := buildGraph()
	delivery := domain.Delivery{PackageID: "1"}
	cluster := domain.Cluster{Stops: []domain.Stop{
		{NodeID: 0},
		{NodeID: 1, Delivery: &delivery},
		{NodeID: 2, Delivery: &delivery},
	}}
	tr := domain.Tour{VehicleID: 0, Order: []int{0, 1, 2, 0}}

	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	opts := Options{
		Start:           start,
		ServiceTimeRand: rand.New(rand.NewSource(7)),
		MinServiceMin:   2,
		MaxServiceMin:   6,
	}

	sched, err := Reify(g, cluster, tr, opts)
	require.NoError(t, err)
	require.Len(t, sched.Segments, 3)

	assert.Equal(t, start, sched.Segments[0].Depart)
	assert.True(t, sched.Segments[0].Arrive.After(start))
	assert.True(t, sched.Segments[1].Depart.After(sched.Segments[0].Arrive) ||
		sched.Segments[1].Depart.Equal(sched.Segments[0].Arrive))
	assert.NotEmpty(t, sched.Segments[0].Polyline)
}

func TestReify_SkipsUnreachableSegment(t *testing.T) {
	g := &domain.RoadGraph{}
	g.AddNode(domain.Coordinate{})
	g.AddNode(domain.Coordinate{})
	cluster := domain.Cluster{Stops: []domain.Stop{{NodeID: 0}, {NodeID: 1}}}
	tr := domain.Tour{Order: []int{0, 1}}

	sched, err := Reify(g, cluster, tr, Options{
		Start:           time.Now(),
		ServiceTimeRand: rand.New(rand.NewSource(1)),
		MinServiceMin:   2, MaxServiceMin: 6,
	})
	require.NoError(t, err)
	assert.Empty(t, sched.Segments)
}
