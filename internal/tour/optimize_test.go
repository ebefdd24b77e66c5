package tour

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourplanner/internal/domain"
)

func squareStops(n int) []domain.Stop {
	stops := make([]domain.Stop, n)
	for i := range stops {
		stops[i] = domain.Stop{NodeID: i}
	}

	return stops
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 5, Capacity(10, 3)) // ceil(10/3) = 4, +1 = 5
}

func TestOptimizeTour_FeasibleSquareInstance(t *testing.T) {
	times := [][]float64{
		{0, 10, 15, 20},
		{10, 0, 35, 25},
		{15, 35, 0, 30},
		{20, 25, 30, 0},
	}
	sub := domain.Matrix{Stops: squareStops(4), Times: times}

	tr, err := OptimizeTour(sub, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Order[0])
	assert.Equal(t, 0, tr.Order[len(tr.Order)-1])
	assert.Len(t, tr.Order, 5)
}

func TestOptimizeTour_RejectsOverCapacity(t *testing.T) {
	sub := domain.Matrix{Stops: squareStops(4), Times: [][]float64{
		{0, 1, 1, 1}, {1, 0, 1, 1}, {1, 1, 0, 1}, {1, 1, 1, 0},
	}}

	_, err := OptimizeTour(sub, 0, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOptimizerInfeasible)
}

func TestOptimizeTour_RejectsIncompleteGraph(t *testing.T) {
	sub := domain.Matrix{Stops: squareStops(3), Times: [][]float64{
		{0, 1, math.Inf(1)},
		{1, 0, 1},
		{math.Inf(1), 1, 0},
	}}

	_, err := OptimizeTour(sub, 0, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOptimizerInfeasible)
}
