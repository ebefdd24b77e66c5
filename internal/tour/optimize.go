// Package tour orders a vehicle's assigned stops into a depot-anchored
// tour under a capacity constraint.
package tour

import (
	"math"

	"github.com/katalvlaran/lvlath/matrix"
	"github.com/katalvlaran/lvlath/tsp"
	"github.com/pkg/errors"

	"tourplanner/internal/domain"
)

// denseMatrix is a minimal matrix.Matrix implementation over a plain
// [][]float64, avoiding any dependency on a particular backing matrix
// construction helper.
type denseMatrix struct {
	data [][]float64
}

func (m denseMatrix) Rows() int { return len(m.data) }

func (m denseMatrix) Cols() int {
	if len(m.data) == 0 {
		return 0
	}

	return len(m.data[0])
}

func (m denseMatrix) At(i, j int) (float64, error) {
	if i < 0 || i >= m.Rows() || j < 0 || j >= m.Cols() {
		return 0, matrix.ErrIndexOutOfBounds
	}

	return m.data[i][j], nil
}

func (m denseMatrix) Set(i, j int, v float64) error {
	if i < 0 || i >= m.Rows() || j < 0 || j >= m.Cols() {
		return matrix.ErrIndexOutOfBounds
	}
	m.data[i][j] = v

	return nil
}

func (m denseMatrix) Clone() matrix.Matrix {
	cp := make([][]float64, len(m.data))
	for i, row := range m.data {
		cp[i] = append([]float64(nil), row...)
	}

	return denseMatrix{data: cp}
}

// Capacity is the maximum number of non-depot stops a single vehicle may
// carry, per spec: ceil(N/K)+1 for N deliveries split across K vehicles.
func Capacity(totalDeliveries, vehicleCount int) int {
	if vehicleCount <= 0 {
		return totalDeliveries
	}

	return (totalDeliveries+vehicleCount-1)/vehicleCount + 1
}

// OptimizeTour orders cluster's stops (index 0 assumed to be the depot)
// into a tour starting and ending at the depot, subject to capacity.
// The cluster's submatrix is generally asymmetric (one-way streets), so
// this solves via nearest-neighbour-seeded 2-opt rather than Christofides,
// which requires a symmetric metric instance.
func OptimizeTour(sub domain.Matrix, vehicleID, capacity int) (domain.Tour, error) {
	n := len(sub.Stops)
	if n == 0 {
		return domain.Tour{}, errors.Wrap(domain.ErrOptimizerInfeasible, "empty stop set")
	}

	nonDepot := n - 1
	if nonDepot > capacity {
		return domain.Tour{}, errors.Wrapf(domain.ErrOptimizerInfeasible,
			"vehicle %d assigned %d stops, capacity %d", vehicleID, nonDepot, capacity)
	}

	if hasUnreachablePair(sub.Times) {
		return domain.Tour{}, errors.Wrap(domain.ErrOptimizerInfeasible, "incomplete travel-time matrix")
	}

	dist := denseMatrix{data: sub.Times}

	opts := tsp.DefaultOptions()
	opts.StartVertex = 0
	opts.Algo = tsp.TwoOptOnly
	opts.Symmetric = false
	opts.Seed = int64(vehicleID)

	result, err := tsp.SolveWithMatrix(dist, nil, opts)
	if err != nil {
		return domain.Tour{}, errors.Wrap(domain.ErrOptimizerInfeasible, err.Error())
	}

	return domain.Tour{
		VehicleID: vehicleID,
		Order:     result.Tour,
		CostS:     result.Cost,
	}, nil
}

func hasUnreachablePair(times [][]float64) bool {
	for i, row := range times {
		for j, v := range row {
			if i == j {
				continue
			}
			if math.IsInf(v, 1) {
				return true
			}
		}
	}

	return false
}
