package roadgraph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"tourplanner/internal/domain"
)

func TestBuildMatrix_SequentialAndParallelAgree(t *testing.T) {
	g := linearGraph()
	stops := []domain.Stop{
		{NodeID: 0}, {NodeID: 1}, {NodeID: 2}, {NodeID: 3},
	}

	seq := BuildMatrix(g, stops, 1)
	par := BuildMatrix(g, stops, 4)

	for i := range stops {
		for j := range stops {
			if math.IsInf(seq.Times[i][j], 1) {
				assert.True(t, math.IsInf(par.Times[i][j], 1))

				continue
			}
			assert.InDelta(t, seq.Times[i][j], par.Times[i][j], 0.001)
		}
	}
	assert.Equal(t, 0.0, seq.Times[0][0])
	assert.InDelta(t, 300, seq.Times[0][3], 0.01)
}

func TestBuildMatrix_UnreachablePairIsInf(t *testing.T) {
	g := linearGraph()
	stops := []domain.Stop{{NodeID: 0}, {NodeID: 4}}

	m := BuildMatrix(g, stops, 2)
	assert.True(t, math.IsInf(m.Times[0][1], 1))
}
