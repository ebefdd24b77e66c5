package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourplanner/internal/domain"
)

func TestPartition_SplitsIntoRequestedClusters(t *testing.T) {
	deliveries := []domain.Delivery{
		{PackageID: "1", Location: domain.Coordinate{Lat: 0, Lon: 0}},
		{PackageID: "2", Location: domain.Coordinate{Lat: 0.01, Lon: 0.01}},
		{PackageID: "3", Location: domain.Coordinate{Lat: 10, Lon: 10}},
		{PackageID: "4", Location: domain.Coordinate{Lat: 10.01, Lon: 10.01}},
	}

	result, err := Partition(deliveries, 2, 42)
	require.NoError(t, err)
	assert.Len(t, result, 2)

	total := 0
	for _, c := range result {
		total += len(c.Stops)
	}
	assert.Equal(t, 4, total)
}

func TestPartition_RejectsNonPositiveK(t *testing.T) {
	_, err := Partition([]domain.Delivery{{PackageID: "1"}}, 0, 1)
	require.Error(t, err)
}

func TestPartition_EmptyInput(t *testing.T) {
	result, err := Partition(nil, 3, 1)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestPartition_KLargerThanDeliveries(t *testing.T) {
	deliveries := []domain.Delivery{
		{PackageID: "1", Location: domain.Coordinate{Lat: 0, Lon: 0}},
	}

	result, err := Partition(deliveries, 5, 1)
	require.NoError(t, err)
	assert.Len(t, result, 1)
}
