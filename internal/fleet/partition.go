// Package fleet partitions deliveries across a vehicle fleet by k-means
// clustering on their lat/lon positions.
package fleet

import (
	"math/rand"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/pkg/errors"

	"tourplanner/internal/domain"
)

// Partition clusters deliveries into k groups by (lat, lon) position,
// seeding the package-global rand source first so the assignment is
// reproducible for a given seed. Empty clusters (k larger than the
// number of deliveries that can be usefully split) are dropped from the
// result.
func Partition(deliveries []domain.Delivery, k int, seed int64) ([]domain.Cluster, error) {
	if k <= 0 {
		return nil, errors.New("vehicle count must be positive")
	}
	if len(deliveries) == 0 {
		return nil, nil
	}

	rand.Seed(seed) //nolint:staticcheck // kmeans seeds centroids off the package-global source.

	observations := make(clusters.Observations, len(deliveries))
	for i, d := range deliveries {
		observations[i] = clusters.Coordinates{d.Location.Lat, d.Location.Lon}
	}

	if k > len(deliveries) {
		k = len(deliveries)
	}

	model := kmeans.New()
	result, err := model.Partition(observations, k)
	if err != nil {
		return nil, errors.Wrap(err, "kmeans partition")
	}

	clustersOut := make([]domain.Cluster, 0, len(result))
	for vehicleID, c := range result {
		if len(c.Observations) == 0 {
			continue
		}

		stops := make([]domain.Stop, 0, len(c.Observations))
		for _, obs := range c.Observations {
			idx := indexOf(observations, obs)
			stops = append(stops, domain.Stop{
				Location: deliveries[idx].Location,
				Delivery: &deliveries[idx],
			})
		}

		clustersOut = append(clustersOut, domain.Cluster{VehicleID: vehicleID, Stops: stops})
	}

	return clustersOut, nil
}

// indexOf recovers the original delivery index for an Observation the
// kmeans library has copied into a cluster, by coordinate identity.
func indexOf(observations clusters.Observations, target clusters.Observation) int {
	for i, o := range observations {
		if o.Coordinates()[0] == target.Coordinates()[0] && o.Coordinates()[1] == target.Coordinates()[1] {
			return i
		}
	}

	return 0
}
