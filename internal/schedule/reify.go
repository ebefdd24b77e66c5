// Package schedule reconstructs road-accurate paths and a wall-clock
// schedule from an optimized tour, and emits the draw-calls an HTML map
// renderer needs.
package schedule

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"tourplanner/internal/domain"
	"tourplanner/internal/roadgraph"
)

// Options configures Reify's service-time distribution and start-of-day.
type Options struct {
	Start           time.Time
	ServiceTimeRand *rand.Rand
	MinServiceMin   int
	MaxServiceMin   int
}

// Reify walks tour's stop order, re-running Dijkstra with path
// reconstruction between each consecutive pair, and advances a wall-clock
// cursor by travel time plus a randomized per-delivery service time.
// Unreachable segments are logged as domain.ErrNoPath on the default slog
// logger and omitted from the schedule rather than aborting the whole
// tour; they do not make Reify return an error.
func Reify(graph *domain.RoadGraph, cluster domain.Cluster, tour domain.Tour, opts Options) (domain.Schedule, error) {
	if opts.MaxServiceMin < opts.MinServiceMin {
		return domain.Schedule{}, errors.New("invalid service time range")
	}

	cursor := opts.Start
	sched := domain.Schedule{VehicleID: tour.VehicleID}

	for i := 0; i+1 < len(tour.Order); i++ {
		from := cluster.Stops[tour.Order[i]]
		to := cluster.Stops[tour.Order[i+1]]

		result := roadgraph.ShortestPath(graph, from.NodeID, to.NodeID)
		if !result.Reachable {
			slog.Warn("segment unreachable, skipping",
				slog.Int("from_node", from.NodeID), slog.Int("to_node", to.NodeID),
				slog.Any("error", domain.ErrNoPath))

			continue
		}

		depart := cursor
		arrive := depart.Add(time.Duration(result.TravelTimeS) * time.Second)

		sched.Segments = append(sched.Segments, domain.ReifiedSegment{
			FromStop:    from,
			ToStop:      to,
			NodePath:    result.NodePath,
			Polyline:    polylineFor(graph, result.NodePath),
			LengthM:     result.LengthM,
			TravelTimeS: result.TravelTimeS,
			Depart:      depart,
			Arrive:      arrive,
		})

		cursor = arrive
		if !to.IsDepot() {
			serviceMin := opts.MinServiceMin
			if span := opts.MaxServiceMin - opts.MinServiceMin; span > 0 {
				serviceMin += opts.ServiceTimeRand.Intn(span + 1)
			}
			cursor = cursor.Add(time.Duration(serviceMin) * time.Minute)
		}
	}

	return sched, nil
}

func polylineFor(graph *domain.RoadGraph, nodePath []int) []domain.Coordinate {
	coords := make([]domain.Coordinate, len(nodePath))
	for i, id := range nodePath {
		coords[i] = graph.Nodes[id].Location
	}

	return coords
}
