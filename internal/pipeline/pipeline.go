// Package pipeline wires the planner's stages into one end-to-end run:
// manifest ingestion, road-graph acquisition, stop snapping, fleet
// partitioning, per-vehicle tour optimization, schedule reification, the
// console report, and the HTML map.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"tourplanner/config"
	"tourplanner/internal/domain"
	"tourplanner/internal/fleet"
	"tourplanner/internal/geo"
	"tourplanner/internal/ingest"
	"tourplanner/internal/mapsink"
	"tourplanner/internal/roadgraph"
	"tourplanner/internal/schedule"
	"tourplanner/internal/tour"
)

// Params bundles the planner's dependencies for a single pipeline run.
type Params struct {
	Config   *config.Config
	Logger   *slog.Logger
	Provider *roadgraph.Provider
	Verbose  bool
}

const gridCellSizeKM = 1.0

// Run executes one complete planning pass and prints the operator report
// to stdout, mirroring the original planner's console output.
func Run(ctx context.Context, p Params) error {
	started := time.Now()
	cfg := p.Config

	runID := uuid.New().String()
	p.Logger.Info("pipeline run starting", slog.String("run_id", runID))

	deliveries, err := ingest.LoadDeliveries(cfg.Input.SpreadsheetPath)
	if err != nil {
		return errors.Wrap(err, "load deliveries")
	}
	p.Logger.Info("manifest loaded", slog.Int("deliveries", len(deliveries)))

	depot := domain.Depot{
		Name:     cfg.Depot.Name,
		Location: domain.Coordinate{Lat: cfg.Depot.Lat, Lon: cfg.Depot.Lon},
	}

	graph, err := p.Provider.LoadGraph(ctx, buildCandidates(ctx, p, depot.Location))
	if err != nil {
		return errors.Wrap(err, "load road graph")
	}
	p.Logger.Info("road graph loaded", slog.Int("nodes", len(graph.Nodes)), slog.Int("edges", len(graph.Edges)))

	index := roadgraph.NewGridIndex(graph, gridCellSizeKM)

	depotStop, ok := index.NearestWithinM(depot.Location.Lat, depot.Location.Lon, roadgraph.MaxSnapDistanceM)
	if !ok {
		return errors.Wrap(domain.ErrGraphUnavailable, "depot has no nearby road node")
	}

	clusters, err := fleet.Partition(deliveries, cfg.Fleet.VehicleCount, cfg.Fleet.Seed)
	if err != nil {
		return errors.Wrap(err, "partition fleet")
	}

	capacity := tour.Capacity(len(deliveries), cfg.Fleet.VehicleCount)

	startOfDay, err := parseStartOfDay(cfg.Schedule.StartOfDay)
	if err != nil {
		return errors.Wrap(err, "parse schedule start")
	}
	serviceRand := rand.New(rand.NewSource(cfg.Schedule.ServiceTimeSeed))

	var (
		schedules      []domain.Schedule
		totalDistanceM float64
		totalDurationS float64
	)

	for vehicleID, cluster := range clusters {
		stops := []domain.Stop{{NodeID: depotStop, Location: depot.Location}}

		for _, s := range cluster.Stops {
			nodeID, ok := index.NearestWithinM(s.Location.Lat, s.Location.Lon, roadgraph.MaxSnapDistanceM)
			if !ok {
				p.Logger.Warn("delivery has no nearby road node, dropping",
					slog.String("tracking_id", s.Delivery.TrackingID()))

				continue
			}

			stops = append(stops, domain.Stop{NodeID: nodeID, Location: s.Location, Delivery: s.Delivery})
		}

		sub := roadgraph.BuildMatrix(graph, stops, roadgraph.DefaultMatrixWorkers)

		tr, err := tour.OptimizeTour(sub, vehicleID, capacity)
		if err != nil {
			return errors.Wrapf(err, "optimize tour for vehicle %d", vehicleID+1)
		}

		sched, err := schedule.Reify(graph, domain.Cluster{VehicleID: vehicleID, Stops: stops}, tr, schedule.Options{
			Start:           startOfDay,
			ServiceTimeRand: serviceRand,
			MinServiceMin:   cfg.Schedule.MinServiceMin,
			MaxServiceMin:   cfg.Schedule.MaxServiceMin,
		})
		if err != nil {
			return errors.Wrapf(err, "reify schedule for vehicle %d", vehicleID+1)
		}

		printVehicleReport(vehicleID, sched, p.Verbose)

		distanceM, durationS := scheduleTotals(sched)
		totalDistanceM += distanceM
		totalDurationS += durationS

		schedules = append(schedules, sched)
	}

	fmt.Printf("Total delivery distance for all vehicles: %.2f meters\n", totalDistanceM)
	fmt.Printf("Total delivery duration for all vehicles: %.2f minutes\n", totalDurationS/60)

	if err := writeMap(cfg.Output.MapPath, runID, depot, schedules); err != nil {
		return errors.Wrap(err, "write map")
	}

	fmt.Println("elapsed time:", time.Since(started))

	return nil
}

// buildCandidates resolves the road-graph query area: a nearby-places
// lookup that finds places yields a Geo.RadiusKM box around the depot,
// followed by the fixed 5000 m fallback box; a failed or empty lookup
// yields the fallback box alone.
func buildCandidates(ctx context.Context, p Params, center domain.Coordinate) []roadgraph.BBox {
	names, err := geo.NearbyPlaces(ctx, p.Config.Geo.OverpassURL, center, p.Config.Geo.RadiusKM)
	if err != nil {
		p.Logger.Warn("region lookup failed, falling back to bounding box", slog.Any("error", err))

		return []roadgraph.BBox{roadgraph.DefaultBBoxFallback(center)}
	}
	if len(names) == 0 {
		p.Logger.Warn("region lookup found no nearby places, falling back to bounding box")

		return []roadgraph.BBox{roadgraph.DefaultBBoxFallback(center)}
	}

	p.Logger.Info("region resolved", slog.Any("places", names))

	return []roadgraph.BBox{
		roadgraph.BBoxAround(center, p.Config.Geo.RadiusKM*1000),
		roadgraph.DefaultBBoxFallback(center),
	}
}

func parseStartOfDay(hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, errors.Wrapf(domain.ErrInputMalformed, "start of day %q: %v", hhmm, err)
	}

	now := time.Now()

	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
}

// printVehicleReport prints one vehicle's per-delivery depart/arrival
// lines and, with verbose set, its package-ID route dump.
func printVehicleReport(vehicleID int, sched domain.Schedule, verbose bool) {
	for i, seg := range sched.Segments {
		if seg.ToStop.IsDepot() {
			continue
		}

		fmt.Printf("Vehicle %d, delivery %d depart %s arrival %s, time to deliver %.0f minutes\n",
			vehicleID+1, i+1, seg.Depart.Format("15:04"), seg.Arrive.Format("15:04"), seg.TravelTimeS/60)
	}

	distanceM, durationS := scheduleTotals(sched)
	fmt.Printf("Vehicle %d total distance: %.2f meters\n", vehicleID+1, distanceM)
	fmt.Printf("Vehicle %d total duration: %.2f minutes\n", vehicleID+1, durationS/60)

	if !verbose {
		return
	}

	fmt.Println("\nDelivery Route with Package IDs:")
	fmt.Println("--------------------------------")
	for i, seg := range sched.Segments {
		if seg.ToStop.IsDepot() {
			fmt.Printf("Stop %d: depot\n", i)

			continue
		}
		fmt.Printf("Stop %d: %s - Package ID: %s\n", i, seg.ToStop.Delivery.Address, seg.ToStop.Delivery.TrackingID())
	}
}

func scheduleTotals(sched domain.Schedule) (distanceM, durationS float64) {
	for _, seg := range sched.Segments {
		distanceM += seg.LengthM
		durationS += seg.TravelTimeS
	}

	return distanceM, durationS
}

func writeMap(path, runID string, depot domain.Depot, schedules []domain.Schedule) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return mapsink.Write(f, runID, depot, schedules)
}
