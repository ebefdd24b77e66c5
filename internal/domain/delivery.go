// Package domain holds the data model shared by every stage of the
// delivery-tour pipeline: coordinates, deliveries, road graph primitives,
// and the intermediate results each pipeline stage hands to the next.
package domain

import (
	"fmt"
	"time"
)

// Coordinate is a WGS84 lat/lon pair.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Depot is the fixed start/end point of every vehicle tour.
type Depot struct {
	Name     string
	Location Coordinate
}

// Delivery is one parcel drop awaiting assignment to a vehicle tour.
type Delivery struct {
	PackageID string
	Address   string
	Location  Coordinate
}

// TrackingID formats the delivery's package row into the PKGNNNN tracking
// code printed on map tooltips and console output.
func (d Delivery) TrackingID() string {
	return fmt.Sprintf("PKG%04s", d.PackageID)
}

// Stop is a delivery or depot position already snapped to a road-graph node.
type Stop struct {
	NodeID   int
	Location Coordinate
	Delivery *Delivery // nil for the depot stop
}

// IsDepot reports whether this stop represents the depot rather than a
// delivery.
func (s Stop) IsDepot() bool {
	return s.Delivery == nil
}

// RoadNode is one arena-indexed vertex of a RoadGraph.
type RoadNode struct {
	Location Coordinate
}

// RoadEdge is one arena-indexed, directed edge of a RoadGraph.
type RoadEdge struct {
	From         int
	To           int
	LengthM      float64
	SpeedKMH     float64
	TravelTimeS  float64
	Highway      string
	Name         string
}

// RoadGraph is an index-addressed arena of nodes and edges: nodes and edges
// are referenced by slice position rather than pointer, and each node's
// adjacency list holds edge-arena indices, not edge values.
type RoadGraph struct {
	Nodes   []RoadNode
	Edges   []RoadEdge
	AdjList [][]int // AdjList[nodeID] = indices into Edges
}

// AddNode appends a node and returns its arena index.
func (g *RoadGraph) AddNode(loc Coordinate) int {
	id := len(g.Nodes)
	g.Nodes = append(g.Nodes, RoadNode{Location: loc})
	g.AdjList = append(g.AdjList, nil)

	return id
}

// AddEdge appends a directed edge and wires it into From's adjacency list.
func (g *RoadGraph) AddEdge(e RoadEdge) int {
	id := len(g.Edges)
	g.Edges = append(g.Edges, e)
	g.AdjList[e.From] = append(g.AdjList[e.From], id)

	return id
}

// Cluster is one vehicle's assigned subset of stops. Clusters produced by
// the fleet partitioner hold deliveries only; the pipeline prepends the
// depot at index 0 before handing a cluster to the schedule reifier.
type Cluster struct {
	VehicleID int
	Stops     []Stop
}

// Matrix is a dense N×N travel-time matrix in seconds, row/col indexed by
// position in the stop slice that produced it. Unreachable pairs are
// +Inf.
type Matrix struct {
	Stops []Stop
	Times [][]float64 // Times[i][j] = travel time from Stops[i] to Stops[j]
}

// Tour is an ordered visiting sequence of stop indices (into the Cluster's
// Stops slice) for one vehicle, starting and ending at index 0 (the depot).
type Tour struct {
	VehicleID int
	Order     []int
	CostS     float64
}

// ReifiedSegment is one leg of a reified tour: the road path between two
// consecutive tour stops, plus the wall-clock schedule and map draw-calls
// derived from it.
type ReifiedSegment struct {
	FromStop    Stop
	ToStop      Stop
	NodePath    []int
	Polyline    []Coordinate
	LengthM     float64
	TravelTimeS float64
	Depart      time.Time
	Arrive      time.Time
}

// Schedule is one vehicle's full reified tour as ordered segments. The
// per-stop service time shows only in the gap between one segment's
// Arrive and the next segment's Depart; it is not stored separately.
type Schedule struct {
	VehicleID int
	Segments  []ReifiedSegment
}
