package roadgraph

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
	"github.com/pkg/errors"
)

// roadSegment is a single linestring feature extracted from one tile's
// road layer, still in its own tile's coordinate list (already projected
// to WGS84), before being merged into the arena graph.
type roadSegment struct {
	Points   []orb.Point
	Highway  string
	MaxSpeed string
	Name     string
	OneWay   bool
}

// tileParser extracts road segments from Mapbox Vector Tiles.
type tileParser struct {
	roadLayerName string
}

func newTileParser(roadLayerName string) *tileParser {
	return &tileParser{roadLayerName: roadLayerName}
}

// parseTile decodes a (possibly gzipped) MVT blob and extracts every
// linestring feature on the configured road layer.
func (p *tileParser) parseTile(data []byte, tile maptile.Tile) ([]roadSegment, error) {
	layers, err := mvt.UnmarshalGzipped(data)
	if err != nil {
		layers, err = mvt.Unmarshal(data)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	var roadLayer *mvt.Layer
	for _, layer := range layers {
		if layer.Name == p.roadLayerName {
			roadLayer = layer

			break
		}
	}
	if roadLayer == nil {
		return nil, nil
	}

	roadLayer.ProjectToWGS84(tile)

	segments := make([]roadSegment, 0, len(roadLayer.Features))
	for _, feature := range roadLayer.Features {
		seg, ok := extractSegment(feature)
		if ok {
			segments = append(segments, seg)
		}
	}

	return segments, nil
}

func extractSegment(feature *geojson.Feature) (roadSegment, bool) {
	var seg roadSegment

	points, ok := extractGeometry(feature)
	if !ok {
		return seg, false
	}

	seg.Points = points
	seg.Highway = stringProp(feature, "class", "highway", "type")
	seg.MaxSpeed = stringProp(feature, "maxspeed")
	seg.Name = stringProp(feature, "name")
	seg.OneWay = boolProp(feature, "oneway")

	return seg, true
}

func extractGeometry(feature *geojson.Feature) ([]orb.Point, bool) {
	var points []orb.Point

	switch geom := feature.Geometry.(type) {
	case orb.LineString:
		points = append(points, geom...)
	case orb.MultiLineString:
		for _, ls := range geom {
			points = append(points, ls...)
		}
	default:
		return nil, false
	}

	if len(points) < 2 {
		return nil, false
	}

	return points, true
}

func stringProp(feature *geojson.Feature, keys ...string) string {
	for _, key := range keys {
		if val, ok := feature.Properties[key]; ok {
			if str, ok := val.(string); ok {
				return str
			}
		}
	}

	return ""
}

func boolProp(feature *geojson.Feature, key string) bool {
	val, ok := feature.Properties[key]
	if !ok {
		return false
	}

	switch v := val.(type) {
	case bool:
		return v
	case string:
		return v == "yes" || v == "true" || v == "1"
	case float64:
		return v != 0
	}

	return false
}
