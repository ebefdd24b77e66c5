package roadgraph

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/pkg/errors"
	"github.com/protomaps/go-pmtiles/pmtiles"

	// Registers the gs:// blob driver so PMTiles sources on Google Cloud
	// Storage resolve without an explicit import at the call site.
	_ "gocloud.dev/blob/gcsblob"

	"tourplanner/internal/domain"
)

const (
	MaxSnapDistanceM   = 500.0
	fallbackHalfWidthM = 5000.0
	metresPerDegree    = 111_000.0
)

// Provider acquires a RoadGraph covering a query area by fetching and
// merging PMTiles-backed vector tiles for each candidate bounding box in
// turn (see LoadGraph); when no candidate yields any road, the failure is
// fatal.
type Provider struct {
	source      string
	tilesetName string
	roadLayer   string
	zoom        int
	logger      *slog.Logger

	server *pmtiles.Server
	parser *tileParser

	cacheMu sync.RWMutex
	cache   map[string]*domain.RoadGraph
}

// NewProvider constructs a Provider backed by the PMTiles archive at
// source (file://, http(s)://, or gs://), serving the named road layer.
func NewProvider(source, roadLayer string, zoom int, logger *slog.Logger) (*Provider, error) {
	if source == "" {
		return nil, errors.New("pmtiles source is required")
	}
	if roadLayer == "" {
		roadLayer = "transportation"
	}
	if zoom == 0 {
		zoom = 14
	}

	bucketURL, prefix, tilesetName := parseSourcePath(source)

	silent := stdlog.New(io.Discard, "", 0)
	server, err := pmtiles.NewServer(bucketURL, prefix, silent, 64, "")
	if err != nil {
		return nil, errors.Wrap(err, "create pmtiles server")
	}
	server.Start()

	return &Provider{
		source:      source,
		tilesetName: tilesetName,
		roadLayer:   roadLayer,
		zoom:        zoom,
		logger:      logger,
		server:      server,
		parser:      newTileParser(roadLayer),
		cache:       make(map[string]*domain.RoadGraph),
	}, nil
}

// LoadGraph acquires a graph covering center, trying each candidate
// bounding box in order and returning the first one that yields a
// non-empty graph. Tiles that fail to load are skipped, so a candidate
// fails by coming back empty; when every candidate does (or none is
// given), the result is domain.ErrGraphUnavailable.
func (p *Provider) LoadGraph(ctx context.Context, candidates []BBox) (*domain.RoadGraph, error) {
	var lastErr error

	for i, bbox := range candidates {
		graph, err := p.loadBBox(ctx, bbox)
		if err != nil {
			lastErr = err
			p.logger.Warn("road graph candidate failed",
				slog.Int("candidate", i), slog.Any("error", err))

			continue
		}
		if len(graph.Nodes) == 0 {
			p.logger.Warn("road graph candidate empty", slog.Int("candidate", i))

			continue
		}

		return graph, nil
	}

	if lastErr != nil {
		return nil, errors.Wrap(domain.ErrGraphUnavailable, lastErr.Error())
	}

	return nil, errors.WithStack(domain.ErrGraphUnavailable)
}

// BBox is a lat/lon bounding envelope in degrees.
type BBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// BBoxAround returns a square bounding box of the given half-width in
// metres, centered on center.
func BBoxAround(center domain.Coordinate, halfWidthM float64) BBox {
	d := halfWidthM / metresPerDegree

	return BBox{
		MinLat: center.Lat - d, MaxLat: center.Lat + d,
		MinLon: center.Lon - d, MaxLon: center.Lon + d,
	}
}

// DefaultBBoxFallback is the fixed-radius bounding box fallback candidate
// spec'd for when region resolution fails or yields nothing.
func DefaultBBoxFallback(center domain.Coordinate) BBox {
	return BBoxAround(center, fallbackHalfWidthM)
}

func (p *Provider) loadBBox(ctx context.Context, bbox BBox) (*domain.RoadGraph, error) {
	tiles := tilesForBounds(bbox, maptile.Zoom(p.zoom))

	graph := &domain.RoadGraph{}
	nodeIndex := map[[2]int64]int{} // quantized coordinate -> arena node ID

	for _, tile := range tiles {
		segments, err := p.loadTile(ctx, tile)
		if err != nil {
			p.logger.Debug("tile load failed", slog.String("tile", tileKey(tile)), slog.Any("error", err))

			continue
		}

		for _, seg := range segments {
			appendSegment(graph, nodeIndex, seg)
		}
	}

	return graph, nil
}

func (p *Provider) loadTile(ctx context.Context, tile maptile.Tile) ([]roadSegment, error) {
	key := p.source + "#" + tileKey(tile)

	p.cacheMu.RLock()
	if g, ok := segmentCache[key]; ok {
		p.cacheMu.RUnlock()

		return g, nil
	}
	p.cacheMu.RUnlock()

	data, err := p.fetchTile(ctx, tile)
	if err != nil {
		return nil, err
	}

	segments, err := p.parser.parseTile(data, tile)
	if err != nil {
		return nil, err
	}

	p.cacheMu.Lock()
	segmentCache[key] = segments
	p.cacheMu.Unlock()

	return segments, nil
}

// segmentCache is process-wide since parsed tile segments don't vary by
// provider instance, only by tile coordinate and archive.
var segmentCache = map[string][]roadSegment{}

func (p *Provider) fetchTile(ctx context.Context, tile maptile.Tile) ([]byte, error) {
	tilePath := fmt.Sprintf("/%s/%d/%d/%d.mvt", p.tilesetName, tile.Z, tile.X, tile.Y)

	statusCode, _, data := p.server.Get(ctx, tilePath)
	if statusCode == http.StatusNotFound {
		return nil, errors.New("tile not found")
	}
	if statusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected tile status: %d", statusCode)
	}

	return data, nil
}

func tileKey(tile maptile.Tile) string {
	return fmt.Sprintf("%d/%d/%d", tile.Z, tile.X, tile.Y)
}

func tilesForBounds(bbox BBox, zoom maptile.Zoom) []maptile.Tile {
	minTile := maptile.At(orb.Point{bbox.MinLon, bbox.MaxLat}, zoom)
	maxTile := maptile.At(orb.Point{bbox.MaxLon, bbox.MinLat}, zoom)

	var tiles []maptile.Tile
	for x := minTile.X; x <= maxTile.X; x++ {
		for y := minTile.Y; y <= maxTile.Y; y++ {
			tiles = append(tiles, maptile.Tile{X: x, Y: y, Z: zoom})
		}
	}

	return tiles
}

// appendSegment inserts seg into graph, reusing existing arena nodes for
// coordinates already seen (quantized to ~1cm) and adding a forward edge
// plus, for non-one-way segments, a reverse edge.
func appendSegment(graph *domain.RoadGraph, nodeIndex map[[2]int64]int, seg roadSegment) {
	speed := ParseSpeedKMH(seg.MaxSpeed, seg.Highway)

	for i := 0; i+1 < len(seg.Points); i++ {
		fromID := nodeFor(graph, nodeIndex, seg.Points[i])
		toID := nodeFor(graph, nodeIndex, seg.Points[i+1])

		lengthM := haversineMeters(seg.Points[i], seg.Points[i+1])

		graph.AddEdge(domain.RoadEdge{
			From: fromID, To: toID, LengthM: lengthM,
			SpeedKMH: speed, TravelTimeS: TravelTimeS(lengthM, speed),
			Highway: seg.Highway, Name: seg.Name,
		})
		if !seg.OneWay {
			graph.AddEdge(domain.RoadEdge{
				From: toID, To: fromID, LengthM: lengthM,
				SpeedKMH: speed, TravelTimeS: TravelTimeS(lengthM, speed),
				Highway: seg.Highway, Name: seg.Name,
			})
		}
	}
}

func nodeFor(graph *domain.RoadGraph, nodeIndex map[[2]int64]int, pt orb.Point) int {
	key := quantize(pt)
	if id, ok := nodeIndex[key]; ok {
		return id
	}

	id := graph.AddNode(domain.Coordinate{Lat: pt[1], Lon: pt[0]})
	nodeIndex[key] = id

	return id
}

// quantize rounds a point to ~1cm so segments sharing an endpoint across
// tile boundaries merge onto the same arena node.
func quantize(pt orb.Point) [2]int64 {
	const scale = 1e7

	return [2]int64{int64(pt[0] * scale), int64(pt[1] * scale)}
}

func haversineMeters(p1, p2 orb.Point) float64 {
	const earthRadiusM = 6371000.0

	lat1 := p1[1] * math.Pi / 180
	lat2 := p2[1] * math.Pi / 180
	dLat := (p2[1] - p1[1]) * math.Pi / 180
	dLon := (p2[0] - p1[0]) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// parseSourcePath extracts the bucket URL, prefix, and tileset name from a
// PMTiles source, supporting file://, gs://, s3://, azblob://, and bare
// local paths.
func parseSourcePath(source string) (bucketURL, prefix, tilesetName string) {
	if !strings.Contains(source, "://") {
		absPath, err := filepath.Abs(source)
		if err != nil {
			absPath = source
		}
		source = "file://" + filepath.ToSlash(absPath)
	}

	u, err := url.Parse(source)
	if err != nil {
		dir := filepath.Dir(source)
		filename := filepath.Base(source)

		return "file://" + dir, "", strings.TrimSuffix(filename, ".pmtiles")
	}

	tilesetName = strings.TrimSuffix(path.Base(u.Path), ".pmtiles")
	dirPath := path.Dir(u.Path)

	if u.Scheme == "gs" || u.Scheme == "s3" || u.Scheme == "azblob" {
		bucketURL = u.Scheme + "://" + u.Host
		if dirPath == "/" || dirPath == "." || dirPath == "" {
			prefix = ""
		} else {
			prefix = strings.TrimPrefix(dirPath, "/")
		}

		return bucketURL, prefix, tilesetName
	}

	if u.Scheme == "file" && dirPath == "/" {
		return u.String(), "", tilesetName
	}

	if dirPath == "." {
		dirPath = ""
	}
	u.Path = dirPath

	return u.String(), "", tilesetName
}
