// Package geo resolves a query coordinate to nearby named places via an
// Overpass-API-compatible endpoint.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"tourplanner/internal/domain"
)

// sharedClient is a package-level HTTP client built once, matching the
// shared-client-with-generous-timeout pattern used for the planner's
// other long-running outbound fetches.
var (
	sharedClient     *http.Client
	sharedClientOnce sync.Once
)

func httpClient() *http.Client {
	sharedClientOnce.Do(func() {
		sharedClient = &http.Client{Timeout: 30 * time.Second}
	})

	return sharedClient
}

type overpassResponse struct {
	Elements []struct {
		Lat  float64 `json:"lat"`
		Lon  float64 `json:"lon"`
		Tags struct {
			Name string `json:"name"`
		} `json:"tags"`
	} `json:"elements"`
}

// NearbyPlaces queries overpassURL for named city/town/village nodes
// within radiusKm of center, filters by exact great-circle distance, and
// returns their names. An empty slice (no error) means the search
// succeeded but found nothing nearby.
func NearbyPlaces(ctx context.Context, overpassURL string, center domain.Coordinate, radiusKm float64) ([]string, error) {
	query := buildQuery(center, radiusKm)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, overpassURL, nil)
	if err != nil {
		return nil, errors.Wrap(domain.ErrRegionLookupFailed, err.Error())
	}
	req.URL.RawQuery = url.Values{"data": {query}}.Encode()

	resp, err := httpClient().Do(req)
	if err != nil {
		return nil, errors.Wrap(domain.ErrRegionLookupFailed, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(domain.ErrRegionLookupFailed, "overpass returned status %d", resp.StatusCode)
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(domain.ErrRegionLookupFailed, err.Error())
	}

	var names []string
	for _, el := range parsed.Elements {
		if el.Tags.Name == "" {
			continue
		}
		if haversineKM(center, domain.Coordinate{Lat: el.Lat, Lon: el.Lon}) <= radiusKm {
			names = append(names, el.Tags.Name)
		}
	}

	return names, nil
}

// buildQuery renders the Overpass QL query for city/town/village nodes
// around center, matching the query shape known to work against public
// Overpass instances.
func buildQuery(center domain.Coordinate, radiusKm float64) string {
	radiusM := radiusKm * 1000

	var b strings.Builder
	b.WriteString("[out:json];(")
	for _, place := range []string{"city", "town", "village"} {
		fmt.Fprintf(&b, `node["place"="%s"](around:%g,%g,%g);`, place, radiusM, center.Lat, center.Lon)
	}
	b.WriteString(");out body;")

	return b.String()
}

func haversineKM(a, b domain.Coordinate) float64 {
	const earthRadiusKM = 6371.0

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}
