package geo

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourplanner/internal/domain"
)

func TestNearbyPlaces_FiltersByExactDistance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"elements": [
				{"lat": 49.45, "lon": 1.10, "tags": {"name": "Rouen"}},
				{"lat": 60.0, "lon": 30.0, "tags": {"name": "TooFar"}},
				{"lat": 49.44, "lon": 1.09, "tags": {}}
			]
		}`))
	}))
	defer server.Close()

	names, err := NearbyPlaces(t.Context(), server.URL, domain.Coordinate{Lat: 49.4431, Lon: 1.0993}, 15)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rouen"}, names)
}

func TestNearbyPlaces_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NearbyPlaces(t.Context(), server.URL, domain.Coordinate{Lat: 0, Lon: 0}, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRegionLookupFailed)
}

func TestBuildQuery_ContainsPlaceFilters(t *testing.T) {
	q := buildQuery(domain.Coordinate{Lat: 1, Lon: 2}, 10)
	for _, place := range []string{"city", "town", "village"} {
		assert.Contains(t, q, place)
	}
	assert.Contains(t, q, "around:10000,1,2")
}
