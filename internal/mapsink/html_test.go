package mapsink

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourplanner/internal/domain"
)

func TestWrite_EmitsPolylinesAndMarkers(t *testing.T) {
	depot := domain.Depot{Name: "Depot", Location: domain.Coordinate{Lat: 49.44, Lon: 1.09}}
	delivery := domain.Delivery{PackageID: "1", Address: "1 Rue de Paris"}

	schedules := []domain.Schedule{
		{
			VehicleID: 0,
			Segments: []domain.ReifiedSegment{
				{
					ToStop: domain.Stop{Delivery: &delivery, Location: domain.Coordinate{Lat: 49.45, Lon: 1.10}},
					Polyline: []domain.Coordinate{
						{Lat: 49.44, Lon: 1.09},
						{Lat: 49.45, Lon: 1.10},
					},
					Arrive: time.Date(2026, 1, 1, 8, 30, 0, 0, time.UTC),
				},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "run-123", depot, schedules))

	out := buf.String()
	assert.Contains(t, out, "run-123")
	assert.Contains(t, out, "#FF0000")
	assert.Contains(t, out, "PKG0001")
	assert.Contains(t, out, "Arrival Time: 08:30")
	assert.True(t, strings.Contains(out, "L.polyline"))
}

func TestWrite_SkipsMarkerForDepotStop(t *testing.T) {
	depot := domain.Depot{Location: domain.Coordinate{Lat: 0, Lon: 0}}
	schedules := []domain.Schedule{
		{Segments: []domain.ReifiedSegment{{ToStop: domain.Stop{}}}},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "run-456", depot, schedules))
	assert.NotContains(t, buf.String(), "Tracking ID")
}
