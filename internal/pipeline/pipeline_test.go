package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourplanner/internal/domain"
)

func TestParseStartOfDay(t *testing.T) {
	got, err := parseStartOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, 8, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestParseStartOfDay_Invalid(t *testing.T) {
	_, err := parseStartOfDay("not-a-time")
	require.Error(t, err)
}

func TestScheduleTotals(t *testing.T) {
	sched := domain.Schedule{Segments: []domain.ReifiedSegment{
		{LengthM: 1000, TravelTimeS: 60},
		{LengthM: 2000, TravelTimeS: 120},
	}}

	distance, duration := scheduleTotals(sched)
	assert.Equal(t, 3000.0, distance)
	assert.Equal(t, 180.0, duration)
}

func TestPrintVehicleReport_DoesNotPanicOnDepotOnlySchedule(t *testing.T) {
	sched := domain.Schedule{Segments: []domain.ReifiedSegment{
		{ToStop: domain.Stop{}, Depart: time.Now(), Arrive: time.Now()},
	}}

	assert.NotPanics(t, func() { printVehicleReport(0, sched, true) })
}
