package roadgraph

import (
	"strconv"
	"strings"
)

// speedForHighway holds the highway-class overrides that take precedence
// over a parsed numeric maxspeed tag. This mirrors the exact precedence
// observed in the source pipeline this planner was distilled from: a
// "rural" substring in the raw tag sets a tentative speed, but it is
// itself overridden by a recognized highway class, which in turn is only
// consulted before falling back to a parsed numeric tag. This order has
// not been changed without direction from the system's operators even
// though it reads as backwards (highway class overriding the tag that
// should be most specific).
var speedForHighway = map[string]float64{
	"motorway":    130,
	"trunk":       110,
	"primary":     90,
	"residential": 30,
}

const (
	ruralTentativeKMH = 80
	defaultSpeedKMH   = 50
	maxClampedKMH     = 130
)

// ParseSpeedKMH derives a road edge's speed in km/h from its raw maxspeed
// tag and highway classification, in the following order:
//  1. if raw contains "rural" (case-insensitive), tentatively 80;
//  2. a recognized highway class then overrides step 1;
//  3. otherwise parse raw as a number, clamped to 130;
//  4. otherwise (unparsable or empty) default to 50.
func ParseSpeedKMH(raw, highway string) float64 {
	raw = firstListElement(raw)

	speed := -1.0
	if strings.Contains(strings.ToLower(raw), "rural") {
		speed = ruralTentativeKMH
	}

	if override, ok := speedForHighway[strings.ToLower(highway)]; ok {
		speed = override
	}

	if speed >= 0 {
		return speed
	}

	if parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		if parsed > maxClampedKMH {
			return maxClampedKMH
		}
		if parsed > 0 {
			return parsed
		}
	}

	return defaultSpeedKMH
}

// firstListElement returns the first ";"-or-","-separated element of a
// tag value, since OSM list-valued tags (e.g. conditional maxspeeds) are
// only ever interpreted by their first entry here.
func firstListElement(raw string) string {
	for _, sep := range []string{";", ","} {
		if idx := strings.Index(raw, sep); idx >= 0 {
			return raw[:idx]
		}
	}

	return raw
}

// TravelTimeS converts a length in metres and a speed in km/h into a
// travel time in seconds.
func TravelTimeS(lengthM, speedKMH float64) float64 {
	if speedKMH <= 0 {
		return 0
	}

	metresPerSecond := speedKMH * 1000 / 3600

	return lengthM / metresPerSecond
}
