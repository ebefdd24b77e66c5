// Package mapsink renders a reified set of vehicle schedules as a
// self-contained interactive HTML map (Leaflet via CDN). No library in
// this codebase's dependency corpus draws maps; html/template is the
// standard-library tool for producing the static HTML/JS shell safely,
// so it is used here rather than hand-built string concatenation.
package mapsink

import (
	"fmt"
	"html/template"
	"io"

	"tourplanner/internal/domain"
)

var vehicleColors = []string{"#FF0000", "#00FF00", "#0000FF", "#FF8000"}

type markerView struct {
	Lat, Lon float64
	Tooltip  string
	Popup    string
}

type polylineView struct {
	Color  string
	Points [][2]float64
}

type mapView struct {
	RunID                string
	CenterLat, CenterLon float64
	Markers              []markerView
	Polylines            []polylineView
}

const mapTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8" />
<title>Delivery Route Map</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css" />
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet-polylinedecorator@1.6.0/dist/leaflet.polylineDecorator.js"></script>
<style>#map { height: 100vh; }</style>
</head>
<body>
{{runComment .RunID}}
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], 13);
L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
	attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

{{range .Polylines}}
(function() {
	var line = L.polyline({{pointsJS .Points}}, {color: "{{.Color}}"}).addTo(map);
	L.polylineDecorator(line, {
		patterns: [{offset: '50%', repeat: 0, symbol: L.Symbol.arrowHead({pixelSize: 10})}]
	}).addTo(map);
})();
{{end}}

{{range .Markers}}
L.marker([{{.Lat}}, {{.Lon}}]).addTo(map)
	.bindTooltip({{.Tooltip}})
	.bindPopup({{.Popup}});
{{end}}
</script>
</body>
</html>
`

var tmpl = template.Must(template.New("map").Funcs(template.FuncMap{
	"pointsJS":   pointsJS,
	"runComment": runComment,
}).Parse(mapTemplate))

// runComment renders the run ID as an HTML comment. html/template drops
// comments written literally in the template, so it is emitted as trusted
// HTML instead.
func runComment(runID string) template.HTML {
	return template.HTML("<!-- run " + template.HTMLEscapeString(runID) + " -->")
}

func pointsJS(points [][2]float64) template.JS {
	s := "["
	for i, p := range points {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("[%g,%g]", p[0], p[1])
	}

	return template.JS(s + "]")
}

// Write renders schedules to w as a standalone HTML map: one polyline per
// route segment, colored by vehicle (cycling through a fixed 4-color
// palette), arrow decoration along each polyline, and a marker per
// delivery stop with a tracking-ID tooltip and an HH:MM arrival-time popup.
func Write(w io.Writer, runID string, depot domain.Depot, schedules []domain.Schedule) error {
	view := mapView{RunID: runID, CenterLat: depot.Location.Lat, CenterLon: depot.Location.Lon}

	for vi, sched := range schedules {
		color := vehicleColors[vi%len(vehicleColors)]

		for _, seg := range sched.Segments {
			pts := make([][2]float64, len(seg.Polyline))
			for i, c := range seg.Polyline {
				pts[i] = [2]float64{c.Lat, c.Lon}
			}
			view.Polylines = append(view.Polylines, polylineView{Color: color, Points: pts})

			if seg.ToStop.IsDepot() {
				continue
			}

			view.Markers = append(view.Markers, markerView{
				Lat:     seg.ToStop.Location.Lat,
				Lon:     seg.ToStop.Location.Lon,
				Tooltip: fmt.Sprintf("%s (Tracking ID: %s)", seg.ToStop.Delivery.Address, seg.ToStop.Delivery.TrackingID()),
				Popup:   fmt.Sprintf("Arrival Time: %s", seg.Arrive.Format("15:04")),
			})
		}
	}

	return tmpl.Execute(w, view)
}
