package ingest

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/overlog/overlog/internal/telemetry"
)

// The GPX adapter reads the track subset of the schema: trk > trkseg >
// trkpt with lat/lon attributes, optional elevation and time. Waypoints
// and routes carry no timeline and are skipped.
type gpxFile struct {
	XMLName xml.Name   `xml:"gpx"`
	Tracks  []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Latitude  float64  `xml:"lat,attr"`
	Longitude float64  `xml:"lon,attr"`
	Elevation *float64 `xml:"ele"`
	Time      string   `xml:"time"`
}

func parseGPX(data []byte) (*telemetry.Series, error) {
	var doc gpxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	series := telemetry.New()
	n := 0
	for _, track := range doc.Tracks {
		for _, segment := range track.Segments {
			for _, point := range segment.Points {
				n++
				if point.Time == "" {
					return nil, fmt.Errorf("track point %d: missing time element", n)
				}
				t, err := time.Parse(time.RFC3339, point.Time)
				if err != nil {
					return nil, fmt.Errorf("track point %d: invalid time %q: %w", n, point.Time, err)
				}

				series.Append(telemetry.Sample{
					Timestamp: t,
					Latitude:  telemetry.Float(point.Latitude),
					Longitude: telemetry.Float(point.Longitude),
					Altitude:  point.Elevation,
				})
			}
		}
	}

	return series, nil
}
