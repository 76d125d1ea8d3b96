package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/overlog/overlog/internal/telemetry"
)

// csvChannels maps header names onto sample channel setters. Columns not
// listed here are ignored, so exporters may carry extra data alongside
// the channels we understand.
var csvChannels = map[string]func(*telemetry.Sample, float64){
	"latitude":     func(s *telemetry.Sample, v float64) { s.Latitude = telemetry.Float(v) },
	"longitude":    func(s *telemetry.Sample, v float64) { s.Longitude = telemetry.Float(v) },
	"altitude":     func(s *telemetry.Sample, v float64) { s.Altitude = telemetry.Float(v) },
	"speed":        func(s *telemetry.Sample, v float64) { s.Speed = telemetry.Float(v) },
	"heading":      func(s *telemetry.Sample, v float64) { s.Heading = telemetry.Float(v) },
	"g_force_x":    func(s *telemetry.Sample, v float64) { s.GForceX = telemetry.Float(v) },
	"g_force_y":    func(s *telemetry.Sample, v float64) { s.GForceY = telemetry.Float(v) },
	"g_force_z":    func(s *telemetry.Sample, v float64) { s.GForceZ = telemetry.Float(v) },
	"acceleration": func(s *telemetry.Sample, v float64) { s.Acceleration = telemetry.Float(v) },
	"rpm":          func(s *telemetry.Sample, v float64) { s.RPM = telemetry.Float(v) },
	"throttle":     func(s *telemetry.Sample, v float64) { s.Throttle = telemetry.Float(v) },
	"brake":        func(s *telemetry.Sample, v float64) { s.Brake = telemetry.Float(v) },
	"steering":     func(s *telemetry.Sample, v float64) { s.Steering = telemetry.Float(v) },
}

func parseCSV(data []byte) (*telemetry.Series, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	timestampCol := -1
	for i, name := range header {
		if name == "timestamp" {
			timestampCol = i
			break
		}
	}
	if timestampCol < 0 {
		return nil, fmt.Errorf("header has no timestamp column")
	}

	series := telemetry.New()
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var sample telemetry.Sample
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			if cell == "" {
				continue // Empty cell is an absent channel, not zero
			}

			if i == timestampCol {
				t, err := time.Parse(time.RFC3339, cell)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid timestamp %q: %w", line, cell, err)
				}
				sample.Timestamp = t
				continue
			}

			set, ok := csvChannels[header[i]]
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s value %q: %w", line, header[i], cell, err)
			}
			set(&sample, v)
		}

		if sample.Timestamp.IsZero() {
			return nil, fmt.Errorf("line %d: missing timestamp", line)
		}
		series.Append(sample)
	}

	return series, nil
}
