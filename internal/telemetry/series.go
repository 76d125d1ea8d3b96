package telemetry

import (
	"sort"
	"time"

	"github.com/overlog/overlog/internal/geo"
)

// Series is a time-ordered collection of samples from a single telemetry
// source. Ingestion sorts the series before it is handed out, and every
// query method assumes ascending timestamps.
type Series struct {
	Source string   `json:"source,omitempty"` // Originating file, informational
	Format string   `json:"format,omitempty"` // Source format name (csv, json, gpx)
	Points []Sample `json:"points"`
}

// Region is a geographic bounding box over the samples that carry a position.
type Region struct {
	MinLatitude  float64 `json:"min_latitude"`
	MaxLatitude  float64 `json:"max_latitude"`
	MinLongitude float64 `json:"min_longitude"`
	MaxLongitude float64 `json:"max_longitude"`
}

// Summary is derived metadata over a series. Fields stay nil when the
// corresponding channel is absent across the entire series; a missing
// channel never degrades to zero.
type Summary struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Duration  float64    `json:"duration"`                 // Seconds between first and last sample
	Distance  *float64   `json:"total_distance,omitempty"` // Meters over consecutive positioned samples
	MaxSpeed  *float64   `json:"max_speed,omitempty"`      // m/s
	MinSpeed  *float64   `json:"min_speed,omitempty"`      // m/s
	MaxGForce *float64   `json:"max_g_force,omitempty"`    // Magnitude over all three axes
	Bounds    *Region    `json:"bounds,omitempty"`
}

// New creates an empty series.
func New() *Series {
	return &Series{}
}

// Append adds a sample to the series. The caller must Sort before querying.
func (s *Series) Append(p Sample) {
	s.Points = append(s.Points, p)
}

// Len returns the number of samples in the series.
func (s *Series) Len() int {
	return len(s.Points)
}

// Sort orders the samples by ascending timestamp. The sort is stable, so
// duplicate timestamps keep their original relative order and queries
// resolve them first-occurrence-wins.
func (s *Series) Sort() {
	sort.SliceStable(s.Points, func(i, j int) bool {
		return s.Points[i].Timestamp.Before(s.Points[j].Timestamp)
	})
}

// Summary computes derived metadata in a single pass over the sorted
// series. It is a pure function of the current points: calling it twice
// without mutation yields identical results.
func (s *Series) Summary() Summary {
	var sum Summary
	if len(s.Points) == 0 {
		return sum
	}

	first := s.Points[0].Timestamp
	last := s.Points[len(s.Points)-1].Timestamp
	sum.StartTime = &first
	sum.EndTime = &last
	sum.Duration = last.Sub(first).Seconds()

	var distance float64
	var havePair bool

	for i := range s.Points {
		p := &s.Points[i]

		if p.Speed != nil {
			if sum.MaxSpeed == nil || *p.Speed > *sum.MaxSpeed {
				sum.MaxSpeed = Float(*p.Speed)
			}
			if sum.MinSpeed == nil || *p.Speed < *sum.MinSpeed {
				sum.MinSpeed = Float(*p.Speed)
			}
		}

		if p.HasGForce() {
			m := geo.GForceMagnitude(*p.GForceX, *p.GForceY, *p.GForceZ)
			if sum.MaxGForce == nil || m > *sum.MaxGForce {
				sum.MaxGForce = Float(m)
			}
		}

		if p.HasPosition() {
			if sum.Bounds == nil {
				sum.Bounds = &Region{
					MinLatitude:  *p.Latitude,
					MaxLatitude:  *p.Latitude,
					MinLongitude: *p.Longitude,
					MaxLongitude: *p.Longitude,
				}
			} else {
				sum.Bounds.MinLatitude = min(sum.Bounds.MinLatitude, *p.Latitude)
				sum.Bounds.MaxLatitude = max(sum.Bounds.MaxLatitude, *p.Latitude)
				sum.Bounds.MinLongitude = min(sum.Bounds.MinLongitude, *p.Longitude)
				sum.Bounds.MaxLongitude = max(sum.Bounds.MaxLongitude, *p.Longitude)
			}

			// Distance accumulates over adjacent pairs only; a gap in
			// position data does not get bridged.
			if i > 0 {
				if q := &s.Points[i-1]; q.HasPosition() {
					distance += geo.Distance(*q.Latitude, *q.Longitude, *p.Latitude, *p.Longitude)
					havePair = true
				}
			}
		}
	}

	if havePair {
		sum.Distance = Float(distance)
	}
	return sum
}
