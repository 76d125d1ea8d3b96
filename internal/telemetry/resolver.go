package telemetry

import (
	"sort"
	"time"
)

// BoundaryMode controls what the resolver returns for query timestamps
// outside the series' time span. The same mode drives the video
// pipeline's placeholder-frame fallback, so the two never disagree.
type BoundaryMode int

const (
	// BoundaryNone returns no sample for out-of-range timestamps.
	BoundaryNone BoundaryMode = iota

	// BoundaryClamp returns the nearest endpoint sample.
	BoundaryClamp
)

// SampleAtOrBefore returns the sample with the given timestamp, or the
// most recent sample before it. It returns nil when t precedes the first
// sample. For t at or after the last timestamp it returns the last sample.
func (s *Series) SampleAtOrBefore(t time.Time) *Sample {
	if len(s.Points) == 0 {
		return nil
	}

	// First index whose timestamp is after t.
	i := sort.Search(len(s.Points), func(i int) bool {
		return s.Points[i].Timestamp.After(t)
	})
	if i == 0 {
		return nil
	}
	return &s.Points[i-1]
}

// At resolves the telemetry state at an arbitrary timestamp.
//
// An exact timestamp match returns that sample verbatim, with no numeric
// error introduced; duplicates resolve to the first occurrence. A
// timestamp strictly between two samples returns a new sample with each
// channel present on both sides linearly interpolated. Positions are
// interpolated on a plane, which is a documented approximation valid for
// the short inter-sample intervals of typical telemetry logs. A channel
// present on only one side carries the known value rather than going
// absent. Out-of-range timestamps follow the boundary mode.
func (s *Series) At(t time.Time, mode BoundaryMode) *Sample {
	if len(s.Points) == 0 {
		return nil
	}

	// First index whose timestamp is at or after t.
	i := sort.Search(len(s.Points), func(i int) bool {
		return !s.Points[i].Timestamp.Before(t)
	})

	if i < len(s.Points) && s.Points[i].Timestamp.Equal(t) {
		p := s.Points[i]
		return &p
	}

	if i == 0 || i == len(s.Points) {
		if mode == BoundaryClamp {
			var p Sample
			if i == 0 {
				p = s.Points[0]
			} else {
				p = s.Points[len(s.Points)-1]
			}
			return &p
		}
		return nil
	}

	a, b := &s.Points[i-1], &s.Points[i]
	f := float64(t.Sub(a.Timestamp)) / float64(b.Timestamp.Sub(a.Timestamp))

	return &Sample{
		Timestamp:    t,
		Latitude:     lerpChannel(a.Latitude, b.Latitude, f),
		Longitude:    lerpChannel(a.Longitude, b.Longitude, f),
		Altitude:     lerpChannel(a.Altitude, b.Altitude, f),
		Speed:        lerpChannel(a.Speed, b.Speed, f),
		Heading:      lerpChannel(a.Heading, b.Heading, f),
		GForceX:      lerpChannel(a.GForceX, b.GForceX, f),
		GForceY:      lerpChannel(a.GForceY, b.GForceY, f),
		GForceZ:      lerpChannel(a.GForceZ, b.GForceZ, f),
		Acceleration: lerpChannel(a.Acceleration, b.Acceleration, f),
		RPM:          lerpChannel(a.RPM, b.RPM, f),
		Throttle:     lerpChannel(a.Throttle, b.Throttle, f),
		Brake:        lerpChannel(a.Brake, b.Brake, f),
		Steering:     lerpChannel(a.Steering, b.Steering, f),
	}
}

// lerpChannel interpolates an optional channel. Both sides present
// interpolates; one side present carries that value; neither stays absent.
func lerpChannel(a, b *float64, f float64) *float64 {
	switch {
	case a != nil && b != nil:
		return Float(*a + (*b-*a)*f)
	case a != nil:
		return Float(*a)
	case b != nil:
		return Float(*b)
	default:
		return nil
	}
}
