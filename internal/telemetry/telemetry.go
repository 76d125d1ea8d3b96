package telemetry

import (
	"time"
)

// Sample is a single timestamped telemetry reading. Every channel is
// independently optional: a nil pointer means the source format did not
// record that channel, which is distinct from a recorded zero.
type Sample struct {
	Timestamp    time.Time `json:"timestamp"`              // Measurement time, the ordering key
	Latitude     *float64  `json:"latitude,omitempty"`     // GPS latitude in degrees
	Longitude    *float64  `json:"longitude,omitempty"`    // GPS longitude in degrees
	Altitude     *float64  `json:"altitude,omitempty"`     // Altitude in meters
	Speed        *float64  `json:"speed,omitempty"`        // Ground speed in m/s
	Heading      *float64  `json:"heading,omitempty"`      // Heading in degrees, 0-360
	GForceX      *float64  `json:"g_force_x,omitempty"`    // Lateral g-force
	GForceY      *float64  `json:"g_force_y,omitempty"`    // Longitudinal g-force
	GForceZ      *float64  `json:"g_force_z,omitempty"`    // Vertical g-force
	Acceleration *float64  `json:"acceleration,omitempty"` // Scalar acceleration in m/s²
	RPM          *float64  `json:"rpm,omitempty"`          // Engine revolutions per minute
	Throttle     *float64  `json:"throttle,omitempty"`     // Throttle position, 0-1
	Brake        *float64  `json:"brake,omitempty"`        // Brake pressure, 0-1
	Steering     *float64  `json:"steering,omitempty"`     // Steering angle in degrees
}

// HasPosition reports whether both latitude and longitude are present.
func (s *Sample) HasPosition() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// HasGForce reports whether all three g-force axes are present.
func (s *Sample) HasGForce() bool {
	return s.GForceX != nil && s.GForceY != nil && s.GForceZ != nil
}

// Float returns a pointer to a copy of v. Convenience constructor for
// optional channels.
func Float(v float64) *float64 {
	return &v
}
