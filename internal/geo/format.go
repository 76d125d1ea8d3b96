package geo

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatDuration renders a duration in seconds as m:ss or h:mm:ss.
func FormatDuration(seconds float64) string {
	hours := int(seconds / 3600)
	minutes := int(seconds/60) % 60
	secs := int(seconds) % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatSpeed renders a speed in m/s as km/h, with one decimal below
// 100 km/h and none above.
func FormatSpeed(ms float64) string {
	kmh := MsToKmh(ms)
	if kmh >= 100 {
		return fmt.Sprintf("%.0f km/h", kmh)
	}
	return fmt.Sprintf("%.1f km/h", kmh)
}

// FormatDistance renders a distance in meters with an SI prefix,
// e.g. "500.00 m" or "1.50 km".
func FormatDistance(meters float64) string {
	value, prefix := humanize.ComputeSI(meters)
	return fmt.Sprintf("%0.2f %sm", value, prefix)
}
