// Package ingest parses telemetry files in their various source formats
// into the common sample representation. Adapters leave channels the
// source does not record absent rather than defaulting them to zero, and
// every parsed series is sorted by timestamp before it is returned;
// ingestion never trusts input order.
//
// A malformed record fails the whole file with enough context to locate
// the offending record. Partial, silently-degraded parses are worse than
// a loud failure for overlay rendering, where a single bad row usually
// means the exporter is broken.
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/overlog/overlog/internal/telemetry"
)

// Format identifies a telemetry source format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatGPX  Format = "gpx"

	// Declared but not implemented; parsing them returns
	// ErrUnsupportedFormat.
	FormatTCX   Format = "tcx"
	FormatGoPro Format = "bin"
)

// ErrUnsupportedFormat is returned for formats the parser does not handle.
var ErrUnsupportedFormat = errors.New("unsupported telemetry format")

// DetectFormat guesses the telemetry format from a file extension.
// Unknown extensions map to an empty Format.
func DetectFormat(path string) Format {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "csv", "json", "gpx", "tcx", "bin":
		return Format(ext)
	default:
		return ""
	}
}

// Parse decodes raw telemetry bytes in the given format into a sorted
// series.
func Parse(format Format, data []byte) (*telemetry.Series, error) {
	var series *telemetry.Series
	var err error

	switch format {
	case FormatCSV:
		series, err = parseCSV(data)
	case FormatJSON:
		series, err = parseJSON(data)
	case FormatGPX:
		series, err = parseGPX(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s telemetry: %w", format, err)
	}

	series.Format = string(format)
	series.Sort()
	return series, nil
}
