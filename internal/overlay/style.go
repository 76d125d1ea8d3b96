// Package overlay renders telemetry state into transparent RGBA frames.
package overlay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Units selects the speed unit drawn on the overlay.
type Units string

const (
	UnitsKmh Units = "kmh"
	UnitsMph Units = "mph"
)

const defaultFontSize = 24.0

// Style selects which channels the renderer draws and how. It is
// configuration data only; a style never touches the telemetry series.
type Style struct {
	Name      string  `yaml:"name"`
	Units     Units   `yaml:"units"`
	FontSize  float64 `yaml:"fontSize"`
	Speed     bool    `yaml:"speed"`
	GForce    bool    `yaml:"gForce"`
	GPS       bool    `yaml:"gps"`
	Altitude  bool    `yaml:"altitude"`
	RPM       bool    `yaml:"rpm"`
	Timestamp bool    `yaml:"timestamp"`
}

// Builtin styles, selectable by name without a style file.
var builtinStyles = map[string]Style{
	"default": {
		Name:  "default",
		Units: UnitsKmh, FontSize: defaultFontSize,
		Speed: true, GForce: true, GPS: true, Altitude: true, Timestamp: true,
	},
	"minimal": {
		Name:  "minimal",
		Units: UnitsKmh, FontSize: defaultFontSize,
		Speed: true, Timestamp: true,
	},
	"racing": {
		Name:  "racing",
		Units: UnitsKmh, FontSize: defaultFontSize,
		Speed: true, GForce: true, RPM: true,
	},
}

// BuiltinStyle returns one of the named built-in styles.
func BuiltinStyle(name string) (Style, error) {
	style, ok := builtinStyles[name]
	if !ok {
		return Style{}, fmt.Errorf("unknown style %q", name)
	}
	return style, nil
}

// LoadStyle reads a style definition from a YAML file.
func LoadStyle(path string) (Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, fmt.Errorf("reading style file: %w", err)
	}

	var style Style
	if err := yaml.Unmarshal(data, &style); err != nil {
		return Style{}, fmt.Errorf("parsing style file: %w", err)
	}
	if style.Units == "" {
		style.Units = UnitsKmh
	}
	if style.FontSize == 0 {
		style.FontSize = defaultFontSize
	}
	if err := style.Validate(); err != nil {
		return Style{}, err
	}
	return style, nil
}

// Validate checks the style for impossible values.
func (s Style) Validate() error {
	switch s.Units {
	case UnitsKmh, UnitsMph:
	default:
		return fmt.Errorf("invalid units %q", s.Units)
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("invalid font size %v", s.FontSize)
	}
	return nil
}
