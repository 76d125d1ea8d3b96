package app

import (
	"errors"
	"flag"
	"fmt"
	"runtime"
	"strings"

	"github.com/overlog/overlog/internal/ingest"
	"github.com/overlog/overlog/internal/video"
)

var validMismatchPolicies = map[video.MismatchPolicy]struct{}{
	video.MismatchFreeze:   {},
	video.MismatchBlank:    {},
	video.MismatchTruncate: {},
}

// ParseConfig configures the parse command.
type ParseConfig struct {
	Input      string
	Format     ingest.Format
	OutputFile string // Empty means stdout
	DBPath     string // Non-empty persists the session
}

func NewParseConfigFromCLI(args []string) (*ParseConfig, error) {
	c := ParseConfig{}

	var format string
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.StringVar(&c.Input, "i", "", "Path to the telemetry file")
	fs.StringVar(&format, "f", "", "Telemetry format [csv, json, gpx]; detected from the extension when omitted")
	fs.StringVar(&c.OutputFile, "o", "", "Path to the output file; stdout when omitted")
	fs.StringVar(&c.DBPath, "db", "", "Path to a session database to persist the parsed telemetry")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var err error
	if c.Input == "" {
		err = errors.New("input telemetry file is required")
	}

	if err != nil {
		fs.Usage()
		return nil, err
	}

	c.Format = ingest.Format(strings.ToLower(format))
	return &c, nil
}

// RenderConfig configures the render command. Telemetry comes either
// from a file or from a stored session; exactly one must be given.
type RenderConfig struct {
	Input      string
	Format     ingest.Format
	DBPath     string
	SessionID  int64
	OutputFile string

	StyleName string
	StyleFile string

	Width    int
	Height   int
	FPS      float64
	Duration float64 // Seconds; 0 derives it from the telemetry
	Workers  int
	Clamp    bool
}

func NewRenderConfigFromCLI(args []string) (*RenderConfig, error) {
	c := RenderConfig{}

	var format string
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.StringVar(&c.Input, "i", "", "Path to the telemetry file")
	fs.StringVar(&format, "f", "", "Telemetry format [csv, json, gpx]; detected from the extension when omitted")
	fs.StringVar(&c.DBPath, "db", "", "Path to the session database to read telemetry from")
	fs.Int64Var(&c.SessionID, "s", 0, "Session ID within the database")
	fs.StringVar(&c.OutputFile, "o", "", "Path to the output overlay video")
	fs.StringVar(&c.StyleName, "style", "default", "Built-in style name [default, minimal, racing]")
	fs.StringVar(&c.StyleFile, "style-file", "", "Path to a YAML style file, overrides -style")
	fs.IntVar(&c.Width, "w", 1920, "Overlay frame width in pixels")
	fs.IntVar(&c.Height, "h", 1080, "Overlay frame height in pixels")
	fs.Float64Var(&c.FPS, "fps", 30, "Overlay frame rate")
	fs.Float64Var(&c.Duration, "d", 0, "Overlay duration in seconds; derived from the telemetry when omitted")
	fs.IntVar(&c.Workers, "workers", runtime.NumCPU(), "Number of concurrent frame renderers")
	fs.BoolVar(&c.Clamp, "clamp", false, "Clamp out-of-range timestamps to the nearest sample instead of leaving frames blank")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var err error
	if c.Input == "" && c.DBPath == "" {
		err = errors.New("either an input telemetry file or a session database is required")
	} else if c.Input != "" && c.DBPath != "" {
		err = errors.New("input telemetry file and session database are mutually exclusive")
	} else if c.DBPath != "" && c.SessionID <= 0 {
		err = errors.New("session id is required when reading from a database")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if c.Width <= 0 || c.Height <= 0 {
		err = fmt.Errorf("invalid frame geometry %dx%d", c.Width, c.Height)
	} else if c.FPS <= 0 {
		err = fmt.Errorf("invalid frame rate %v", c.FPS)
	} else if c.Duration < 0 {
		err = fmt.Errorf("invalid duration %v", c.Duration)
	} else if c.Workers <= 0 {
		err = fmt.Errorf("invalid worker count %d", c.Workers)
	}

	if err != nil {
		fs.Usage()
		return nil, err
	}

	c.Format = ingest.Format(strings.ToLower(format))
	return &c, nil
}

// BurnConfig configures the burn command.
type BurnConfig struct {
	Source     string
	Overlay    string
	OutputFile string
	Offset     float64 // Seconds the overlay starts after the source
	Mismatch   video.MismatchPolicy
}

func NewBurnConfigFromCLI(args []string) (*BurnConfig, error) {
	c := BurnConfig{}

	var mismatch string
	fs := flag.NewFlagSet("burn", flag.ContinueOnError)
	fs.StringVar(&c.Source, "i", "", "Path to the source video")
	fs.StringVar(&c.Overlay, "overlay", "", "Path to the rendered overlay video")
	fs.StringVar(&c.OutputFile, "o", "", "Path to the output video")
	fs.Float64Var(&c.Offset, "offset", 0, "Seconds the overlay starts after the source; may be negative")
	fs.StringVar(&mismatch, "mismatch", string(video.MismatchFreeze),
		"What to do when the overlay is shorter than the source [freeze, blank, truncate]")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	mismatch = strings.ToLower(mismatch)

	var err error
	if c.Source == "" {
		err = errors.New("source video is required")
	} else if c.Overlay == "" {
		err = errors.New("overlay video is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if _, ok := validMismatchPolicies[video.MismatchPolicy(mismatch)]; !ok {
		err = fmt.Errorf("invalid mismatch policy: %s", mismatch)
	}

	if err != nil {
		fs.Usage()
		return nil, err
	}

	c.Mismatch = video.MismatchPolicy(mismatch)
	return &c, nil
}
