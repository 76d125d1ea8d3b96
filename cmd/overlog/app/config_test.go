package app

import (
	"testing"

	"github.com/overlog/overlog/internal/ingest"
	"github.com/overlog/overlog/internal/video"
)

func TestNewParseConfigFromCLI(t *testing.T) {
	c, err := NewParseConfigFromCLI([]string{"-i", "lap.csv", "-f", "CSV", "-db", "sessions.db"})
	if err != nil {
		t.Fatalf("NewParseConfigFromCLI: %v", err)
	}
	if c.Input != "lap.csv" || c.Format != ingest.FormatCSV || c.DBPath != "sessions.db" {
		t.Errorf("config = %+v", c)
	}

	if _, err := NewParseConfigFromCLI(nil); err == nil {
		t.Error("expected error without an input file")
	}
}

func TestNewRenderConfigFromCLI(t *testing.T) {
	c, err := NewRenderConfigFromCLI([]string{"-i", "lap.gpx", "-o", "overlay.webm", "-fps", "60", "-d", "12.5"})
	if err != nil {
		t.Fatalf("NewRenderConfigFromCLI: %v", err)
	}
	if c.FPS != 60 || c.Duration != 12.5 || c.Width != 1920 || c.Height != 1080 {
		t.Errorf("config = %+v", c)
	}
	if c.StyleName != "default" {
		t.Errorf("style = %q, want default", c.StyleName)
	}

	cases := [][]string{
		{"-o", "overlay.webm"},                                      // No telemetry source
		{"-i", "lap.gpx", "-db", "x.db", "-o", "overlay.webm"},      // Both sources
		{"-db", "x.db", "-o", "overlay.webm"},                       // Database without session
		{"-i", "lap.gpx"},                                           // No output
		{"-i", "lap.gpx", "-o", "overlay.webm", "-w", "0"},          // Bad geometry
		{"-i", "lap.gpx", "-o", "overlay.webm", "-fps", "-1"},       // Bad rate
		{"-i", "lap.gpx", "-o", "overlay.webm", "-workers", "0"},    // Bad workers
	}
	for _, args := range cases {
		if _, err := NewRenderConfigFromCLI(args); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestNewRenderConfigFromDatabase(t *testing.T) {
	c, err := NewRenderConfigFromCLI([]string{"-db", "sessions.db", "-s", "3", "-o", "overlay.webm"})
	if err != nil {
		t.Fatalf("NewRenderConfigFromCLI: %v", err)
	}
	if c.DBPath != "sessions.db" || c.SessionID != 3 {
		t.Errorf("config = %+v", c)
	}
}

func TestNewBurnConfigFromCLI(t *testing.T) {
	c, err := NewBurnConfigFromCLI([]string{
		"-i", "lap.mp4", "-overlay", "overlay.webm", "-o", "out.mp4",
		"-offset", "-1.5", "-mismatch", "TRUNCATE",
	})
	if err != nil {
		t.Fatalf("NewBurnConfigFromCLI: %v", err)
	}
	if c.Offset != -1.5 || c.Mismatch != video.MismatchTruncate {
		t.Errorf("config = %+v", c)
	}

	cases := [][]string{
		{"-overlay", "overlay.webm", "-o", "out.mp4"},
		{"-i", "lap.mp4", "-o", "out.mp4"},
		{"-i", "lap.mp4", "-overlay", "overlay.webm"},
		{"-i", "lap.mp4", "-overlay", "overlay.webm", "-o", "out.mp4", "-mismatch", "loop"},
	}
	for _, args := range cases {
		if _, err := NewBurnConfigFromCLI(args); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}
