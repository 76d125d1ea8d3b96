package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/overlog/overlog/internal/telemetry"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	s := New(filepath.Join(t.TempDir(), "overlog.db"))
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func testSeries() *telemetry.Series {
	s := telemetry.New()
	s.Source = "lap1.csv"
	s.Format = "csv"

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.Append(telemetry.Sample{
		Timestamp: base,
		Latitude:  telemetry.Float(50.0),
		Longitude: telemetry.Float(8.0),
		Speed:     telemetry.Float(10),
	})
	s.Append(telemetry.Sample{
		Timestamp: base.Add(time.Second),
		Speed:     telemetry.Float(12.5),
		RPM:       telemetry.Float(4200),
	})
	s.Append(telemetry.Sample{
		Timestamp: base.Add(2 * time.Second),
	})
	s.Sort()
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	in := testSeries()
	sessionID, err := s.Save(ctx, in)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if sessionID == 0 {
		t.Fatal("Save returned zero session ID")
	}

	out, err := s.LoadSeries(ctx, sessionID)
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}

	if out.Source != in.Source || out.Format != in.Format {
		t.Errorf("series identity = %q/%q, want %q/%q", out.Source, out.Format, in.Source, in.Format)
	}
	if out.Len() != in.Len() {
		t.Fatalf("loaded %d points, want %d", out.Len(), in.Len())
	}

	for i := range in.Points {
		want, got := &in.Points[i], &out.Points[i]

		if !got.Timestamp.Equal(want.Timestamp) {
			t.Errorf("point %d timestamp = %v, want %v", i, got.Timestamp, want.Timestamp)
		}
		checkChannel(t, i, "latitude", got.Latitude, want.Latitude)
		checkChannel(t, i, "longitude", got.Longitude, want.Longitude)
		checkChannel(t, i, "speed", got.Speed, want.Speed)
		checkChannel(t, i, "rpm", got.RPM, want.RPM)
	}

	// Absent channels must come back absent, not zero.
	if out.Points[1].Latitude != nil {
		t.Error("absent latitude resurfaced as a value")
	}
	if out.Points[2].Speed != nil {
		t.Error("absent speed resurfaced as a value")
	}
}

func checkChannel(t *testing.T, i int, name string, got, want *float64) {
	t.Helper()

	switch {
	case want == nil && got != nil:
		t.Errorf("point %d %s = %v, want absent", i, name, *got)
	case want != nil && got == nil:
		t.Errorf("point %d %s absent, want %v", i, name, *want)
	case want != nil && got != nil && *got != *want:
		t.Errorf("point %d %s = %v, want %v", i, name, *got, *want)
	}
}

func TestLoadSeriesSorted(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	series := telemetry.New()
	series.Source = "shuffled.json"
	series.Format = "json"

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	// Appended out of order on purpose.
	series.Append(telemetry.Sample{Timestamp: base.Add(2 * time.Second)})
	series.Append(telemetry.Sample{Timestamp: base})
	series.Append(telemetry.Sample{Timestamp: base.Add(time.Second)})

	sessionID, err := s.Save(ctx, series)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.LoadSeries(ctx, sessionID)
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	for i := 1; i < out.Len(); i++ {
		if out.Points[i].Timestamp.Before(out.Points[i-1].Timestamp) {
			t.Fatalf("loaded series not sorted at index %d", i)
		}
	}
}

func TestSaveSeriesEmpty(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	sessionID, err := s.CreateSession(ctx, "empty.csv", "csv")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.SaveSeries(ctx, sessionID, telemetry.New()); err != nil {
		t.Fatalf("SaveSeries on empty series: %v", err)
	}

	out, err := s.LoadSeries(ctx, sessionID)
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected empty series, got %d points", out.Len())
	}
}

func TestSaveSeriesLargeBatch(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	series := telemetry.New()
	series.Source = "long.csv"
	series.Format = "csv"

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	const n = 3 * insertChunkSize / 2
	for i := 0; i < n; i++ {
		series.Append(telemetry.Sample{
			Timestamp: base.Add(time.Duration(i) * 100 * time.Millisecond),
			Speed:     telemetry.Float(float64(i)),
		})
	}

	sessionID, err := s.Save(ctx, series)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.LoadSeries(ctx, sessionID)
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if out.Len() != n {
		t.Fatalf("loaded %d points, want %d", out.Len(), n)
	}
	if got := *out.Points[n-1].Speed; got != float64(n-1) {
		t.Errorf("last point speed = %v, want %v", got, float64(n-1))
	}
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	if _, err := s.CreateSession(ctx, "a.csv", "csv"); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := s.CreateSession(ctx, "b.gpx", "gpx"); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	sessions, err := s.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].Source != "a.csv" || sessions[0].Format != "csv" {
		t.Errorf("session 0 = %+v", sessions[0])
	}
	if sessions[1].Source != "b.gpx" || sessions[1].Format != "gpx" {
		t.Errorf("session 1 = %+v", sessions[1])
	}
}

func TestSessionNotFound(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	// Force schema creation so the read connection has a database.
	if _, err := s.CreateSession(ctx, "a.csv", "csv"); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := s.Session(ctx, 9999); err == nil {
		t.Fatal("expected error for missing session")
	}
}
