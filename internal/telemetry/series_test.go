package telemetry

import (
	"math"
	"testing"
	"time"
)

func ts(sec int) time.Time {
	return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(sec) * time.Second)
}

func TestSortStable(t *testing.T) {
	s := New()
	s.Append(Sample{Timestamp: ts(10), Speed: Float(3)})
	s.Append(Sample{Timestamp: ts(0), Speed: Float(1)})
	s.Append(Sample{Timestamp: ts(10), Speed: Float(4)}) // Duplicate timestamp
	s.Append(Sample{Timestamp: ts(5), Speed: Float(2)})
	s.Sort()

	want := []float64{1, 2, 3, 4}
	for i, w := range want {
		if got := *s.Points[i].Speed; got != w {
			t.Errorf("point %d: speed = %v, want %v", i, got, w)
		}
	}
}

func TestSummaryEmpty(t *testing.T) {
	sum := New().Summary()
	if sum.StartTime != nil || sum.EndTime != nil || sum.Duration != 0 {
		t.Fatalf("empty series must yield a zero summary: %+v", sum)
	}
	if sum.MaxSpeed != nil || sum.Distance != nil || sum.Bounds != nil || sum.MaxGForce != nil {
		t.Fatalf("empty series must leave optional summary fields nil: %+v", sum)
	}
}

func TestSummary(t *testing.T) {
	s := New()
	s.Append(Sample{
		Timestamp: ts(0),
		Latitude:  Float(51.5000),
		Longitude: Float(-0.1000),
		Speed:     Float(10),
		GForceX:   Float(1), GForceY: Float(0), GForceZ: Float(0),
	})
	s.Append(Sample{
		Timestamp: ts(30),
		Latitude:  Float(51.5010),
		Longitude: Float(-0.1000),
		Speed:     Float(20),
		GForceX:   Float(1), GForceY: Float(1), GForceZ: Float(1),
	})
	s.Sort()

	sum := s.Summary()
	if sum.Duration != 30 {
		t.Errorf("duration = %v, want 30", sum.Duration)
	}
	if sum.MaxSpeed == nil || *sum.MaxSpeed != 20 {
		t.Errorf("max speed = %v, want 20", sum.MaxSpeed)
	}
	if sum.MinSpeed == nil || *sum.MinSpeed != 10 {
		t.Errorf("min speed = %v, want 10", sum.MinSpeed)
	}
	if sum.MaxGForce == nil || math.Abs(*sum.MaxGForce-math.Sqrt(3)) > 1e-9 {
		t.Errorf("max g = %v, want sqrt(3)", sum.MaxGForce)
	}
	// 0.001 degrees of latitude is roughly 111 meters.
	if sum.Distance == nil || math.Abs(*sum.Distance-111.2) > 1 {
		t.Errorf("distance = %v, want ~111.2", sum.Distance)
	}
	if sum.Bounds == nil || sum.Bounds.MinLatitude != 51.5 || sum.Bounds.MaxLatitude != 51.501 {
		t.Errorf("unexpected bounds: %+v", sum.Bounds)
	}
}

func TestSummaryAbsentChannelsStayAbsent(t *testing.T) {
	s := New()
	s.Append(Sample{Timestamp: ts(0), Altitude: Float(120)})
	s.Append(Sample{Timestamp: ts(10), Altitude: Float(140)})
	s.Sort()

	sum := s.Summary()
	if sum.MaxSpeed != nil || sum.MinSpeed != nil {
		t.Errorf("speed extrema must stay nil without speed data")
	}
	if sum.MaxGForce != nil {
		t.Errorf("g-force extrema must stay nil without g-force data")
	}
	if sum.Distance != nil || sum.Bounds != nil {
		t.Errorf("position-derived fields must stay nil without positions")
	}
}

func TestSummaryDistanceSkipsGaps(t *testing.T) {
	s := New()
	s.Append(Sample{Timestamp: ts(0), Latitude: Float(51.5), Longitude: Float(-0.1)})
	s.Append(Sample{Timestamp: ts(10)}) // No position
	s.Append(Sample{Timestamp: ts(20), Latitude: Float(51.6), Longitude: Float(-0.1)})
	s.Sort()

	if sum := s.Summary(); sum.Distance != nil {
		t.Fatalf("distance over a position gap must stay nil, got %v", *sum.Distance)
	}
}

func TestSummaryIdempotent(t *testing.T) {
	s := New()
	s.Append(Sample{Timestamp: ts(3), Speed: Float(5), Latitude: Float(1), Longitude: Float(1)})
	s.Append(Sample{Timestamp: ts(1), Speed: Float(7), Latitude: Float(1.1), Longitude: Float(1)})
	s.Sort()

	first := s.Summary()
	s.Sort() // Re-sorting a sorted series must not change anything
	second := s.Summary()

	if first.Duration != second.Duration ||
		*first.MaxSpeed != *second.MaxSpeed ||
		*first.Distance != *second.Distance {
		t.Fatalf("summary not idempotent: %+v vs %+v", first, second)
	}
}
