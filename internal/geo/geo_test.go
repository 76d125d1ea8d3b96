package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	// New York to Los Angeles, roughly 3935 km.
	d := Distance(40.7128, -74.0060, 34.0522, -118.2437)
	if math.Abs(d-3935000) > 100000 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestDistanceZero(t *testing.T) {
	if d := Distance(51.5, -0.1, 51.5, -0.1); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestBearing(t *testing.T) {
	// Due north.
	b := Bearing(0, 0, 1, 0)
	if math.Abs(b) > 1 {
		t.Errorf("expected bearing ~0, got %v", b)
	}

	// Due east.
	b = Bearing(0, 0, 0, 1)
	if math.Abs(b-90) > 1 {
		t.Errorf("expected bearing ~90, got %v", b)
	}
}

func TestDestinationRoundTrip(t *testing.T) {
	lat, lon := Destination(51.5, -0.1, 45, 1000)
	d := Distance(51.5, -0.1, lat, lon)
	if math.Abs(d-1000) > 1 {
		t.Fatalf("expected ~1000m to destination, got %v", d)
	}
}

func TestSpeedConversions(t *testing.T) {
	if kmh := MsToKmh(10); math.Abs(kmh-36) > 0.1 {
		t.Errorf("MsToKmh(10) = %v, want 36", kmh)
	}
	if mph := MsToMph(10); math.Abs(mph-22.37) > 0.1 {
		t.Errorf("MsToMph(10) = %v, want 22.37", mph)
	}
	if ms := KmhToMs(36); math.Abs(ms-10) > 0.001 {
		t.Errorf("KmhToMs(36) = %v, want 10", ms)
	}
	if ms := MphToMs(22.3694); math.Abs(ms-10) > 0.001 {
		t.Errorf("MphToMs(22.3694) = %v, want 10", ms)
	}
}

func TestGForceMagnitude(t *testing.T) {
	m := GForceMagnitude(1, 1, 1)
	if math.Abs(m-math.Sqrt(3)) > 0.001 {
		t.Fatalf("GForceMagnitude(1,1,1) = %v, want sqrt(3)", m)
	}
}

func TestAcceleration(t *testing.T) {
	if a := Acceleration(10, 20, 2); a != 5 {
		t.Errorf("Acceleration(10,20,2) = %v, want 5", a)
	}
	if a := Acceleration(10, 20, 0); a != 0 {
		t.Errorf("zero dt must yield zero acceleration, got %v", a)
	}
}

func TestNormalizeAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{370, 10},
		{-10, 350},
		{360, 0},
		{0, 0},
		{720.5, 0.5},
	}
	for _, c := range cases {
		if got := NormalizeAngle(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestClampLerp(t *testing.T) {
	if v := Clamp(5, 0, 10); v != 5 {
		t.Errorf("Clamp(5,0,10) = %v", v)
	}
	if v := Clamp(-5, 0, 10); v != 0 {
		t.Errorf("Clamp(-5,0,10) = %v", v)
	}
	if v := Clamp(15, 0, 10); v != 10 {
		t.Errorf("Clamp(15,0,10) = %v", v)
	}
	if v := Lerp(0, 10, 0.5); v != 5 {
		t.Errorf("Lerp(0,10,0.5) = %v", v)
	}
	if v := Lerp(0, 10, 1); v != 10 {
		t.Errorf("Lerp(0,10,1) = %v", v)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{65, "1:05"},
		{3661, "1:01:01"},
		{30, "0:30"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.in); got != c.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatSpeed(t *testing.T) {
	if got := FormatSpeed(10); got != "36.0 km/h" {
		t.Errorf("FormatSpeed(10) = %q", got)
	}
	if got := FormatSpeed(50); got != "180 km/h" {
		t.Errorf("FormatSpeed(50) = %q", got)
	}
}

func TestFormatDistance(t *testing.T) {
	if got := FormatDistance(500); got != "500.00 m" {
		t.Errorf("FormatDistance(500) = %q", got)
	}
	if got := FormatDistance(1500); got != "1.50 km" {
		t.Errorf("FormatDistance(1500) = %q", got)
	}
}
