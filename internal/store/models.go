package store

import (
	"database/sql"
	"time"

	"github.com/overlog/overlog/internal/telemetry"
)

// Session describes one stored telemetry capture.
type Session struct {
	ID        int64
	CreatedAt time.Time
	Source    string
	Format    string
}

type sampleData struct {
	SessionID    int64
	Timestamp    time.Time
	Latitude     sql.NullFloat64
	Longitude    sql.NullFloat64
	Altitude     sql.NullFloat64
	Speed        sql.NullFloat64
	Heading      sql.NullFloat64
	GForceX      sql.NullFloat64
	GForceY      sql.NullFloat64
	GForceZ      sql.NullFloat64
	Acceleration sql.NullFloat64
	RPM          sql.NullFloat64
	Throttle     sql.NullFloat64
	Brake        sql.NullFloat64
	Steering     sql.NullFloat64
}

func toSampleData(sessionID int64, s *telemetry.Sample) *sampleData {
	return &sampleData{
		SessionID:    sessionID,
		Timestamp:    s.Timestamp.UTC(),
		Latitude:     toNullFloat(s.Latitude),
		Longitude:    toNullFloat(s.Longitude),
		Altitude:     toNullFloat(s.Altitude),
		Speed:        toNullFloat(s.Speed),
		Heading:      toNullFloat(s.Heading),
		GForceX:      toNullFloat(s.GForceX),
		GForceY:      toNullFloat(s.GForceY),
		GForceZ:      toNullFloat(s.GForceZ),
		Acceleration: toNullFloat(s.Acceleration),
		RPM:          toNullFloat(s.RPM),
		Throttle:     toNullFloat(s.Throttle),
		Brake:        toNullFloat(s.Brake),
		Steering:     toNullFloat(s.Steering),
	}
}

func (d *sampleData) args() []any {
	return []any{
		d.SessionID,
		d.Timestamp,
		d.Latitude,
		d.Longitude,
		d.Altitude,
		d.Speed,
		d.Heading,
		d.GForceX,
		d.GForceY,
		d.GForceZ,
		d.Acceleration,
		d.RPM,
		d.Throttle,
		d.Brake,
		d.Steering,
	}
}

func (d *sampleData) toSample() telemetry.Sample {
	return telemetry.Sample{
		Timestamp:    d.Timestamp.UTC(),
		Latitude:     fromNullFloat(d.Latitude),
		Longitude:    fromNullFloat(d.Longitude),
		Altitude:     fromNullFloat(d.Altitude),
		Speed:        fromNullFloat(d.Speed),
		Heading:      fromNullFloat(d.Heading),
		GForceX:      fromNullFloat(d.GForceX),
		GForceY:      fromNullFloat(d.GForceY),
		GForceZ:      fromNullFloat(d.GForceZ),
		Acceleration: fromNullFloat(d.Acceleration),
		RPM:          fromNullFloat(d.RPM),
		Throttle:     fromNullFloat(d.Throttle),
		Brake:        fromNullFloat(d.Brake),
		Steering:     fromNullFloat(d.Steering),
	}
}

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func fromNullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return telemetry.Float(f.Float64)
}
