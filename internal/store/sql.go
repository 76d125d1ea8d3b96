package store

import (
	_ "embed"
)

const (
	insertSessionSQL = `
INSERT INTO sessions (
                      created_at,
                      source,
                      format)
VALUES (CURRENT_TIMESTAMP, ?, ?)`

	selectSessionSQL = `
SELECT
    id,
    created_at,
    source,
    format
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT
    id,
    created_at,
    source,
    format
FROM sessions
ORDER BY created_at`

	insertSamplesSQL = `
INSERT INTO samples (session_id,
                     timestamp,
                     latitude,
                     longitude,
                     altitude,
                     speed,
                     heading,
                     g_force_x,
                     g_force_y,
                     g_force_z,
                     acceleration,
                     rpm,
                     throttle,
                     brake,
                     steering)
VALUES `

	selectSamplesSQL = `
SELECT
    timestamp,
    latitude,
    longitude,
    altitude,
    speed,
    heading,
    g_force_x,
    g_force_y,
    g_force_z,
    acceleration,
    rpm,
    throttle,
    brake,
    steering
FROM samples
WHERE
    session_id = ?
ORDER BY timestamp`

	initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_samples_session_timestamp
    ON samples (session_id, timestamp)`
)

//go:embed schema.sql
var initSchemaSQL string
