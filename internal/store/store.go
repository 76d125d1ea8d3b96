package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/overlog/overlog/internal/telemetry"
)

// Rows per INSERT batch. 15 bound variables per sample keeps a chunk
// well under sqlite's default host parameter limit.
const insertChunkSize = 64

// Store persists parsed telemetry sessions in a sqlite database. Writes
// go through a WAL connection, reads through a separate read-only
// connection; both open lazily on first use. All operations that write
// are atomic.
type Store struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a store backed by the sqlite database at dbPath. The
// database file and schema are created on the first write.
func New(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *Store) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *Store) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// CreateSession registers a new telemetry capture and returns its ID.
func (s *Store) CreateSession(ctx context.Context, source, format string) (sessionID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, source, format)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	sessionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting session ID: %w", err)
	}
	return
}

// SaveSeries stores all points of the series under the given session in
// a single transaction, batching the inserts.
func (s *Store) SaveSeries(ctx context.Context, sessionID int64, series *telemetry.Series) (err error) {
	if series.Len() == 0 {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	for chunk := range slices.Chunk(series.Points, insertChunkSize) {
		values := make([]any, 0, len(chunk)*15)

		var sb strings.Builder
		sb.WriteString(insertSamplesSQL)

		for i := range chunk {
			values = append(values, toSampleData(sessionID, &chunk[i]).args()...)

			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		}

		if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
			return fmt.Errorf("batch inserting samples: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Save registers a session for the series and stores its points.
func (s *Store) Save(ctx context.Context, series *telemetry.Series) (sessionID int64, err error) {
	sessionID, err = s.CreateSession(ctx, series.Source, series.Format)
	if err != nil {
		return 0, err
	}
	if err = s.SaveSeries(ctx, sessionID, series); err != nil {
		return 0, err
	}
	return sessionID, nil
}

// Session retrieves a single session record by its ID.
func (s *Store) Session(ctx context.Context, id int64) (session *Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var sess Session
	if err = stmt.QueryRowContext(ctx, id).Scan(&sess.ID, &sess.CreatedAt, &sess.Source, &sess.Format); err != nil {
		err = fmt.Errorf("scanning session: %w", err)
		return
	}

	return &sess, nil
}

// Sessions returns all stored sessions ordered by creation time.
func (s *Store) Sessions(ctx context.Context) (sessions []*Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		err = fmt.Errorf("querying sessions: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var sess Session
		if err = rows.Scan(&sess.ID, &sess.CreatedAt, &sess.Source, &sess.Format); err != nil {
			err = fmt.Errorf("scanning session: %w", err)
			return
		}
		sessions = append(sessions, &sess)
	}
	err = rows.Err()
	return
}

// LoadSeries reconstructs the telemetry series stored under a session,
// sorted by timestamp.
func (s *Store) LoadSeries(ctx context.Context, sessionID int64) (series *telemetry.Series, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	sess, err := s.Session(ctx, sessionID)
	if err != nil {
		return
	}

	rows, err := db.QueryContext(ctx, selectSamplesSQL, sessionID)
	if err != nil {
		err = fmt.Errorf("querying samples: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	series = telemetry.New()
	series.Source = sess.Source
	series.Format = sess.Format

	for rows.Next() {
		var d sampleData
		var ts time.Time
		if err = rows.Scan(
			&ts,
			&d.Latitude,
			&d.Longitude,
			&d.Altitude,
			&d.Speed,
			&d.Heading,
			&d.GForceX,
			&d.GForceY,
			&d.GForceZ,
			&d.Acceleration,
			&d.RPM,
			&d.Throttle,
			&d.Brake,
			&d.Steering,
		); err != nil {
			err = fmt.Errorf("scanning sample: %w", err)
			return
		}
		d.Timestamp = ts
		series.Append(d.toSample())
	}
	if err = rows.Err(); err != nil {
		return
	}

	series.Sort()
	return series, nil
}

// Close releases both database connections. It is safe to call multiple
// times; the store cannot be reused afterwards.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, initIndexesSQL)

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && *err == nil && !errors.Is(cErr, sql.ErrTxDone) {
		*err = cErr
	}
}
