// Package store persists visitor analytics and contact messages in SQLite.
// Raw IP addresses never reach the database: they are salted and hashed first.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// timeLayout sorts lexicographically and is understood by SQLite date functions.
const timeLayout = "2006-01-02 15:04:05.000"

// Options configure a Store.
type Options struct {
	// Salt mixed into visitor IP hashes. Empty means a random per-process salt.
	Salt string
	// Retention is how long visitor rows are kept. Zero means twelve months.
	Retention time.Duration
	Logger    *zap.Logger
	Now       func() time.Time
}

// Store wraps the SQLite handle.
type Store struct {
	db        *sql.DB
	salt      string
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string, opts Options) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// one writer keeps SQLite happy and an in-memory database alive
	db.SetMaxOpenConns(1)

	s := &Store{
		db:        db,
		salt:      opts.Salt,
		retention: opts.Retention,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if s.salt == "" {
		s.salt = RandomToken()
	}
	if s.retention <= 0 {
		s.retention = 365 * 24 * time.Hour
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

var schema = []string{
	`CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,
		user_agent TEXT,
		path TEXT,
		timestamp TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS visitors_timestamp ON visitors (timestamp)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		message TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// RandomToken returns 32 random bytes, hex encoded.
func RandomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	return hex.EncodeToString(b)
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(v string) time.Time {
	t, err := time.ParseInLocation(timeLayout, v, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}
