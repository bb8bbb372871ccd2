// Package kvstore implements the durable, ordered byte-key/byte-value store
// backing all game state. It keeps one SQLite file per process: keys are
// compared as raw bytes (memcmp order), every successful write is synced to
// disk before returning, and ids come from a persistent counter.
package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/buttongame/internal/common"
	"github.com/dmitrijs2005/buttongame/internal/dbx"
	"github.com/dmitrijs2005/buttongame/internal/kvstore/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	idSequence         = "id"
	defaultBusyTimeout = 5 * time.Second
)

type options struct {
	busyTimeout time.Duration
}

// Option customizes Open.
type Option func(*options)

// WithBusyTimeout sets how long a write waits for a competing writer
// before failing.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

// Entry is a single key/value pair produced by Iterate.
type Entry struct {
	Key   []byte
	Value []byte
}

// Store is a handle to the key-value file. It is safe for concurrent use;
// each single-key write is atomic on its own.
type Store struct {
	sqlDB *sql.DB
	db    dbx.DBTX
	inTx  bool
}

// Open opens (creating if needed) the store file at path and applies the
// schema. Every failure is reported as common.ErrStoreUnavailable.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: store path is required", common.ErrStoreUnavailable)
	}

	o := options{busyTimeout: defaultBusyTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	dsn := fmt.Sprintf(
		"%s?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)&_pragma=busy_timeout(%d)&_txlock=immediate",
		filepath.Clean(path), o.busyTimeout.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite db: %v", common.ErrStoreUnavailable, err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: ping sqlite db: %v", common.ErrStoreUnavailable, err)
	}

	if err := RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: run migrations: %v", common.ErrStoreUnavailable, err)
	}

	return New(sqlDB), nil
}

// New wraps an already opened database whose schema is in place.
func New(sqlDB *sql.DB) *Store {
	return &Store{sqlDB: sqlDB, db: sqlDB}
}

// RunMigrations applies the embedded schema migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close releases the underlying database. Closing a Store obtained inside
// Batch is a no-op.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil || s.inTx {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the value stored under key. The boolean is false when the key
// is absent.
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key[%s]: %w", key, err)
	}
	return value, true, nil
}

// Insert stores value under key, replacing any previous value.
func (s *Store) Insert(ctx context.Context, key, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("%w: failed to insert key[%s]: %v", common.ErrWrite, key, err)
	}
	return nil
}

// CompareAndSwap replaces the value under key with next only if the current
// value equals prev. A nil prev means the key must be absent. It reports
// whether the swap happened.
func (s *Store) CompareAndSwap(ctx context.Context, key, prev, next []byte) (bool, error) {
	var (
		n   int64
		err error
	)
	if prev == nil {
		n, err = dbx.ExecAffected(ctx, s.db,
			`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`, key, next)
	} else {
		n, err = dbx.ExecAffected(ctx, s.db,
			`UPDATE kv SET value = ? WHERE key = ? AND value = ?`, next, key, prev)
	}
	if err != nil {
		return false, fmt.Errorf("%w: failed to swap key[%s]: %v", common.ErrWrite, key, err)
	}
	return n == 1, nil
}

// Iterate lazily yields every entry in ascending byte order of keys. Writes
// made while iterating may or may not be observed. A query or scan failure
// is yielded once as the error and ends the sequence.
func (s *Store) Iterate(ctx context.Context) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM kv ORDER BY key`)
		if err != nil {
			yield(Entry{}, fmt.Errorf("failed to iterate store: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var e Entry
			if err := rows.Scan(&e.Key, &e.Value); err != nil {
				yield(Entry{}, fmt.Errorf("failed to scan entry: %w", err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(Entry{}, fmt.Errorf("failed to iterate store: %w", err))
		}
	}
}

// GenerateID returns the next value of the persistent id counter. Ids are
// unique and strictly increasing for the lifetime of the file.
func (s *Store) GenerateID(ctx context.Context) (uint64, error) {
	var id uint64
	err := s.db.QueryRowContext(ctx,
		`UPDATE sequences SET value = value + 1 WHERE name = ? RETURNING value`, idSequence).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to generate id: %v", common.ErrWrite, err)
	}
	return id, nil
}

// Batch runs fn against a Store bound to a single transaction. Everything fn
// writes is committed together, or not at all when fn returns an error.
func (s *Store) Batch(ctx context.Context, fn func(ctx context.Context, tx *Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return dbx.WithTx(ctx, s.sqlDB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &Store{sqlDB: s.sqlDB, db: tx, inTx: true})
	})
}
