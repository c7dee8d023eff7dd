package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"go-equipment-analytics/internal/ports"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// ErrNotFound is returned for absent records and records owned by another user.
var ErrNotFound = ports.ErrNotFound

// ErrSettled is returned when a dataset that already reached ready or error
// is asked to transition again.
var ErrSettled = ports.ErrSettled

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store persists users, datasets and summaries in SQLite or Postgres.
type Store struct {
	db     *sql.DB
	q      querier
	sb     sq.StatementBuilderType
	driver string
	now    func() time.Time
}

var (
	_ ports.DatasetStore = (*Store)(nil)
	_ ports.UserStore    = (*Store)(nil)
)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for created_at/generated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open connects to the database and creates tables if they don't exist.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one writer; transactions must not wait on a second connection
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{
		db:     db,
		q:      db,
		driver: driver,
		now:    time.Now,
	}
	if driver == DriverPostgres {
		s.sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	} else {
		s.sb = sq.StatementBuilder.PlaceholderFormat(sq.Question)
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// InTx runs fn with a store bound to one transaction, committing when fn
// returns nil and rolling back otherwise. Nested calls reuse the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx ports.DatasetStore) error) error {
	if _, inTx := s.q.(*sql.Tx); inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := *s
	txStore.q = tx
	if err := fn(&txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := sqliteSchema
	if s.driver == DriverPostgres {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

var sqliteSchema = []string{`
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);`, `
	CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		filename TEXT NOT NULL,
		status TEXT NOT NULL,
		row_count INTEGER,
		column_count INTEGER,
		created_at DATETIME NOT NULL,
		last_error TEXT NOT NULL DEFAULT '',
		file_key TEXT NOT NULL,
		report_key TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS idx_datasets_user_created ON datasets (user_id, created_at DESC, id DESC);`, `
	CREATE TABLE IF NOT EXISTS dataset_summaries (
		id TEXT PRIMARY KEY,
		dataset_id TEXT NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		summary_json TEXT NOT NULL,
		generated_at DATETIME NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_summaries_dataset ON dataset_summaries (dataset_id, generated_at DESC);`,
}

var postgresSchema = []string{`
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);`, `
	CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		filename TEXT NOT NULL,
		status TEXT NOT NULL,
		row_count INTEGER,
		column_count INTEGER,
		created_at TIMESTAMPTZ NOT NULL,
		last_error TEXT NOT NULL DEFAULT '',
		file_key TEXT NOT NULL,
		report_key TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS idx_datasets_user_created ON datasets (user_id, created_at DESC, id DESC);`, `
	CREATE TABLE IF NOT EXISTS dataset_summaries (
		id TEXT PRIMARY KEY,
		dataset_id TEXT NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		summary_json JSONB NOT NULL,
		generated_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_summaries_dataset ON dataset_summaries (dataset_id, generated_at DESC);`,
}

// exec runs a write and returns the number of affected rows.
func (s *Store) exec(ctx context.Context, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// errRow carries a build error to Scan, like *sql.Row does for query errors.
type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func (s *Store) queryRow(ctx context.Context, b sq.Sqlizer) rowScanner {
	query, args, err := b.ToSql()
	if err != nil {
		return errRow{err}
	}
	return s.q.QueryRowContext(ctx, query, args...)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
