package shared

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v4/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDatabasePath is the SQLite file used when no connection string is configured.
const DefaultDatabasePath = "./songs.db"

// Dialect identifies the SQL flavour spoken by the configured database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite3"
}

// Rebind rewrites "?" placeholders into the dialect's bind syntax.
//
// Postgres uses positional "$n" parameters; SQLite queries are returned unchanged.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseDatabaseURL maps a connection string onto a [Dialect] and the DSN handed to its driver.
//
// Accepted forms:
//   - "" : [DefaultDatabasePath]
//   - postgres://... or postgresql://... : Postgres, passed through
//   - sqlite://path or sqlite3://path : SQLite file at path
//   - file:... URIs, ":memory:" or a bare filesystem path : SQLite, passed through
func ParseDatabaseURL(raw string) (Dialect, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DialectSQLite, DefaultDatabasePath, nil
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DialectPostgres, raw, nil
	case strings.HasPrefix(lower, "sqlite3://"), strings.HasPrefix(lower, "sqlite://"):
		path := raw[strings.Index(raw, "://")+3:]
		if path == "" {
			return "", "", fmt.Errorf("%w: sqlite connection string has no path", ErrInvalidConfig)
		}
		return DialectSQLite, path, nil
	case strings.HasPrefix(lower, "file:"), raw == ":memory:":
		return DialectSQLite, raw, nil
	case strings.Contains(raw, "://"):
		scheme := raw[:strings.Index(raw, "://")]
		return "", "", fmt.Errorf("%w: unsupported database scheme %q", ErrInvalidConfig, scheme)
	}

	return DialectSQLite, raw, nil
}

// Store is an open database handle paired with its [Dialect].
//
// It is created once at startup by [OpenStore] and shared by every repository.
type Store struct {
	DB      *sql.DB
	Dialect Dialect
}

// NewDatabase opens a connection using the driver for dialect.
// The dsn can be ":memory:" for an in-memory SQLite database.
// Returns an open database connection or an error if connection fails.
func NewDatabase(dialect Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if isMemoryDSN(dialect, dsn) {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// ConfigureDatabase sets connection pool settings for the database.
// Non-positive values keep the driver defaults.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
}

// OpenStore resolves the connection string in cfg, opens and pings the database and applies pool settings.
//
// Errors wrap [ErrInvalidConfig] when the connection string is unusable and [ErrPersistence] when the database cannot be reached.
func OpenStore(cfg DatabaseConfig) (*Store, error) {
	dialect, dsn, err := ParseDatabaseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if !isMemoryDSN(dialect, dsn) {
		ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
	}

	return &Store{DB: db, Dialect: dialect}, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return fmt.Errorf("%w: store is not configured", ErrPersistence)
	}
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// Close closes the underlying handle. It is safe to call on a nil Store.
func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func isMemoryDSN(dialect Dialect, dsn string) bool {
	if dialect != DialectSQLite {
		return false
	}
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory") || strings.HasPrefix(dsn, "file::memory:")
}
