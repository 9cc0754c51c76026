package shared

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestParseDatabaseURL(t *testing.T) {
	tc := []struct {
		name        string
		raw         string
		wantDialect Dialect
		wantDSN     string
		wantErr     bool
	}{
		{name: "empty uses default file", raw: "", wantDialect: DialectSQLite, wantDSN: DefaultDatabasePath},
		{name: "whitespace uses default file", raw: "   ", wantDialect: DialectSQLite, wantDSN: DefaultDatabasePath},
		{name: "bare path", raw: "/var/lib/songbook/songs.db", wantDialect: DialectSQLite, wantDSN: "/var/lib/songbook/songs.db"},
		{name: "memory", raw: ":memory:", wantDialect: DialectSQLite, wantDSN: ":memory:"},
		{name: "sqlite scheme", raw: "sqlite://./songs.db", wantDialect: DialectSQLite, wantDSN: "./songs.db"},
		{name: "sqlite3 scheme", raw: "sqlite3:///tmp/songs.db", wantDialect: DialectSQLite, wantDSN: "/tmp/songs.db"},
		{name: "file uri", raw: "file:songs.db?cache=shared", wantDialect: DialectSQLite, wantDSN: "file:songs.db?cache=shared"},
		{name: "postgres", raw: "postgres://u:p@db:5432/songs", wantDialect: DialectPostgres, wantDSN: "postgres://u:p@db:5432/songs"},
		{name: "postgresql", raw: "postgresql://u:p@db/songs?sslmode=disable", wantDialect: DialectPostgres, wantDSN: "postgresql://u:p@db/songs?sslmode=disable"},
		{name: "sqlite scheme without path", raw: "sqlite://", wantErr: true},
		{name: "unsupported scheme", raw: "mysql://root@localhost/songs", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			dialect, dsn, err := ParseDatabaseURL(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dialect != tt.wantDialect {
				t.Errorf("dialect = %s, want %s", dialect, tt.wantDialect)
			}
			if dsn != tt.wantDSN {
				t.Errorf("dsn = %s, want %s", dsn, tt.wantDSN)
			}
		})
	}
}

func TestDialect(t *testing.T) {
	t.Run("Rebind", func(t *testing.T) {
		query := "UPDATE songs SET title = ?, lyrics = ? WHERE id = ?"

		if got := DialectSQLite.Rebind(query); got != query {
			t.Errorf("sqlite Rebind changed query: %s", got)
		}

		want := "UPDATE songs SET title = $1, lyrics = $2 WHERE id = $3"
		if got := DialectPostgres.Rebind(query); got != want {
			t.Errorf("postgres Rebind = %s, want %s", got, want)
		}

		if got := DialectPostgres.Rebind("SELECT 1"); got != "SELECT 1" {
			t.Errorf("Rebind without placeholders = %s", got)
		}
	})

	t.Run("DriverName", func(t *testing.T) {
		if DialectSQLite.DriverName() != "sqlite3" {
			t.Errorf("unexpected sqlite driver %s", DialectSQLite.DriverName())
		}
		if DialectPostgres.DriverName() != "pgx" {
			t.Errorf("unexpected postgres driver %s", DialectPostgres.DriverName())
		}
	})
}

func TestOpenStore(t *testing.T) {
	t.Run("file database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "songs.db")

		store, err := OpenStore(DatabaseConfig{URL: path, MaxOpenConns: 4, MaxIdleConns: 2})
		if err != nil {
			t.Fatalf("OpenStore failed: %v", err)
		}
		defer store.Close()

		if store.Dialect != DialectSQLite {
			t.Errorf("expected sqlite dialect, got %s", store.Dialect)
		}
		if got := store.DB.Stats().MaxOpenConnections; got != 4 {
			t.Errorf("expected 4 max open connections, got %d", got)
		}
		if err := store.Ping(context.Background()); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})

	t.Run("memory database is pinned to one connection", func(t *testing.T) {
		store, err := OpenStore(DatabaseConfig{URL: ":memory:", MaxOpenConns: 10})
		if err != nil {
			t.Fatalf("OpenStore failed: %v", err)
		}
		defer store.Close()

		if got := store.DB.Stats().MaxOpenConnections; got != 1 {
			t.Errorf("expected 1 max open connection, got %d", got)
		}
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := OpenStore(DatabaseConfig{URL: "redis://localhost"})
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("unreachable file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "dir", "songs.db")

		_, err := OpenStore(DatabaseConfig{URL: path})
		if !errors.Is(err, ErrPersistence) {
			t.Errorf("expected ErrPersistence, got %v", err)
		}
	})

	t.Run("ping after close", func(t *testing.T) {
		store, err := OpenStore(DatabaseConfig{URL: ":memory:"})
		if err != nil {
			t.Fatalf("OpenStore failed: %v", err)
		}
		store.Close()

		if err := store.Ping(context.Background()); !errors.Is(err, ErrPersistence) {
			t.Errorf("expected ErrPersistence, got %v", err)
		}
	})

	t.Run("nil store", func(t *testing.T) {
		var store *Store
		if err := store.Close(); err != nil {
			t.Errorf("Close on nil store: %v", err)
		}
		if err := store.Ping(context.Background()); !errors.Is(err, ErrPersistence) {
			t.Errorf("expected ErrPersistence, got %v", err)
		}
	})
}
