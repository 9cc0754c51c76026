// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

// NewTestStore opens an in-memory SQLite [shared.Store] with migrations applied.
//
// The store is closed when the test finishes.
func NewTestStore(t *testing.T) *shared.Store {
	t.Helper()

	store, err := shared.OpenStore(shared.DatabaseConfig{URL: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := shared.RunMigrations(store); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return store
}

// SeedSongs creates one song per (title, lyrics) pair and returns them in order.
func SeedSongs(t *testing.T, store models.SongStore, pairs ...[2]string) []*models.Song {
	t.Helper()

	songs := make([]*models.Song, 0, len(pairs))
	for _, p := range pairs {
		song, err := store.Create(context.Background(), p[0], p[1])
		if err != nil {
			t.Fatalf("failed to seed song %q: %v", p[0], err)
		}
		songs = append(songs, song)
	}
	return songs
}

// MockSongStore is a test double for [models.SongStore].
//
// Unset function fields return [shared.ErrPersistence].
type MockSongStore struct {
	CreateFn func(ctx context.Context, title, lyrics string) (*models.Song, error)
	GetFn    func(ctx context.Context, id int64) (*models.Song, error)
	ListFn   func(ctx context.Context) ([]*models.Song, error)
	UpdateFn func(ctx context.Context, id int64, title, lyrics string) (*models.Song, error)
	DeleteFn func(ctx context.Context, id int64) error
	CountFn  func(ctx context.Context) (int, error)
}

var errUnavailable = errors.Join(shared.ErrPersistence, errors.New("database is unavailable"))

func (m *MockSongStore) Create(ctx context.Context, title, lyrics string) (*models.Song, error) {
	if m.CreateFn == nil {
		return nil, errUnavailable
	}
	return m.CreateFn(ctx, title, lyrics)
}

func (m *MockSongStore) Get(ctx context.Context, id int64) (*models.Song, error) {
	if m.GetFn == nil {
		return nil, errUnavailable
	}
	return m.GetFn(ctx, id)
}

func (m *MockSongStore) List(ctx context.Context) ([]*models.Song, error) {
	if m.ListFn == nil {
		return nil, errUnavailable
	}
	return m.ListFn(ctx)
}

func (m *MockSongStore) Update(ctx context.Context, id int64, title, lyrics string) (*models.Song, error) {
	if m.UpdateFn == nil {
		return nil, errUnavailable
	}
	return m.UpdateFn(ctx, id, title, lyrics)
}

func (m *MockSongStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn == nil {
		return errUnavailable
	}
	return m.DeleteFn(ctx, id)
}

func (m *MockSongStore) Count(ctx context.Context) (int, error) {
	if m.CountFn == nil {
		return 0, errUnavailable
	}
	return m.CountFn(ctx)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
