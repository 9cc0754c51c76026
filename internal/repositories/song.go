package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

// SongRepository implements [models.SongStore] on top of a [shared.Store].
//
// Every write is one statement, so a failed write leaves the row as it was.
type SongRepository struct {
	db      *sql.DB
	dialect shared.Dialect
}

var _ models.SongStore = (*SongRepository)(nil)

// NewSongRepository creates a new [SongRepository] with the given store
func NewSongRepository(store *shared.Store) *SongRepository {
	return &SongRepository{db: store.DB, dialect: store.Dialect}
}

// Create inserts a new song and returns it with the database-assigned ID
func (r *SongRepository) Create(ctx context.Context, title, lyrics string) (*models.Song, error) {
	song := models.NewSong(title, lyrics)
	if err := song.Validate(); err != nil {
		return nil, err
	}

	query := r.dialect.Rebind(`
		INSERT INTO songs (title, lyrics) VALUES (?, ?)
		RETURNING id
	`)

	if err := r.db.QueryRowContext(ctx, query, song.Title, song.Lyrics).Scan(&song.ID); err != nil {
		return nil, persistenceError("failed to insert song", err)
	}

	return song, nil
}

// Get retrieves a song by ID
func (r *SongRepository) Get(ctx context.Context, id int64) (*models.Song, error) {
	query := r.dialect.Rebind(`
		SELECT id, title, lyrics
		FROM songs
		WHERE id = ?
	`)

	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id)
}

// List retrieves all songs in insertion (ID) order
func (r *SongRepository) List(ctx context.Context) ([]*models.Song, error) {
	query := `
		SELECT id, title, lyrics
		FROM songs
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, persistenceError("failed to query songs", err)
	}
	defer rows.Close()

	songs := []*models.Song{}
	for rows.Next() {
		var song models.Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Lyrics); err != nil {
			return nil, persistenceError("failed to scan song", err)
		}
		songs = append(songs, &song)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("row iteration error", err)
	}

	return songs, nil
}

// Update overwrites the title and lyrics of an existing song
func (r *SongRepository) Update(ctx context.Context, id int64, title, lyrics string) (*models.Song, error) {
	song := models.NewSong(title, lyrics)
	if err := song.Validate(); err != nil {
		return nil, err
	}

	query := r.dialect.Rebind(`
		UPDATE songs
		SET title = ?, lyrics = ?
		WHERE id = ?
		RETURNING id, title, lyrics
	`)

	return r.scanOne(r.db.QueryRowContext(ctx, query, song.Title, song.Lyrics, id), id)
}

// Delete removes a song by ID
func (r *SongRepository) Delete(ctx context.Context, id int64) error {
	query := r.dialect.Rebind(`DELETE FROM songs WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return persistenceError("failed to delete song", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return persistenceError("failed to get affected rows", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %d", shared.ErrSongNotFound, id)
	}

	return nil
}

// Count returns the number of stored songs
func (r *SongRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM songs").Scan(&count); err != nil {
		return 0, persistenceError("failed to count songs", err)
	}
	return count, nil
}

// scanOne scans a single [sql.Row] into a [models.Song]
func (r *SongRepository) scanOne(row *sql.Row, id int64) (*models.Song, error) {
	var song models.Song

	err := row.Scan(&song.ID, &song.Title, &song.Lyrics)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", shared.ErrSongNotFound, id)
	}
	if err != nil {
		return nil, persistenceError("failed to scan song", err)
	}

	return &song, nil
}
