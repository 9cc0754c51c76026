// package models defines the data model for the songbook web service
package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/songbook/internal/shared"
)

// Song is a persisted song with its lyrics.
type Song struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Lyrics string `json:"lyrics"`
}

// NewSong builds an unsaved [Song] from user input, trimming surrounding whitespace from both fields.
func NewSong(title, lyrics string) *Song {
	return &Song{
		Title:  strings.TrimSpace(title),
		Lyrics: strings.TrimSpace(lyrics),
	}
}

// Validate reports a wrapped [shared.ErrValidation] naming the first blank field.
func (s *Song) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is required", shared.ErrValidation)
	}
	if strings.TrimSpace(s.Lyrics) == "" {
		return fmt.Errorf("%w: lyrics are required", shared.ErrValidation)
	}
	return nil
}

// SongStore defines the data access operations for songs.
//
// Implementations return errors wrapping [shared.ErrSongNotFound], [shared.ErrValidation] or [shared.ErrPersistence].
type SongStore interface {
	Create(ctx context.Context, title, lyrics string) (*Song, error)           // Create inserts a song and returns it with its new ID
	Get(ctx context.Context, id int64) (*Song, error)                          // Get retrieves a song by its ID
	List(ctx context.Context) ([]*Song, error)                                 // List retrieves all songs ordered by ID
	Update(ctx context.Context, id int64, title, lyrics string) (*Song, error) // Update overwrites both fields of a song
	Delete(ctx context.Context, id int64) error                                // Delete removes a song by its ID
	Count(ctx context.Context) (int, error)                                    // Count returns the number of stored songs
}
