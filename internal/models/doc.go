// Package models defines the domain entity and persistence interface for the songbook service.
//
// [Song] is the only entity: an integer ID assigned by the database, a title, and lyrics.
// Both text fields are trimmed on input by [NewSong] and must be non-blank, which [Song.Validate] checks.
//
// The [SongStore] interface defines the operations handlers and commands depend on.
// The SQL implementation lives in the repositories package.
package models
