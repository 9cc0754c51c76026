// Package repositories implements SQL persistence for songs.
//
// [SongRepository] works against either SQLite or Postgres: queries are written with "?" placeholders
// and rebound by the store's [shared.Dialect]. Inserts and updates use RETURNING so the stored row
// comes back from the same statement that wrote it.
//
// Missing rows surface as [shared.ErrSongNotFound]; blank input as [shared.ErrValidation] (no statement
// is issued); driver failures as [shared.ErrPersistence].
package repositories
