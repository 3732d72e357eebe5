// Package repositories implements SQLite persistence for the track catalog.
//
// Each repository is a thin layer over [database/sql] with point lookups by the
// catalog's external key and single-row inserts that generate the local id.
// Unique-key violations surface as [shared.ErrConflict] so callers can re-read
// the row that won the race instead of failing.
//
// Key Implementations:
//   - [ArtistRepository] : artist lookup and insert by spotify_id
//   - [AlbumRepository] : album lookup and insert by spotify_id
//   - [TrackRepository] : track lookup, insert, detail reads, edit and hard delete
package repositories
