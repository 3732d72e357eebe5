// Package models defines the catalog entities and the read shapes returned to callers.
//
// Persistent entities, each keyed locally by a generated UUID and externally by a Spotify id:
//   - [Artist] : credited artist, unique per spotify_id
//   - [Album] : album owned by its primary artist, unique per spotify_id
//   - [Track] : imported track with the verbatim catalog payload, unique per spotify_id
//
// Read shapes:
//   - [TrackDetail] : a track with its artist and album summaries attached
//   - [TrackPatch] : the editable subset of a track (title, bpm)
package models
