// Package tasks imports catalog tracks into the local store with real-time progress reporting.
//
// # Import Workflow
//
// [Importer.Import] turns a user-supplied identifier into a stored track:
//
//  1. [ExtractTrackID] : URL, spotify:track URI or bare 22-character id → catalog key
//  2. Duplicate guard : an existing track for the key returns [shared.AlreadyExistsError]
//  3. Remote fetch : the catalog record, kept verbatim for the track row
//  4. Artist get-or-create : keyed by the primary (first credited) artist
//  5. Album get-or-create : keyed by the album, owned by the resolved artist, cover = first image or NULL
//  6. Track insert : resolved ids plus title, duration, track number and raw payload
//
// The result is read back as a [models.TrackDetail].
//
// # Uniqueness
//
// The store carries a UNIQUE constraint on every external key. Get-or-create
// calls for the same key are collapsed within the process by a
// [singleflight.Group]; across processes the losing insert reports
// [shared.ErrConflict] and the winner's row is re-read. A lost race on the track
// insert itself is reported as AlreadyExists with the winner's id.
//
// Nothing is rolled back on failure: artist and album rows created before a
// failed track insert remain and are reused by later imports.
//
// # Bulk Import
//
// [Importer.BulkImport] runs Import over a bounded worker pool with a shared
// [rate.Limiter]. Progress updates use select with default to prevent blocking.
package tasks
