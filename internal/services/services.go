// package services defines interface Service for reading from the music catalog over HTTP
package services

import (
	"context"
)

// Service defines the read-only catalog operations used by the importer, the HTTP API and the CLI.
type Service interface {
	// Track retrieves a single track by its catalog id.
	// The returned track keeps the verbatim response body in Raw.
	Track(ctx context.Context, trackID string) (*SpotifyTrack, error)

	// Album retrieves a single album by its catalog id.
	Album(ctx context.Context, albumID string) (*SpotifyAlbum, error)

	// Artist retrieves a single artist by its catalog id.
	Artist(ctx context.Context, artistID string) (*SpotifyArtist, error)

	// Search finds tracks matching a free-text query.
	// Limit is clamped to the catalog's accepted range.
	Search(ctx context.Context, query string, limit int) ([]SpotifyTrack, error)

	// Name returns the name of the catalog (e.g., "Spotify")
	Name() string
}
