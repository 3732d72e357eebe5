package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/trackport/internal/models"
	"github.com/desertthunder/trackport/internal/shared"
)

// ArtistRepository persists [models.Artist] rows keyed by spotify_id.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// GetByExternalID returns the artist with the given Spotify id or [shared.ErrNotFound].
func (r *ArtistRepository) GetByExternalID(ctx context.Context, spotifyID string) (*models.Artist, error) {
	query := `SELECT id, name, spotify_id, created_at FROM artists WHERE spotify_id = ?`

	var a models.Artist
	err := r.db.QueryRowContext(ctx, query, spotifyID).Scan(&a.ID, &a.Name, &a.SpotifyID, &a.CreatedAt)
	if err != nil {
		return nil, classifyLookup("artist", err, fmt.Errorf("artist %w", shared.ErrNotFound))
	}
	return &a, nil
}

// Create inserts the artist with a generated id. A duplicate spotify_id yields [shared.ErrConflict].
func (r *ArtistRepository) Create(ctx context.Context, artist *models.Artist) error {
	artist.ID = shared.GenerateID()
	artist.CreatedAt = now()

	query := `INSERT INTO artists (id, name, spotify_id, created_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, artist.ID, artist.Name, artist.SpotifyID, artist.CreatedAt); err != nil {
		return classifyInsert("artist", err)
	}
	return nil
}
