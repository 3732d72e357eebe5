package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/trackport/internal/models"
	"github.com/desertthunder/trackport/internal/shared"
)

// AlbumRepository persists [models.Album] rows keyed by spotify_id.
type AlbumRepository struct {
	db *sql.DB
}

// NewAlbumRepository creates a new AlbumRepository with the given database connection
func NewAlbumRepository(db *sql.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// GetByExternalID returns the album with the given Spotify id or [shared.ErrNotFound].
func (r *AlbumRepository) GetByExternalID(ctx context.Context, spotifyID string) (*models.Album, error) {
	query := `
		SELECT id, title, artist_id, spotify_id, cover_url, release_date, created_at
		FROM albums
		WHERE spotify_id = ?
	`

	var (
		a           models.Album
		coverURL    sql.NullString
		releaseDate sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, spotifyID).
		Scan(&a.ID, &a.Title, &a.ArtistID, &a.SpotifyID, &coverURL, &releaseDate, &a.CreatedAt)
	if err != nil {
		return nil, classifyLookup("album", err, fmt.Errorf("album %w", shared.ErrNotFound))
	}

	a.CoverURL = stringPtr(coverURL)
	a.ReleaseDate = stringPtr(releaseDate)
	return &a, nil
}

// Create inserts the album with a generated id. Empty cover and release date are stored as NULL.
func (r *AlbumRepository) Create(ctx context.Context, album *models.Album) error {
	album.ID = shared.GenerateID()
	album.CreatedAt = now()

	query := `
		INSERT INTO albums (id, title, artist_id, spotify_id, cover_url, release_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		album.ID,
		album.Title,
		album.ArtistID,
		album.SpotifyID,
		nullString(album.CoverURL),
		nullString(album.ReleaseDate),
		album.CreatedAt,
	)
	if err != nil {
		return classifyInsert("album", err)
	}

	album.CoverURL = stringPtr(nullString(album.CoverURL))
	album.ReleaseDate = stringPtr(nullString(album.ReleaseDate))
	return nil
}
