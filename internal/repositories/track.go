package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/trackport/internal/formatter"
	"github.com/desertthunder/trackport/internal/models"
	"github.com/desertthunder/trackport/internal/shared"
)

const detailSelect = `
	SELECT
		t.id, t.title, t.artist_id, t.album_id, t.duration_ms, t.track_number, t.bpm,
		t.spotify_id, t.spotify_data, t.created_at, t.updated_at,
		ar.name, ar.spotify_id,
		al.title, al.cover_url, al.release_date, al.spotify_id
	FROM tracks t
	JOIN artists ar ON ar.id = t.artist_id
	JOIN albums al ON al.id = t.album_id
`

// TrackRepository persists [models.Track] rows and reads them back as [models.TrackDetail].
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// GetByExternalID returns the track with the given Spotify id or [shared.ErrTrackNotFound].
func (r *TrackRepository) GetByExternalID(ctx context.Context, spotifyID string) (*models.Track, error) {
	query := `
		SELECT id, title, artist_id, album_id, duration_ms, track_number, bpm, spotify_id, spotify_data, created_at, updated_at
		FROM tracks
		WHERE spotify_id = ?
	`

	var (
		t   models.Track
		bpm sql.NullInt64
		raw string
	)
	err := r.db.QueryRowContext(ctx, query, spotifyID).Scan(
		&t.ID, &t.Title, &t.ArtistID, &t.AlbumID, &t.DurationMS, &t.TrackNumber, &bpm,
		&t.SpotifyID, &raw, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, classifyLookup("track", err, shared.ErrTrackNotFound)
	}

	t.BPM = intPtr(bpm)
	t.SpotifyData = json.RawMessage(raw)
	return &t, nil
}

// Create inserts the track with a generated id. A duplicate spotify_id yields [shared.ErrConflict].
func (r *TrackRepository) Create(ctx context.Context, track *models.Track) error {
	track.ID = shared.GenerateID()
	track.CreatedAt = now()
	track.UpdatedAt = track.CreatedAt

	raw := string(track.SpotifyData)
	if raw == "" {
		raw = "{}"
	}

	query := `
		INSERT INTO tracks (id, title, artist_id, album_id, duration_ms, track_number, bpm, spotify_id, spotify_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		track.ID,
		track.Title,
		track.ArtistID,
		track.AlbumID,
		track.DurationMS,
		track.TrackNumber,
		nullInt(track.BPM),
		track.SpotifyID,
		raw,
		track.CreatedAt,
		track.UpdatedAt,
	)
	if err != nil {
		return classifyInsert("track", err)
	}
	return nil
}

// Get returns the track with its artist and album attached, or [shared.ErrTrackNotFound].
func (r *TrackRepository) Get(ctx context.Context, id string) (*models.TrackDetail, error) {
	row := r.db.QueryRowContext(ctx, detailSelect+" WHERE t.id = ?", id)

	detail, err := scanDetail(row)
	if err != nil {
		return nil, classifyLookup("track", err, shared.ErrTrackNotFound)
	}
	return detail, nil
}

// List returns every track, newest first.
func (r *TrackRepository) List(ctx context.Context) ([]models.TrackDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailSelect+" ORDER BY t.created_at DESC, t.rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w: %v", shared.ErrPersistence, err)
	}
	defer rows.Close()

	tracks := []models.TrackDetail{}
	for rows.Next() {
		detail, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w: %v", shared.ErrPersistence, err)
		}
		tracks = append(tracks, *detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w: %v", shared.ErrPersistence, err)
	}

	return tracks, nil
}

// Update applies the patch and bumps updated_at. Unknown ids yield [shared.ErrTrackNotFound].
func (r *TrackRepository) Update(ctx context.Context, id string, patch models.TrackPatch) (*models.TrackDetail, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	sets := []string{"updated_at = ?"}
	args := []any{now()}

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, strings.TrimSpace(*patch.Title))
	}
	if patch.BPM.Set {
		sets = append(sets, "bpm = ?")
		args = append(args, nullInt(patch.BPM.Value))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE tracks SET %s WHERE id = ?", strings.Join(sets, ", "))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update track: %w: %v", shared.ErrPersistence, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w: %v", shared.ErrPersistence, err)
	}
	if rows == 0 {
		return nil, shared.ErrTrackNotFound
	}

	return r.Get(ctx, id)
}

// Delete removes the track row. Deleting an unknown id is not an error.
func (r *TrackRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete track: %w: %v", shared.ErrPersistence, err)
	}
	return nil
}

// Count returns the number of stored tracks.
func (r *TrackRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w: %v", shared.ErrPersistence, err)
	}
	return n, nil
}

// scanDetail scans one row of detailSelect into a [models.TrackDetail]
func scanDetail(s scanner) (*models.TrackDetail, error) {
	var (
		d           models.TrackDetail
		bpm         sql.NullInt64
		raw         string
		createdAt   time.Time
		updatedAt   time.Time
		coverURL    sql.NullString
		releaseDate sql.NullString
	)

	err := s.Scan(
		&d.ID, &d.Title, &d.ArtistID, &d.AlbumID, &d.DurationMS, &d.TrackNumber, &bpm,
		&d.SpotifyID, &raw, &createdAt, &updatedAt,
		&d.Artist.Name, &d.Artist.SpotifyID,
		&d.Album.Title, &coverURL, &releaseDate, &d.Album.SpotifyID,
	)
	if err != nil {
		return nil, err
	}

	d.BPM = intPtr(bpm)
	d.SpotifyData = json.RawMessage(raw)
	d.CreatedAt = createdAt
	d.UpdatedAt = updatedAt
	d.Album.CoverURL = stringPtr(coverURL)
	d.Album.ReleaseDate = stringPtr(releaseDate)
	d.DurationFormatted = formatter.FormatDuration(d.DurationMS)

	return &d, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
