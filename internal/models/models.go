// package models defines the data model for the track catalog
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Artist is a credited artist imported from the catalog.
type Artist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SpotifyID string    `json:"spotify_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Album belongs to the artist that was credited first when it was imported.
type Album struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ArtistID    string    `json:"artist_id"`
	SpotifyID   string    `json:"spotify_id"`
	CoverURL    *string   `json:"cover_url"`
	ReleaseDate *string   `json:"release_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// Track is an imported track. SpotifyData holds the catalog response as received.
type Track struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	ArtistID    string          `json:"artist_id"`
	AlbumID     string          `json:"album_id"`
	DurationMS  int             `json:"duration_ms"`
	TrackNumber int             `json:"track_number"`
	BPM         *int            `json:"bpm"`
	SpotifyID   string          `json:"spotify_id"`
	SpotifyData json.RawMessage `json:"spotify_data,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ArtistSummary is the artist as attached to a [TrackDetail].
type ArtistSummary struct {
	Name      string `json:"name"`
	SpotifyID string `json:"spotify_id"`
}

// AlbumSummary is the album as attached to a [TrackDetail].
type AlbumSummary struct {
	Title       string  `json:"title"`
	CoverURL    *string `json:"cover_url"`
	ReleaseDate *string `json:"release_date"`
	SpotifyID   string  `json:"spotify_id"`
}

// TrackDetail is a track joined with its artist and album.
type TrackDetail struct {
	Track
	DurationFormatted string        `json:"duration_formatted"`
	Artist            ArtistSummary `json:"artist"`
	Album             AlbumSummary  `json:"album"`
}

// TrackPatch carries the editable fields of a track. Nil fields are left unchanged.
type TrackPatch struct {
	Title *string     `json:"title,omitempty"`
	BPM   NullableInt `json:"bpm"`
}

// Empty reports whether the patch changes nothing.
func (p TrackPatch) Empty() bool {
	return p.Title == nil && !p.BPM.Set
}

// Validate rejects patches that would blank the title or set a negative tempo.
func (p TrackPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if p.BPM.Set && p.BPM.Value != nil && *p.BPM.Value < 0 {
		return fmt.Errorf("bpm cannot be negative")
	}
	return nil
}

// NullableInt distinguishes an absent JSON key (Set false) from an explicit null (Set true, Value nil).
type NullableInt struct {
	Set   bool
	Value *int
}

// UnmarshalJSON is only invoked when the key is present, including for null.
func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}

	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("bpm must be an integer or null: %w", err)
	}
	n.Value = &v
	return nil
}

// MarshalJSON writes the value or null.
func (n NullableInt) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
