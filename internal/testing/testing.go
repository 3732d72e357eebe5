// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/trackport/internal/services"
	"github.com/desertthunder/trackport/internal/shared"
)

// MockCatalog is a test double for [services.Service] backed by an in-memory track table.
type MockCatalog struct {
	mu     sync.Mutex
	tracks map[string]services.SpotifyTrack
	calls  map[string]int

	// TrackErr, when set, is returned by every Track call.
	TrackErr error
	// SearchResults is returned by Search.
	SearchResults []services.SpotifyTrack
}

// NewMockCatalog creates a catalog that serves the given tracks by id.
func NewMockCatalog(tracks ...services.SpotifyTrack) *MockCatalog {
	m := &MockCatalog{tracks: map[string]services.SpotifyTrack{}, calls: map[string]int{}}
	for _, track := range tracks {
		m.Add(track)
	}
	return m
}

// Add registers a track, filling Raw from its JSON encoding when empty.
func (m *MockCatalog) Add(track services.SpotifyTrack) {
	if len(track.Raw) == 0 {
		raw, _ := json.Marshal(track)
		track.Raw = raw
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracks[track.ID] = track
}

// Calls returns how many times Track was called for id.
func (m *MockCatalog) Calls(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[id]
}

func (m *MockCatalog) Track(ctx context.Context, trackID string) (*services.SpotifyTrack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[trackID]++

	if m.TrackErr != nil {
		return nil, m.TrackErr
	}
	track, ok := m.tracks[trackID]
	if !ok {
		return nil, errors.Join(shared.ErrAPIRequest, errors.New("spotify API error: status 404: Resource not found"))
	}
	return &track, nil
}

func (m *MockCatalog) Album(ctx context.Context, albumID string) (*services.SpotifyAlbum, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, track := range m.tracks {
		if track.Album.ID == albumID {
			album := track.Album
			return &album, nil
		}
	}
	return nil, shared.ErrAPIRequest
}

func (m *MockCatalog) Artist(ctx context.Context, artistID string) (*services.SpotifyArtist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, track := range m.tracks {
		for _, artist := range track.Artists {
			if artist.ID == artistID {
				return &artist, nil
			}
		}
	}
	return nil, shared.ErrAPIRequest
}

func (m *MockCatalog) Search(ctx context.Context, query string, limit int) ([]services.SpotifyTrack, error) {
	if query == "" {
		return nil, shared.ErrInvalidInput
	}
	results := m.SearchResults
	if results == nil {
		results = []services.SpotifyTrack{}
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *MockCatalog) Name() string { return "mock" }

// NewSpotifyTrack builds a catalog track with one artist and an album with a single cover image.
func NewSpotifyTrack(id, name, artistID, artistName, albumID, albumName string) services.SpotifyTrack {
	return services.SpotifyTrack{
		ID:          id,
		Name:        name,
		DurationMS:  213573,
		TrackNumber: 1,
		URI:         "spotify:track:" + id,
		Artists:     []services.SpotifyArtist{{ID: artistID, Name: artistName}},
		Album: services.SpotifyAlbum{
			ID:          albumID,
			Name:        albumName,
			ReleaseDate: "1987-11-12",
			Images:      []services.SpotifyImage{{URL: "https://i.scdn.co/image/" + albumID, Height: 640, Width: 640}},
		},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MustWriteFile writes content to path, failing the test on error
func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
