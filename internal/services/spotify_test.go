package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/trackport/internal/shared"
)

const trackBody = `{
	"id": "4uLU6hMCjMI75M1A2tKUQC",
	"name": "Never Gonna Give You Up",
	"duration_ms": 213573,
	"track_number": 1,
	"uri": "spotify:track:4uLU6hMCjMI75M1A2tKUQC",
	"artists": [{"id": "0gxyHStUsqpMadRV0Di1Qt", "name": "Rick Astley"}],
	"album": {
		"id": "6XhjNHCyCDyyGJRM5mg40G",
		"name": "Whenever You Need Somebody",
		"release_date": "1987-11-12",
		"images": [{"url": "https://i.scdn.co/image/cover", "height": 640, "width": 640}]
	}
}`

func TestSpotifyService(t *testing.T) {
	ctx := context.Background()

	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			srv, err := NewSpotifyService(map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
			}, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
			if srv.baseURL != spotifyBaseURL {
				t.Errorf("expected default base URL, got %s", srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{"client_secret": "test_client_secret"}, nil)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{"client_id": "test_client_id"}, nil)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("API URL Override", func(t *testing.T) {
			srv, err := NewSpotifyService(map[string]string{
				"client_id":     "id",
				"client_secret": "secret",
				"api_url":       "http://localhost:9999/v1/",
			}, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.baseURL != "http://localhost:9999/v1" {
				t.Errorf("expected trimmed override, got %s", srv.baseURL)
			}
		})
	})

	t.Run("Track", func(t *testing.T) {
		t.Run("Decodes And Keeps Raw Body", func(t *testing.T) {
			f := newFakeSpotify(t)
			f.handle("GET /v1/tracks/{id}", func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
					t.Errorf("unexpected Authorization header: %s", got)
				}
				if r.PathValue("id") != "4uLU6hMCjMI75M1A2tKUQC" {
					t.Errorf("unexpected track id: %s", r.PathValue("id"))
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(trackBody))
			})

			track, err := f.service(t).Track(ctx, "4uLU6hMCjMI75M1A2tKUQC")
			if err != nil {
				t.Fatalf("failed to fetch track: %v", err)
			}

			if track.Name != "Never Gonna Give You Up" || track.DurationMS != 213573 || track.TrackNumber != 1 {
				t.Errorf("unexpected track: %+v", track)
			}
			if len(track.Artists) != 1 || track.Artists[0].ID != "0gxyHStUsqpMadRV0Di1Qt" {
				t.Errorf("unexpected artists: %+v", track.Artists)
			}
			if track.Album.CoverURL() != "https://i.scdn.co/image/cover" {
				t.Errorf("unexpected cover: %s", track.Album.CoverURL())
			}
			if string(track.Raw) != trackBody {
				t.Error("raw body should be kept verbatim")
			}
		})

		t.Run("Not Found Surfaces API Message", func(t *testing.T) {
			f := newFakeSpotify(t)
			f.handle("GET /v1/tracks/{id}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":{"status":404,"message":"Resource not found"}}`))
			})

			_, err := f.service(t).Track(ctx, "missing")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if err == nil || !strings.Contains(err.Error(), "status 404: Resource not found") {
				t.Errorf("expected API message in error, got %v", err)
			}
		})

		t.Run("Rate Limited Includes Retry-After", func(t *testing.T) {
			f := newFakeSpotify(t)
			f.handle("GET /v1/tracks/{id}", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "7")
				w.WriteHeader(http.StatusTooManyRequests)
			})

			_, err := f.service(t).Track(ctx, "x")
			if !errors.Is(err, shared.ErrRateLimited) {
				t.Errorf("expected ErrRateLimited, got %v", err)
			}
			if err == nil || !strings.Contains(err.Error(), "retry after 7s") {
				t.Errorf("expected Retry-After in error, got %v", err)
			}
		})

		t.Run("Unauthorized Invalidates Token", func(t *testing.T) {
			f := newFakeSpotify(t)
			calls := 0
			f.handle("GET /v1/tracks/{id}", func(w http.ResponseWriter, r *http.Request) {
				calls++
				if calls == 1 {
					w.WriteHeader(http.StatusUnauthorized)
					w.Write([]byte(`{"error":{"status":401,"message":"The access token expired"}}`))
					return
				}
				w.Write([]byte(trackBody))
			})

			srv := f.service(t)
			_, err := srv.Track(ctx, "x")
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Fatalf("expected ErrNotAuthenticated, got %v", err)
			}

			if _, err := srv.Track(ctx, "x"); err != nil {
				t.Fatalf("expected second call to succeed, got %v", err)
			}
			if got := f.exchanges.Load(); got != 2 {
				t.Errorf("expected a fresh token exchange after 401, got %d exchanges", got)
			}
		})

		t.Run("Undecodable Body", func(t *testing.T) {
			f := newFakeSpotify(t)
			f.handle("GET /v1/tracks/{id}", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			})

			_, err := f.service(t).Track(ctx, "x")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			f := newFakeSpotify(t)
			srv := f.service(t)
			if _, err := srv.Tokens().Token(ctx); err != nil {
				t.Fatalf("failed to prime token: %v", err)
			}

			srv.httpClient = &http.Client{Transport: failingTransport{}}
			_, err := srv.Track(ctx, "x")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Cancelled Context", func(t *testing.T) {
			f := newFakeSpotify(t)
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			if _, err := f.service(t).Track(cctx, "x"); err == nil {
				t.Error("expected error for cancelled context")
			}
		})
	})

	t.Run("Album And Artist", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.handle("GET /v1/albums/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"` + r.PathValue("id") + `","name":"Discovery","images":[]}`))
		})
		f.handle("GET /v1/artists/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"` + r.PathValue("id") + `","name":"Daft Punk","genres":["french house"]}`))
		})
		srv := f.service(t)

		album, err := srv.Album(ctx, "2noRn2Aes5aoNVsU6iWThc")
		if err != nil {
			t.Fatalf("failed to fetch album: %v", err)
		}
		if album.Name != "Discovery" || album.CoverURL() != "" {
			t.Errorf("unexpected album: %+v", album)
		}

		artist, err := srv.Artist(ctx, "4tZwfgrHOc3mvqYlEYSvVi")
		if err != nil {
			t.Fatalf("failed to fetch artist: %v", err)
		}
		if artist.Name != "Daft Punk" || len(artist.Genres) != 1 {
			t.Errorf("unexpected artist: %+v", artist)
		}
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("Builds Query", func(t *testing.T) {
			f := newFakeSpotify(t)
			f.handle("GET /v1/search", func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("q") != "daft punk" || q.Get("type") != "track" || q.Get("limit") != "50" {
					t.Errorf("unexpected query: %s", r.URL.RawQuery)
				}
				w.Write([]byte(`{"tracks":{"total":1,"items":[{"id":"a","name":"One More Time"}]}}`))
			})

			tracks, err := f.service(t).Search(ctx, "  daft punk ", 500)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if len(tracks) != 1 || tracks[0].Name != "One More Time" {
				t.Errorf("unexpected results: %+v", tracks)
			}
		})

		t.Run("Empty Results", func(t *testing.T) {
			f := newFakeSpotify(t)
			f.handle("GET /v1/search", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"tracks":{"total":0}}`))
			})

			tracks, err := f.service(t).Search(ctx, "nothing", 0)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if tracks == nil || len(tracks) != 0 {
				t.Errorf("expected empty non-nil slice, got %v", tracks)
			}
		})

		t.Run("Empty Query", func(t *testing.T) {
			f := newFakeSpotify(t)
			_, err := f.service(t).Search(ctx, "   ", 10)
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})
}

// failingTransport refuses every request
type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestClampSearchLimit(t *testing.T) {
	tt := []struct{ in, want int }{
		{-1, DefaultSearchLimit},
		{0, DefaultSearchLimit},
		{1, 1},
		{50, 50},
		{51, MaxSearchLimit},
	}

	for _, tc := range tt {
		if got := ClampSearchLimit(tc.in); got != tc.want {
			t.Errorf("ClampSearchLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
