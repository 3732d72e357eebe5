// Spotify Web API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/trackport/internal/shared"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// DefaultRateLimit is the default number of catalog requests per second.
	DefaultRateLimit = 10.0

	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalIDs struct {
	ISRC string `json:"isrc"`
}

// SpotifyTrack represents a Spotify track. Raw holds the response body it was decoded from.
type SpotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	Album       SpotifyAlbum    `json:"album"`
	DurationMS  int             `json:"duration_ms"`
	TrackNumber int             `json:"track_number"`
	Explicit    bool            `json:"explicit"`
	ExternalIDs externalIDs     `json:"external_ids"`
	Popularity  int             `json:"popularity"`
	URI         string          `json:"uri"`

	Raw json.RawMessage `json:"-"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Genres []string       `json:"genres"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	Images      []SpotifyImage  `json:"images"`
	URI         string          `json:"uri"`
}

// CoverURL returns the first image URL, or "" when the album has no images.
func (a SpotifyAlbum) CoverURL() string {
	if len(a.Images) == 0 {
		return ""
	}
	return a.Images[0].URL
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
		Total int            `json:"total"`
	} `json:"tracks"`
}

// spotifyErrorResponse is the regular error object returned by the Web API.
type spotifyErrorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyService implements the Service interface for Spotify Web API catalog reads.
// Uses an injected [TokenCache] for authentication and a [rate.Limiter] for pacing.
type SpotifyService struct {
	tokens     *TokenCache
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewSpotifyService creates a new Spotify service with the given client credentials.
//
// Recognized keys: client_id, client_secret (required), token_url and api_url (optional overrides).
// A nil client uses [http.DefaultClient].
func NewSpotifyService(credentials map[string]string, client *http.Client) (*SpotifyService, error) {
	if client == nil {
		client = http.DefaultClient
	}

	tokens, err := NewTokenCache(credentials["client_id"], credentials["client_secret"], credentials["token_url"], client)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimSuffix(credentials["api_url"], "/")
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}

	return &SpotifyService{
		tokens:     tokens,
		httpClient: client,
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
	}, nil
}

// SetRateLimit changes the request rate. Non-positive values disable limiting.
func (s *SpotifyService) SetRateLimit(perSecond float64) {
	if perSecond <= 0 {
		s.limiter = rate.NewLimiter(rate.Inf, 0)
		return
	}
	s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
}

// Tokens exposes the token cache, mainly for tests and diagnostics.
func (s *SpotifyService) Tokens() *TokenCache {
	return s.tokens
}

// Name returns the service name
func (s *SpotifyService) Name() string {
	return "Spotify"
}

// doRequest performs an authenticated GET against the Web API and returns the raw body.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", shared.ErrAPIRequest, err)
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	message := apiErrorMessage(resp.StatusCode, body)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		s.tokens.Invalidate()
		return nil, fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, message)
	case http.StatusTooManyRequests:
		if retry := resp.Header.Get("Retry-After"); retry != "" {
			message += " (retry after " + retry + "s)"
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrRateLimited, message)
	default:
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, message)
	}
}

// apiErrorMessage formats a non-2xx response, preferring the message from a Spotify error body.
func apiErrorMessage(status int, body []byte) string {
	var apiErr spotifyErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Sprintf("spotify API error: status %d: %s", status, apiErr.Error.Message)
	}
	return fmt.Sprintf("spotify API error: status %d", status)
}

func (s *SpotifyService) get(ctx context.Context, endpoint string, query url.Values, result any) ([]byte, error) {
	body, err := s.doRequest(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return body, nil
}

// Track retrieves a single track by ID, keeping the raw response body.
func (s *SpotifyService) Track(ctx context.Context, trackID string) (*SpotifyTrack, error) {
	var track SpotifyTrack
	body, err := s.get(ctx, "/tracks/"+url.PathEscape(trackID), nil, &track)
	if err != nil {
		return nil, err
	}

	track.Raw = json.RawMessage(body)
	return &track, nil
}

// Album retrieves a single album by ID.
func (s *SpotifyService) Album(ctx context.Context, albumID string) (*SpotifyAlbum, error) {
	var album SpotifyAlbum
	if _, err := s.get(ctx, "/albums/"+url.PathEscape(albumID), nil, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Artist retrieves a single artist by ID.
func (s *SpotifyService) Artist(ctx context.Context, artistID string) (*SpotifyArtist, error) {
	var artist SpotifyArtist
	if _, err := s.get(ctx, "/artists/"+url.PathEscape(artistID), nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// Search finds tracks matching query. Limit defaults to 20 and is capped at 50.
func (s *SpotifyService) Search(ctx context.Context, query string, limit int) ([]SpotifyTrack, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", shared.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(ClampSearchLimit(limit)))

	var response spotifySearchResponse
	if _, err := s.get(ctx, "/search", params, &response); err != nil {
		return nil, err
	}

	if response.Tracks.Items == nil {
		return []SpotifyTrack{}, nil
	}
	return response.Tracks.Items, nil
}

// ClampSearchLimit maps non-positive values to the default and caps at [MaxSearchLimit].
func ClampSearchLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultSearchLimit
	case limit > MaxSearchLimit:
		return MaxSearchLimit
	default:
		return limit
	}
}
