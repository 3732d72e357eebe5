package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackport/internal/models"
	"github.com/desertthunder/trackport/internal/shared"
)

const (
	routeListTracks  = "GET /api/tracks"
	routeImportTrack = "POST /api/tracks/import"
	routeGetTrack    = "GET /api/tracks/{id}"
	routeUpdateTrack = "PUT /api/tracks/{id}"
	routeDeleteTrack = "DELETE /api/tracks/{id}"
	routeFormTrack   = "POST /api/tracks/{id}"

	maxBodyBytes = 1 << 20
)

// TrackImporter imports a track by URL or id.
type TrackImporter interface {
	Import(ctx context.Context, input string) (*models.TrackDetail, error)
}

// TrackStore reads, edits and deletes stored tracks.
type TrackStore interface {
	List(ctx context.Context) ([]models.TrackDetail, error)
	Get(ctx context.Context, id string) (*models.TrackDetail, error)
	Update(ctx context.Context, id string, patch models.TrackPatch) (*models.TrackDetail, error)
	Delete(ctx context.Context, id string) error
}

// TracksHandler serves the /api/tracks endpoints.
type TracksHandler struct {
	importer TrackImporter
	tracks   TrackStore
	logger   *log.Logger
}

// NewTracksHandler creates a TracksHandler.
func NewTracksHandler(importer TrackImporter, tracks TrackStore, logger *log.Logger) *TracksHandler {
	return &TracksHandler{importer: importer, tracks: tracks, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *TracksHandler) Routes() []string {
	return []string{
		routeListTracks,
		routeImportTrack,
		routeGetTrack,
		routeUpdateTrack,
		routeDeleteTrack,
		routeFormTrack,
	}
}

// ServeHTTP dispatches on the matched route pattern.
func (h *TracksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case routeListTracks:
		h.list(w, r)
	case routeImportTrack:
		h.importTrack(w, r)
	case routeGetTrack:
		h.get(w, r)
	case routeUpdateTrack:
		h.update(w, r)
	case routeDeleteTrack:
		h.delete(w, r)
	case routeFormTrack:
		h.methodOverride(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *TracksHandler) list(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.tracks.List(r.Context())
	if err != nil {
		h.fail(w, "list tracks", err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

type importRequest struct {
	SpotifyURL string `json:"spotifyUrl"`
}

func (h *TracksHandler) importTrack(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.SpotifyURL) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Spotify URL or ID is required"})
		return
	}

	track, err := h.importer.Import(r.Context(), req.SpotifyURL)
	if err != nil {
		h.fail(w, "import track", err)
		return
	}
	writeJSON(w, http.StatusCreated, track)
}

func (h *TracksHandler) get(w http.ResponseWriter, r *http.Request) {
	track, err := h.tracks.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, "get track", err)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

func (h *TracksHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch models.TrackPatch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&patch); err != nil {
		h.fail(w, "update track", fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	track, err := h.tracks.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.fail(w, "update track", err)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

func (h *TracksHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tracks.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, "delete track", err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Track deleted successfully"})
}

// methodOverride lets HTML forms delete a track with POST and _method=DELETE.
func (h *TracksHandler) methodOverride(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid form body"})
		return
	}

	if strings.EqualFold(r.PostForm.Get("_method"), http.MethodDelete) {
		h.delete(w, r)
		return
	}
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
}

func (h *TracksHandler) fail(w http.ResponseWriter, op string, err error) {
	if errorStatus(err) >= http.StatusInternalServerError {
		h.logger.Error(op, "error", err)
	} else {
		h.logger.Debug(op, "error", err)
	}
	writeError(w, err)
}
