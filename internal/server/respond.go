package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desertthunder/trackport/internal/shared"
)

type errorBody struct {
	Error   string `json:"error"`
	TrackID string `json:"trackId,omitempty"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorStatus maps the error taxonomy onto an HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidIdentifier), errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, shared.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": ...}. Conflicts carry the existing track id.
// 500 bodies never carry the underlying message; callers log it.
func writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	body := errorBody{Error: err.Error()}

	var exists *shared.AlreadyExistsError
	switch {
	case errors.As(err, &exists):
		body = errorBody{Error: "Track already exists in database", TrackID: exists.TrackID}
	case errors.Is(err, shared.ErrInvalidIdentifier):
		body.Error = "Invalid Spotify URL or ID"
	case errors.Is(err, shared.ErrNotFound):
		body.Error = "Track not found"
	case status == http.StatusInternalServerError:
		body.Error = "Internal server error"
	}

	writeJSON(w, status, body)
}
