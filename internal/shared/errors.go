package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrRateLimited        = fmt.Errorf("rate limited")

	// Import errors
	ErrInvalidIdentifier = fmt.Errorf("invalid Spotify URL or ID")
	ErrAlreadyExists     = fmt.Errorf("track already exists in database")
	ErrUpstream          = fmt.Errorf("catalog lookup failed")
	ErrPersistence       = fmt.Errorf("persistence failure")

	// Store errors
	ErrNotFound      = fmt.Errorf("not found")
	ErrTrackNotFound = fmt.Errorf("track %w", ErrNotFound)
	ErrConflict      = fmt.Errorf("unique constraint conflict")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// AlreadyExistsError reports that a track with the requested external key is
// already stored. TrackID is the existing local id.
type AlreadyExistsError struct {
	TrackID string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrAlreadyExists, e.TrackID)
}

// Is makes errors.Is(err, ErrAlreadyExists) match.
func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}
