package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// fakeSpotify serves the token endpoint at /token and API routes under /v1.
type fakeSpotify struct {
	server    *httptest.Server
	exchanges atomic.Int32
	mux       *http.ServeMux
}

func newFakeSpotify(t *testing.T) *fakeSpotify {
	t.Helper()

	f := &fakeSpotify{mux: http.NewServeMux()}
	f.mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "test_client_id" || pass != "test_client_secret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_client","error_description":"Invalid client"}`))
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("unexpected token request form: %v", r.PostForm)
		}

		n := f.exchanges.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": fmt.Sprintf("token-%d", n),
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	f.server = httptest.NewServer(f.mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeSpotify) handle(pattern string, h http.HandlerFunc) {
	f.mux.HandleFunc(pattern, h)
}

func (f *fakeSpotify) credentials() map[string]string {
	return map[string]string{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
		"token_url":     f.server.URL + "/token",
		"api_url":       f.server.URL + "/v1",
	}
}

func (f *fakeSpotify) service(t *testing.T) *SpotifyService {
	t.Helper()

	srv, err := NewSpotifyService(f.credentials(), f.server.Client())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	srv.SetRateLimit(0)
	return srv
}
