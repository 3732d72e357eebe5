package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackport/internal/services"
)

// NewAPI assembles the router for the JSON API with logging and recovery middleware.
func NewAPI(importer TrackImporter, tracks TrackStore, catalog services.Service, logger *log.Logger) *BasicRouter {
	router := NewBasicRouter()
	router.Use(RequestLogger(logger), Recoverer(logger))

	router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	router.Handler(NewTracksHandler(importer, tracks, logger))
	if catalog != nil {
		router.Handler(NewCatalogHandler(catalog, logger))
	}

	return router
}
