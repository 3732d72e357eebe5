package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackport/internal/services"
	"github.com/desertthunder/trackport/internal/shared"
)

// CatalogHandler passes searches through to the catalog.
type CatalogHandler struct {
	catalog services.Service
	logger  *log.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalog services.Service, logger *log.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *CatalogHandler) Routes() []string {
	return []string{"GET /api/catalog/search"}
}

// ServeHTTP handles GET /api/catalog/search?q=&limit=
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "query parameter q is required"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be an integer"})
			return
		}
		limit = n
	}

	tracks, err := h.catalog.Search(r.Context(), query, limit)
	if err != nil {
		h.logger.Error("catalog search", "query", query, "error", err)
		writeError(w, fmt.Errorf("%w: %v", shared.ErrUpstream, err))
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}
