package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"docgraph/internal/contextutil"
	"docgraph/internal/embedding"
	"docgraph/internal/search"
)

// SearchHandler handles HTTP requests for hybrid search queries.
type SearchHandler struct {
	engine *search.Engine
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(engine *search.Engine) *SearchHandler {
	return &SearchHandler{engine: engine}
}

// ServeHTTP answers a search request. A degraded query is still a 200; only
// an unusable query or total unavailability of the backing stores errors.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req search.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.engine.Search(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrEmptyQuery):
			logger.WarnContext(ctx, "empty query in request")
			writeError(ctx, w, http.StatusBadRequest, "Query is required")
		case errors.Is(err, embedding.ErrEmbeddingFailed):
			logger.ErrorContext(ctx, "embedding service error", "error", err)
			writeError(ctx, w, http.StatusBadGateway, "Embedding service unavailable")
		default:
			logger.ErrorContext(ctx, "search failed", "error", err)
			writeError(ctx, w, http.StatusServiceUnavailable, "Search is unavailable")
		}
		return
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
