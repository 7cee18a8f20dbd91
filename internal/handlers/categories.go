package handlers

import (
	"net/http"

	"docgraph/internal/contextutil"
	"docgraph/internal/graphstore"
)

// CategoriesHandler lists the categories of all indexed documents.
type CategoriesHandler struct {
	graph graphstore.GraphStore
}

// NewCategoriesHandler creates a new CategoriesHandler.
func NewCategoriesHandler(graph graphstore.GraphStore) *CategoriesHandler {
	return &CategoriesHandler{graph: graph}
}

// CategoriesResponse is the list of distinct document categories, sorted.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

func (h *CategoriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	categories, err := h.graph.DistinctPropertyValues(ctx, graphstore.LabelDocument, "category")
	if err != nil {
		logger.ErrorContext(ctx, "failed to list categories", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to list categories")
		return
	}
	if categories == nil {
		categories = []string{}
	}

	writeJSON(ctx, w, http.StatusOK, CategoriesResponse{Categories: categories})
}
