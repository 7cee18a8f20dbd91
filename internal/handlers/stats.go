package handlers

import (
	"net/http"

	"docgraph/internal/contextutil"
	"docgraph/internal/graphstore"
	"docgraph/internal/vectorstore"
)

// StatsHandler reports index sizes across both stores.
type StatsHandler struct {
	graph      graphstore.GraphStore
	vectors    vectorstore.VectorStore
	collection string
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(graph graphstore.GraphStore, vectors vectorstore.VectorStore, collection string) *StatsHandler {
	return &StatsHandler{graph: graph, vectors: vectors, collection: collection}
}

// StatsResponse counts the indexed documents, their chunk nodes, and the
// vector points. Chunks and vector points agree when the stores are
// consistent.
type StatsResponse struct {
	Documents    int `json:"documents"`
	Chunks       int `json:"chunks"`
	VectorPoints int `json:"vector_points"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	documents, err := h.graph.CountNodes(ctx, graphstore.LabelDocument)
	if err != nil {
		logger.ErrorContext(ctx, "failed to count documents", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to collect stats")
		return
	}
	chunks, err := h.graph.CountNodes(ctx, graphstore.LabelChunk)
	if err != nil {
		logger.ErrorContext(ctx, "failed to count chunks", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to collect stats")
		return
	}
	points, err := h.vectors.CountPoints(ctx, h.collection)
	if err != nil {
		logger.ErrorContext(ctx, "failed to count vector points", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to collect stats")
		return
	}

	writeJSON(ctx, w, http.StatusOK, StatsResponse{
		Documents:    documents,
		Chunks:       chunks,
		VectorPoints: points,
	})
}
