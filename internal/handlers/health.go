package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"docgraph/internal/contextutil"
	"docgraph/internal/graphstore"
	"docgraph/internal/vectorstore"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	graph              graphstore.GraphStore
	vectors            vectorstore.VectorStore
	collection         string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(graph graphstore.GraphStore, vectors vectorstore.VectorStore, collection string) *HealthHandler {
	return &HealthHandler{
		graph:              graph,
		vectors:            vectors,
		collection:         collection,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Issues    []string          `json:"issues,omitempty"`
}

// ServeHTTP checks both backing stores. Returns 200 when both respond, 503
// otherwise. One store down still means queries can be answered degraded,
// but the service is reported unhealthy so the operator looks at it.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if h.checkVectorStore(checkCtx, logger) {
		checks["vector_store"] = "ok"
	} else {
		checks["vector_store"] = "error"
		issues = append(issues, "vector_store_unavailable")
	}

	if h.checkGraphStore(checkCtx, logger) {
		checks["graph_store"] = "ok"
	} else {
		checks["graph_store"] = "error"
		issues = append(issues, "graph_store_unavailable")
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(ctx, w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	})
}

func (h *HealthHandler) checkVectorStore(ctx context.Context, logger *slog.Logger) bool {
	exists, err := h.vectors.CollectionExists(ctx, h.collection)
	if err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
		return false
	}
	if !exists {
		logger.WarnContext(ctx, "vector store collection does not exist", "collection", h.collection)
		return false
	}
	return true
}

func (h *HealthHandler) checkGraphStore(ctx context.Context, logger *slog.Logger) bool {
	if _, err := h.graph.CountNodes(ctx, graphstore.LabelDocument); err != nil {
		logger.WarnContext(ctx, "graph store health check failed", "error", err)
		return false
	}
	return true
}
