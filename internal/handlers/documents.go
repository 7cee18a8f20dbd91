package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"docgraph/internal/contextutil"
	"docgraph/internal/docs"
	"docgraph/internal/graphstore"
	"docgraph/internal/indexer"
)

// DocumentsHandler handles document ingest, retrieval and removal.
type DocumentsHandler struct {
	pipeline *indexer.Pipeline
	graph    graphstore.GraphStore
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(pipeline *indexer.Pipeline, graph graphstore.GraphStore) *DocumentsHandler {
	return &DocumentsHandler{pipeline: pipeline, graph: graph}
}

// IngestRequest is the payload for ingesting a document over the API.
type IngestRequest struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title"`
	Category  string   `json:"category,omitempty"`
	Body      string   `json:"body"`
	Related   []string `json:"related,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

// IngestResponse reports the result of an ingest.
type IngestResponse struct {
	ID         string   `json:"id"`
	ChunkCount int      `json:"chunk_count"`
	Warnings   []string `json:"warnings,omitempty"`
}

// ChunkResponse is one chunk of a retrieved document, in sequence order.
type ChunkResponse struct {
	ID     string `json:"id"`
	Seq    int    `json:"seq"`
	Text   string `json:"text"`
	Length int    `json:"length"`
}

// DocumentResponse is a retrieved document with its chunks.
type DocumentResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Category  string          `json:"category"`
	Body      string          `json:"body"`
	UpdatedAt string          `json:"updated_at"`
	Tags      []string        `json:"tags,omitempty"`
	Related   []string        `json:"related,omitempty"`
	Chunks    []ChunkResponse `json:"chunks"`
}

// Create ingests a document: chunk, embed, and write to both stores.
func (h *DocumentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		writeError(ctx, w, http.StatusBadRequest, "Title is required")
		return
	}

	doc := &docs.Document{
		ID:        req.ID,
		Title:     req.Title,
		Category:  req.Category,
		Body:      req.Body,
		Related:   req.Related,
		Tags:      req.Tags,
		UpdatedAt: time.Now().UTC(),
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.Category == "" {
		doc.Category = "uncategorized"
	}
	if req.UpdatedAt != "" {
		updated, err := time.Parse(time.RFC3339, req.UpdatedAt)
		if err != nil {
			writeError(ctx, w, http.StatusBadRequest, "updated_at must be RFC 3339")
			return
		}
		doc.UpdatedAt = updated
	}

	result, err := h.pipeline.IndexDocument(ctx, doc)
	if err != nil {
		logger.ErrorContext(ctx, "failed to index document", "doc_id", doc.ID, "error", err)
		var partial *indexer.PartialIndexError
		if errors.As(err, &partial) {
			writeError(ctx, w, http.StatusBadGateway, "Document could not be fully indexed and was rolled back")
			return
		}
		writeError(ctx, w, http.StatusInternalServerError, "Failed to index document")
		return
	}

	writeJSON(ctx, w, http.StatusCreated, IngestResponse{
		ID:         doc.ID,
		ChunkCount: result.ChunkCount,
		Warnings:   result.Warnings,
	})
}

// Get returns a document and its chunks in sequence order.
func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := chi.URLParam(r, "id")
	node, err := h.graph.GetNode(ctx, id)
	if err != nil {
		if errors.Is(err, graphstore.ErrNotFound) {
			writeError(ctx, w, http.StatusNotFound, "Document not found")
			return
		}
		logger.ErrorContext(ctx, "failed to get document", "doc_id", id, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to get document")
		return
	}
	if node.Label != graphstore.LabelDocument {
		writeError(ctx, w, http.StatusNotFound, "Document not found")
		return
	}

	sub, err := h.graph.Traverse(ctx, []string{id}, []string{graphstore.EdgeContains}, 1)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get document chunks", "doc_id", id, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to get document")
		return
	}

	chunks := []ChunkResponse{}
	for _, chunk := range sub.Nodes {
		if chunk.Label != graphstore.LabelChunk {
			continue
		}
		chunks = append(chunks, ChunkResponse{
			ID:     chunk.ID,
			Seq:    propInt(chunk.Props, "seq"),
			Text:   propString(chunk.Props, "text"),
			Length: propInt(chunk.Props, "length"),
		})
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Seq < chunks[j].Seq })

	writeJSON(ctx, w, http.StatusOK, DocumentResponse{
		ID:        node.ID,
		Title:     propString(node.Props, "title"),
		Category:  propString(node.Props, "category"),
		Body:      propString(node.Props, "body"),
		UpdatedAt: propString(node.Props, "updated_at"),
		Tags:      propStrings(node.Props, "tags"),
		Related:   propStrings(node.Props, "related"),
		Chunks:    chunks,
	})
}

// Delete removes a document and its chunks from both stores.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := chi.URLParam(r, "id")
	if _, err := h.graph.GetNode(ctx, id); err != nil {
		if errors.Is(err, graphstore.ErrNotFound) {
			writeError(ctx, w, http.StatusNotFound, "Document not found")
			return
		}
		logger.ErrorContext(ctx, "failed to look up document", "doc_id", id, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	if err := h.pipeline.RemoveDocument(ctx, id); err != nil {
		logger.ErrorContext(ctx, "failed to delete document", "doc_id", id, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func propString(props map[string]any, key string) string {
	if s, ok := props[key].(string); ok {
		return s
	}
	return ""
}

func propInt(props map[string]any, key string) int {
	switch v := props[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func propStrings(props map[string]any, key string) []string {
	values, ok := props[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
