package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	embmocks "docgraph/internal/embedding/mocks"
	"docgraph/internal/graphstore"
	graphmocks "docgraph/internal/graphstore/mocks"
	"docgraph/internal/indexer"
	vecmocks "docgraph/internal/vectorstore/mocks"
)

func newDocumentsRouter(t *testing.T) (chi.Router, *graphmocks.MockGraphStore, *vecmocks.MockVectorStore, *embmocks.MockEmbedder) {
	t.Helper()
	ctrl := gomock.NewController(t)

	graph := graphmocks.NewMockGraphStore(ctrl)
	vectors := vecmocks.NewMockVectorStore(ctrl)
	embedder := embmocks.NewMockEmbedder(ctrl)

	chunker, err := indexer.NewChunker(1000, 200)
	if err != nil {
		t.Fatalf("NewChunker() error = %v", err)
	}
	pipeline := indexer.NewPipeline(graph, vectors, embedder, "documents", chunker, time.Second)
	handler := NewDocumentsHandler(pipeline, graph)

	r := chi.NewRouter()
	r.Post("/api/documents", handler.Create)
	r.Get("/api/documents/{id}", handler.Get)
	r.Delete("/api/documents/{id}", handler.Delete)
	return r, graph, vectors, embedder
}

func TestDocumentsHandler_Create(t *testing.T) {
	t.Run("ingests a document", func(t *testing.T) {
		router, graph, vectors, embedder := newDocumentsRouter(t)

		graph.EXPECT().
			Traverse(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&graphstore.Subgraph{}, nil)
		graph.EXPECT().UpsertNode(gomock.Any(), gomock.Any()).Return(nil).Times(2)
		graph.EXPECT().UpsertEdge(gomock.Any(), gomock.Any()).Return(nil)
		embedder.EXPECT().EmbedTexts(gomock.Any(), []string{"Install the binary."}).Return([][]float32{{0.1}}, nil)
		vectors.EXPECT().Upsert(gomock.Any(), "documents", gomock.Any()).Return(nil)

		body, _ := json.Marshal(IngestRequest{
			ID:       "doc_aabbcc",
			Title:    "Setup",
			Category: "guides",
			Body:     "Install the binary.",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
		}
		var resp IngestResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ID != "doc_aabbcc" || resp.ChunkCount != 1 {
			t.Errorf("response = %+v, want id doc_aabbcc with 1 chunk", resp)
		}
	})

	t.Run("rejects a missing title", func(t *testing.T) {
		router, _, _, _ := newDocumentsRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader([]byte(`{"body":"text"}`)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		router, _, _, _ := newDocumentsRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("maps a partial index failure to 502", func(t *testing.T) {
		router, graph, _, embedder := newDocumentsRouter(t)

		graph.EXPECT().
			Traverse(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&graphstore.Subgraph{}, nil)
		graph.EXPECT().UpsertNode(gomock.Any(), gomock.Any()).Return(nil)
		embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return(nil, errors.New("model unavailable"))

		body, _ := json.Marshal(IngestRequest{Title: "Setup", Body: "Install the binary."})
		req := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadGateway)
		}
	})
}

func TestDocumentsHandler_Get(t *testing.T) {
	t.Run("returns the document with chunks in order", func(t *testing.T) {
		router, graph, _, _ := newDocumentsRouter(t)

		graph.EXPECT().
			GetNode(gomock.Any(), "doc_aabbcc").
			Return(&graphstore.Node{
				Label: graphstore.LabelDocument,
				ID:    "doc_aabbcc",
				Props: map[string]any{
					"title":      "Setup",
					"category":   "guides",
					"body":       "Install the binary.",
					"updated_at": "2026-03-01T10:00:00Z",
					"tags":       []any{"ops"},
				},
			}, nil)
		graph.EXPECT().
			Traverse(gomock.Any(), []string{"doc_aabbcc"}, []string{graphstore.EdgeContains}, 1).
			Return(&graphstore.Subgraph{Nodes: []graphstore.TraversedNode{
				{Node: graphstore.Node{Label: graphstore.LabelChunk, ID: "c2", Props: map[string]any{"seq": float64(1), "text": "second"}}, Depth: 1},
				{Node: graphstore.Node{Label: graphstore.LabelChunk, ID: "c1", Props: map[string]any{"seq": float64(0), "text": "first"}}, Depth: 1},
			}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/documents/doc_aabbcc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}
		var resp DocumentResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Title != "Setup" || resp.Category != "guides" {
			t.Errorf("response = %+v", resp)
		}
		if len(resp.Chunks) != 2 || resp.Chunks[0].Text != "first" || resp.Chunks[1].Text != "second" {
			t.Errorf("Chunks = %+v, want sequence order", resp.Chunks)
		}
		if len(resp.Tags) != 1 || resp.Tags[0] != "ops" {
			t.Errorf("Tags = %v, want [ops]", resp.Tags)
		}
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		router, graph, _, _ := newDocumentsRouter(t)

		graph.EXPECT().GetNode(gomock.Any(), "doc_missing").Return(nil, graphstore.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/documents/doc_missing", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("a chunk id is not a document", func(t *testing.T) {
		router, graph, _, _ := newDocumentsRouter(t)

		graph.EXPECT().
			GetNode(gomock.Any(), "c1").
			Return(&graphstore.Node{Label: graphstore.LabelChunk, ID: "c1"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/documents/c1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

func TestDocumentsHandler_Delete(t *testing.T) {
	router, graph, vectors, _ := newDocumentsRouter(t)

	graph.EXPECT().
		GetNode(gomock.Any(), "doc_aabbcc").
		Return(&graphstore.Node{Label: graphstore.LabelDocument, ID: "doc_aabbcc"}, nil)
	graph.EXPECT().
		Traverse(gomock.Any(), []string{"doc_aabbcc"}, []string{graphstore.EdgeContains}, 1).
		Return(&graphstore.Subgraph{Nodes: []graphstore.TraversedNode{
			{Node: graphstore.Node{Label: graphstore.LabelChunk, ID: "c1"}, Depth: 1},
		}}, nil)
	vectors.EXPECT().Delete(gomock.Any(), "documents", []string{"c1"}).Return(nil)
	graph.EXPECT().DeleteNodes(gomock.Any(), []string{"c1"}).Return(nil)
	graph.EXPECT().DeleteNodes(gomock.Any(), []string{"doc_aabbcc"}).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/documents/doc_aabbcc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusNoContent, w.Body.String())
	}
}
