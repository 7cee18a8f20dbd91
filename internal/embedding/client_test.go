package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newEmbeddingsServer returns a test server that responds with one vector of
// the given dimension per input text.
func newEmbeddingsServer(t *testing.T, dim int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		resp := embeddingsResponse{}
		for range req.Input {
			vec := make([]float64, dim)
			for i := range vec {
				vec[i] = 0.5
			}
			resp.Data = append(resp.Data, embeddingData{Embedding: vec})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestClient_EmbedTexts(t *testing.T) {
	server := newEmbeddingsServer(t, 4)
	defer server.Close()

	client := NewClient(server.URL, "key", "test-model", 4)

	vectors, err := client.EmbedTexts(context.Background(), []string{"hello", "world"})
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("EmbedTexts() returned %d vectors, want 2", len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != 4 {
			t.Errorf("vector %d has dimension %d, want 4", i, len(vec))
		}
	}
}

func TestClient_EmbedTexts_DimensionMismatch(t *testing.T) {
	server := newEmbeddingsServer(t, 8)
	defer server.Close()

	client := NewClient(server.URL, "key", "test-model", 4)

	_, err := client.EmbedTexts(context.Background(), []string{"hello"})
	if !errors.Is(err, ErrEmbeddingFailed) {
		t.Errorf("EmbedTexts() error = %v, want ErrEmbeddingFailed", err)
	}
}

func TestClient_EmbedTexts_EmptyInput(t *testing.T) {
	client := NewClient("http://localhost:0", "key", "test-model", 4)

	_, err := client.EmbedTexts(context.Background(), nil)
	if !errors.Is(err, ErrEmbeddingFailed) {
		t.Errorf("EmbedTexts() error = %v, want ErrEmbeddingFailed", err)
	}
}

func TestClient_EmbedTexts_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "test-model", 4)

	_, err := client.EmbedTexts(context.Background(), []string{"hello"})
	if !errors.Is(err, ErrEmbeddingFailed) {
		t.Errorf("EmbedTexts() error = %v, want ErrEmbeddingFailed", err)
	}
}

func TestClient_EmbedTexts_Unreachable(t *testing.T) {
	// Port 0 is never listening.
	client := NewClient("http://127.0.0.1:0", "key", "test-model", 4)

	_, err := client.EmbedTexts(context.Background(), []string{"hello"})
	if !errors.Is(err, ErrEmbeddingFailed) {
		t.Errorf("EmbedTexts() error = %v, want ErrEmbeddingFailed", err)
	}
}
