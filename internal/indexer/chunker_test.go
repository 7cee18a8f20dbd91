package indexer

import (
	"strings"
	"testing"
)

func TestNewChunker(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{name: "valid", size: 1000, overlap: 200},
		{name: "zero overlap", size: 100, overlap: 0},
		{name: "overlap equals size", size: 100, overlap: 100, wantErr: true},
		{name: "overlap exceeds size", size: 100, overlap: 150, wantErr: true},
		{name: "negative overlap", size: 100, overlap: -1, wantErr: true},
		{name: "zero size", size: 0, overlap: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChunker(tt.size, tt.overlap)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewChunker(%d, %d) error = %v, wantErr %v", tt.size, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestChunker_Chunk(t *testing.T) {
	tests := []struct {
		name        string
		size        int
		overlap     int
		body        string
		wantCount   int
		wantLastLen int
	}{
		{
			name:      "empty body yields no chunks",
			size:      100,
			overlap:   10,
			body:      "",
			wantCount: 0,
		},
		{
			name:        "body shorter than size yields one chunk",
			size:        100,
			overlap:     10,
			body:        "short",
			wantCount:   1,
			wantLastLen: 5,
		},
		{
			name:        "body equal to size emits the overlap tail",
			size:        5,
			overlap:     2,
			body:        "12345",
			wantCount:   2,
			wantLastLen: 2,
		},
		{
			name:        "2500 chars, size 1000, overlap 200 yields 4 chunks",
			size:        1000,
			overlap:     200,
			body:        strings.Repeat("x", 2500),
			wantCount:   4,
			wantLastLen: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunker, err := NewChunker(tt.size, tt.overlap)
			if err != nil {
				t.Fatalf("NewChunker() error = %v", err)
			}

			chunks := chunker.Chunk(tt.body)
			if len(chunks) != tt.wantCount {
				t.Fatalf("Chunk() produced %d chunks, want %d", len(chunks), tt.wantCount)
			}
			if tt.wantCount > 0 {
				if got := chunks[len(chunks)-1].Length; got != tt.wantLastLen {
					t.Errorf("last chunk length = %d, want %d", got, tt.wantLastLen)
				}
			}

			for i, chunk := range chunks {
				if chunk.Seq != i {
					t.Errorf("chunk %d has Seq %d", i, chunk.Seq)
				}
				if chunk.Length != len([]rune(chunk.Text)) {
					t.Errorf("chunk %d Length = %d, text has %d runes", i, chunk.Length, len([]rune(chunk.Text)))
				}
				if chunk.Length > tt.size {
					t.Errorf("chunk %d length %d exceeds size %d", i, chunk.Length, tt.size)
				}
			}
		})
	}
}

// TestChunker_RoundTrip checks that stripping the leading overlap from every
// chunk after the first and concatenating reconstructs the body exactly.
// A tail chunk may be shorter than the overlap, so the strip is bounded by
// the chunk length.
func TestChunker_RoundTrip(t *testing.T) {
	bodies := []string{
		"short body",
		strings.Repeat("abcdefghij", 250),
		strings.Repeat("日本語のテキスト ", 300), // multibyte runes
		strings.Repeat("x", 999),
		strings.Repeat("x", 1000),
		strings.Repeat("x", 1001),
		strings.Repeat("x", 2500),
	}

	chunker, err := NewChunker(1000, 200)
	if err != nil {
		t.Fatalf("NewChunker() error = %v", err)
	}

	for _, body := range bodies {
		chunks := chunker.Chunk(body)

		var b strings.Builder
		for i, chunk := range chunks {
			runes := []rune(chunk.Text)
			if i == 0 {
				b.WriteString(chunk.Text)
				continue
			}
			strip := chunker.Overlap()
			if strip > len(runes) {
				strip = len(runes)
			}
			b.WriteString(string(runes[strip:]))
		}

		if b.String() != body {
			t.Errorf("round trip failed for body of %d runes: got %d runes back", len([]rune(body)), len([]rune(b.String())))
		}
	}
}

// TestChunker_OverlapInvariant checks that consecutive chunks share exactly
// the configured overlap.
func TestChunker_OverlapInvariant(t *testing.T) {
	chunker, err := NewChunker(50, 10)
	if err != nil {
		t.Fatalf("NewChunker() error = %v", err)
	}

	body := strings.Repeat("0123456789", 20)
	chunks := chunker.Chunk(body)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		curr := []rune(chunks[i].Text)
		tail := string(prev[len(prev)-10:])
		head := string(curr[:10])
		if tail != head {
			t.Errorf("chunks %d/%d do not share the overlap: %q vs %q", i-1, i, tail, head)
		}
	}
}
