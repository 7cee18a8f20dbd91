package indexer

import "fmt"

// Chunk is a contiguous text window of a document body, the unit of
// embedding and retrieval.
type Chunk struct {
	Seq    int    // 0-based sequence index within the document
	Text   string // chunk text, including the leading overlap
	Length int    // text length in runes
}

// Chunker splits a document body into overlapping windows of a fixed size.
// It is a pure function over the body and safe for concurrent use.
type Chunker struct {
	size    int // window size in runes
	overlap int // runes shared with the previous chunk
}

// NewChunker creates a chunker. overlap must be smaller than size; this is
// validated here so a misconfiguration fails at startup, not at chunk time.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be greater than 0, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size): got overlap %d, size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits the body into ordered chunks covering it with no gaps.
// Window starts advance by a fixed step of size minus overlap, so
// consecutive chunks share exactly the configured overlap; the final chunk
// may be shorter than the window. Stripping at most the overlap from the
// front of every chunk after the first and concatenating reconstructs the
// body exactly. A body shorter than the chunk size yields exactly one
// chunk; an empty body yields none.
func (c *Chunker) Chunk(body string) []Chunk {
	runes := []rune(body)
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []Chunk
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, Chunk{
			Seq:    len(chunks),
			Text:   string(runes[start:end]),
			Length: end - start,
		})
	}
	return chunks
}

// Overlap returns the configured overlap in runes.
func (c *Chunker) Overlap() int {
	return c.overlap
}
