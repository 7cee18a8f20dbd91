package docs

import "time"

// Document is a semi-structured text document as seen by the indexing
// pipeline and the query engine. Once indexed it is immutable; re-ingestion
// replaces it wholesale.
type Document struct {
	// ID is the stable document identifier, shared between the graph store
	// and vector point payloads.
	ID string `json:"id"`
	// Title is the human-readable title.
	Title string `json:"title"`
	// Category is a slash-delimited path, e.g. "guides/setup".
	Category string `json:"category"`
	// Body is the free-text content that gets chunked and embedded.
	Body string `json:"body"`
	// UpdatedAt is the document's last update timestamp.
	UpdatedAt time.Time `json:"updated_at"`
	// Related references other documents by id or source path.
	Related []string `json:"related,omitempty"`
	// Tags are key-concept tags from document metadata.
	Tags []string `json:"tags,omitempty"`
}
