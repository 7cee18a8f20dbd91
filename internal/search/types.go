package search

// Request is a hybrid search request.
type Request struct {
	Query       string `json:"query"`
	Limit       int    `json:"limit,omitempty"`
	Category    string `json:"category,omitempty"`
	ExpandDepth int    `json:"expand_depth,omitempty"`
}

// Result is one ranked document in a search response.
type Result struct {
	DocumentID         string   `json:"document_id"`
	Title              string   `json:"title"`
	Score              float64  `json:"score"`
	MatchedText        string   `json:"matched_text,omitempty"`
	RelatedDocumentIDs []string `json:"related_document_ids,omitempty"`
}

// Degraded flags which stages of a query fell back. A degraded query is
// still a successful query.
type Degraded struct {
	VectorSearch bool `json:"vector_search"`
	Expansion    bool `json:"expansion"`
}

// Response is a ranked, possibly degraded search response.
type Response struct {
	Results  []Result `json:"results"`
	Degraded Degraded `json:"degraded"`
}
