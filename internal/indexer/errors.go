package indexer

import "fmt"

// PartialIndexError reports a mid-document write failure. By the time it is
// returned, the document's partial writes have been rolled back from both
// stores, so no half-indexed chunk remains visible.
type PartialIndexError struct {
	DocID string
	Err   error
}

func (e *PartialIndexError) Error() string {
	return fmt.Sprintf("partial index failure for document %s: %v", e.DocID, e.Err)
}

func (e *PartialIndexError) Unwrap() error {
	return e.Err
}
