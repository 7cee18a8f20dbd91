package indexer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"docgraph/internal/contextutil"
	"docgraph/internal/docs"
	"docgraph/internal/embedding"
	"docgraph/internal/graphstore"
	"docgraph/internal/vectorstore"
)

// Result summarizes a single document's indexing run.
type Result struct {
	ChunkCount int
	Warnings   []string
}

// Pipeline orchestrates chunking, embedding and the dual write of documents
// into the graph store and the vector index.
type Pipeline struct {
	graph       graphstore.GraphStore
	vectors     vectorstore.VectorStore
	embedder    embedding.Embedder
	collection  string
	chunker     *Chunker
	callTimeout time.Duration
	locks       keyedMutex
}

// NewPipeline creates an indexing pipeline. callTimeout bounds each external
// store or embedding call.
func NewPipeline(
	graph graphstore.GraphStore,
	vectors vectorstore.VectorStore,
	embedder embedding.Embedder,
	collection string,
	chunker *Chunker,
	callTimeout time.Duration,
) *Pipeline {
	return &Pipeline{
		graph:       graph,
		vectors:     vectors,
		embedder:    embedder,
		collection:  collection,
		chunker:     chunker,
		callTimeout: callTimeout,
	}
}

// withTimeout bounds a single external call.
func (p *Pipeline) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.callTimeout)
}

// IndexDocument indexes one document: upserts the Document node, deletes any
// previous chunks from both stores, then rebuilds chunk nodes, CONTAINS/NEXT
// edges and vector points, and finally derives RELATED_TO and CHILD_OF
// edges. Concurrent calls for the same document id serialize.
//
// On a mid-document failure the document's chunk writes are rolled back from
// both stores and a PartialIndexError is returned, so the chunk-id join key
// between the stores never refers to a half-indexed document.
func (p *Pipeline) IndexDocument(ctx context.Context, doc *docs.Document) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)
	unlock := p.locks.Lock(doc.ID)
	defer unlock()

	var result Result

	// Destructive rebuild: stale chunks must never survive a body edit.
	if err := p.removeChunks(ctx, doc.ID); err != nil {
		return result, fmt.Errorf("failed to remove existing chunks for %s: %w", doc.ID, err)
	}

	if err := p.upsertDocumentNode(ctx, doc); err != nil {
		return result, fmt.Errorf("failed to upsert document node %s: %w", doc.ID, err)
	}

	chunks := p.chunker.Chunk(doc.Body)
	if len(chunks) == 0 {
		logger.WarnContext(ctx, "document has empty body, no chunks generated", "doc_id", doc.ID)
		result.Warnings = append(result.Warnings, "empty body: no chunks generated")
	} else {
		chunkIDs, err := p.writeChunks(ctx, doc, chunks)
		if err != nil {
			p.rollbackChunks(ctx, chunkIDs)
			return result, &PartialIndexError{DocID: doc.ID, Err: err}
		}
		result.ChunkCount = len(chunks)
	}

	warnings, err := p.linkRelated(ctx, doc)
	if err != nil {
		return result, fmt.Errorf("failed to link related documents for %s: %w", doc.ID, err)
	}
	result.Warnings = append(result.Warnings, warnings...)

	if err := p.linkCategoryParents(ctx, doc); err != nil {
		return result, fmt.Errorf("failed to derive category edges for %s: %w", doc.ID, err)
	}

	logger.InfoContext(ctx, "indexed document",
		"doc_id", doc.ID, "title", doc.Title, "chunks", result.ChunkCount, "warnings", len(result.Warnings))
	return result, nil
}

// RemoveDocument deletes a document and all of its chunks from both stores.
func (p *Pipeline) RemoveDocument(ctx context.Context, docID string) error {
	unlock := p.locks.Lock(docID)
	defer unlock()

	if err := p.removeChunks(ctx, docID); err != nil {
		return fmt.Errorf("failed to remove chunks for %s: %w", docID, err)
	}

	tctx, cancel := p.withTimeout(ctx)
	defer cancel()
	if err := p.graph.DeleteNodes(tctx, []string{docID}); err != nil {
		return fmt.Errorf("failed to delete document node %s: %w", docID, err)
	}
	return nil
}

// upsertDocumentNode writes the Document node with its display properties.
func (p *Pipeline) upsertDocumentNode(ctx context.Context, doc *docs.Document) error {
	tctx, cancel := p.withTimeout(ctx)
	defer cancel()

	return p.graph.UpsertNode(tctx, graphstore.Node{
		Label: graphstore.LabelDocument,
		ID:    doc.ID,
		Props: map[string]any{
			"title":      doc.Title,
			"category":   doc.Category,
			"body":       doc.Body,
			"updated_at": doc.UpdatedAt.UTC().Format(time.RFC3339),
			"tags":       toAnySlice(doc.Tags),
			"related":    toAnySlice(doc.Related),
		},
	})
}

// writeChunks embeds all chunks in one batch, then writes chunk nodes,
// CONTAINS/NEXT edges and vector points. It returns the ids of every chunk
// it attempted to write so the caller can roll them back on failure.
func (p *Pipeline) writeChunks(ctx context.Context, doc *docs.Document, chunks []Chunk) ([]string, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	ectx, cancel := p.withTimeout(ctx)
	vecs, err := p.embedder.EmbedTexts(ectx, texts)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vecs) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(vecs))
	}

	chunkIDs := make([]string, len(chunks))
	points := make([]vectorstore.Point, len(chunks))

	for i, chunk := range chunks {
		chunkID := uuid.New().String()
		chunkIDs[i] = chunkID

		tctx, cancel := p.withTimeout(ctx)
		err := p.graph.UpsertNode(tctx, graphstore.Node{
			Label: graphstore.LabelChunk,
			ID:    chunkID,
			Props: map[string]any{
				"doc_id": doc.ID,
				"seq":    chunk.Seq,
				"text":   chunk.Text,
				"length": chunk.Length,
			},
		})
		cancel()
		if err != nil {
			return chunkIDs, fmt.Errorf("failed to upsert chunk node: %w", err)
		}

		tctx, cancel = p.withTimeout(ctx)
		err = p.graph.UpsertEdge(tctx, graphstore.Edge{
			Type:   graphstore.EdgeContains,
			FromID: doc.ID,
			ToID:   chunkID,
		})
		cancel()
		if err != nil {
			return chunkIDs, fmt.Errorf("failed to upsert CONTAINS edge: %w", err)
		}

		if i > 0 {
			tctx, cancel = p.withTimeout(ctx)
			err = p.graph.UpsertEdge(tctx, graphstore.Edge{
				Type:   graphstore.EdgeNext,
				FromID: chunkIDs[i-1],
				ToID:   chunkID,
			})
			cancel()
			if err != nil {
				return chunkIDs, fmt.Errorf("failed to upsert NEXT edge: %w", err)
			}
		}

		// The point id is the chunk node id: this shared identifier is
		// the join key between the two stores.
		points[i] = vectorstore.Point{
			ID:  chunkID,
			Vec: vecs[i],
			Meta: map[string]any{
				"doc_id":   doc.ID,
				"chunk_id": chunkID,
				"category": doc.Category,
				"seq":      chunk.Seq,
				"title":    doc.Title,
			},
		}
	}

	tctx, cancel := p.withTimeout(ctx)
	defer cancel()
	if err := p.vectors.Upsert(tctx, p.collection, points); err != nil {
		return chunkIDs, fmt.Errorf("failed to upsert vector points: %w", err)
	}

	return chunkIDs, nil
}

// rollbackChunks is the compensating action for a mid-document failure: it
// removes the given chunk ids from both stores, best effort.
func (p *Pipeline) rollbackChunks(ctx context.Context, chunkIDs []string) {
	if len(chunkIDs) == 0 {
		return
	}
	logger := contextutil.LoggerFromContext(ctx)

	tctx, cancel := p.withTimeout(ctx)
	if err := p.vectors.Delete(tctx, p.collection, chunkIDs); err != nil {
		logger.WarnContext(ctx, "rollback: failed to delete vector points", "count", len(chunkIDs), "error", err)
	}
	cancel()

	tctx, cancel = p.withTimeout(ctx)
	if err := p.graph.DeleteNodes(tctx, chunkIDs); err != nil {
		logger.WarnContext(ctx, "rollback: failed to delete chunk nodes", "count", len(chunkIDs), "error", err)
	}
	cancel()
}

// removeChunks deletes all of a document's chunks from both stores.
func (p *Pipeline) removeChunks(ctx context.Context, docID string) error {
	tctx, cancel := p.withTimeout(ctx)
	sub, err := p.graph.Traverse(tctx, []string{docID}, []string{graphstore.EdgeContains}, 1)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}

	var chunkIDs []string
	for _, node := range sub.Nodes {
		if node.Label == graphstore.LabelChunk {
			chunkIDs = append(chunkIDs, node.ID)
		}
	}
	if len(chunkIDs) == 0 {
		return nil
	}

	tctx, cancel = p.withTimeout(ctx)
	err = p.vectors.Delete(tctx, p.collection, chunkIDs)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to delete vector points: %w", err)
	}

	tctx, cancel = p.withTimeout(ctx)
	defer cancel()
	if err := p.graph.DeleteNodes(tctx, chunkIDs); err != nil {
		return fmt.Errorf("failed to delete chunk nodes: %w", err)
	}
	return nil
}

// linkRelated resolves the document's related references to RELATED_TO
// edges. References that do not resolve to an existing document are
// recorded as warnings and skipped, not failures.
func (p *Pipeline) linkRelated(ctx context.Context, doc *docs.Document) ([]string, error) {
	logger := contextutil.LoggerFromContext(ctx)
	var warnings []string

	for _, ref := range doc.Related {
		targetID, ok := p.resolveReference(ctx, ref)
		if !ok {
			logger.WarnContext(ctx, "related reference does not resolve, skipping", "doc_id", doc.ID, "ref", ref)
			warnings = append(warnings, fmt.Sprintf("related reference %q does not resolve to an indexed document", ref))
			continue
		}

		tctx, cancel := p.withTimeout(ctx)
		err := p.graph.UpsertEdge(tctx, graphstore.Edge{
			Type:   graphstore.EdgeRelated,
			FromID: doc.ID,
			ToID:   targetID,
		})
		cancel()
		if err != nil {
			return warnings, fmt.Errorf("failed to upsert RELATED_TO edge: %w", err)
		}
	}
	return warnings, nil
}

// resolveReference resolves a related reference, given either as a document
// id or as a source path. Path references resolve through the same id
// derivation the parser uses.
func (p *Pipeline) resolveReference(ctx context.Context, ref string) (string, bool) {
	candidates := []string{ref}
	if ref != "" && ref[0] != '/' {
		normalized := path.Clean(ref)
		sum := sha256.Sum256([]byte(normalized))
		candidates = append(candidates, fmt.Sprintf("doc_%x", sum[:6]))
	}

	for _, id := range candidates {
		tctx, cancel := p.withTimeout(ctx)
		node, err := p.graph.GetNode(tctx, id)
		cancel()
		if err == nil && node.Label == graphstore.LabelDocument {
			return id, true
		}
		if err != nil && !errors.Is(err, graphstore.ErrNotFound) {
			return "", false
		}
	}
	return "", false
}

// linkCategoryParents derives CHILD_OF edges from the category hierarchy:
// a document whose category is "a/b" becomes a child of every document in
// category "a".
func (p *Pipeline) linkCategoryParents(ctx context.Context, doc *docs.Document) error {
	parent := parentCategory(doc.Category)
	if parent == "" {
		return nil
	}

	tctx, cancel := p.withTimeout(ctx)
	parents, err := p.graph.NodesByProperty(tctx, graphstore.LabelDocument, "category", parent)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to look up parent category %q: %w", parent, err)
	}

	for _, node := range parents {
		if node.ID == doc.ID {
			continue
		}
		tctx, cancel := p.withTimeout(ctx)
		err := p.graph.UpsertEdge(tctx, graphstore.Edge{
			Type:   graphstore.EdgeChildOf,
			FromID: doc.ID,
			ToID:   node.ID,
		})
		cancel()
		if err != nil {
			return fmt.Errorf("failed to upsert CHILD_OF edge: %w", err)
		}
	}
	return nil
}

// parentCategory returns the parent of a slash-delimited category path, or
// "" when the category has no parent.
func parentCategory(category string) string {
	parent := path.Dir(category)
	if parent == "." || parent == "/" || parent == category {
		return ""
	}
	return parent
}

// IndexAll scans the documents root and indexes every markdown file using a
// bounded worker pool. Per-file errors are logged and counted but do not
// stop the run.
func (p *Pipeline) IndexAll(ctx context.Context, scanner *docs.Scanner, parser *docs.Parser, workers int) error {
	logger := contextutil.LoggerFromContext(ctx)

	files, err := scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan documents: %w", err)
	}
	logger.InfoContext(ctx, "starting indexing", "total_files", len(files))

	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var successCount, errorCount int

	for _, file := range files {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		default:
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			doc, err := scanner.Load(file, parser)
			if err == nil {
				_, err = p.IndexDocument(ctx, doc)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errorCount++
				logger.ErrorContext(ctx, "failed to index file", "rel_path", file.RelPath, "error", err)
				return
			}
			successCount++
		}); err != nil {
			wg.Done()
			mu.Lock()
			errorCount++
			mu.Unlock()
			logger.ErrorContext(ctx, "failed to submit indexing job", "rel_path", file.RelPath, "error", err)
		}
	}

	wg.Wait()
	logger.InfoContext(ctx, "indexing completed", "total_files", len(files), "success", successCount, "errors", errorCount)

	if errorCount > 0 {
		return fmt.Errorf("indexing completed with %d errors", errorCount)
	}
	return nil
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
