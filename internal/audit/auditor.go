package audit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"docgraph/internal/contextutil"
	"docgraph/internal/graphstore"
	"docgraph/internal/vectorstore"
)

// Report compares the vector index against the graph store's chunk nodes.
// The two stores share chunk ids as their join key, so every id should
// appear in both. The report is advisory: the auditor never repairs,
// because the right repair (delete or re-index) depends on how the drift
// happened.
type Report struct {
	Healthy         int      `json:"healthy"`
	OrphanedVectors []string `json:"orphaned_vectors"`
	OrphanedChunks  []string `json:"orphaned_chunks"`
	CheckedAt       string   `json:"checked_at"`
}

// Consistent reports whether the two stores agree exactly.
func (r *Report) Consistent() bool {
	return len(r.OrphanedVectors) == 0 && len(r.OrphanedChunks) == 0
}

// Auditor cross-checks the vector index and the graph store.
type Auditor struct {
	graph      graphstore.GraphStore
	vectors    vectorstore.VectorStore
	collection string
}

func NewAuditor(graph graphstore.GraphStore, vectors vectorstore.VectorStore, collection string) *Auditor {
	return &Auditor{graph: graph, vectors: vectors, collection: collection}
}

// Audit lists every point id in the vector index and every chunk node id in
// the graph store and partitions them into three disjoint sets: present in
// both, present only in the vector index, present only in the graph.
func (a *Auditor) Audit(ctx context.Context) (*Report, error) {
	logger := contextutil.LoggerFromContext(ctx)

	pointIDs, err := a.vectors.ListIDs(ctx, a.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list vector point ids: %w", err)
	}
	chunkIDs, err := a.graph.ListNodeIDs(ctx, graphstore.LabelChunk)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunk node ids: %w", err)
	}

	chunkSet := make(map[string]bool, len(chunkIDs))
	for _, id := range chunkIDs {
		chunkSet[id] = true
	}

	report := &Report{
		OrphanedVectors: []string{},
		OrphanedChunks:  []string{},
		CheckedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	pointSet := make(map[string]bool, len(pointIDs))
	for _, id := range pointIDs {
		pointSet[id] = true
		if chunkSet[id] {
			report.Healthy++
		} else {
			report.OrphanedVectors = append(report.OrphanedVectors, id)
		}
	}
	for _, id := range chunkIDs {
		if !pointSet[id] {
			report.OrphanedChunks = append(report.OrphanedChunks, id)
		}
	}

	sort.Strings(report.OrphanedVectors)
	sort.Strings(report.OrphanedChunks)

	if !report.Consistent() {
		logger.WarnContext(ctx, "stores have drifted",
			"healthy", report.Healthy,
			"orphaned_vectors", len(report.OrphanedVectors),
			"orphaned_chunks", len(report.OrphanedChunks))
	}
	return report, nil
}
