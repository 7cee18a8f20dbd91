package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"docgraph/internal/contextutil"
	"docgraph/internal/embedding"
	"docgraph/internal/graphstore"
	"docgraph/internal/vectorstore"
)

// ErrEmptyQuery is returned when a request carries no query text.
var ErrEmptyQuery = errors.New("query must not be empty")

const defaultLimit = 10

// Engine answers hybrid queries over the vector index and the graph store.
// It is read-only: nothing in the query path writes to either store.
type Engine struct {
	graph           graphstore.GraphStore
	vectors         vectorstore.VectorStore
	embedder        embedding.Embedder
	collection      string
	overfetch       int
	expansionWeight float64
	expandDepth     int
	callTimeout     time.Duration
}

// NewEngine creates a query engine. overfetch multiplies the caller's limit
// at the vector-search stage, expandDepth is the traversal depth used when a
// request does not set one, and callTimeout bounds each external call.
func NewEngine(
	graph graphstore.GraphStore,
	vectors vectorstore.VectorStore,
	embedder embedding.Embedder,
	collection string,
	overfetch int,
	expansionWeight float64,
	expandDepth int,
	callTimeout time.Duration,
) *Engine {
	if overfetch < 1 {
		overfetch = 1
	}
	return &Engine{
		graph:           graph,
		vectors:         vectors,
		embedder:        embedder,
		collection:      collection,
		overfetch:       overfetch,
		expansionWeight: expansionWeight,
		expandDepth:     expandDepth,
		callTimeout:     callTimeout,
	}
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.callTimeout)
}

// candidate is a document being fused and ranked.
type candidate struct {
	id        string
	title     string
	score     float64
	matched   string
	updatedAt time.Time
	related   []string
}

// Search runs the four query stages in order: embed, vector search, graph
// expansion, fuse and rank. An embedding failure is terminal; a vector-search
// failure degrades to a graph-only substring fallback; an expansion failure
// degrades to the vector-only list. Results are truncated to the requested
// limit only after fusion.
func (e *Engine) Search(ctx context.Context, req Request) (*Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	depth := req.ExpandDepth
	if depth < 1 {
		depth = e.expandDepth
	}

	ectx, cancel := e.withTimeout(ctx)
	queryVecs, err := e.embedder.EmbedTexts(ectx, []string{query})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(queryVecs) != 1 {
		return nil, fmt.Errorf("failed to embed query: expected 1 vector, got %d", len(queryVecs))
	}

	var filters map[string]any
	if req.Category != "" {
		filters = map[string]any{"category": req.Category}
	}

	sctx, cancel := e.withTimeout(ctx)
	hits, err := e.vectors.Search(sctx, e.collection, queryVecs[0], limit*e.overfetch, filters)
	cancel()
	if err != nil {
		logger.WarnContext(ctx, "vector search failed, degrading to graph fallback", "error", err)
		return e.graphFallback(ctx, query, req.Category, limit)
	}
	if len(hits) == 0 {
		return &Response{Results: []Result{}}, nil
	}

	// Best hit per document. The overfetched hit list typically contains
	// several chunks of the same document.
	type directHit struct {
		score   float64
		chunkID string
		title   string
	}
	best := make(map[string]directHit)
	for _, hit := range hits {
		docID := propString(hit.Meta, "doc_id")
		if docID == "" {
			continue
		}
		score := float64(hit.Score)
		if prev, ok := best[docID]; ok && prev.score >= score {
			continue
		}
		best[docID] = directHit{
			score:   score,
			chunkID: propString(hit.Meta, "chunk_id"),
			title:   propString(hit.Meta, "title"),
		}
	}

	seeds := make([]string, 0, len(best))
	chunkIDs := make([]string, 0, len(best))
	for docID, hit := range best {
		seeds = append(seeds, docID)
		if hit.chunkID != "" {
			chunkIDs = append(chunkIDs, hit.chunkID)
		}
	}
	sort.Strings(seeds)

	// The expansion traversal and the display-field retrieval both depend
	// only on the seed set, so they run concurrently.
	var (
		wg          sync.WaitGroup
		expansion   *graphstore.Subgraph
		expandErr   error
		seedNodes   []graphstore.Node
		retrieveErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		tctx, cancel := e.withTimeout(ctx)
		defer cancel()
		expansion, expandErr = e.graph.Traverse(tctx, seeds, []string{graphstore.EdgeRelated}, depth)
	}()
	go func() {
		defer wg.Done()
		tctx, cancel := e.withTimeout(ctx)
		defer cancel()
		seedNodes, retrieveErr = e.graph.GetNodes(tctx, append(append([]string{}, seeds...), chunkIDs...))
	}()
	wg.Wait()

	degraded := Degraded{}
	if expandErr != nil {
		logger.WarnContext(ctx, "graph expansion failed, returning vector-only results", "error", expandErr)
		degraded.Expansion = true
		expansion = nil
	}
	if retrieveErr != nil {
		logger.WarnContext(ctx, "display-field retrieval failed", "error", retrieveErr)
		degraded.Expansion = true
		seedNodes = nil
	}

	nodesByID := make(map[string]graphstore.Node, len(seedNodes))
	for _, node := range seedNodes {
		nodesByID[node.ID] = node
	}

	candidates := make(map[string]*candidate, len(best))
	for docID, hit := range best {
		c := &candidate{id: docID, title: hit.title, score: hit.score}
		if chunk, ok := nodesByID[hit.chunkID]; ok {
			c.matched = propString(chunk.Props, "text")
		}
		if doc, ok := nodesByID[docID]; ok {
			c.updatedAt = propTime(doc.Props, "updated_at")
			if c.title == "" {
				c.title = propString(doc.Props, "title")
			}
		}
		candidates[docID] = c
	}

	if expansion != nil {
		if err := e.fuseExpansion(ctx, expansion, candidates, req.Category); err != nil {
			logger.WarnContext(ctx, "expansion fusion failed, returning vector-only results", "error", err)
			degraded.Expansion = true
		}
	}

	results := rank(candidates, limit)
	return &Response{Results: results, Degraded: degraded}, nil
}

// fuseExpansion folds the expansion subgraph into the candidate set:
// expansion-only documents receive a synthetic score of (distinct edges
// connecting them to a direct hit) times the expansion weight, and every
// candidate learns its related document ids from the traversal edges.
func (e *Engine) fuseExpansion(ctx context.Context, expansion *graphstore.Subgraph, candidates map[string]*candidate, category string) error {
	neighbors := make(map[string]map[string]bool)
	connections := make(map[string]int)
	for _, edge := range expansion.Edges {
		addNeighbor(neighbors, edge.FromID, edge.ToID)
		addNeighbor(neighbors, edge.ToID, edge.FromID)

		// Edges are already distinct by (type, from, to) in the subgraph.
		if _, direct := candidates[edge.FromID]; direct {
			connections[edge.ToID]++
		}
		if _, direct := candidates[edge.ToID]; direct {
			connections[edge.FromID]++
		}
	}

	var expandedIDs []string
	for _, node := range expansion.Nodes {
		if node.Depth == 0 || node.Label != graphstore.LabelDocument {
			continue
		}
		if _, direct := candidates[node.ID]; direct {
			continue
		}
		// Expansion must not leak results outside the requested category.
		if category != "" && propString(node.Props, "category") != category {
			continue
		}
		candidates[node.ID] = &candidate{
			id:        node.ID,
			title:     propString(node.Props, "title"),
			score:     float64(connections[node.ID]) * e.expansionWeight,
			updatedAt: propTime(node.Props, "updated_at"),
		}
		expandedIDs = append(expandedIDs, node.ID)
	}

	for id, c := range candidates {
		for neighbor := range neighbors[id] {
			if neighbor == id {
				continue
			}
			c.related = append(c.related, neighbor)
		}
		sort.Strings(c.related)
	}

	if len(expandedIDs) == 0 {
		return nil
	}

	// Expansion-only documents were never hit in vector search, so their
	// displayed text comes from their first chunk.
	sort.Strings(expandedIDs)
	tctx, cancel := e.withTimeout(ctx)
	defer cancel()
	sub, err := e.graph.Traverse(tctx, expandedIDs, []string{graphstore.EdgeContains}, 1)
	if err != nil {
		return fmt.Errorf("failed to retrieve chunks for expanded documents: %w", err)
	}
	for _, node := range sub.Nodes {
		if node.Label != graphstore.LabelChunk || propInt(node.Props, "seq") != 0 {
			continue
		}
		if c, ok := candidates[propString(node.Props, "doc_id")]; ok && c.matched == "" {
			c.matched = propString(node.Props, "text")
		}
	}
	return nil
}

// graphFallback answers a query from the graph store alone with a substring
// match over document bodies. Reached only when vector search is unavailable;
// if the graph store fails too the query has no remaining path and errors.
func (e *Engine) graphFallback(ctx context.Context, query, category string, limit int) (*Response, error) {
	tctx, cancel := e.withTimeout(ctx)
	defer cancel()

	// The category restriction is pushed into the store query so the
	// result limit applies to matching documents, not to a superset that
	// gets thinned out afterwards.
	var filters map[string]string
	if category != "" {
		filters = map[string]string{"category": category}
	}
	nodes, err := e.graph.SearchNodes(tctx, graphstore.LabelDocument, "body", query, filters, limit*e.overfetch)
	if err != nil {
		return nil, fmt.Errorf("both stores unavailable, query cannot be answered: %w", err)
	}

	candidates := make(map[string]*candidate, len(nodes))
	for _, node := range nodes {
		candidates[node.ID] = &candidate{
			id:        node.ID,
			title:     propString(node.Props, "title"),
			matched:   snippet(propString(node.Props, "body"), query),
			updatedAt: propTime(node.Props, "updated_at"),
		}
	}

	return &Response{
		Results:  rank(candidates, limit),
		Degraded: Degraded{VectorSearch: true},
	}, nil
}

// rank orders candidates by score descending, then most recent update, then
// id, and truncates to limit.
func rank(candidates map[string]*candidate, limit int) []Result {
	ordered := make([]*candidate, 0, len(candidates))
	for _, c := range candidates {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].score != ordered[j].score {
			return ordered[i].score > ordered[j].score
		}
		if !ordered[i].updatedAt.Equal(ordered[j].updatedAt) {
			return ordered[i].updatedAt.After(ordered[j].updatedAt)
		}
		return ordered[i].id < ordered[j].id
	})

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	results := make([]Result, len(ordered))
	for i, c := range ordered {
		results[i] = Result{
			DocumentID:         c.id,
			Title:              c.title,
			Score:              c.score,
			MatchedText:        c.matched,
			RelatedDocumentIDs: c.related,
		}
	}
	return results
}

func addNeighbor(neighbors map[string]map[string]bool, from, to string) {
	set, ok := neighbors[from]
	if !ok {
		set = make(map[string]bool)
		neighbors[from] = set
	}
	set[to] = true
}

// snippet extracts a short window of the body around the first match of the
// query, or the start of the body when the match position is unknown.
func snippet(body, query string) string {
	const window = 160

	runes := []rune(body)
	idx := strings.Index(strings.ToLower(body), strings.ToLower(query))
	if idx < 0 || idx > len(body) {
		if len(runes) <= window {
			return body
		}
		return string(runes[:window])
	}

	start := utf8.RuneCountInString(body[:idx]) - window/4
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
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

func propTime(props map[string]any, key string) time.Time {
	t, err := time.Parse(time.RFC3339, propString(props, key))
	if err != nil {
		return time.Time{}
	}
	return t
}
