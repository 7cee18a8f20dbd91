package graphstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_graph_store.go -package=mocks docgraph/internal/graphstore GraphStore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested node does not exist.
var ErrNotFound = errors.New("not found")

// Node labels used by the document graph.
const (
	LabelDocument = "Document"
	LabelChunk    = "Chunk"
)

// Edge types used by the document graph.
const (
	EdgeContains = "CONTAINS"   // document -> chunk
	EdgeNext     = "NEXT"       // chunk -> successor chunk
	EdgeRelated  = "RELATED_TO" // document -> document, from explicit metadata
	EdgeChildOf  = "CHILD_OF"   // document -> document, from category hierarchy
)

// Node is a labeled graph node with string-keyed properties.
type Node struct {
	Label string
	ID    string
	Props map[string]any
}

// Edge is a typed, directed link between two nodes.
type Edge struct {
	Type   string
	FromID string
	ToID   string
	Props  map[string]any
}

// TraversedNode is a node reached during traversal, with its minimum depth
// from any seed.
type TraversedNode struct {
	Node
	Depth int
}

// Subgraph is the result of a traversal: each reachable node exactly once,
// plus the edges used to reach them.
type Subgraph struct {
	Nodes []TraversedNode
	Edges []Edge
}

// GraphStore is the uniform interface over the external graph capability.
type GraphStore interface {
	// UpsertNode inserts or replaces a node, idempotent by id.
	UpsertNode(ctx context.Context, node Node) error

	// UpsertEdge inserts an edge, idempotent by the (type, from, to) triple.
	UpsertEdge(ctx context.Context, edge Edge) error

	// DeleteNodes removes nodes by id, cascading to all incident edges.
	DeleteNodes(ctx context.Context, ids []string) error

	// GetNode returns a node by id. Returns ErrNotFound if it does not exist.
	GetNode(ctx context.Context, id string) (*Node, error)

	// GetNodes returns the nodes with the given ids; missing ids are skipped.
	GetNodes(ctx context.Context, ids []string) ([]Node, error)

	// ListNodeIDs returns all node ids with the given label, sorted.
	ListNodeIDs(ctx context.Context, label string) ([]string, error)

	// Traverse performs a breadth-first traversal from the seed nodes over
	// the given edge types, up to maxDepth hops, following edges in either
	// direction. Each reachable node is reported once with its minimum
	// depth. Depth 0 returns the seed nodes unchanged.
	Traverse(ctx context.Context, seedIDs []string, edgeTypes []string, maxDepth int) (*Subgraph, error)

	// SearchNodes returns nodes whose named property contains the given
	// substring, up to limit. Filters, when non-empty, restrict matches
	// to nodes whose listed properties exactly equal the given values;
	// filtering happens in the store so limit applies to the filtered set.
	SearchNodes(ctx context.Context, label, property, substring string, filters map[string]string, limit int) ([]Node, error)

	// NodesByProperty returns nodes whose named property exactly equals the
	// given value.
	NodesByProperty(ctx context.Context, label, property, value string) ([]Node, error)

	// CountNodes returns the number of nodes with the given label.
	CountNodes(ctx context.Context, label string) (int, error)

	// DistinctPropertyValues returns the distinct non-empty values of a
	// string property across nodes with the given label, sorted.
	DistinctPropertyValues(ctx context.Context, label, property string) ([]string, error)
}
