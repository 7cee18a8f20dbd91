package graphstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements GraphStore on a SQLite database with two tables:
// nodes (label, id, JSON properties) and edges (type, from, to, JSON
// properties). Traversal runs breadth-first in Go, one edge-table query per
// depth level.
type SQLiteStore struct {
	db *sql.DB
}

// New opens a SQLite-backed graph store at the given path.
// Use ":memory:" for an ephemeral store in tests.
func New(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// Migrate creates the node and edge tables. Idempotent.
func (s *SQLiteStore) Migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			properties TEXT NOT NULL DEFAULT '{}'
		);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_label ON nodes(label);`,
		`CREATE TABLE IF NOT EXISTS edges (
			type TEXT NOT NULL,
			from_id TEXT NOT NULL,
			to_id TEXT NOT NULL,
			properties TEXT NOT NULL DEFAULT '{}',
			PRIMARY KEY (type, from_id, to_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_id);`,
		`CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_id);`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertNode inserts or replaces a node, idempotent by id.
func (s *SQLiteStore) UpsertNode(ctx context.Context, node Node) error {
	props, err := marshalProps(node.Props)
	if err != nil {
		return fmt.Errorf("failed to encode node properties: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO nodes (id, label, properties) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET label = excluded.label, properties = excluded.properties`,
		node.ID, node.Label, props,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert node %s: %w", node.ID, err)
	}
	return nil
}

// UpsertEdge inserts an edge, idempotent by the (type, from, to) triple.
// Re-creating an existing edge does not duplicate it.
func (s *SQLiteStore) UpsertEdge(ctx context.Context, edge Edge) error {
	props, err := marshalProps(edge.Props)
	if err != nil {
		return fmt.Errorf("failed to encode edge properties: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO edges (type, from_id, to_id, properties) VALUES (?, ?, ?, ?)
		 ON CONFLICT(type, from_id, to_id) DO UPDATE SET properties = excluded.properties`,
		edge.Type, edge.FromID, edge.ToID, props,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert edge %s %s->%s: %w", edge.Type, edge.FromID, edge.ToID, err)
	}
	return nil
}

// deleteBatchSize bounds the number of ids bound per statement so deletes
// of very large documents stay under SQLite's host parameter limit.
const deleteBatchSize = 500

// DeleteNodes removes nodes by id along with all incident edges. The ids
// are deleted in batches within a single transaction.
func (s *SQLiteStore) DeleteNodes(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for start := 0; start < len(ids); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]
		args := toArgs(batch)
		ph := placeholders(len(batch))

		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM edges WHERE from_id IN (%s) OR to_id IN (%s)", ph, ph),
			append(append([]any{}, args...), args...)...,
		); err != nil {
			return fmt.Errorf("failed to delete incident edges: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM nodes WHERE id IN (%s)", ph), args...,
		); err != nil {
			return fmt.Errorf("failed to delete nodes: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// GetNode returns a node by id. Returns ErrNotFound if it does not exist.
func (s *SQLiteStore) GetNode(ctx context.Context, id string) (*Node, error) {
	var node Node
	var props string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, label, properties FROM nodes WHERE id = ?", id,
	).Scan(&node.ID, &node.Label, &props)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query node: %w", err)
	}

	if err := json.Unmarshal([]byte(props), &node.Props); err != nil {
		return nil, fmt.Errorf("failed to decode node properties: %w", err)
	}
	return &node, nil
}

// GetNodes returns the nodes with the given ids; missing ids are skipped.
func (s *SQLiteStore) GetNodes(ctx context.Context, ids []string) ([]Node, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, label, properties FROM nodes WHERE id IN (%s) ORDER BY id", placeholders(len(ids))),
		toArgs(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanNodes(rows)
}

// ListNodeIDs returns all node ids with the given label in sorted order.
func (s *SQLiteStore) ListNodeIDs(ctx context.Context, label string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM nodes WHERE label = ? ORDER BY id", label,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query node ids: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan node id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return ids, nil
}

// Traverse performs a breadth-first traversal from the seed nodes over the
// given edge types, up to maxDepth hops, following edges in either direction.
// Nodes reachable via multiple paths are reported once at their minimum depth.
func (s *SQLiteStore) Traverse(ctx context.Context, seedIDs []string, edgeTypes []string, maxDepth int) (*Subgraph, error) {
	if len(seedIDs) == 0 {
		return &Subgraph{}, nil
	}

	sub := &Subgraph{}

	// Seeds at depth 0. Unknown seed ids are simply absent from the result.
	seedNodes, err := s.GetNodes(ctx, seedIDs)
	if err != nil {
		return nil, err
	}
	visited := make(map[string]bool, len(seedNodes))
	var frontier []string
	for _, node := range seedNodes {
		visited[node.ID] = true
		frontier = append(frontier, node.ID)
		sub.Nodes = append(sub.Nodes, TraversedNode{Node: node, Depth: 0})
	}

	seenEdges := make(map[string]bool)

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		edges, err := s.edgesTouching(ctx, frontier, edgeTypes)
		if err != nil {
			return nil, err
		}

		var next []string
		for _, edge := range edges {
			key := edge.Type + "\x00" + edge.FromID + "\x00" + edge.ToID
			if !seenEdges[key] {
				seenEdges[key] = true
				sub.Edges = append(sub.Edges, edge)
			}

			for _, id := range []string{edge.FromID, edge.ToID} {
				if !visited[id] {
					visited[id] = true
					next = append(next, id)
				}
			}
		}

		if len(next) > 0 {
			nodes, err := s.GetNodes(ctx, next)
			if err != nil {
				return nil, err
			}
			for _, node := range nodes {
				sub.Nodes = append(sub.Nodes, TraversedNode{Node: node, Depth: depth})
			}
		}
		frontier = next
	}

	return sub, nil
}

// edgesTouching returns edges of the given types incident to any of the ids.
func (s *SQLiteStore) edgesTouching(ctx context.Context, ids, edgeTypes []string) ([]Edge, error) {
	if len(ids) == 0 || len(edgeTypes) == 0 {
		return nil, nil
	}

	idPh := placeholders(len(ids))
	typePh := placeholders(len(edgeTypes))
	args := append(toArgs(edgeTypes), append(toArgs(ids), toArgs(ids)...)...)

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(
			"SELECT type, from_id, to_id, properties FROM edges WHERE type IN (%s) AND (from_id IN (%s) OR to_id IN (%s))",
			typePh, idPh, idPh,
		),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var edges []Edge
	for rows.Next() {
		var edge Edge
		var props string
		if err := rows.Scan(&edge.Type, &edge.FromID, &edge.ToID, &props); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		if err := json.Unmarshal([]byte(props), &edge.Props); err != nil {
			return nil, fmt.Errorf("failed to decode edge properties: %w", err)
		}
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return edges, nil
}

// SearchNodes returns nodes whose named string property contains the given
// substring, ordered by id, up to limit. Filters add exact-equality
// conditions on further properties, applied before the limit.
func (s *SQLiteStore) SearchNodes(ctx context.Context, label, property, substring string, filters map[string]string, limit int) ([]Node, error) {
	if limit <= 0 {
		return nil, nil
	}

	pattern := "%" + escapeLike(substring) + "%"

	var query strings.Builder
	query.WriteString(`SELECT id, label, properties FROM nodes
		 WHERE label = ? AND json_extract(properties, '$.' || ?) LIKE ? ESCAPE '\'`)
	args := []any{label, property, pattern}

	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		query.WriteString(" AND json_extract(properties, '$.' || ?) = ?")
		args = append(args, key, filters[key])
	}

	query.WriteString(" ORDER BY id LIMIT ?")
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search nodes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanNodes(rows)
}

// NodesByProperty returns nodes whose named string property exactly equals
// the given value, ordered by id.
func (s *SQLiteStore) NodesByProperty(ctx context.Context, label, property, value string) ([]Node, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, properties FROM nodes
		 WHERE label = ? AND json_extract(properties, '$.' || ?) = ?
		 ORDER BY id`,
		label, property, value,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes by property: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanNodes(rows)
}

// CountNodes returns the number of nodes with the given label.
func (s *SQLiteStore) CountNodes(ctx context.Context, label string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM nodes WHERE label = ?", label,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}
	return count, nil
}

// DistinctPropertyValues returns the distinct non-empty values of a string
// property across nodes with the given label, sorted.
func (s *SQLiteStore) DistinctPropertyValues(ctx context.Context, label, property string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT json_extract(properties, '$.' || ?) AS value FROM nodes
		 WHERE label = ?
		   AND json_extract(properties, '$.' || ?) IS NOT NULL
		   AND json_extract(properties, '$.' || ?) != ''
		 ORDER BY value`,
		property, label, property, property,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query property values: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan property value: %w", err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return values, nil
}

func scanNodes(rows *sql.Rows) ([]Node, error) {
	var nodes []Node
	for rows.Next() {
		var node Node
		var props string
		if err := rows.Scan(&node.ID, &node.Label, &props); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		if err := json.Unmarshal([]byte(props), &node.Props); err != nil {
			return nil, fmt.Errorf("failed to decode node properties: %w", err)
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return nodes, nil
}

func marshalProps(props map[string]any) (string, error) {
	if props == nil {
		return "{}", nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
