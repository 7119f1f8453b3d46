package pagination

import (
	"context"
	"fmt"

	apperrors "github.com/spec-kit/staff-service/pkg/util/errorutil"
)

// Args are the client supplied paging arguments.
type Args struct {
	First *int
	After *string
}

// Window is what a Source must return: nodes strictly after AfterID in id order.
// Limit <= 0 means no limit.
type Window struct {
	AfterID string
	Limit   int
}

// Source exposes one filtered, id-ordered collection. Filters are applied by the
// source itself so that the window boundaries are computed over the filtered set.
type Source[T any] struct {
	// Fetch returns up to Limit nodes after AfterID, ascending by id.
	Fetch func(ctx context.Context, w Window) ([]T, error)
	// Contains reports whether id belongs to the filtered set.
	Contains func(ctx context.Context, id string) (bool, error)
	// ID extracts the node identifier the cursor is built from.
	ID func(T) string
}

// Edge pairs a node with its cursor.
type Edge[T any] struct {
	Cursor string
	Node   T
}

// PageInfo describes how to fetch the next page.
type PageInfo struct {
	EndCursor   *string
	HasNextPage bool
}

// Connection is one page of a collection.
type Connection[T any] struct {
	Edges    []Edge[T]
	PageInfo PageInfo
}

// Nodes returns the nodes of the page in order.
func (c *Connection[T]) Nodes() []T {
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}

// Connect builds a page from src according to args.
func Connect[T any](ctx context.Context, src Source[T], args Args) (*Connection[T], error) {
	if src.Fetch == nil || src.ID == nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("pagination: incomplete source"))
	}

	limit := 0
	if args.First != nil {
		if *args.First < 0 {
			return nil, apperrors.NewValidationError("first must not be negative", map[string]any{"first": *args.First})
		}
		limit = *args.First
	}

	var afterID string
	if args.After != nil && *args.After != "" {
		id, err := DecodeCursor(*args.After)
		if err != nil {
			return nil, err
		}
		if src.Contains != nil {
			ok, err := src.Contains(ctx, id)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, apperrors.NewInvalidCursor(*args.After, fmt.Errorf("node %s is not part of the result set", id))
			}
		}
		afterID = id
	}

	w := Window{AfterID: afterID}
	if args.First != nil {
		w.Limit = limit + 1
	}

	nodes, err := src.Fetch(ctx, w)
	if err != nil {
		return nil, err
	}

	conn := &Connection[T]{Edges: make([]Edge[T], 0, len(nodes))}
	if args.First != nil && len(nodes) > limit {
		conn.PageInfo.HasNextPage = true
		nodes = nodes[:limit]
	}

	for _, n := range nodes {
		conn.Edges = append(conn.Edges, Edge[T]{Cursor: EncodeCursor(src.ID(n)), Node: n})
	}
	if len(conn.Edges) > 0 {
		end := conn.Edges[len(conn.Edges)-1].Cursor
		conn.PageInfo.EndCursor = &end
	}
	return conn, nil
}

// Map converts the nodes of a connection while keeping cursors and page info.
func Map[T, U any](c *Connection[T], fn func(T) U) *Connection[U] {
	out := &Connection[U]{Edges: make([]Edge[U], 0, len(c.Edges)), PageInfo: c.PageInfo}
	for _, e := range c.Edges {
		out.Edges = append(out.Edges, Edge[U]{Cursor: e.Cursor, Node: fn(e.Node)})
	}
	return out
}
