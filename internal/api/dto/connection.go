package dto

import "github.com/spec-kit/staff-service/internal/pagination"

// PageInfo tells the client how to request the next page.
type PageInfo struct {
	EndCursor   *string `json:"endCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

// Edge pairs a node with its cursor.
type Edge[T any] struct {
	Cursor string `json:"cursor"`
	Node   T      `json:"node"`
}

// Connection is the wire shape of a paginated list.
type Connection[T any] struct {
	PageInfo PageInfo  `json:"pageInfo"`
	Edges    []Edge[T] `json:"edges"`
}

// NewConnection renders c, converting every node with fn.
func NewConnection[T, U any](c *pagination.Connection[T], fn func(T) U) Connection[U] {
	mapped := pagination.Map(c, fn)
	out := Connection[U]{
		PageInfo: PageInfo{EndCursor: mapped.PageInfo.EndCursor, HasNextPage: mapped.PageInfo.HasNextPage},
		Edges:    make([]Edge[U], 0, len(mapped.Edges)),
	}
	for _, e := range mapped.Edges {
		out.Edges = append(out.Edges, Edge[U]{Cursor: e.Cursor, Node: e.Node})
	}
	return out
}
