package pagination

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/staff-service/pkg/util/errorutil"
)

type node struct {
	ID    string
	Group string
}

func sliceSource(nodes []node, keep func(node) bool) Source[node] {
	sorted := append([]node(nil), nodes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return Source[node]{
		ID: func(n node) string { return n.ID },
		Contains: func(_ context.Context, id string) (bool, error) {
			for _, n := range sorted {
				if n.ID == id && keep(n) {
					return true, nil
				}
			}
			return false, nil
		},
		Fetch: func(_ context.Context, w Window) ([]node, error) {
			var out []node
			for _, n := range sorted {
				if !keep(n) || (w.AfterID != "" && n.ID <= w.AfterID) {
					continue
				}
				out = append(out, n)
				if w.Limit > 0 && len(out) == w.Limit {
					break
				}
			}
			return out, nil
		},
	}
}

func makeNodes(t *testing.T, n int) []node {
	t.Helper()
	out := make([]node, 0, n)
	for i := 0; i < n; i++ {
		id, err := uuid.NewV7()
		require.NoError(t, err)
		group := "a"
		if i%2 == 1 {
			group = "b"
		}
		out = append(out, node{ID: id.String(), Group: group})
	}
	return out
}

func all(node) bool { return true }

func intPtr(v int) *int { return &v }

func TestConnectWithoutArgsReturnsEverything(t *testing.T) {
	nodes := makeNodes(t, 5)

	conn, err := Connect(context.Background(), sliceSource(nodes, all), Args{})
	require.NoError(t, err)

	assert.Len(t, conn.Edges, 5)
	assert.False(t, conn.PageInfo.HasNextPage)
	require.NotNil(t, conn.PageInfo.EndCursor)
	assert.Equal(t, EncodeCursor(nodes[4].ID), *conn.PageInfo.EndCursor)
}

func TestConnectFollowingCursorsVisitsEachNodeOnce(t *testing.T) {
	nodes := makeNodes(t, 7)
	src := sliceSource(nodes, all)

	for _, size := range []int{1, 2, 3, 7, 10} {
		var seen []string
		args := Args{First: intPtr(size)}
		for {
			conn, err := Connect(context.Background(), src, args)
			require.NoError(t, err)
			for _, e := range conn.Edges {
				seen = append(seen, e.Node.ID)
			}
			if !conn.PageInfo.HasNextPage {
				break
			}
			args.After = conn.PageInfo.EndCursor
		}

		want := make([]string, 0, len(nodes))
		for _, n := range nodes {
			want = append(want, n.ID)
		}
		assert.Equal(t, want, seen, "page size %d", size)
	}
}

func TestConnectFiltersBeforePaging(t *testing.T) {
	nodes := makeNodes(t, 6)
	onlyB := func(n node) bool { return n.Group == "b" }

	conn, err := Connect(context.Background(), sliceSource(nodes, onlyB), Args{First: intPtr(3)})
	require.NoError(t, err)

	assert.Len(t, conn.Edges, 3)
	assert.False(t, conn.PageInfo.HasNextPage, "exactly three nodes match the filter")
	for _, e := range conn.Edges {
		assert.Equal(t, "b", e.Node.Group)
	}
}

func TestConnectThreeNodesTwoCalls(t *testing.T) {
	nodes := makeNodes(t, 3)
	src := sliceSource(nodes, all)

	first, err := Connect(context.Background(), src, Args{First: intPtr(1)})
	require.NoError(t, err)
	require.Len(t, first.Edges, 1)
	assert.True(t, first.PageInfo.HasNextPage)

	rest, err := Connect(context.Background(), src, Args{After: first.PageInfo.EndCursor})
	require.NoError(t, err)
	require.Len(t, rest.Edges, 2)
	assert.False(t, rest.PageInfo.HasNextPage)

	ids := map[string]bool{first.Edges[0].Node.ID: true}
	for _, e := range rest.Edges {
		ids[e.Node.ID] = true
	}
	assert.Len(t, ids, 3)
}

func TestConnectFirstZero(t *testing.T) {
	nodes := makeNodes(t, 2)

	conn, err := Connect(context.Background(), sliceSource(nodes, all), Args{First: intPtr(0)})
	require.NoError(t, err)
	assert.Empty(t, conn.Edges)
	assert.Nil(t, conn.PageInfo.EndCursor)
	assert.True(t, conn.PageInfo.HasNextPage)

	conn, err = Connect(context.Background(), sliceSource(nil, all), Args{First: intPtr(0)})
	require.NoError(t, err)
	assert.False(t, conn.PageInfo.HasNextPage)
}

func TestConnectRejectsBadArguments(t *testing.T) {
	nodes := makeNodes(t, 4)
	onlyA := func(n node) bool { return n.Group == "a" }
	src := sliceSource(nodes, onlyA)

	garbage := "%%%not-base64"
	wrongPrefix := "Y3Vyc29yOnYwOmFiYw"
	stale := EncodeCursor(nodes[1].ID) // group b, filtered out
	missing := EncodeCursor(uuid.NewString())

	tests := []struct {
		name string
		args Args
		code string
	}{
		{name: "negative first", args: Args{First: intPtr(-1)}, code: apperrors.CodeValidationFailed},
		{name: "garbage cursor", args: Args{After: &garbage}, code: apperrors.CodeInvalidCursor},
		{name: "wrong prefix", args: Args{After: &wrongPrefix}, code: apperrors.CodeInvalidCursor},
		{name: "filtered out node", args: Args{After: &stale}, code: apperrors.CodeInvalidCursor},
		{name: "unknown node", args: Args{After: &missing}, code: apperrors.CodeInvalidCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Connect(context.Background(), src, tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.ToDomainError(err).Code)
		})
	}
}

func TestConnectPropagatesSourceErrors(t *testing.T) {
	boom := errors.New("store down")
	src := Source[node]{
		ID:    func(n node) string { return n.ID },
		Fetch: func(context.Context, Window) ([]node, error) { return nil, boom },
	}

	_, err := Connect(context.Background(), src, Args{})
	assert.ErrorIs(t, err, boom)
}

func TestMapKeepsCursors(t *testing.T) {
	nodes := makeNodes(t, 2)
	conn, err := Connect(context.Background(), sliceSource(nodes, all), Args{First: intPtr(1)})
	require.NoError(t, err)

	mapped := Map(conn, func(n node) string { return n.Group })
	assert.Equal(t, conn.PageInfo, mapped.PageInfo)
	assert.Equal(t, conn.Edges[0].Cursor, mapped.Edges[0].Cursor)
	assert.Equal(t, "a", mapped.Edges[0].Node)
}
