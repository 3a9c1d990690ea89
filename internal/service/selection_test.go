package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSelectionIdempotentOps(t *testing.T) {
	sel := NewSelection()
	a, b := uuid.New(), uuid.New()

	sel.Select(a)
	sel.Select(a)
	require.Equal(t, 1, sel.Len())
	require.True(t, sel.Has(a))

	sel.Deselect(b) // never selected, no-op
	require.Equal(t, 1, sel.Len())

	sel.Select(b)
	sel.Deselect(a)
	sel.Deselect(a)
	require.Equal(t, 1, sel.Len())
	require.True(t, sel.Has(b))
	require.False(t, sel.Has(a))

	sel.Clear()
	require.Equal(t, 0, sel.Len())
}

func TestSelectionRetainDropsStaleIDs(t *testing.T) {
	sel := NewSelection()
	keep, stale := uuid.New(), uuid.New()
	sel.Select(keep, stale)

	sel.Retain([]uuid.UUID{keep})
	require.True(t, sel.Has(keep))
	require.False(t, sel.Has(stale))
}

func TestSelectionIDsDeterministic(t *testing.T) {
	sel := NewSelection()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	sel.Select(ids...)

	first := sel.IDs()
	for i := 0; i < 10; i++ {
		require.Equal(t, first, sel.IDs())
	}
}

func TestPaginateClampsOutOfRangePages(t *testing.T) {
	items := make([]int, 12) // 3 pages at size 5

	page1, p := Paginate(items, 0)
	require.Equal(t, 1, p)
	require.Len(t, page1, 5)

	page3, p := Paginate(items, 99)
	require.Equal(t, 3, p)
	require.Len(t, page3, 2)

	empty, p := Paginate([]int{}, 7)
	require.Equal(t, 1, p)
	require.Empty(t, empty)
}

func TestPageCount(t *testing.T) {
	require.Equal(t, 1, PageCount(0))
	require.Equal(t, 1, PageCount(5))
	require.Equal(t, 2, PageCount(6))
	require.Equal(t, 3, PageCount(11))
}
