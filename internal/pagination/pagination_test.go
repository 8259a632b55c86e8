package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatten 把窗口转成可读形态：页码为正数，省略号为 -1
func flatten(items []Item) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		if it.Ellipsis {
			out = append(out, -1)
			continue
		}
		out = append(out, it.Page)
	}
	return out
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10), "empty list still has one page")
	assert.Equal(t, 1, TotalPages(10, 0), "bad page size falls back to one page")
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 5, TotalPages(41, 10))
}

func TestWindow(t *testing.T) {
	t.Run("five or fewer pages show everything", func(t *testing.T) {
		assert.Equal(t, []int{1, 2, 3, 4, 5}, flatten(Window(1, 5)))
		assert.Equal(t, []int{1, 2, 3}, flatten(Window(2, 3)))
	})

	t.Run("near the start", func(t *testing.T) {
		assert.Equal(t, []int{1, 2, 3, 4, -1, 10}, flatten(Window(1, 10)))
		assert.Equal(t, []int{1, 2, 3, 4, -1, 10}, flatten(Window(3, 10)))
	})

	t.Run("near the end", func(t *testing.T) {
		assert.Equal(t, []int{1, -1, 7, 8, 9, 10}, flatten(Window(9, 10)))
		assert.Equal(t, []int{1, -1, 7, 8, 9, 10}, flatten(Window(8, 10)))
	})

	t.Run("in the middle", func(t *testing.T) {
		assert.Equal(t, []int{1, -1, 4, 5, 6, -1, 10}, flatten(Window(5, 10)))
	})

	t.Run("first and last page always visible", func(t *testing.T) {
		for tp := 1; tp <= 20; tp++ {
			for p := 1; p <= tp; p++ {
				got := flatten(Window(p, tp))
				assert.Contains(t, got, 1)
				assert.Contains(t, got, tp)
				assert.Contains(t, got, p, "current page visible for p=%d tp=%d", p, tp)
			}
		}
	})
}

func TestGoto(t *testing.T) {
	p, ok := Goto(3, 10)
	require.True(t, ok)
	assert.Equal(t, 3, p)

	_, ok = Goto(0, 10)
	assert.False(t, ok)
	_, ok = Goto(11, 10)
	assert.False(t, ok, "out of range target is ignored, not clamped")
}

func TestCanPrevNext(t *testing.T) {
	assert.False(t, CanPrev(1))
	assert.True(t, CanPrev(2))
	assert.True(t, CanNext(1, 2))
	assert.False(t, CanNext(2, 2))
	assert.False(t, CanNext(1, 1))
}

func TestRange(t *testing.T) {
	from, to := Range(1, 10, 0)
	assert.Zero(t, from)
	assert.Zero(t, to)

	from, to = Range(1, 10, 25)
	assert.Equal(t, 1, from)
	assert.Equal(t, 10, to)

	from, to = Range(3, 10, 25)
	assert.Equal(t, 21, from)
	assert.Equal(t, 25, to, "last page clamps to total")
}

func TestSlicePage(t *testing.T) {
	list := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3}, SlicePage(list, 1, 3))
	assert.Equal(t, []int{7}, SlicePage(list, 3, 3))
	assert.Empty(t, SlicePage(list, 4, 3), "page past the end is empty")
	assert.Equal(t, list, SlicePage(list, 0, 3), "bad page falls back to whole list")
}

func TestNewView(t *testing.T) {
	cols := []Column{{Key: "name", Header: "Nama"}}

	v := NewView(cols, []string{"a", "b"}, 2, 2, 5)
	assert.Equal(t, 3, v.TotalPages)
	assert.True(t, v.CanPrev)
	assert.True(t, v.CanNext)
	assert.Equal(t, 3, v.From)
	assert.Equal(t, 4, v.To)
	assert.Equal(t, []int{1, 2, 3}, flatten(v.Window))

	empty := NewView[string](cols, nil, 1, 10, 0)
	require.NotNil(t, empty.Rows, "nil rows normalize to an empty slice")
	assert.Empty(t, empty.Rows)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.CanPrev)
	assert.False(t, empty.CanNext)
}
