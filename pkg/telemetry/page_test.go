package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

func TestWindow(t *testing.T) {
	items := seq(23)

	cases := []struct {
		desc    string
		index   int
		size    int
		first   int
		count   int
		hasPrev bool
		hasNext bool
	}{
		{desc: "first page", index: 0, size: PageSize, first: 0, count: 10, hasPrev: false, hasNext: true},
		{desc: "middle page", index: 1, size: PageSize, first: 10, count: 10, hasPrev: true, hasNext: true},
		{desc: "short last page", index: 2, size: PageSize, first: 20, count: 3, hasPrev: true, hasNext: false},
		{desc: "past the end", index: 5, size: PageSize, count: 0, hasPrev: true, hasNext: false},
		{desc: "negative index", index: -3, size: PageSize, first: 0, count: 10, hasPrev: false, hasNext: true},
		{desc: "default size", index: 0, size: 0, first: 0, count: 10, hasPrev: false, hasNext: true},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			visible, hasPrev, hasNext := Window(items, tc.index, tc.size)
			assert.Len(t, visible, tc.count)
			if tc.count > 0 {
				assert.Equal(t, tc.first, visible[0])
			}
			assert.Equal(t, tc.hasPrev, hasPrev)
			assert.Equal(t, tc.hasNext, hasNext)
		})
	}
}

func TestWindowEmpty(t *testing.T) {
	visible, hasPrev, hasNext := Window([]string(nil), 0, PageSize)
	assert.Empty(t, visible)
	assert.False(t, hasPrev)
	assert.False(t, hasNext)
	assert.Zero(t, PageCount(0, PageSize))
}

func TestWindowExactMultiple(t *testing.T) {
	_, _, hasNext := Window(seq(20), 1, PageSize)
	assert.False(t, hasNext)
	assert.Equal(t, 1, NextPage(1, 20, PageSize))
	assert.Equal(t, 2, PageCount(20, PageSize))
}

func TestNavigation(t *testing.T) {
	assert.Equal(t, 1, NextPage(0, 23, PageSize))
	assert.Equal(t, 2, NextPage(1, 23, PageSize))
	assert.Equal(t, 2, NextPage(2, 23, PageSize), "next past the last page is a no-op")
	assert.Equal(t, 0, NextPage(0, 0, PageSize))

	assert.Equal(t, 1, PrevPage(2))
	assert.Equal(t, 0, PrevPage(0), "previous clamps at zero")
	assert.Equal(t, 0, PrevPage(-4))

	assert.Equal(t, 3, PageCount(23, PageSize))
	assert.Equal(t, 3, PageCount(23, 0))
}
