package telemetry

// PageSize is the number of records shown per page.
const PageSize = 10

// Window returns the items of page index (zero based) together with whether
// a previous and a next page exist. The last page may be short; an index
// past the end yields an empty slice. A negative index is treated as 0 and
// a non-positive size as PageSize.
func Window[T any](items []T, index, size int) (visible []T, hasPrev, hasNext bool) {
	if size <= 0 {
		size = PageSize
	}
	if index < 0 {
		index = 0
	}

	start := index * size
	end := start + size
	hasPrev = index > 0
	hasNext = end < len(items)

	if start >= len(items) {
		return items[:0:0], hasPrev, hasNext
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], hasPrev, hasNext
}

// PageCount returns how many pages total items fill.
func PageCount(total, size int) int {
	if size <= 0 {
		size = PageSize
	}
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// NextPage advances index unless it already shows the final record.
func NextPage(index, total, size int) int {
	if size <= 0 {
		size = PageSize
	}
	if index < 0 {
		index = 0
	}
	if (index+1)*size < total {
		return index + 1
	}
	return index
}

// PrevPage steps back one page, stopping at 0.
func PrevPage(index int) int {
	if index <= 0 {
		return 0
	}
	return index - 1
}
