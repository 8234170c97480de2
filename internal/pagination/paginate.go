// Package pagination splits an ordered sequence into fixed-size pages.
package pagination

// Chunk partitions items into consecutive pages of perPage items.
// Page order and the order within each page follow the input; the last page
// may be shorter. The returned pages share the input's backing array and must
// be treated as read-only. A perPage below one is treated as one.
func Chunk[T any](items []T, perPage int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if perPage < 1 {
		perPage = 1
	}

	pages := make([][]T, 0, PageCount(len(items), perPage))
	for start := 0; start < len(items); start += perPage {
		end := start + perPage
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[start:end:end])
	}
	return pages
}

// PageCount returns ceil(n / perPage), the number of pages n items occupy
func PageCount(n, perPage int) int {
	if n <= 0 {
		return 0
	}
	if perPage < 1 {
		perPage = 1
	}
	return (n + perPage - 1) / perPage
}

// LastPageSize returns how many items land on the final page
func LastPageSize(n, perPage int) int {
	if n <= 0 {
		return 0
	}
	if perPage < 1 {
		perPage = 1
	}
	if rem := n % perPage; rem != 0 {
		return rem
	}
	return perPage
}
