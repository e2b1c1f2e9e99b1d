package history

// DefaultPageSize is the number of records shown per page
const DefaultPageSize = 10

// Page is one window over an ordered sequence
type Page[T any] struct {
	Items []T
	// Index is the zero-based page actually returned, after clamping
	Index int
	// Total is the number of pages; zero for an empty sequence
	Total int
}

// HasPrev reports whether an earlier page exists
func (p Page[T]) HasPrev() bool { return p.Index > 0 }

// HasNext reports whether a later page exists
func (p Page[T]) HasNext() bool { return p.Total > 0 && p.Index < p.Total-1 }

// Paginate returns page requested of items. A stale or out of range index is
// clamped to the nearest existing page, and pageSize below one counts as one.
// Items shares the backing array of items.
func Paginate[T any](items []T, pageSize, requested int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}

	total := len(items) / pageSize
	if len(items)%pageSize != 0 {
		total++
	}
	if total == 0 {
		return Page[T]{Items: items[:0:0]}
	}

	index := min(max(requested, 0), total-1)
	start := index * pageSize
	end := start + min(pageSize, len(items)-start)

	return Page[T]{
		Items: items[start:end:end],
		Index: index,
		Total: total,
	}
}
