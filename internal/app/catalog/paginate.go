package catalog

// DefaultPageSize is the number of products shown per page.
const DefaultPageSize = 5

// Page is one window of the filtered list.
type Page[T any] struct {
	Items      []T
	Number     int
	TotalPages int
	TotalItems int
}

// TotalPages returns ceil(count/size); zero when count is zero.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// ValidPage reports whether page can be navigated to.
func ValidPage(page, totalPages int) bool {
	return page >= 1 && page <= totalPages
}

// Paginate returns the 1-indexed page of items. An out-of-range page yields an empty slice.
func Paginate[T any](items []T, size, page int) Page[T] {
	total := TotalPages(len(items), size)
	p := Page[T]{
		Items:      []T{},
		Number:     page,
		TotalPages: total,
		TotalItems: len(items),
	}
	if !ValidPage(page, total) {
		return p
	}

	start := (page - 1) * size
	end := min(start+size, len(items))
	p.Items = items[start:end:end]
	return p
}
