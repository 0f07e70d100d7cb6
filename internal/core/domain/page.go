// internal/core/domain/page.go
package domain

// Page is the canonical shape every list fetch is normalized into,
// whatever envelope the endpoint used.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// TotalPages returns max(1, ceil(total/pageSize)).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	pages := total / pageSize
	if total%pageSize > 0 {
		pages++
	}
	return pages
}

// PageBounds returns the slice bounds of a 1-based page over n rows.
func PageBounds(page, pageSize, n int) (start, end int) {
	if page < 1 {
		page = 1
	}
	start = (page - 1) * pageSize
	if start > n {
		start = n
	}
	end = start + pageSize
	if end > n {
		end = n
	}
	return start, end
}
