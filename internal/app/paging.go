package app

// TotalPages returns ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	mustPageSize(pageSize)
	return (total + pageSize - 1) / pageSize
}

// PageRange returns the half-open question ID range [start, end) shown on page.
func PageRange(page, pageSize, total int) (int, int) {
	mustPageSize(pageSize)
	start := page * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	return start, end
}

func mustPageSize(pageSize int) {
	if pageSize <= 0 {
		panic("app: page size must be positive")
	}
}
