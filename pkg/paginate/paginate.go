// Package paginate implements fixed-size page arithmetic for the admin
// list tables. Pages are 1-based; an empty list still has one page so
// the pager always renders.
package paginate

// Pages returns the number of pages needed to hold total items at the
// given page size. An empty list counts as a single page.
func Pages(total, size int) int {
	if size <= 0 {
		return 1
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamp forces page into the valid range [1, Pages(total, size)].
// Out-of-range requests land on the nearest valid page instead of erroring.
func Clamp(page, total, size int) int {
	max := Pages(total, size)
	if page < 1 {
		return 1
	}
	if page > max {
		return max
	}
	return page
}

// Slice returns the half-open index range [start, end) of the items on
// page. page is clamped first, so callers can pass raw query input.
func Slice(page, total, size int) (start, end int) {
	if size <= 0 {
		return 0, total
	}
	page = Clamp(page, total, size)
	start = (page - 1) * size
	end = start + size
	if end > total {
		end = total
	}
	if start > total {
		start = total
	}
	return start, end
}
