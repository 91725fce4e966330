package paginate_test

import (
	"testing"

	"github.com/allmart/storefront/pkg/paginate"
)

func TestPages(t *testing.T) {
	cases := []struct {
		name  string
		total int
		size  int
		want  int
	}{
		{"empty list still has one page", 0, 15, 1},
		{"exact multiple", 30, 15, 2},
		{"partial last page", 31, 15, 3},
		{"single item", 1, 15, 1},
		{"one below boundary", 14, 15, 1},
		{"boundary", 15, 15, 1},
		{"one above boundary", 16, 15, 2},
		{"zero size defends", 10, 0, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := paginate.Pages(tc.total, tc.size); got != tc.want {
				t.Errorf("Pages(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		name  string
		page  int
		total int
		want  int
	}{
		{"in range", 2, 45, 2},
		{"below range", 0, 45, 1},
		{"negative", -3, 45, 1},
		{"above range", 99, 45, 3},
		{"empty list", 5, 0, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := paginate.Clamp(tc.page, tc.total, 15); got != tc.want {
				t.Errorf("Clamp(%d, %d, 15) = %d, want %d", tc.page, tc.total, got, tc.want)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	// 31 items, size 15: pages are [0,15) [15,30) [30,31).
	cases := []struct {
		page      int
		wantStart int
		wantEnd   int
	}{
		{1, 0, 15},
		{2, 15, 30},
		{3, 30, 31},
		{4, 30, 31}, // clamped to last page
		{0, 0, 15},  // clamped to first page
	}

	for _, tc := range cases {
		start, end := paginate.Slice(tc.page, 31, 15)
		if start != tc.wantStart || end != tc.wantEnd {
			t.Errorf("Slice(%d, 31, 15) = [%d, %d), want [%d, %d)",
				tc.page, start, end, tc.wantStart, tc.wantEnd)
		}
	}
}

func TestSlice_EmptyList(t *testing.T) {
	start, end := paginate.Slice(1, 0, 15)
	if start != 0 || end != 0 {
		t.Errorf("Slice(1, 0, 15) = [%d, %d), want [0, 0)", start, end)
	}
}

// Every item must land on exactly one page.
func TestSlice_CoversAllItems(t *testing.T) {
	const size = 15
	for total := 0; total <= 100; total++ {
		seen := make([]bool, total)
		for page := 1; page <= paginate.Pages(total, size); page++ {
			start, end := paginate.Slice(page, total, size)
			for i := start; i < end; i++ {
				if seen[i] {
					t.Fatalf("total=%d: item %d appears on more than one page", total, i)
				}
				seen[i] = true
			}
		}
		for i, ok := range seen {
			if !ok {
				t.Fatalf("total=%d: item %d not covered by any page", total, i)
			}
		}
	}
}
