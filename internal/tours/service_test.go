package tours

import (
	"regexp"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Maasai Mara Classic Safari", "maasai-mara-classic-safari"},
		{"Diani Beach Getaway!", "diani-beach-getaway"},
		{"  Zanzibar  Spice & Stone Town  ", "zanzibar-spice-stone-town"},
		{"7-Day Kilimanjaro Trek", "7-day-kilimanjaro-trek"},
		{"Amboseli/Tsavo (Combo)", "amboseli-tsavo-combo"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := slugify(tt.title); got != tt.want {
				t.Errorf("slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestRandomSuffix(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9]{4}$`)
	for i := 0; i < 50; i++ {
		if got := randomSuffix(4); !pattern.MatchString(got) {
			t.Fatalf("randomSuffix(4) = %q, want 4 lowercase alphanumerics", got)
		}
	}
}

func TestEffectivePrice(t *testing.T) {
	discount := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		tour Tour
		want float64
	}{
		{"no discount", Tour{Price: 45000}, 45000},
		{"valid discount", Tour{Price: 45000, DiscountPrice: discount(40000)}, 40000},
		{"discount above price ignored", Tour{Price: 45000, DiscountPrice: discount(50000)}, 45000},
		{"zero discount ignored", Tour{Price: 45000, DiscountPrice: discount(0)}, 45000},
		{"discount equal to price ignored", Tour{Price: 45000, DiscountPrice: discount(45000)}, 45000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tour.EffectivePrice(); got != tt.want {
				t.Errorf("EffectivePrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTourListQueryNormalize(t *testing.T) {
	tests := []struct {
		name      string
		query     TourListQuery
		wantPage  int
		wantLimit int
		wantSort  string
		wantOrder string
	}{
		{"defaults", TourListQuery{}, 1, 12, "created_at", "desc"},
		{"clamps limit", TourListQuery{Page: 2, Limit: 500}, 2, 100, "created_at", "desc"},
		{"rating alias", TourListQuery{SortBy: "rating", SortOrder: "asc"}, 1, 12, "rating_average", "asc"},
		{"rejects unknown sort", TourListQuery{SortBy: "password"}, 1, 12, "created_at", "desc"},
		{"keeps price sort", TourListQuery{SortBy: "price", SortOrder: "asc"}, 1, 12, "price", "asc"},
		{"rejects unknown order", TourListQuery{SortOrder: "random"}, 1, 12, "created_at", "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.query.Normalize()
			if tt.query.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", tt.query.Page, tt.wantPage)
			}
			if tt.query.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", tt.query.Limit, tt.wantLimit)
			}
			if tt.query.SortBy != tt.wantSort {
				t.Errorf("SortBy = %q, want %q", tt.query.SortBy, tt.wantSort)
			}
			if tt.query.SortOrder != tt.wantOrder {
				t.Errorf("SortOrder = %q, want %q", tt.query.SortOrder, tt.wantOrder)
			}
		})
	}
}

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{100, 10, 10},
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := calculateTotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("calculateTotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}
