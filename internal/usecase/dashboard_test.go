package usecase

import (
	"testing"
	"time"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

func dashboardSnapshot() Snapshot {
	return Snapshot{
		Loaded: true,
		Items: []domain.Item{
			{ID: "1", Name: "Milk", Storage: domain.StorageFridge, ExpiryDate: domain.MustParseDate("2024-06-12")},
			{ID: "2", Name: "Eggs", Storage: domain.StorageFridge, ExpiryDate: domain.MustParseDate("2024-06-20"), Favorite: true},
			{ID: "3", Name: "Bread", Storage: domain.StoragePantry, ExpiryDate: domain.MustParseDate("2024-06-05")},
		},
	}
}

func names(items []ItemView) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

func equalNames(got []ItemView, want ...string) bool {
	gotNames := names(got)
	if len(gotNames) != len(want) {
		return false
	}
	for i := range want {
		if gotNames[i] != want[i] {
			return false
		}
	}
	return true
}

func TestBuildView(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)
	snapshot := dashboardSnapshot()

	t.Run("counts cover the whole collection", func(t *testing.T) {
		view := BuildView(snapshot, domain.TabFavorites, "", now)

		want := Counts{Total: 3, Safe: 1, Soon: 1, Expired: 1}
		if view.Counts != want {
			t.Errorf("Counts = %+v, want %+v", view.Counts, want)
		}
		if view.Counts.Safe+view.Counts.Soon+view.Counts.Expired != view.Counts.Total {
			t.Errorf("status counts do not add up to the total")
		}
	})

	t.Run("favorites tab", func(t *testing.T) {
		view := BuildView(snapshot, domain.TabFavorites, "", now)

		if !equalNames(view.Displayed, "Eggs") {
			t.Errorf("Displayed = %v, want [Eggs]", names(view.Displayed))
		}
		if view.Displayed[0].Status != domain.StatusSafe {
			t.Errorf("Eggs status = %s, want SAFE", view.Displayed[0].Status)
		}
	})

	t.Run("all tab keeps collection order", func(t *testing.T) {
		view := BuildView(snapshot, domain.TabAll, "", now)

		if !equalNames(view.Displayed, "Milk", "Eggs", "Bread") {
			t.Errorf("Displayed = %v", names(view.Displayed))
		}
		if !equalNames(view.Favorites, "Eggs") {
			t.Errorf("Favorites = %v, want [Eggs]", names(view.Favorites))
		}

		statuses := []domain.FreshnessStatus{domain.StatusExpiringSoon, domain.StatusSafe, domain.StatusExpired}
		for i, want := range statuses {
			if view.Displayed[i].Status != want {
				t.Errorf("%s status = %s, want %s", view.Displayed[i].Name, view.Displayed[i].Status, want)
			}
		}
	})

	t.Run("search is a case-insensitive substring match", func(t *testing.T) {
		tests := []struct {
			tab    domain.Tab
			search string
			want   []string
		}{
			{domain.TabAll, "MIL", []string{"Milk"}},
			{domain.TabAll, "e", []string{"Eggs", "Bread"}},
			{domain.TabAll, "caviar", nil},
			{domain.TabFavorites, "milk", nil},
			{domain.TabFavorites, "GG", []string{"Eggs"}},
		}

		for _, tt := range tests {
			view := BuildView(snapshot, tt.tab, tt.search, now)
			if !equalNames(view.Displayed, tt.want...) {
				t.Errorf("tab=%s search=%q: Displayed = %v, want %v", tt.tab, tt.search, names(view.Displayed), tt.want)
			}
			if view.Counts.Total != 3 {
				t.Errorf("search changed the counts: %+v", view.Counts)
			}
		}
	})

	t.Run("add tab shows the whole collection underneath", func(t *testing.T) {
		view := BuildView(snapshot, domain.TabAdd, "", now)
		if len(view.Displayed) != 3 {
			t.Errorf("Displayed = %v, want all items", names(view.Displayed))
		}
	})

	t.Run("not loaded", func(t *testing.T) {
		view := BuildView(Snapshot{}, domain.TabAll, "", now)

		if view.Loaded {
			t.Errorf("Loaded = true before any load")
		}
		if view.Displayed == nil || view.Favorites == nil {
			t.Errorf("lists must be empty, not nil")
		}
	})

	t.Run("status moves with the clock", func(t *testing.T) {
		later := now.AddDate(0, 0, 8)
		view := BuildView(snapshot, domain.TabFavorites, "", later)
		if view.Displayed[0].Status != domain.StatusExpiringSoon {
			t.Errorf("Eggs status on %s = %s, want EXPIRING_SOON", later.Format(time.DateOnly), view.Displayed[0].Status)
		}
	})
}

func TestParseTab(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Tab
		wantErr bool
	}{
		{"", domain.TabAll, false},
		{"all", domain.TabAll, false},
		{"fav", domain.TabFavorites, false},
		{"favorites", domain.TabFavorites, false},
		{"add", domain.TabAdd, false},
		{"expired", "", true},
	}

	for _, tt := range tests {
		got, err := domain.ParseTab(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTab(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTab(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
