package usecase

import (
	"strings"
	"time"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

// Counts partitions the collection by freshness status
type Counts struct {
	Total   int `json:"total"`
	Safe    int `json:"safe"`
	Soon    int `json:"soon"`
	Expired int `json:"expired"`
}

// ItemView is an item together with its status at the time the view was built
type ItemView struct {
	domain.Item
	Status domain.FreshnessStatus `json:"status"`
}

// View is everything the dashboard renders
type View struct {
	// Loaded is false until the first successful load, so an empty Displayed
	// list can be told apart from "nothing fetched yet"
	Loaded    bool       `json:"loaded"`
	Tab       domain.Tab `json:"tab"`
	Search    string     `json:"search"`
	Counts    Counts     `json:"counts"`
	Favorites []ItemView `json:"favorites"`
	Displayed []ItemView `json:"displayed"`
}

// BuildView derives counts, favorites and the displayed list from the snapshot,
// the active tab and the search string. It keeps no state between calls.
func BuildView(snapshot Snapshot, tab domain.Tab, search string, now time.Time) View {
	view := View{
		Loaded:    snapshot.Loaded,
		Tab:       tab,
		Search:    search,
		Favorites: []ItemView{},
		Displayed: []ItemView{},
	}

	all := make([]ItemView, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		status := Classify(item.ExpiryDate, now)
		switch status {
		case domain.StatusSafe:
			view.Counts.Safe++
		case domain.StatusExpiringSoon:
			view.Counts.Soon++
		default:
			view.Counts.Expired++
		}

		iv := ItemView{Item: item, Status: status}
		all = append(all, iv)
		if item.Favorite {
			view.Favorites = append(view.Favorites, iv)
		}
	}
	view.Counts.Total = len(snapshot.Items)

	base := all
	if tab == domain.TabFavorites {
		base = view.Favorites
	}

	needle := strings.ToLower(search)
	for _, iv := range base {
		if strings.Contains(strings.ToLower(iv.Name), needle) {
			view.Displayed = append(view.Displayed, iv)
		}
	}

	return view
}
