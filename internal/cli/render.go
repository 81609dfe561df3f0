package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
	"github.com/AlvinMun/bestbeforeai/internal/usecase"
)

const shortIDLength = 8

func (c *CLI) renderView(view usecase.View) {
	if !view.Loaded {
		c.println("Loading…")
		return
	}

	c.printf("Total: %d   Safe: %d   Expiring soon: %d   Expired: %d\n",
		view.Counts.Total, view.Counts.Safe, view.Counts.Soon, view.Counts.Expired)

	if view.Tab == domain.TabAll && len(view.Favorites) > 0 {
		names := make([]string, 0, len(view.Favorites))
		for _, fav := range view.Favorites {
			names = append(names, fav.Name)
		}
		c.printf("Favorites: %s\n", strings.Join(names, ", "))
	}
	c.println()

	if len(view.Displayed) == 0 {
		switch {
		case view.Search != "":
			c.printf("No items match %q.\n", view.Search)
		case view.Tab == domain.TabFavorites:
			c.println("No favorites yet. Use 'bestbefore fav <id>' to add one.")
		default:
			c.println("No items yet. Use 'bestbefore add' or 'bestbefore scan' to add one.")
		}
		return
	}

	if c.quiet {
		return
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTORAGE\tEXPIRES\tSTATUS\t")
	for _, item := range view.Displayed {
		name := item.Name
		if item.Favorite {
			name = "★ " + name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			shortID(item.ID), name, item.Storage, item.ExpiryDate, item.Status.Label())
	}
	w.Flush()
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

func formatConfidence(confidence *float64) string {
	if confidence == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", *confidence*100)
}
