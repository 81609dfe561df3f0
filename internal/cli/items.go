package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
	"github.com/AlvinMun/bestbeforeai/internal/usecase"
)

func (c *CLI) newListCmd() *cobra.Command {
	var tabName, search string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the inventory with freshness status",
		Long: `Show the inventory with counts per freshness status.

Items expiring today or within the next three days are EXPIRING SOON;
items whose expiry date has passed are EXPIRED.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := domain.ParseTab(tabName)
			if err != nil {
				return err
			}
			if tab == domain.TabAdd {
				return fmt.Errorf("%w: use 'bestbefore add' or 'bestbefore scan' to add items", domain.ErrInvalidTab)
			}

			a, err := c.openSession()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.inventory.LoadItems(cmd.Context()); err != nil {
				return err
			}

			view := a.inventory.Dashboard(tab, search)
			if c.jsonOutput {
				return c.outputJSON(view)
			}
			c.renderView(view)
			return nil
		},
	}

	cmd.Flags().StringVar(&tabName, "tab", "all", "which items to show: all or favorites (fav)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "only show items whose name contains this text")
	return cmd
}

func (c *CLI) newAddCmd() *cobra.Command {
	var name, expiry, storage string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item",
		Example: `  bestbefore add --name Milk --expiry 2024-06-12
  bestbefore add --name Peas --expiry 2025-01-31 --storage freezer`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := buildForm(name, expiry, storage)
			if err != nil {
				return err
			}

			a, err := c.openSession()
			if err != nil {
				return err
			}
			defer a.Close()

			item, err := a.inventory.AddItem(cmd.Context(), form)
			if err != nil && item == nil {
				return err
			}

			if c.jsonOutput {
				if encodeErr := c.outputJSON(item); encodeErr != nil {
					return encodeErr
				}
			} else {
				c.printf("✓ Added %s (expires %s, %s)\n", item.Name, item.ExpiryDate, item.Storage)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "item name")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiry date, YYYY-MM-DD")
	cmd.Flags().StringVar(&storage, "storage", string(domain.DefaultStorage), "fridge, freezer or pantry")
	return cmd
}

// buildForm turns flag values into a form; empty values stay empty
func buildForm(name, expiry, storage string) (domain.FormState, error) {
	form := domain.NewFormState()
	form.Name = strings.TrimSpace(name)

	if storage != "" {
		form.Storage = domain.Storage(strings.ToLower(storage))
		if !form.Storage.Valid() {
			return form, fmt.Errorf("%w: storage must be fridge, freezer or pantry", domain.ErrInvalidRequest)
		}
	}

	date, err := domain.ParseDate(strings.TrimSpace(expiry))
	if err != nil {
		return form, err
	}
	form.ExpiryDate = date

	return form, nil
}

func (c *CLI) newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <new name>",
		Short: "Rename an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openSession()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.inventory.LoadItems(cmd.Context()); err != nil {
				return err
			}
			item, err := resolveItem(a.inventory.Snapshot(), args[0])
			if err != nil {
				return err
			}

			updated, err := a.inventory.RenameItem(cmd.Context(), item.ID, strings.Join(args[1:], " "))
			if err != nil && updated == nil {
				return err
			}
			c.printf("✓ Renamed %s to %s\n", item.Name, updated.Name)
			return err
		},
	}
}

func (c *CLI) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openSession()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.inventory.LoadItems(cmd.Context()); err != nil {
				return err
			}
			item, err := resolveItem(a.inventory.Snapshot(), args[0])
			if err != nil {
				return err
			}

			if err := a.inventory.DeleteItem(cmd.Context(), item.ID); err != nil {
				return err
			}
			c.printf("✓ Deleted %s\n", item.Name)
			return nil
		},
	}
}

func (c *CLI) newFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fav <id>",
		Short: "Toggle an item's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openSession()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.inventory.LoadItems(ctx); err != nil {
				return err
			}
			item, err := resolveItem(a.inventory.Snapshot(), args[0])
			if err != nil {
				return err
			}

			pending, err := a.inventory.ToggleFavorite(ctx, item.ID)
			if err != nil {
				return err
			}
			c.debugf("favorite %s: %v -> %v (pending)\n", item.ID, pending.Previous, !pending.Previous)

			favorite, err := pending.Wait(ctx)
			if err != nil {
				return fmt.Errorf("favorite not saved, change reverted: %w", err)
			}

			if c.jsonOutput {
				return c.outputJSON(map[string]interface{}{"id": item.ID, "favorite": favorite})
			}
			if favorite {
				c.printf("★ %s added to favorites\n", item.Name)
			} else {
				c.printf("☆ %s removed from favorites\n", item.Name)
			}
			return nil
		},
	}
}

// resolveItem finds the item whose id equals ref or uniquely starts with it
func resolveItem(snapshot usecase.Snapshot, ref string) (domain.Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Item{}, fmt.Errorf("%w: item id is required", domain.ErrInvalidRequest)
	}

	var matches []domain.Item
	for _, item := range snapshot.Items {
		if item.ID == ref {
			return item, nil
		}
		if strings.HasPrefix(item.ID, ref) {
			matches = append(matches, item)
		}
	}

	switch len(matches) {
	case 0:
		return domain.Item{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return domain.Item{}, fmt.Errorf("%w: id prefix %q matches %d items", domain.ErrInvalidRequest, ref, len(matches))
	}
}
