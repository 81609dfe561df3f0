package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
	"github.com/AlvinMun/bestbeforeai/internal/usecase"
)

type scanOptions struct {
	name    string
	expiry  string
	storage string
	yes     bool
}

func (c *CLI) newScanCmd() *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Read name and expiry date from a photo, then add the item",
		Long: `Upload a photo of a label or receipt for text recognition.

The detected expiry date replaces the form's date; a guessed product name is
only used when --name is not given. The reconciled item is shown for
confirmation before it is added.`,
		Example: `  bestbefore scan milk.jpg
  bestbefore scan receipt.png --name "Greek yogurt" --storage fridge --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "item name (wins over the guessed name)")
	cmd.Flags().StringVar(&opts.expiry, "expiry", "", "expiry date to use when none is detected, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.storage, "storage", string(domain.DefaultStorage), "fridge, freezer or pantry")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "add without asking for confirmation")
	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, path string, opts scanOptions) error {
	form, err := buildForm(opts.name, opts.expiry, opts.storage)
	if err != nil {
		return err
	}

	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	a, err := c.openSession()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	a.inventory.SetForm(form)

	c.debugf("uploading %s (%d bytes)\n", path, len(image))
	rec, err := a.inventory.ScanImage(ctx, path, image)
	if err != nil {
		return err
	}

	if c.jsonOutput && !opts.yes {
		return c.outputJSON(scanSummary(rec))
	}
	if !c.jsonOutput {
		c.renderReconciliation(rec)
	}

	if !rec.Form.Complete() {
		return fmt.Errorf("%w: pass --name and/or --expiry to complete the item", domain.ErrIncompleteForm)
	}

	if !opts.yes {
		ok, err := c.confirm("Add this item?")
		if err != nil {
			return err
		}
		if !ok {
			c.println("Not added.")
			return nil
		}
	}

	item, err := a.inventory.SubmitForm(ctx)
	if err != nil && item == nil {
		return err
	}

	if c.jsonOutput {
		summary := scanSummary(rec)
		summary["item"] = item
		if encodeErr := c.outputJSON(summary); encodeErr != nil {
			return encodeErr
		}
	} else {
		c.printf("✓ Added %s (expires %s, %s)\n", item.Name, item.ExpiryDate, item.Storage)
	}
	return err
}

func (c *CLI) renderReconciliation(rec *usecase.Reconciliation) {
	name := rec.Form.Name
	switch {
	case name == "":
		name = "(none)"
	case rec.NameGuessed:
		name += " (guessed)"
	}

	expiry := "(not detected)"
	if !rec.Form.ExpiryDate.IsZero() {
		expiry = rec.Form.ExpiryDate.String()
		if rec.ExpiryApplied {
			expiry += fmt.Sprintf(" (detected, confidence %s)", formatConfidence(rec.Confidence))
		}
	}

	c.printf("Name:     %s\n", name)
	c.printf("Expiry:   %s\n", expiry)
	c.printf("Storage:  %s\n", rec.Form.Storage)
}

func scanSummary(rec *usecase.Reconciliation) map[string]interface{} {
	return map[string]interface{}{
		"name":           rec.Form.Name,
		"storage":        rec.Form.Storage,
		"expiry_date":    rec.Form.ExpiryDate,
		"confidence":     rec.Confidence,
		"name_guessed":   rec.NameGuessed,
		"expiry_applied": rec.ExpiryApplied,
	}
}
