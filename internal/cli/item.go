package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qrMenu/internal/modules/menus/domain"
	menuinfra "qrMenu/internal/modules/menus/infrastructure"
)

func newItemCommand(rt *runtime) *cobra.Command {
	var menu string
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"items", "i"},
		Short:   "Manage the items of a menu",
	}
	cmd.PersistentFlags().StringVar(&menu, "menu", "", "menu id (defaults to the current one)")

	cmd.AddCommand(
		newItemAddCommand(rt, &menu),
		newItemUpdateCommand(rt, &menu),
		&cobra.Command{
			Use:   "delete <item-id>",
			Short: "Delete an item",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				menuID, err := rt.menuID(menu)
				if err != nil {
					return err
				}
				if err := rt.app.Menus.DeleteItem(cmd.Context(), menuID, args[0]); err != nil {
					return err
				}
				return rt.print(map[string]any{"deleted": args[0]})
			},
		},
		newItemReorderCommand(rt, &menu),
		newItemImportCommand(rt, &menu),
	)
	return cmd
}

func newItemAddCommand(rt *runtime, menu *string) *cobra.Command {
	var (
		category    string
		data        string
		name        string
		description string
		price       float64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an item to a category",
		Long:  "Append an item. --data takes the full item as JSON; --name, --price and --description override it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			menuID, err := rt.menuID(*menu)
			if err != nil {
				return err
			}
			in := domain.ItemInput{IsAvailable: true}
			if data != "" {
				if err := decodeData(data, cmd.InOrStdin(), &in); err != nil {
					return err
				}
			}
			setIfChanged(cmd, "name", &in.Name, name)
			setIfChanged(cmd, "description", &in.Description, description)
			if cmd.Flags().Changed("price") {
				in.Price = price
			}
			created, err := rt.app.Menus.AddItem(cmd.Context(), menuID, category, in)
			if err != nil {
				return err
			}
			return rt.print(created)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category id (required)")
	cmd.Flags().StringVar(&data, "data", "", "item as JSON, @file or - for stdin")
	cmd.Flags().StringVar(&name, "name", "", "item name")
	cmd.Flags().StringVar(&description, "description", "", "item description")
	cmd.Flags().Float64Var(&price, "price", 0, "item price")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newItemUpdateCommand(rt *runtime, menu *string) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Update an item from a JSON patch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			menuID, err := rt.menuID(*menu)
			if err != nil {
				return err
			}
			var patch domain.ItemPatch
			if err := decodeData(data, cmd.InOrStdin(), &patch); err != nil {
				return err
			}
			updated, err := rt.app.Menus.UpdateItem(cmd.Context(), menuID, args[0], patch)
			if err != nil {
				return err
			}
			return rt.print(updated)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", `patch as JSON, e.g. {"price":12.5,"isAvailable":false}`)
	return cmd
}

func newItemReorderCommand(rt *runtime, menu *string) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "reorder <item-id>...",
		Short: "Set the item order of a category to the given sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			menuID, err := rt.menuID(*menu)
			if err != nil {
				return err
			}
			if err := rt.app.Menus.ReorderItems(cmd.Context(), menuID, category, args); err != nil {
				return err
			}
			return rt.print(orderOf(rt, menuID, category))
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category id (required)")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

type importReport struct {
	Result  domain.ImportResult  `json:"result"`
	Skipped []domain.ImportError `json:"skipped"`
}

func newItemImportCommand(rt *runtime, menu *string) *cobra.Command {
	var template bool
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Bulk import items from a CSV sheet",
		Long:  "Bulk import items. Rows that cannot be parsed locally are reported as skipped; the rest go to the server in one request. --template prints a sample sheet.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if template {
				return menuinfra.TemplateCSV(rt.opts.Out)
			}
			if len(args) == 0 {
				return fmt.Errorf("a CSV file is required")
			}
			menuID, err := rt.menuID(*menu)
			if err != nil {
				return err
			}

			fh, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer fh.Close()
			rows, skipped, err := menuinfra.ParseImportCSV(fh)
			if err != nil {
				return err
			}
			for _, row := range skipped {
				rt.logger.Warn("csv row skipped", zap.Int("row", row.Row), zap.String("error", row.Message))
			}
			if len(rows) == 0 {
				return fmt.Errorf("no importable rows in %s", args[0])
			}

			result, err := rt.app.Menus.BulkImportItems(cmd.Context(), menuID, rows)
			if err != nil {
				return err
			}
			if skipped == nil {
				skipped = []domain.ImportError{}
			}
			return rt.print(importReport{Result: result, Skipped: skipped})
		},
	}
	cmd.Flags().BoolVar(&template, "template", false, "print the CSV template and exit")
	return cmd
}
