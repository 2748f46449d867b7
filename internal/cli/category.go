package cli

import (
	"github.com/spf13/cobra"

	"qrMenu/internal/modules/menus/domain"
)

func newCategoryCommand(rt *runtime) *cobra.Command {
	var menu string
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "c"},
		Short:   "Manage the categories of a menu",
	}
	cmd.PersistentFlags().StringVar(&menu, "menu", "", "menu id (defaults to the current one)")

	var description string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Append a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			menuID, err := rt.menuID(menu)
			if err != nil {
				return err
			}
			created, err := rt.app.Menus.AddCategory(cmd.Context(), menuID, domain.CategoryInput{Name: args[0], Description: description})
			if err != nil {
				return err
			}
			return rt.print(created)
		},
	}
	add.Flags().StringVar(&description, "description", "", "category description")

	var data string
	update := &cobra.Command{
		Use:   "update <category-id>",
		Short: "Update a category from a JSON patch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			menuID, err := rt.menuID(menu)
			if err != nil {
				return err
			}
			var patch domain.CategoryPatch
			if err := decodeData(data, cmd.InOrStdin(), &patch); err != nil {
				return err
			}
			updated, err := rt.app.Menus.UpdateCategory(cmd.Context(), menuID, args[0], patch)
			if err != nil {
				return err
			}
			return rt.print(updated)
		},
	}
	update.Flags().StringVar(&data, "data", "", `patch as JSON, e.g. {"isActive":false}`)

	cmd.AddCommand(
		add,
		update,
		&cobra.Command{
			Use:   "delete <category-id>",
			Short: "Delete a category and its items",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				menuID, err := rt.menuID(menu)
				if err != nil {
					return err
				}
				if err := rt.app.Menus.DeleteCategory(cmd.Context(), menuID, args[0]); err != nil {
					return err
				}
				return rt.print(map[string]any{"deleted": args[0]})
			},
		},
		&cobra.Command{
			Use:   "reorder <category-id>...",
			Short: "Set the category order to the given sequence",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				menuID, err := rt.menuID(menu)
				if err != nil {
					return err
				}
				if err := rt.app.Menus.ReorderCategories(cmd.Context(), menuID, args); err != nil {
					return err
				}
				return rt.print(orderOf(rt, menuID, ""))
			},
		},
	)
	return cmd
}

// orderOf lists the ids in their stored order: the categories of the current menu, or the
// items of one category when categoryID is set.
func orderOf(rt *runtime, menuID, categoryID string) []string {
	current := rt.app.Store.CurrentMenu()
	if current == nil || current.ID != menuID {
		return []string{}
	}
	ids := []string{}
	for _, c := range current.Categories {
		if categoryID == "" {
			ids = append(ids, c.ID)
			continue
		}
		if c.ID != categoryID {
			continue
		}
		for _, item := range c.Items {
			ids = append(ids, item.ID)
		}
	}
	return ids
}
