package cli

import (
	"github.com/spf13/cobra"

	"qrMenu/internal/modules/menus/domain"
)

func newMenuCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "menu",
		Aliases: []string{"menus", "m"},
		Short:   "Manage menus",
	}

	var restaurant string
	list := &cobra.Command{
		Use:   "list",
		Short: "List a restaurant's menus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := rt.restaurantID(restaurant)
			if err != nil {
				return err
			}
			menus, err := rt.app.Menus.List(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rt.print(menus)
		},
	}
	list.Flags().StringVar(&restaurant, "restaurant", "", "restaurant id (defaults to the current one)")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show a menu and make it current",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := rt.app.Menus.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return rt.print(m)
			},
		},
		newMenuCreateCommand(rt),
		newMenuUpdateCommand(rt),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a menu",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := rt.app.Menus.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				return rt.print(map[string]any{"deleted": args[0]})
			},
		},
		newMenuDuplicateCommand(rt),
		&cobra.Command{
			Use:   "use <id>",
			Short: "Select the current menu",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := rt.app.Menus.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return rt.print(map[string]string{"current": m.ID, "name": m.Name, "restaurantId": m.RestaurantID})
			},
		},
		newMenuDraftCommand(rt),
	)
	return cmd
}

func newMenuCreateCommand(rt *runtime) *cobra.Command {
	var restaurant, data string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a menu",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := domain.CreateMenuInput{}
			if data != "" {
				if err := decodeData(data, cmd.InOrStdin(), &in); err != nil {
					return err
				}
			}
			if name := firstArg(args); name != "" {
				in.Name = name
			}
			if in.RestaurantID == "" || restaurant != "" {
				id, err := rt.restaurantID(restaurant)
				if err != nil {
					return err
				}
				in.RestaurantID = id
			}
			created, err := rt.app.Menus.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return rt.print(created)
		},
	}
	cmd.Flags().StringVar(&restaurant, "restaurant", "", "restaurant id (defaults to the current one)")
	cmd.Flags().StringVar(&data, "data", "", "input as JSON, e.g. with a schedule")
	return cmd
}

func newMenuUpdateCommand(rt *runtime) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a menu from a JSON patch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := rt.menuID(firstArg(args))
			if err != nil {
				return err
			}
			var in domain.UpdateMenuInput
			if err := decodeData(data, cmd.InOrStdin(), &in); err != nil {
				return err
			}
			updated, err := rt.app.Menus.Update(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return rt.print(updated)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", `patch as JSON, e.g. {"isActive":false}`)
	return cmd
}

func newMenuDuplicateCommand(rt *runtime) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy a menu under a new name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			copied, err := rt.app.Menus.Duplicate(cmd.Context(), args[0], name)
			if err != nil {
				return err
			}
			return rt.print(copied)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name of the copy")
	return cmd
}

// newMenuDraftCommand manages the locally persisted draft, a scratch copy of a menu that is
// never sent to the server.
func newMenuDraftCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Keep a local scratch copy of the current menu",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the draft",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return rt.print(rt.app.Store.DraftMenu())
			},
		},
		&cobra.Command{
			Use:   "save",
			Short: "Copy the current menu into the draft",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				current := rt.app.Store.CurrentMenu()
				if current == nil {
					return errNoMenu
				}
				rt.app.Store.SetDraftMenu(current)
				return rt.print(map[string]string{"draft": current.ID})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Discard the draft",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rt.app.Store.ClearDraftMenu()
				return rt.print(map[string]any{"draft": nil})
			},
		},
	)
	return cmd
}
