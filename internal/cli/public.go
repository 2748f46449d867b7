package cli

import (
	"strings"

	"github.com/spf13/cobra"

	menus "qrMenu/internal/modules/menus/domain"
	realtime "qrMenu/internal/modules/realtime/domain"
)

func newPublicCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "public",
		Short: "Read what customers see after scanning a code",
	}

	var filter realtime.FilterCommand
	menu := &cobra.Command{
		Use:   "menu <slug>",
		Short: "Print the public menu, optionally filtered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, sort, err := filter.Resolve()
			if err != nil {
				return err
			}
			view, err := rt.app.Public.Menu(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if !filter.IsZero() {
				view.Menu = menus.FilterMenu(view.Menu, filters)
				for i := range view.Menu.Categories {
					view.Menu.Categories[i].Items = menus.SortItems(view.Menu.Categories[i].Items, sort)
				}
			}
			return rt.print(view)
		},
	}
	menu.Flags().StringVar(&filter.Query, "q", "", "search item names and descriptions")
	menu.Flags().StringVar(&filter.Category, "category", "", "category id or name")
	menu.Flags().StringSliceVar(&filter.Tags, "tag", nil, "dietary tag, repeatable")
	menu.Flags().StringVar(&filter.Sort, "sort", "", "name, price, order or createdAt")
	menu.Flags().StringVar(&filter.Dir, "dir", "", "asc or desc")

	var table, output string
	qr := &cobra.Command{
		Use:   "qr <slug>",
		Short: "Download the server-rendered QR image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := rt.app.Public.QRCode(cmd.Context(), strings.TrimSpace(args[0]), table)
			if err != nil {
				return err
			}
			return writeOutput(rt.opts.Out, output, image.Data)
		},
	}
	qr.Flags().StringVar(&table, "table", "", "table number")
	qr.Flags().StringVarP(&output, "output", "o", "", "file to write (stdout when empty)")

	cmd.AddCommand(
		menu,
		&cobra.Command{
			Use:   "restaurant <slug>",
			Short: "Print the public restaurant profile",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := rt.app.Public.Restaurant(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				return rt.print(r)
			},
		},
		qr,
	)
	return cmd
}
