package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"qrMenu/internal/modules/restaurants/domain"
)

func newRestaurantCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "restaurant",
		Aliases: []string{"restaurants", "r"},
		Short:   "Manage restaurants",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the owner's restaurants",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				list, err := rt.app.Restaurants.List(cmd.Context())
				if err != nil {
					return err
				}
				return rt.print(list)
			},
		},
		&cobra.Command{
			Use:   "get <slug>",
			Short: "Show a restaurant and make it current",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := rt.app.Restaurants.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return rt.print(r)
			},
		},
		newRestaurantCreateCommand(rt),
		newRestaurantUpdateCommand(rt),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a restaurant",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := rt.app.Restaurants.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				return rt.print(map[string]any{"deleted": args[0]})
			},
		},
		newRestaurantBrandingCommand(rt),
		newRestaurantQRCommand(rt),
		&cobra.Command{
			Use:   "qr-codes [id]",
			Short: "List the generated QR codes",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := rt.restaurantID(firstArg(args))
				if err != nil {
					return err
				}
				codes, err := rt.app.Restaurants.QRCodes(cmd.Context(), id)
				if err != nil {
					return err
				}
				return rt.print(codes)
			},
		},
		&cobra.Command{
			Use:   "use <slug>",
			Short: "Select the current restaurant",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := rt.app.Restaurants.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return rt.print(map[string]string{"current": r.ID, "slug": r.Slug, "name": r.Name})
			},
		},
		&cobra.Command{
			Use:   "recent",
			Short: "List recently viewed restaurant ids",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return rt.print(rt.app.Restaurants.Recent())
			},
		},
	)
	return cmd
}

func newRestaurantCreateCommand(rt *runtime) *cobra.Command {
	var (
		data     string
		currency string
		language string
		timezone string
		phone    string
		address  string
	)
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a restaurant",
		Long:  "Create a restaurant. Flags fill the common fields; --data takes the full input as JSON.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := domain.CreateInput{}
			if data != "" {
				if err := decodeData(data, cmd.InOrStdin(), &in); err != nil {
					return err
				}
			}
			if name := firstArg(args); name != "" {
				in.Name = name
			}
			setIfChanged(cmd, "currency", &in.Settings.Currency, currency)
			setIfChanged(cmd, "language", &in.Settings.Language, language)
			setIfChanged(cmd, "timezone", &in.Settings.Timezone, timezone)
			setIfChanged(cmd, "phone", &in.ContactInfo.Phone, phone)
			setIfChanged(cmd, "address", &in.ContactInfo.Address, address)

			created, err := rt.app.Restaurants.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return rt.print(created)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "input as JSON, @file or - for stdin")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code")
	cmd.Flags().StringVar(&language, "language", "", "menu language")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&address, "address", "", "street address")
	return cmd
}

func newRestaurantUpdateCommand(rt *runtime) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a restaurant from a JSON patch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.UpdateInput
			if err := decodeData(data, cmd.InOrStdin(), &in); err != nil {
				return err
			}
			updated, err := rt.app.Restaurants.Update(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return rt.print(updated)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", `patch as JSON, e.g. {"name":"Bistro"}`)
	return cmd
}

func newRestaurantBrandingCommand(rt *runtime) *cobra.Command {
	var primary, secondary, font, theme, preset string
	cmd := &cobra.Command{
		Use:   "branding [id]",
		Short: "Update colours, font and theme",
		Long:  "Update the branding. Unset flags keep the restaurant's current values.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := rt.restaurantID(firstArg(args))
			if err != nil {
				return err
			}
			branding := domain.DefaultBranding()
			if current := rt.app.Store.CurrentRestaurant(); current != nil && current.ID == id {
				branding = current.Branding
			}
			if preset != "" {
				parsed, ok := domain.ParseTheme(preset)
				if !ok {
					return fmt.Errorf("%w %q", domain.ErrUnknownTheme, preset)
				}
				branding, _ = domain.BrandingFromPreset(parsed)
			}
			setIfChanged(cmd, "primary", &branding.PrimaryColor, primary)
			setIfChanged(cmd, "secondary", &branding.SecondaryColor, secondary)
			setIfChanged(cmd, "font", &branding.Font, font)
			if cmd.Flags().Changed("theme") {
				parsed, ok := domain.ParseTheme(theme)
				if !ok {
					return fmt.Errorf("%w %q", domain.ErrUnknownTheme, theme)
				}
				branding.Theme = parsed
			}

			updated, err := rt.app.Restaurants.UpdateBranding(cmd.Context(), id, branding)
			if err != nil {
				return err
			}
			return rt.print(updated.Branding)
		},
	}
	cmd.Flags().StringVar(&primary, "primary", "", "primary colour, #RRGGBB")
	cmd.Flags().StringVar(&secondary, "secondary", "", "secondary colour, #RRGGBB")
	cmd.Flags().StringVar(&font, "font", "", "font family")
	cmd.Flags().StringVar(&theme, "theme", "", "theme name: modern, classic, minimal or colorful")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a theme's preset colours")
	return cmd
}

func newRestaurantQRCommand(rt *runtime) *cobra.Command {
	var table string
	cmd := &cobra.Command{
		Use:   "qr [id]",
		Short: "Generate a QR code on the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := rt.restaurantID(firstArg(args))
			if err != nil {
				return err
			}
			url, err := rt.app.Restaurants.GenerateQRCode(cmd.Context(), id, table)
			if err != nil {
				return err
			}
			return rt.print(map[string]string{"qrCodeUrl": url, "tableNumber": table})
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "table number; empty for the restaurant-wide code")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.TrimSpace(args[0])
}

// setIfChanged assigns value to dst only when the flag was given.
func setIfChanged(cmd *cobra.Command, flag string, dst *string, value string) {
	if cmd.Flags().Changed(flag) {
		*dst = value
	}
}
