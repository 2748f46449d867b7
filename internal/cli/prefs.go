package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newPrefsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prefs",
		Aliases: []string{"preferences"},
		Short:   "Show or change display preferences",
	}

	var theme, language, currency string
	set := &cobra.Command{
		Use:   "set",
		Short: "Change preferences; unset flags keep their value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs := rt.app.Store.Preferences()
			setIfChanged(cmd, "theme", &prefs.Theme, strings.ToLower(strings.TrimSpace(theme)))
			setIfChanged(cmd, "language", &prefs.Language, strings.TrimSpace(language))
			setIfChanged(cmd, "currency", &prefs.Currency, strings.ToUpper(strings.TrimSpace(currency)))
			if err := rt.app.Store.SetPreferences(prefs); err != nil {
				return err
			}
			return rt.print(rt.app.Store.Preferences())
		},
	}
	set.Flags().StringVar(&theme, "theme", "", "light or dark")
	set.Flags().StringVar(&language, "language", "", "language code")
	set.Flags().StringVar(&currency, "currency", "", "ISO currency code")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the stored preferences",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return rt.print(rt.app.Store.Preferences())
			},
		},
		set,
	)
	return cmd
}
