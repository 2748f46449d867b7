package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"qrMenu/internal/modules/qrcodes/domain"
	qrinfra "qrMenu/internal/modules/qrcodes/infrastructure"
)

func newQRCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Render QR codes locally",
	}

	var (
		table  string
		size   int
		level  string
		output string
	)
	render := &cobra.Command{
		Use:   "render <slug>",
		Short: "Render the menu URL of a restaurant as a PNG",
		Long:  "Render a preview PNG pointing at server.public_base_url/menu/<slug>. Codes printed for tables should come from `qrmenu restaurant qr`.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := domain.ParseLevel(level)
			if err != nil {
				return err
			}
			renderer := qrinfra.NewPNGRenderer(rt.cfg.Server.PublicBaseURL, rt.logger)
			png, err := renderer.RenderMenu(args[0], table, domain.Options{Size: size, Level: parsed})
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return writeOutput(rt.opts.Out, output, png)
			}
			if err := writeOutput(rt.opts.Out, output, png); err != nil {
				return err
			}
			return rt.print(map[string]any{
				"file":  output,
				"url":   renderer.MenuURL(args[0], table),
				"bytes": len(png),
			})
		},
	}
	render.Flags().StringVar(&table, "table", "", "table number appended to the URL")
	render.Flags().IntVar(&size, "size", domain.DefaultSize, fmt.Sprintf("image size in pixels (%d-%d)", domain.MinSize, domain.MaxSize))
	render.Flags().StringVar(&level, "level", "M", "error correction level: L, M, Q or H")
	render.Flags().StringVarP(&output, "output", "o", "", "file to write (stdout when empty)")

	cmd.AddCommand(render)
	return cmd
}
