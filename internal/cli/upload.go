package cli

import (
	"os"

	"github.com/spf13/cobra"

	"qrMenu/internal/modules/uploads/domain"
)

func newUploadCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload images and CSV sheets",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "image <path>",
			Short: "Upload one image",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				file, fh, err := domain.OpenFile(args[0])
				if err != nil {
					return err
				}
				defer fh.Close()
				result, err := rt.app.Uploads.Image(cmd.Context(), file)
				if err != nil {
					return err
				}
				return rt.print(result)
			},
		},
		&cobra.Command{
			Use:   "images <path>...",
			Short: "Upload several images in one request",
			Args:  cobra.RangeArgs(1, domain.MaxFiles),
			RunE: func(cmd *cobra.Command, args []string) error {
				files := make([]domain.File, 0, len(args))
				handles := make([]*os.File, 0, len(args))
				defer func() {
					for _, fh := range handles {
						fh.Close()
					}
				}()
				for _, path := range args {
					file, fh, err := domain.OpenFile(path)
					if err != nil {
						return err
					}
					handles = append(handles, fh)
					files = append(files, file)
				}
				results, err := rt.app.Uploads.Images(cmd.Context(), files)
				if err != nil {
					return err
				}
				return rt.print(results)
			},
		},
		&cobra.Command{
			Use:   "csv <path>",
			Short: "Upload a CSV sheet and print the server's parse",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				file, fh, err := domain.OpenFile(args[0])
				if err != nil {
					return err
				}
				defer fh.Close()
				preview, err := rt.app.Uploads.CSV(cmd.Context(), file)
				if err != nil {
					return err
				}
				return rt.print(preview)
			},
		},
		&cobra.Command{
			Use:   "delete <filename>",
			Short: "Delete an uploaded file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := rt.app.Uploads.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				return rt.print(map[string]any{"deleted": args[0]})
			},
		},
	)
	return cmd
}
