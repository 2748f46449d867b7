// Package cli implements the qrmenu command tree. Every command drives one of the client
// services and prints its result as JSON; notifications go to the log on stderr.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qrMenu/internal/app"
	"qrMenu/internal/config"
	"qrMenu/internal/shared/logging"
	"qrMenu/internal/shared/notify"
)

// Options configures the root command. Zero values fall back to the process streams, the
// configuration file named by --config and a stderr logger.
type Options struct {
	Out    io.Writer
	Err    io.Writer
	Config *config.Config
	Logger *zap.Logger
}

var errNoRestaurant = errors.New("no restaurant selected: pass --restaurant or run `qrmenu restaurant use <slug>`")
var errNoMenu = errors.New("no menu selected: pass --menu or run `qrmenu menu use <id>`")

type runtime struct {
	opts       Options
	configFile string
	logLevel   string

	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
	app      *app.App
}

// Execute runs the command line in args and releases the services afterwards, whether or not
// the command failed.
func Execute(ctx context.Context, opts Options, args []string) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	rt := &runtime{opts: opts}
	root := newRootCommand(rt)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, rt.close())
}

func newRootCommand(rt *runtime) *cobra.Command {
	opts := rt.opts
	root := &cobra.Command{
		Use:           "qrmenu",
		Short:         "qrmenu manages restaurants, menus and QR codes",
		Long:          "qrmenu drives the QR menu REST backend: restaurants, menus, categories, items, uploads and analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.open(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	root.PersistentFlags().StringVar(&rt.configFile, "config", "", "configuration file, e.g. ./qrmenu.yaml")
	root.PersistentFlags().StringVar(&rt.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(
		newRestaurantCommand(rt),
		newMenuCommand(rt),
		newCategoryCommand(rt),
		newItemCommand(rt),
		newAnalyticsCommand(rt),
		newUploadCommand(rt),
		newPublicCommand(rt),
		newQRCommand(rt),
		newPrefsCommand(rt),
		newHealthCommand(rt),
		newTokenCommand(rt),
	)
	return root
}

func (rt *runtime) open(ctx context.Context) error {
	if rt.app != nil {
		return nil
	}
	cfg := rt.opts.Config
	if cfg == nil {
		if err := config.LoadDotEnv(); err != nil {
			fmt.Fprintf(rt.opts.Err, ".env load warning: %v\n", err)
		}
		loaded, err := config.Load(rt.configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if rt.logLevel != "" {
		cfg.Logging.Level = rt.logLevel
	}
	rt.cfg = cfg

	logger := rt.opts.Logger
	if logger == nil {
		logger = logging.New(rt.opts.Err, logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
		rt.closeLog = func() error {
			_ = logger.Sync()
			return nil
		}
	}
	rt.logger = logger

	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg, notify.NewLogNotifier(logger), logger)
	if err != nil {
		return err
	}
	rt.app = a
	return nil
}

func (rt *runtime) close() error {
	var errs []error
	if rt.app != nil {
		errs = append(errs, rt.app.Close())
		rt.app = nil
	}
	if rt.closeLog != nil {
		errs = append(errs, rt.closeLog())
		rt.closeLog = nil
	}
	return errors.Join(errs...)
}

// restaurantID returns flag, falling back to the current restaurant.
func (rt *runtime) restaurantID(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if current := rt.app.Store.CurrentRestaurant(); current != nil && current.ID != "" {
		return current.ID, nil
	}
	return "", errNoRestaurant
}

// menuID returns flag, falling back to the current menu.
func (rt *runtime) menuID(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if current := rt.app.Store.CurrentMenu(); current != nil && current.ID != "" {
		return current.ID, nil
	}
	return "", errNoMenu
}

func (rt *runtime) print(v any) error {
	return writeJSON(rt.opts.Out, v)
}
