package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"production/internal/app"
	"production/internal/config"
)

// OpenFunc builds the App the commands operate on. The returned close func
// is called once the command finishes.
type OpenFunc func(ctx context.Context) (*app.App, func() error, error)

// RootOptions holds global flags and the App opened for the running command.
type RootOptions struct {
	Format string // "text" | "json" | "yaml"

	open    OpenFunc
	app     *app.App
	closeFn func() error
}

var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates prodctl. A nil open uses the environment config.
func NewRootCommand(open OpenFunc) *cobra.Command {
	if open == nil {
		open = openFromConfig
	}
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:           "prodctl",
		Short:         "Inspect and edit the production template and order data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			a, closeFn, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			opts.app, opts.closeFn = a, closeFn
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closeFn == nil {
				return nil
			}
			return opts.closeFn()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(newTemplateCommand(opts))
	cmd.AddCommand(newOrdersCommand(opts))
	return cmd
}

func openFromConfig(ctx context.Context) (*app.App, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := cfg.NewLogger()
	kv, closeFn, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return app.New(kv, nil, log), closeFn, nil
}
