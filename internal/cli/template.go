package cli

import (
	"io"

	"github.com/spf13/cobra"

	"production/internal/model"
)

func newTemplateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Show or change the production template",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTemplate(cmd, opts, opts.app.Template(cmd.Context()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Replace the template with the built-in default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := opts.app.ResetTemplate(cmd.Context())
			if err != nil {
				return err
			}
			return printTemplate(cmd, opts, saved)
		},
	})

	var file string
	save := &cobra.Command{
		Use:   "save",
		Short: "Store a template read from a JSON or YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rec model.TemplateRecord
			if err := readInput(file, cmd.InOrStdin(), &rec); err != nil {
				return err
			}
			saved, err := opts.app.SaveTemplate(cmd.Context(), rec)
			if err != nil {
				return err
			}
			return printTemplate(cmd, opts, saved)
		},
	}
	save.Flags().StringVarP(&file, "file", "f", "-", "template file (- for stdin)")
	cmd.AddCommand(save)

	return cmd
}

func printTemplate(cmd *cobra.Command, opts *RootOptions, t model.TemplateRecord) error {
	return render(cmd.OutOrStdout(), opts.Format, t, func(w io.Writer) { writeTemplate(w, t) })
}
