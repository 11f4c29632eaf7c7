package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"production/internal/model"
)

type orderInput struct {
	Stages              []model.StageValue `json:"stages" yaml:"stages"`
	SelectedSupplierIDs []string           `json:"selectedSupplierIds" yaml:"selectedSupplierIds"`
}

func newOrdersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show or change per-order stage and supplier data",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all stored order data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := opts.app.OrderData(cmd.Context())
			return render(cmd.OutOrStdout(), opts.Format, table, func(w io.Writer) { writeOrderTable(w, table) })
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get ORDER_ID",
		Short: "Print the stored data for one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, ok := opts.app.OrderRecord(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("no order data for %q", args[0])
			}
			return printOrder(cmd, opts, rec)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stages ORDER_ID",
		Short: "Print the stages in effect for an order (its own or the template's)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stages, overridden := opts.app.EffectiveStages(cmd.Context(), args[0])
			return render(cmd.OutOrStdout(), opts.Format, stages, func(w io.Writer) {
				src := "template"
				if overridden {
					src = "order"
				}
				fmt.Fprintf(w, "order %s, stages from %s\n", args[0], src)
				writeStages(w, stages)
			})
		},
	})

	var file string
	set := &cobra.Command{
		Use:   "set ORDER_ID",
		Short: "Replace an order's data from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in orderInput
			if err := readInput(file, cmd.InOrStdin(), &in); err != nil {
				return err
			}
			rec, err := opts.app.SaveOrderData(cmd.Context(), args[0], in.Stages, in.SelectedSupplierIDs)
			if err != nil {
				return err
			}
			return printOrder(cmd, opts, rec)
		},
	}
	set.Flags().StringVarP(&file, "file", "f", "-", "order data file (- for stdin)")
	cmd.AddCommand(set)

	cmd.AddCommand(&cobra.Command{
		Use:     "rm ORDER_ID",
		Aliases: []string{"remove"},
		Short:   "Remove an order's data",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := opts.app.RemoveOrderData(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "no order data for %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	})

	return cmd
}

func printOrder(cmd *cobra.Command, opts *RootOptions, rec model.OrderRecord) error {
	return render(cmd.OutOrStdout(), opts.Format, rec, func(w io.Writer) { writeOrder(w, rec) })
}
