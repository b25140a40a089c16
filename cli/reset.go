package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type valueRow struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}

func newResetCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the counters of enabled objects and print the result",
		Long: `reset zeroes every Counter32 and Counter64 object of the enabled modules,
except daemon.restartCount, and prints the counters afterwards. Combine it
with --values to see which seeded counters survive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(opts, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			resetErr := rt.registry.ResetCounters()

			var rows []valueRow
			for _, e := range rt.registry.EnabledEntries() {
				if !e.Type.IsCounter() {
					continue
				}
				v, err := rt.store.Value(e.Field)
				if err != nil {
					continue
				}
				rows = append(rows, valueRow{Name: e.InstanceName, Type: e.Type.String(), Value: v})
			}

			if err := render(cmd.OutOrStdout(), opts.output, rows, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "NAME\tTYPE\tVALUE")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\t%v\n", r.Name, r.Type, r.Value)
				}
			}); err != nil {
				return err
			}
			return resetErr
		},
	}
}
