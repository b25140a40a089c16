package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/geekxflood/ftpmib/metrics"
)

func newMetricsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print the enabled objects in the Prometheus text format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(opts, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			collector, err := metrics.NewCollector(rt.registry, rt.settings.Metrics.Namespace)
			if err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			if err := metrics.Register(reg, collector); err != nil {
				return err
			}

			families, err := reg.Gather()
			if err != nil {
				return fmt.Errorf("failed to gather metrics: %w", err)
			}
			for _, mf := range families {
				if _, err := expfmt.MetricFamilyToText(cmd.OutOrStdout(), mf); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
