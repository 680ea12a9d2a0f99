package cmd

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/celltime/internal/timing"
	"github.com/spf13/cobra"
)

func (a *app) newExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write recorded timings as a Prometheus textfile",
		Long: `Merge all recorded timings and write them as the gauge
celltime_block_duration_seconds{name="..."} to a Prometheus textfile,
ready for the node exporter textfile collector.

Examples:
  celltime export --textfile timings.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Metrics.Textfile
			if path == "" {
				return errors.New("no textfile given: use --textfile or set metrics.textfile")
			}

			timings, err := a.aggregator().LoadAll()
			if err != nil {
				return err
			}
			if err := timing.WriteTextfile(path, timings); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d timings to %s\n", len(timings), path)
			return nil
		},
	}

	exportCmd.Flags().String("textfile", "", "destination textfile (default from metrics.textfile)")
	a.bind("metrics.textfile", exportCmd.Flags().Lookup("textfile"))

	return exportCmd
}
