package cmd

import (
	"github.com/MeKo-Tech/celltime/internal/report"
	"github.com/spf13/cobra"
)

func (a *app) newLoadCmd() *cobra.Command {
	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Merge all recorded timings into one mapping",
		Long: `Read every timing.*.json record in the records directory and print the
merged name -> seconds mapping.

If two records carry the same name, the one read last wins; the order in
which records are read is not defined. A single unreadable or malformed
record makes the whole command fail.

Examples:
  celltime load
  celltime load --format json
  celltime load --records-dir ./bench/data --format csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.aggregator().LoadRecords()
			if err != nil {
				return err
			}
			return report.Render(cmd.OutOrStdout(), records, a.cfg.Output.Format)
		},
	}

	loadCmd.Flags().StringP("format", "f", "table", "output format (table, json, yaml, csv)")
	a.bind("output.format", loadCmd.Flags().Lookup("format"))

	return loadCmd
}
