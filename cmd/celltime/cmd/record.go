package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MeKo-Tech/celltime/internal/timing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func (a *app) newRecordCmd() *cobra.Command {
	var metricsFile string

	recordCmd := &cobra.Command{
		Use:   "record NAME [-- COMMAND [ARGS...]]",
		Short: "Time a block and persist its duration as timing.NAME.json",
		Long: `Run a block of shell script, print "[NAME] took <seconds>s" and write
{"NAME": seconds} to timing.NAME.json in the records directory.

The block is the remaining arguments joined by spaces, or standard input
when no command is given. If the block fails, the duration is still printed
but no record is written and the command exits non-zero.

NAME is used verbatim as part of the file name and must not contain path
separators.

Examples:
  celltime record build -- make build
  celltime record query -- 'psql -f query.sql > /dev/null'
  celltime record nap < nap.sh`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			block, err := readBlock(cmd.InOrStdin(), args[1:])
			if err != nil {
				return err
			}

			// Errors from the block are returned unchanged; the timing line is already printed.
			runErr := a.table.Dispatch(cmd.Context(), timing.CommandName, name, block)

			// Failed runs are exported too.
			if metricsFile != "" {
				if err := prometheus.WriteToTextfile(metricsFile, a.registry); err != nil {
					return errors.Join(runErr, fmt.Errorf("failed to write metrics textfile %s: %w", metricsFile, err))
				}
			}
			return runErr
		},
	}

	recordCmd.Flags().StringVar(&metricsFile, "metrics-file", "",
		"write recording metrics for this run to a Prometheus textfile")

	return recordCmd
}

// readBlock returns the block to run: the joined arguments, or stdin when there are none.
func readBlock(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	bts, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read block from stdin: %w", err)
	}
	return string(bts), nil
}
