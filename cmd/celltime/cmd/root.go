package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/MeKo-Tech/celltime/internal/config"
	"github.com/MeKo-Tech/celltime/internal/magic"
	"github.com/MeKo-Tech/celltime/internal/shell"
	"github.com/MeKo-Tech/celltime/internal/timing"
	"github.com/MeKo-Tech/celltime/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// app carries the state shared by one command tree.
type app struct {
	loader  *config.Loader
	cfgFile string
	cfg     *config.Config

	logger   *slog.Logger
	registry *prometheus.Registry
	table    *magic.Table
}

// NewRootCommand builds the celltime command tree.
func NewRootCommand() *cobra.Command {
	a := &app{loader: config.NewLoader()}

	rootCmd := &cobra.Command{
		Use:   "celltime",
		Short: "Time named blocks of work and collect their durations",
		Long: `celltime measures the wall-clock duration of named blocks of work,
prints the duration and persists it as timing.<name>.json in a records
directory. Recorded timings can be merged back into a single mapping.

Examples:
  celltime record build -- make build
  echo 'sleep 1' | celltime record nap
  celltime load --format json
  celltime export --textfile /var/lib/node_exporter/celltime.prom`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/celltime, /etc/celltime)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("records-dir", config.DefaultRecordsDir,
		"directory holding timing.<name>.json records (can also be set via CELLTIME_RECORDS_DIR)")

	a.bind("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	a.bind("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	a.bind("records_dir", rootCmd.PersistentFlags().Lookup("records-dir"))

	rootCmd.AddCommand(
		a.newRecordCmd(),
		a.newLoadCmd(),
		a.newExportCmd(),
		a.newCommandsCmd(),
	)

	return rootCmd
}

// Execute runs the command tree and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, installs the logger and fills the command table.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := a.loader.LoadWithFile(a.cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	a.cfg = cfg

	a.logger = newLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(a.logger)

	a.registry = prometheus.NewRegistry()
	recorder := timing.NewRecorder(cfg.RecordsDir,
		timing.WithOutput(cmd.OutOrStdout()),
		timing.WithLogger(a.logger),
		timing.WithMetrics(timing.NewMetrics(a.registry)),
	)

	executor := shell.NewExecutor(cfg.Executor.Shell)
	executor.Dir = cfg.Executor.Dir
	executor.Stdout = cmd.OutOrStdout()
	executor.Stderr = cmd.ErrOrStderr()

	a.table = magic.NewTable()
	if err := timing.Setup(a.table, recorder, executor); err != nil {
		return fmt.Errorf("failed to register %s: %w", timing.CommandName, err)
	}

	a.logger.Debug("configuration loaded",
		"config_file", a.loader.GetConfigFileUsed(),
		"records_dir", cfg.RecordsDir,
		"shell", cfg.Executor.Shell)
	return nil
}

func (a *app) aggregator() *timing.Aggregator {
	return timing.NewAggregator(a.cfg.RecordsDir, timing.WithAggregatorLogger(a.logger))
}

// bind ties a flag to a config key; flags are defined right before binding.
func (a *app) bind(key string, flag *pflag.Flag) {
	_ = a.loader.BindFlag(key, flag)
}

// newLogger sets up structured logging at the configured level.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	var logLevel slog.Level

	// --verbose wins over --log-level
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			logLevel = slog.LevelDebug
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		default:
			logLevel = slog.LevelInfo
		}
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}
