package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-commandmesh/pkg/codec"
	"github.com/dd0wney/cluso-commandmesh/pkg/logging"
	"github.com/dd0wney/cluso-commandmesh/pkg/metrics"
	"github.com/dd0wney/cluso-commandmesh/pkg/pipeline"
)

// app holds the global flags and what PersistentPreRunE builds from them
type app struct {
	configPath string
	logLevel   string
	output     string
	outPath    string
	dumpStats  bool

	config   pipeline.Config
	format   codec.Format
	logger   logging.Logger
	registry *metrics.Registry
}

// Execute runs the root command until it finishes or the process is
// interrupted
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "meshctl",
		Short: "Plan and validate command network runs",
		Long: `meshctl reads a command network snapshot and runtime intents
(JSON, YAML or snappy frames) and runs them through the orchestration
pipeline: graph build, validation, drift scoring, scheduling and health.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Pipeline config file (YAML)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug|info|warn|error); defaults to $"+logging.EnvLogLevel+" or warn")
	flags.StringVarP(&a.output, "output", "o", string(codec.FormatJSON), "Output format (json|yaml)")
	flags.StringVar(&a.outPath, "out", "", "Also write the output to this file; format from extension (.json, .yaml, .msh)")
	flags.BoolVar(&a.dumpStats, "metrics", false, "Print collected metrics to stderr in Prometheus text format")

	root.AddCommand(
		newRunCmd(a),
		newValidateCmd(a),
		newScheduleCmd(a),
		newSummaryCmd(a),
	)
	return root
}

// setup loads config and builds the logger and metrics registry
func (a *app) setup(cmd *cobra.Command, args []string) error {
	format, err := codec.ParseFormat(a.output)
	if err != nil {
		return err
	}
	if format == codec.FormatSnappy {
		// binary frames only go to files
		format = codec.FormatJSON
	}
	a.format = format

	config, err := pipeline.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.config = config

	level := a.logLevel
	if level == "" {
		level = os.Getenv(logging.EnvLogLevel)
	}
	if level == "" {
		level = logging.WarnLevel.String()
	}
	logLevel, ok := logging.LookupLevel(level)
	if !ok {
		return fmt.Errorf("invalid log level %q: want debug, info, warn or error", level)
	}
	a.logger = logging.NewJSONLogger(cmd.ErrOrStderr(), logLevel).
		With(logging.Operation(cmd.Name()))
	a.registry = metrics.NewRegistry()
	return nil
}

// finish dumps metrics if requested
func (a *app) finish(cmd *cobra.Command) error {
	if !a.dumpStats {
		return nil
	}
	return a.registry.WriteText(cmd.ErrOrStderr())
}
