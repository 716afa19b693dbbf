package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-ormlens/pkg/config"
	"github.com/dd0wney/cluso-ormlens/pkg/logging"
	"github.com/dd0wney/cluso-ormlens/pkg/metrics"
)

// errFindings marks a run whose findings reached the --fail-on severity
var errFindings = errors.New("findings at or above the failure threshold")

// app carries what every subcommand needs once flags are parsed
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	logLevel   string

	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "ormlens",
		Short: "ormlens - DDD role and aggregate analysis for ORM entity models",
		Long: `ormlens reads an entity model (JSON or YAML, optionally snappy compressed,
from disk or S3, or derived from a live database schema), classifies every
entity as an aggregate root, entity, value object or reference entity,
assigns aggregates, and reports cycles, coupling and other structural issues.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")

	root.AddCommand(
		newAnalyzeCmd(a),
		newPathsCmd(a),
		newInspectCmd(a),
		newServeCmd(a),
		newBrowseCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "ormlens %s\n", version)
			},
		},
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		if !logging.ValidLevel(a.logLevel) {
			return fmt.Errorf("unknown log level %q", a.logLevel)
		}
		cfg.LogLevel = a.logLevel
	}

	a.cfg = cfg
	a.logger = logging.NewJSONLogger(a.errOut, cfg.Level())
	a.metrics = metrics.NewRegistry()
	return nil
}

func exitCode(err error) int {
	if errors.Is(err, errFindings) {
		return 2
	}
	return 1
}
