package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-ormlens/pkg/analysis"
	"github.com/dd0wney/cluso-ormlens/pkg/loader"
	"github.com/dd0wney/cluso-ormlens/pkg/logging"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
	"github.com/dd0wney/cluso-ormlens/pkg/report"
	"github.com/dd0wney/cluso-ormlens/pkg/validation"
	"github.com/dd0wney/cluso-ormlens/pkg/visualization"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// analyzeFlags are shared by analyze and inspect
type analyzeFlags struct {
	format      string
	output      string
	layout      string
	classifier  string
	timeout     time.Duration
	minSeverity string
	failOn      string
	workers     int
}

func (f *analyzeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", formatText, "Output format (text, json)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write the JSON report to this file (.sz or .snappy compresses)")
	cmd.Flags().StringVar(&f.layout, "layout", "", fmt.Sprintf("Attach a graph layout to JSON output %v", visualization.Names()))
	cmd.Flags().StringVar(&f.classifier, "classifier", "", "Role classifier; overrides config")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Analysis deadline; overrides config")
	cmd.Flags().StringVar(&f.minSeverity, "min-severity", "", "Hide findings below this severity in text output")
	cmd.Flags().StringVar(&f.failOn, "fail-on", "", "Exit with status 2 when a finding has at least this severity")
}

func (f *analyzeFlags) validate() error {
	if f.format != formatText && f.format != formatJSON {
		return fmt.Errorf("unknown format %q (available: text, json)", f.format)
	}
	for _, s := range []string{f.minSeverity, f.failOn} {
		if s != "" && !model.ValidSeverity(model.Severity(s)) {
			return fmt.Errorf("unknown severity %q", s)
		}
	}
	return nil
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze <model>...",
		Short: "Classify the entities of one or more models and report findings",
		Long: `Loads each model (a file path or s3://bucket/key; .json, .yaml or .yml,
optionally with a .sz/.snappy suffix), validates it and analyzes it.

Example:
  ormlens analyze shop.yaml
  ormlens analyze shop.json.sz --format json --layout hierarchical
  ormlens analyze s3://models/shop.yaml --output report.json.sz
  ormlens analyze a.yaml b.yaml c.yaml --workers 3 --fail-on ERROR`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			if flags.output != "" && len(args) > 1 {
				return fmt.Errorf("--output takes a single model")
			}

			ctx := cmd.Context()
			models := make([][]model.EntityNode, 0, len(args))
			for _, src := range args {
				nodes, err := a.loadModel(ctx, src)
				if err != nil {
					return err
				}
				models = append(models, nodes)
			}

			analyzer, err := a.analyzer(flags.classifier, flags.timeout)
			if err != nil {
				return err
			}

			var reports []*analysis.Report
			if len(models) == 1 {
				reports = []*analysis.Report{analyzer.Analyze(ctx, models[0])}
			} else if reports, err = analyzer.AnalyzeBatch(ctx, models, flags.workers); err != nil {
				return err
			}

			return a.emit(reports, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "Concurrent analyses when several models are given (0 = one per CPU)")
	return cmd
}

// loadModel reads and validates one model source
func (a *app) loadModel(ctx context.Context, src string) ([]model.EntityNode, error) {
	l := loader.New(a.logger, a.metrics, loader.WithS3Options(a.cfg.S3Options()))
	nodes, err := l.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateModel(nodes); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", src, err)
	}
	return nodes, nil
}

// analyzer builds an analyzer from config with command line overrides
func (a *app) analyzer(classifier string, timeout time.Duration) (*analysis.Analyzer, error) {
	opts := a.cfg.AnalysisOptions()
	if classifier != "" {
		opts.Classifier = classifier
	}
	if timeout > 0 {
		opts.Timeout = timeout
	}
	return analysis.New(opts, a.logger, a.metrics)
}

// emit prints or writes the reports and applies --fail-on
func (a *app) emit(reports []*analysis.Report, flags *analyzeFlags) error {
	docs := make([]*report.Document, 0, len(reports))
	for _, r := range reports {
		doc, err := report.NewDocument(r, flags.layout, visualization.DefaultLayoutConfig())
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	if flags.output != "" {
		if err := report.WriteFile(flags.output, docs[0]); err != nil {
			return err
		}
		a.logger.Info("report written", logging.String("path", flags.output), logging.ReportID(docs[0].ID))
	}

	switch {
	case flags.format == formatJSON && len(docs) == 1:
		if err := report.WriteJSON(a.out, docs[0]); err != nil {
			return err
		}
	case flags.format == formatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("failed to encode reports: %w", err)
		}
	default:
		opts := report.TextOptions{MinSeverity: model.Severity(flags.minSeverity)}
		for _, r := range reports {
			if err := report.WriteText(a.out, r, opts); err != nil {
				return err
			}
		}
	}

	if flags.failOn != "" {
		for _, r := range reports {
			if model.AtLeast(r.Findings, model.Severity(flags.failOn)) {
				return errFindings
			}
		}
	}
	return nil
}
