package main

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-ormlens/pkg/analysis"
	"github.com/dd0wney/cluso-ormlens/pkg/report"
	"github.com/dd0wney/cluso-ormlens/pkg/tui"
)

func newBrowseCmd(a *app) *cobra.Command {
	var (
		saved      bool
		classifier string
	)

	cmd := &cobra.Command{
		Use:   "browse <model|report>",
		Short: "Explore an analysis interactively",
		Long: `Opens a terminal browser over the analysis of a model, or over a report
previously written with "analyze --output" when --report is given.

Example:
  ormlens browse shop.yaml
  ormlens browse --report report.json.sz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.browseTarget(cmd, args[0], saved, classifier)
			if err != nil {
				return err
			}
			return tui.Run(r)
		},
	}

	cmd.Flags().BoolVar(&saved, "report", false, "The argument is a saved report, not a model")
	cmd.Flags().StringVar(&classifier, "classifier", "", "Role classifier; overrides config")
	return cmd
}

func (a *app) browseTarget(cmd *cobra.Command, path string, saved bool, classifier string) (*analysis.Report, error) {
	if saved {
		doc, err := report.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return doc.Report, nil
	}

	nodes, err := a.loadModel(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	analyzer, err := a.analyzer(classifier, 0)
	if err != nil {
		return nil, err
	}
	return analyzer.Analyze(cmd.Context(), nodes), nil
}
