package analysis

import (
	"time"

	"github.com/dd0wney/cluso-ormlens/pkg/algorithms"
	"github.com/dd0wney/cluso-ormlens/pkg/ddd"
	"github.com/dd0wney/cluso-ormlens/pkg/rules"
)

// Options configure an Analyzer
type Options struct {
	// Classifier is a registered ddd classifier name; empty selects "heuristic"
	Classifier     string
	Thresholds     ddd.Thresholds
	Rules          rules.GraphThresholds
	Limits         algorithms.Limits
	NameSimilarity bool
	// Timeout bounds a whole analysis; zero means no deadline beyond the caller's
	Timeout time.Duration
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Classifier:     ddd.HeuristicName,
		Thresholds:     ddd.DefaultThresholds(),
		Rules:          rules.DefaultGraphThresholds(),
		Limits:         algorithms.DefaultLimits(),
		NameSimilarity: true,
	}
}
