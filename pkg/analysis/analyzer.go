// Package analysis runs the full pipeline over one entity model: build the
// graph, collect structural facts, classify roles, propagate aggregates,
// evaluate rules and assemble a Report.
//
// An analysis never fails. Dangling references are dropped, duplicate names
// resolve to the first occurrence, and searches that exceed their limits or
// the deadline mark the report truncated instead of returning an error.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-ormlens/pkg/algorithms"
	"github.com/dd0wney/cluso-ormlens/pkg/ddd"
	"github.com/dd0wney/cluso-ormlens/pkg/graph"
	"github.com/dd0wney/cluso-ormlens/pkg/logging"
	"github.com/dd0wney/cluso-ormlens/pkg/metrics"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
	"github.com/dd0wney/cluso-ormlens/pkg/parallel"
	"github.com/dd0wney/cluso-ormlens/pkg/rules"
)

// Analyzer analyzes entity models. It holds no per-run state and is safe
// for concurrent use.
type Analyzer struct {
	opts       Options
	classifier ddd.Classifier
	runner     *rules.Runner
	logger     logging.Logger
	metrics    *metrics.Registry
}

// New creates an analyzer. logger and reg may be nil.
func New(opts Options, logger logging.Logger, reg *metrics.Registry) (*Analyzer, error) {
	classifier, err := ddd.New(opts.Classifier, opts.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	opts.Limits = opts.Limits.Normalize()

	return &Analyzer{
		opts:       opts,
		classifier: classifier,
		runner:     rules.NewRunner(rules.NewGraphRule(opts.Rules)),
		logger:     logging.OrNop(logger).With(logging.Component("analyzer")),
		metrics:    reg,
	}, nil
}

// Options returns the analyzer options with limits normalized
func (a *Analyzer) Options() Options {
	return a.opts
}

// Classifier returns the name of the classifier in use
func (a *Analyzer) Classifier() string {
	return a.classifier.Name()
}

// Analyze runs the whole pipeline over nodes. The input is never modified;
// the report carries annotated copies.
func (a *Analyzer) Analyze(ctx context.Context, nodes []model.EntityNode) *Report {
	if ctx == nil {
		ctx = context.Background()
	}
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	id := uuid.NewString()
	timer := logging.StartTimer(a.logger, "analysis completed",
		logging.ReportID(id), logging.Classifier(a.classifier.Name()))
	a.logger.Debug("analysis started", logging.ReportID(id), logging.Count(len(nodes)))

	g := graph.Build(nodes)
	for _, dup := range g.Duplicates() {
		a.logger.Warn("duplicate entity ignored", logging.ReportID(id), logging.Entity(dup))
	}

	facts := rules.Collect(ctx, g, a.opts.Limits, a.opts.NameSimilarity)

	assigned := ddd.Assign(g, a.classifier, a.opts.Limits.MaxDepth)
	if assigned.Truncated {
		facts.MarkTruncated(rules.StagePropagation)
	}

	findings := a.runner.Run(facts).Findings

	report := &Report{
		ID:         id,
		CreatedAt:  time.Now().UTC(),
		Classifier: a.classifier.Name(),
		Entities:   assigned.Annotate(nodes),
		Findings:   findings,
		Aggregates: ddd.GroupAggregates(g, assigned),
		Cuts:       ddd.RecommendCuts(g, assigned),
		Summary:    summarize(g, facts, assigned, findings),
	}
	report.TruncatedStages = append([]string(nil), facts.Truncated...)
	report.Truncated = len(report.TruncatedStages) > 0
	report.Duration = timer.Elapsed()

	for _, stage := range report.TruncatedStages {
		a.logger.Warn("search truncated", logging.ReportID(id), logging.Stage(stage))
	}
	timer.End(
		logging.Int("entities", g.VertexCount()),
		logging.Int("findings", len(findings)),
		logging.Bool("truncated", report.Truncated),
	)

	a.record(report)
	return report
}

// mostReferencedCount bounds Summary.MostReferenced
const mostReferencedCount = 5

func summarize(g *graph.Graph, f *rules.Facts, assigned ddd.Result, findings []model.Finding) Summary {
	s := Summary{
		EntityCount:       g.VertexCount(),
		RelationshipCount: g.EdgeCount(),
		Roots:             f.Roots,
		Leaves:            f.Leaves,
		CycleVertices:     f.Cycles,
		DeepCycleVertices: f.DeepCycles.Vertices,
		SelfReferences:    f.SelfRefs,
		Components:        f.SCC.NonTrivial(1),
		CycleStats:        algorithms.AnalyzeCycles(algorithms.DetectCycles(g)),
		Hierarchies:       f.Hierarchies,
		Coupling:          algorithms.Coupling(g),
		MostReferenced:    algorithms.PageRank(g, algorithms.DefaultPageRankOptions()).Top(mostReferencedCount),
		Dangling:          g.Dangling(),
		Duplicates:        g.Duplicates(),
		Roles:             assigned.CountRoles(),
		Severities:        model.CountBySeverity(findings),
	}
	if s.Components == nil {
		s.Components = make([]*algorithms.Component, 0)
	}

	if order, err := algorithms.FlushOrder(g); err == nil {
		s.Acyclic = true
		s.FlushOrder = order
	}
	return s
}

func (a *Analyzer) record(r *Report) {
	if a.metrics == nil {
		return
	}

	obs := metrics.AnalysisObservation{
		Duration:  r.Duration,
		Entities:  r.Summary.EntityCount,
		Findings:  make(map[string]int, len(r.Summary.Severities)),
		Roles:     make(map[string]int, len(r.Summary.Roles)),
		Truncated: r.TruncatedStages,
	}
	for sev, n := range r.Summary.Severities {
		obs.Findings[string(sev)] = n
	}
	for role, n := range r.Summary.Roles {
		obs.Roles[string(role)] = n
	}
	a.metrics.RecordAnalysis(obs)
}

// Paths enumerates simple paths between two entities of nodes, bounded by
// the analyzer limits and deadline.
func (a *Analyzer) Paths(ctx context.Context, nodes []model.EntityNode, source, target string) algorithms.PathResult {
	if ctx == nil {
		ctx = context.Background()
	}
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	result := algorithms.Paths(ctx, graph.Build(nodes), source, target, a.opts.Limits)
	if result.Truncated {
		a.logger.Warn("path enumeration truncated",
			logging.Stage(rules.StagePaths), logging.Count(len(result.Paths)))
	}
	if a.metrics != nil {
		a.metrics.RecordPathQuery(result.Truncated)
	}
	return result
}

// AnalyzeBatch analyzes independent models concurrently on up to workers
// goroutines (NumCPU when zero). Reports come back in input order; models
// left unstarted when ctx ends have a nil report.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, models [][]model.EntityNode, workers int) ([]*Report, error) {
	reports, err := parallel.Map(ctx, workers, a.logger, models, a.Analyze)
	if err != nil {
		return reports, fmt.Errorf("batch analysis interrupted: %w", err)
	}
	return reports, nil
}
