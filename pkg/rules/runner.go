package rules

import (
	"time"

	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// Result contains the findings of running a set of rules
type Result struct {
	Findings  []model.Finding
	CheckedAt time.Time
}

// BySeverity returns the findings of the given severity
func (r *Result) BySeverity(severity model.Severity) []model.Finding {
	filtered := make([]model.Finding, 0)
	for _, f := range r.Findings {
		if f.Severity == severity {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// ByCheck returns the findings of one check
func (r *Result) ByCheck(check string) []model.Finding {
	filtered := make([]model.Finding, 0)
	for _, f := range r.Findings {
		if f.Check == check {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// Runner manages a set of rules and runs them against collected facts
type Runner struct {
	rules []Rule
}

// NewRunner creates a runner with the given rules
func NewRunner(rules ...Rule) *Runner {
	return &Runner{rules: append([]Rule(nil), rules...)}
}

// AddRule appends a rule
func (r *Runner) AddRule(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Rules returns the registered rules
func (r *Runner) Rules() []Rule {
	return r.rules
}

// Run evaluates every rule in registration order.
func (r *Runner) Run(f *Facts) *Result {
	result := &Result{
		Findings:  make([]model.Finding, 0),
		CheckedAt: time.Now(),
	}
	for _, rule := range r.rules {
		result.Findings = append(result.Findings, rule.Check(f)...)
	}
	return result
}
