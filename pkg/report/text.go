package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-ormlens/pkg/analysis"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			MarginTop(1)

	summaryBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2)

	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	roleStyles = map[model.Role]lipgloss.Style{
		model.RoleAggregateRoot:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF00FF")).Bold(true),
		model.RoleEntity:          lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
		model.RoleValueObject:     lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		model.RoleReferenceEntity: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF")),
	}
)

// SeverityStyle returns the style findings of the given severity render with
func SeverityStyle(s model.Severity) lipgloss.Style {
	switch s {
	case model.SeverityError:
		return errorStyle
	case model.SeverityWarning:
		return warningStyle
	default:
		return infoStyle
	}
}

// RoleStyle returns the style entities of the given role render with
func RoleStyle(r model.Role) lipgloss.Style {
	if s, ok := roleStyles[r]; ok {
		return s
	}
	return infoStyle
}

// TextOptions tunes RenderText
type TextOptions struct {
	// MinSeverity hides findings below it. Empty shows everything.
	MinSeverity model.Severity
	// HideEntities skips the per-entity table
	HideEntities bool
}

// RenderText renders a human readable summary of r
func RenderText(r *analysis.Report, opts TextOptions) string {
	if r == nil {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("ormlens report " + r.ID))
	s.WriteString("\n")
	s.WriteString(summaryBoxStyle.Render(renderSummary(r)))
	s.WriteString("\n")

	if !opts.HideEntities && len(r.Entities) > 0 {
		s.WriteString(headerStyle.Render("Entities"))
		s.WriteString("\n")
		s.WriteString(renderEntities(r.Entities))
	}

	if len(r.Aggregates) > 0 {
		s.WriteString(headerStyle.Render("Aggregates"))
		s.WriteString("\n")
		for _, a := range r.Aggregates {
			root := a.Root
			if root == "" {
				root = "-"
			}
			fmt.Fprintf(&s, "  %s (root %s): %s\n", a.Name, root, strings.Join(a.Members, ", "))
		}
	}

	if len(r.Cuts) > 0 {
		s.WriteString(headerStyle.Render("Suggested cuts"))
		s.WriteString("\n")
		for _, c := range r.Cuts {
			fmt.Fprintf(&s, "  %s.%s -> %s  %s (weight %.1f)\n    %s\n",
				c.Source, c.Attribute, c.Target, c.Reason, c.Weight, c.Action)
		}
	}

	findings := filterFindings(r.Findings, opts.MinSeverity)
	s.WriteString(headerStyle.Render(fmt.Sprintf("Findings (%d)", len(findings))))
	s.WriteString("\n")
	if len(findings) == 0 {
		s.WriteString(infoStyle.Render("  none"))
		s.WriteString("\n")
	}
	for _, f := range findings {
		s.WriteString("  ")
		s.WriteString(SeverityStyle(f.Severity).Render(fmt.Sprintf("%-7s", f.Severity)))
		if f.Entity != "" {
			fmt.Fprintf(&s, " [%s]", f.Entity)
		}
		fmt.Fprintf(&s, " %s\n", f.Message)
	}

	return s.String()
}

// WriteText writes RenderText output to w
func WriteText(w io.Writer, r *analysis.Report, opts TextOptions) error {
	if r == nil {
		return ErrEmptyReport
	}
	_, err := io.WriteString(w, RenderText(r, opts))
	return err
}

func renderSummary(r *analysis.Report) string {
	sum := r.Summary
	lines := []string{
		fmt.Sprintf("Classifier:     %s", r.Classifier),
		fmt.Sprintf("Entities:       %d", sum.EntityCount),
		fmt.Sprintf("Relationships:  %d", sum.RelationshipCount),
		fmt.Sprintf("Roots:          %s", joinOrDash(sum.Roots)),
		fmt.Sprintf("Acyclic:        %v", sum.Acyclic),
	}

	roles := make([]string, 0, len(sum.Roles))
	for role, n := range sum.Roles {
		roles = append(roles, fmt.Sprintf("%s=%d", role, n))
	}
	sort.Strings(roles)
	lines = append(lines, fmt.Sprintf("Roles:          %s", joinOrDash(roles)))

	referenced := make([]string, 0, len(sum.MostReferenced))
	for _, v := range sum.MostReferenced {
		referenced = append(referenced, fmt.Sprintf("%s (%.2f)", v.Name, v.Score))
	}
	lines = append(lines, fmt.Sprintf("Most referenced: %s", joinOrDash(referenced)))

	if r.Truncated {
		lines = append(lines, warningStyle.Render(
			fmt.Sprintf("Truncated:      %s", strings.Join(r.TruncatedStages, ", "))))
	}
	return strings.Join(lines, "\n")
}

func renderEntities(entities []model.EntityNode) string {
	width := 0
	for _, e := range entities {
		width = max(width, len(e.Name))
	}

	var s strings.Builder
	for _, e := range entities {
		role := RoleStyle(e.Role).Render(fmt.Sprintf("%-16s", e.Role))
		fmt.Fprintf(&s, "  %-*s  %s  %s\n", width, e.Name, role, e.Aggregate)
	}
	return s.String()
}

func filterFindings(findings []model.Finding, min model.Severity) []model.Finding {
	if min == "" {
		return findings
	}
	out := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		if f.Severity.Rank() >= min.Rank() {
			out = append(out, f)
		}
	}
	return out
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
