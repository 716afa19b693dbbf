// Package tui is an interactive terminal browser for analysis reports.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-ormlens/pkg/analysis"
	"github.com/dd0wney/cluso-ormlens/pkg/ddd"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
	"github.com/dd0wney/cluso-ormlens/pkg/report"
)

type view int

const (
	overviewView view = iota
	entitiesView
	findingsView
	aggregatesView
	numViews
)

var viewNames = []string{"Overview", "Entities", "Findings", "Aggregates"}

// Model is the bubbletea model of the report browser
type Model struct {
	report       *analysis.Report
	currentView  view
	filterInput  textinput.Model
	filtering    bool
	entityTable  table.Model
	findingTable table.Model
	help         help.Model
	keys         keyMap
	width        int
	height       int
}

// New creates a browser over r
func New(r *analysis.Report) Model {
	ti := textinput.New()
	ti.Placeholder = "name, role or severity"
	ti.CharLimit = 100
	ti.Width = 40

	m := Model{
		report:      r,
		currentView: overviewView,
		filterInput: ti,
		entityTable: newTable([]table.Column{
			{Title: "Entity", Width: 28},
			{Title: "Role", Width: 18},
			{Title: "Aggregate", Width: 24},
			{Title: "Rels", Width: 5},
		}),
		findingTable: newTable([]table.Column{
			{Title: "Severity", Width: 9},
			{Title: "Check", Width: 20},
			{Title: "Entity", Width: 20},
			{Title: "Message", Width: 60},
		}),
		help: help.New(),
		keys: keys,
	}
	m.refreshRows()
	return m
}

// Run opens the browser full screen and blocks until the user quits
func Run(r *analysis.Report) error {
	p := tea.NewProgram(New(r), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.Type {
			case tea.KeyEnter:
				m.filtering = false
				m.filterInput.Blur()
				return m, nil
			case tea.KeyEsc:
				m.filtering = false
				m.filterInput.Blur()
				m.filterInput.SetValue("")
				m.refreshRows()
				return m, nil
			}
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.refreshRows()
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % numViews
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.currentView = (m.currentView + numViews - 1) % numViews
			return m, nil

		case key.Matches(msg, m.keys.Filter):
			if m.currentView == entitiesView || m.currentView == findingsView {
				m.filtering = true
				return m, m.filterInput.Focus()
			}

		case key.Matches(msg, m.keys.Escape):
			m.filterInput.SetValue("")
			m.refreshRows()
			return m, nil
		}
	}

	// Update focused component
	switch m.currentView {
	case entitiesView:
		m.entityTable, cmd = m.entityTable.Update(msg)
	case findingsView:
		m.findingTable, cmd = m.findingTable.Update(msg)
	}
	return m, cmd
}

// refreshRows rebuilds both tables from the report and the current filter
func (m *Model) refreshRows() {
	filter := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))

	entityRows := make([]table.Row, 0)
	if m.report != nil {
		for _, e := range m.report.Entities {
			if !matches(filter, e.Name, string(e.Role), e.Aggregate) {
				continue
			}
			entityRows = append(entityRows, table.Row{
				e.Name,
				string(e.Role),
				e.Aggregate,
				fmt.Sprintf("%d", len(e.Relationships)),
			})
		}
	}
	m.entityTable.SetRows(entityRows)
	m.entityTable.SetCursor(0)

	findingRows := make([]table.Row, 0)
	if m.report != nil {
		for _, f := range m.report.Findings {
			if !matches(filter, string(f.Severity), f.Check, f.Entity, f.Message) {
				continue
			}
			findingRows = append(findingRows, table.Row{string(f.Severity), f.Check, f.Entity, f.Message})
		}
	}
	m.findingTable.SetRows(findingRows)
	m.findingTable.SetCursor(0)
}

func matches(filter string, fields ...string) bool {
	if filter == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), filter) {
			return true
		}
	}
	return false
}

func (m Model) View() string {
	if m.report == nil {
		return errorStyle.Render("No report loaded")
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("ormlens · report " + m.report.ID))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case overviewView:
		s.WriteString(m.renderOverview())
	case entitiesView:
		s.WriteString(m.renderEntities())
	case findingsView:
		s.WriteString(m.renderFindings())
	case aggregatesView:
		s.WriteString(m.renderAggregates())
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m Model) renderTabs() string {
	renderedTabs := make([]string, 0, len(viewNames))
	for i, name := range viewNames {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(name))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m Model) renderOverview() string {
	r := m.report
	sum := r.Summary

	stats := fmt.Sprintf(`Model
━━━━━━━━━━━━━━━
Classifier:     %s
Entities:       %d
Relationships:  %d
Acyclic:        %v
Truncated:      %v
Took:           %s`,
		r.Classifier,
		sum.EntityCount,
		sum.RelationshipCount,
		sum.Acyclic,
		r.Truncated,
		r.Duration,
	)

	var roles strings.Builder
	roles.WriteString("Roles\n━━━━━━━━━━━━━━━")
	for _, role := range []model.Role{model.RoleAggregateRoot, model.RoleEntity, model.RoleValueObject, model.RoleReferenceEntity} {
		fmt.Fprintf(&roles, "\n%s %d", report.RoleStyle(role).Render(fmt.Sprintf("%-17s", role)), sum.Roles[role])
	}
	roles.WriteString("\n\nFindings\n━━━━━━━━━━━━━━━")
	for _, sev := range []model.Severity{model.SeverityError, model.SeverityWarning, model.SeverityInfo} {
		fmt.Fprintf(&roles, "\n%s %d", report.SeverityStyle(sev).Render(fmt.Sprintf("%-17s", sev)), sum.Severities[sev])
	}

	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(stats),
		statsBoxStyle.Render(roles.String()),
	))
}

func (m Model) renderFilter() string {
	if m.filtering || m.filterInput.Value() != "" {
		return "Filter: " + m.filterInput.View() + "\n\n"
	}
	return ""
}

func (m Model) renderEntities() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Entity Browser"))
	s.WriteString("\n\n")
	s.WriteString(m.renderFilter())
	s.WriteString(m.entityTable.View())

	if row := m.entityTable.SelectedRow(); row != nil {
		if e, ok := m.report.Entity(row[0]); ok {
			s.WriteString("\n\n")
			s.WriteString(detailBoxStyle.Render(entityDetail(e)))
		}
	}

	return contentStyle.Render(s.String())
}

func entityDetail(e model.EntityNode) string {
	var s strings.Builder
	fmt.Fprintf(&s, "%s  %s", e.Name, report.RoleStyle(e.Role).Render(string(e.Role)))
	if e.Package != "" {
		fmt.Fprintf(&s, "\npackage %s", e.Package)
	}
	fmt.Fprintf(&s, "\nkind %s, %d attributes", e.DeclaredKind(), e.Attrs())

	if len(e.Relationships) == 0 {
		s.WriteString("\n\nno relationships")
		return s.String()
	}

	rels := append([]model.Relationship(nil), e.Relationships...)
	sort.SliceStable(rels, func(i, j int) bool { return rels[i].Attribute < rels[j].Attribute })
	s.WriteString("\n")
	for _, rel := range rels {
		w := ddd.EdgeWeight(&rel)
		fmt.Fprintf(&s, "\n  %s → %s  %s  weight %.1f", rel.Attribute, rel.Target, rel.Mapping, w.Value)
	}
	return s.String()
}

func (m Model) renderFindings() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Findings"))
	s.WriteString("\n\n")
	s.WriteString(m.renderFilter())
	s.WriteString(m.findingTable.View())

	return contentStyle.Render(s.String())
}

func (m Model) renderAggregates() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Aggregates"))
	s.WriteString("\n\n")

	if len(m.report.Aggregates) == 0 {
		s.WriteString(helpStyle.Render("No aggregates"))
	}
	for _, a := range m.report.Aggregates {
		root := a.Root
		if root == "" {
			root = "-"
		}
		fmt.Fprintf(&s, "◉ %s (root %s)\n", a.Name, root)
		for _, member := range a.Members {
			fmt.Fprintf(&s, "  └─ %s\n", member)
		}
	}

	if len(m.report.Cuts) > 0 {
		s.WriteString("\n")
		s.WriteString(headerStyle.Render("Suggested Cuts"))
		s.WriteString("\n\n")
		for _, c := range m.report.Cuts {
			fmt.Fprintf(&s, "✂ %s.%s → %s\n    %s\n    %s\n", c.Source, c.Attribute, c.Target, c.Reason, c.Action)
		}
	}

	return contentStyle.Render(s.String())
}
