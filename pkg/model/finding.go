package model

// Severity of a structural finding
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Rank orders severities from least to most severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// ValidSeverity reports whether s is one of the known severities
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// Finding is one diagnostic emitted by a rule.
type Finding struct {
	RuleID   string   `json:"ruleId"`
	Check    string   `json:"check,omitempty"`
	Severity Severity `json:"severity"`
	Entity   string   `json:"entity,omitempty"`
	Message  string   `json:"message"`
}

// CountBySeverity tallies findings per severity.
func CountBySeverity(findings []Finding) map[Severity]int {
	counts := make(map[Severity]int, 3)
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}

// AtLeast reports whether any finding is at least as severe as min.
func AtLeast(findings []Finding, min Severity) bool {
	for _, f := range findings {
		if f.Severity.Rank() >= min.Rank() {
			return true
		}
	}
	return false
}
