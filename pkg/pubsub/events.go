package pubsub

import (
	"time"

	"github.com/dd0wney/cluso-ormlens/pkg/analysis"
)

// TopicAnalysisCompleted carries a ReportEvent for every finished analysis
const TopicAnalysisCompleted = "analysis.completed"

// ReportEvent summarizes a finished analysis
type ReportEvent struct {
	ReportID   string         `json:"reportId"`
	CreatedAt  time.Time      `json:"createdAt"`
	Classifier string         `json:"classifier"`
	Entities   int            `json:"entities"`
	Findings   int            `json:"findings"`
	Aggregates int            `json:"aggregates"`
	Severities map[string]int `json:"severities"`
	Truncated  bool           `json:"truncated"`
}

// NewReportEvent builds the event for r
func NewReportEvent(r *analysis.Report) ReportEvent {
	sev := make(map[string]int, len(r.Summary.Severities))
	for s, n := range r.Summary.Severities {
		sev[string(s)] = n
	}
	return ReportEvent{
		ReportID:   r.ID,
		CreatedAt:  r.CreatedAt,
		Classifier: r.Classifier,
		Entities:   len(r.Entities),
		Findings:   len(r.Findings),
		Aggregates: len(r.Aggregates),
		Severities: sev,
		Truncated:  r.Truncated,
	}
}

// PublishReport announces r on TopicAnalysisCompleted
func (b *Broker) PublishReport(r *analysis.Report) int {
	return b.Publish(TopicAnalysisCompleted, NewReportEvent(r))
}
