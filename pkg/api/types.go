package api

import (
	"time"

	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// AnalyzeRequest is the body of POST /api/v1/analyze
type AnalyzeRequest struct {
	Entities []model.EntityNode `json:"entities"`
	// Classifier overrides the configured classifier for this request
	Classifier string `json:"classifier,omitempty"`
}

// PathsRequest is the body of POST /api/v1/paths
type PathsRequest struct {
	Entities []model.EntityNode `json:"entities"`
	Source   string             `json:"source" validate:"required"`
	Target   string             `json:"target" validate:"required"`
}

// PathsResponse lists the simple paths between two entities
type PathsResponse struct {
	Source    string     `json:"source"`
	Target    string     `json:"target"`
	Paths     [][]string `json:"paths"`
	Count     int        `json:"count"`
	Truncated bool       `json:"truncated"`
}

// ReportSummary is one entry of GET /api/v1/reports
type ReportSummary struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	Classifier string    `json:"classifier"`
	Entities   int       `json:"entities"`
	Findings   int       `json:"findings"`
	Truncated  bool      `json:"truncated"`
}

// ReportListResponse is the body of GET /api/v1/reports
type ReportListResponse struct {
	Reports []ReportSummary `json:"reports"`
	Count   int             `json:"count"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
