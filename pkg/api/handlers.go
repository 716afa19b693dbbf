package api

import (
	"errors"
	"net/http"

	"github.com/dd0wney/cluso-ormlens/pkg/ddd"
	"github.com/dd0wney/cluso-ormlens/pkg/logging"
	"github.com/dd0wney/cluso-ormlens/pkg/store"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	rd := s.newRequestDecoder(w, r).DecodeJSON(&req)
	if rd.ValidateModel(req.Entities).RespondError() {
		return
	}

	a, err := s.analyzer(req.Classifier)
	if errors.Is(err, ddd.ErrUnknownClassifier) {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "Analysis"))
		return
	}

	report := a.Analyze(r.Context(), req.Entities)
	s.store.Put(report)
	delivered := s.broker.PublishReport(report)
	s.logger.Debug("report published", logging.ReportID(report.ID), logging.Count(delivered))

	w.Header().Set("Location", "/api/v1/reports/"+report.ID)
	s.respondJSON(w, http.StatusCreated, report)
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	var req PathsRequest
	rd := s.newRequestDecoder(w, r).DecodeJSON(&req)
	if rd.Validate(&req).ValidateModel(req.Entities).RespondError() {
		return
	}

	a, err := s.analyzer("")
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "Path query"))
		return
	}

	result := a.Paths(r.Context(), req.Entities, req.Source, req.Target)
	s.respondJSON(w, http.StatusOK, PathsResponse{
		Source:    req.Source,
		Target:    req.Target,
		Paths:     result.Paths,
		Count:     len(result.Paths),
		Truncated: result.Truncated,
	})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports := s.store.List()
	resp := ReportListResponse{Reports: make([]ReportSummary, 0, len(reports)), Count: len(reports)}
	for _, rep := range reports {
		resp.Reports = append(resp.Reports, ReportSummary{
			ID:         rep.ID,
			CreatedAt:  rep.CreatedAt,
			Classifier: rep.Classifier,
			Entities:   len(rep.Entities),
			Findings:   len(rep.Findings),
			Truncated:  rep.Truncated,
		})
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.Get(r.PathValue("id"))
	if errors.Is(err, store.ErrReportNotFound) {
		s.respondError(w, http.StatusNotFound, "Report not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "Report lookup"))
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if !s.store.Delete(r.PathValue("id")) {
		s.respondError(w, http.StatusNotFound, "Report not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
