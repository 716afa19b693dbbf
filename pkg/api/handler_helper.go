package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dd0wney/cluso-ormlens/pkg/logging"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
	"github.com/dd0wney/cluso-ormlens/pkg/validation"
)

// sanitizeError logs an internal error and returns a message safe to show
// clients.
func (s *Server) sanitizeError(err error, operation string) string {
	if err == nil {
		return ""
	}
	s.logger.Error(operation+" failed", logging.Error(err))
	return fmt.Sprintf("%s failed", operation)
}

// requestDecoder decodes and validates request bodies.
// The first failure sticks; later steps are skipped.
type requestDecoder struct {
	r          *http.Request
	w          http.ResponseWriter
	server     *Server
	err        error
	statusCode int
}

func (s *Server) newRequestDecoder(w http.ResponseWriter, r *http.Request) *requestDecoder {
	return &requestDecoder{r: r, w: w, server: s}
}

// DecodeJSON decodes the request body into v
func (rd *requestDecoder) DecodeJSON(v any) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	dec := json.NewDecoder(rd.r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		rd.statusCode = http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rd.statusCode = http.StatusRequestEntityTooLarge
		}
		rd.err = fmt.Errorf("invalid request body: %w", err)
	}
	return rd
}

// Validate runs struct tag validation on v
func (rd *requestDecoder) Validate(v any) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := validation.ValidateStruct(v); err != nil {
		rd.err = err
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// ValidateModel checks an entity model before it is analyzed
func (rd *requestDecoder) ValidateModel(nodes []model.EntityNode) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := validation.ValidateModel(nodes); err != nil {
		rd.err = err
		rd.statusCode = http.StatusUnprocessableEntity
	}
	return rd
}

// RespondError writes the error response and reports whether there was one
func (rd *requestDecoder) RespondError() bool {
	if rd.err == nil {
		return false
	}
	rd.server.respondError(rd.w, rd.statusCode, rd.err.Error())
	return true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
