package api

import (
	"net/http"
	"strings"

	"github.com/dd0wney/cluso-ormlens/pkg/auth"
	"github.com/dd0wney/cluso-ormlens/pkg/logging"
)

// requireRole guards next with bearer token verification. Without a
// validator every request passes.
func (s *Server) requireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.validator == nil {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			s.metrics.AuthFailuresTotal.Inc()
			w.Header().Set("WWW-Authenticate", `Bearer realm="ormlens"`)
			s.respondError(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		claims, err := s.validator.ValidateToken(r.Context(), token)
		if err != nil {
			s.metrics.AuthFailuresTotal.Inc()
			s.logger.Debug("token validation failed", logging.Error(err))
			w.Header().Set("WWW-Authenticate", `Bearer realm="ormlens", error="invalid_token"`)
			s.respondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if !claims.Allows(role) {
			s.respondError(w, http.StatusForbidden, "Role "+claims.Role+" may not access this resource")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}
