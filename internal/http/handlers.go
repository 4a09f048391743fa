package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

// statsReporter is implemented by view services that memoize results.
type statsReporter interface {
	Stats() map[string]cache.Stats
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":    "ok",
		"timestamp": s.clock.Now().UTC().Format(time.RFC3339),
		"uptime":    s.clock.Now().Sub(s.startedAt).Round(time.Second).String(),
		"requests":  s.tracer.GetMetrics().TotalRequests,
		"security": map[string]int64{
			"suspicious_requests": s.detector.GetMetrics().SuspiciousRequests,
			"rate_limited":        s.limiter.GetMetrics().TotalHits,
		},
	}
	if sr, ok := s.views.(statsReporter); ok {
		health["cache"] = sr.Stats()
	}
	OK(health).Write(w)
}

// handleReady verifies the backing store answers reads
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{}
	status, code := "ready", http.StatusOK
	if s.prefs == nil || s.store == nil || s.views == nil {
		checks["dependencies"] = "failed: not configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else if _, err := s.prefs.Theme(ctx); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err.Error())
		checks["storage"] = "failed"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["storage"] = "ok"
	}

	NewJSONResponse().Status(code).Payload(map[string]any{
		"status": status,
		"checks": checks,
	}).Write(w)
}

// handleCategories lists categories, optionally restricted to one type
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	typ := strings.TrimSpace(r.URL.Query().Get("type"))
	if typ == "" {
		OK(s.registry.All()).Write(w)
		return
	}
	t := core.TransactionType(strings.ToLower(typ))
	if !t.Valid() {
		BadRequestError(core.FieldType, core.ErrInvalidType.Error()).Write(w)
		return
	}
	OK(nonNil(s.registry.ByType(t))).Write(w)
}

// respondError writes the response for err. Errors outside the domain
// taxonomy are logged with their cause and reported generically.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if resp, ok := ResponseForError(err); ok {
		resp.Write(w)
		return
	}

	errorType := applog.ErrorTypeInternal
	var se *core.StorageError
	if errors.As(err, &se) {
		errorType = applog.ErrorTypeStorage
	}
	ctx := r.Context()
	applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx, "Request failed", err,
		applog.ComponentHTTP, operation, applog.NewFields().
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", "").
			WithErrorType(errorType))
	InternalServerError().Write(w)
}
