package http

import (
	"net/http"
	"strings"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

// handleDashboard serves totals and the category breakdown for the period
// containing the anchor date.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period := ParsePeriodQuery(q, s.clock.Today())
	breakdown := core.BreakdownType(strings.ToLower(strings.TrimSpace(q.Get(ParamBreakdown))))

	summary, err := s.views.Dashboard(period, breakdown)
	if err != nil {
		s.respondError(w, r, err, applog.OpAggregate)
		return
	}
	summary.CategoryBreakdown = nonNil(summary.CategoryBreakdown)
	OK(summary).Write(w)
}

// handleTrend serves the running balance series ending at the anchor date.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	period := ParsePeriodQuery(r.URL.Query(), s.clock.Today())

	data, err := s.views.Trend(period)
	if err != nil {
		s.respondError(w, r, err, applog.OpAggregate)
		return
	}
	data.Points = nonNil(data.Points)
	OK(data).Write(w)
}
