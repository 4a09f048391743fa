package http

import (
	"fmt"
	"net/http"

	"fintrack/internal/export"
	"fintrack/internal/filter"
	applog "fintrack/internal/log"
)

// handleExportCSV downloads the filtered transaction list as CSV.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria, err := filter.FromQuery(q)
	if err != nil {
		s.respondError(w, r, err, applog.OpExport)
		return
	}
	header, err := ParseBoolQuery(q, ParamHeader, true)
	if err != nil {
		s.respondError(w, r, err, applog.OpExport)
		return
	}

	txs := s.views.Transactions(criteria.WithDefaultSort())
	body, err := export.Marshal(txs, s.registry, export.Options{Header: header})
	if err != nil {
		s.respondError(w, r, fmt.Errorf("encode csv: %w", err), applog.OpExport)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(s.clock.Now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transactions exported",
		applog.FieldOperation, applog.OpExport,
		"rows", len(txs))
}
