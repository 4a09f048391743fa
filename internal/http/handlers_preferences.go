package http

import (
	"net/http"

	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

type themeBody struct {
	Theme services.Theme `json:"theme"`
}

type tabBody struct {
	Tab services.Tab `json:"tab"`
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := s.prefs.Theme(r.Context())
	if err != nil {
		s.respondError(w, r, err, applog.OpRead)
		return
	}
	OK(themeBody{Theme: theme}).Write(w)
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body themeBody
	if err := DecodeJSON(w, r, &body); err != nil {
		s.respondError(w, r, err, applog.OpUpdate)
		return
	}
	if err := s.prefs.SetTheme(r.Context(), body.Theme); err != nil {
		s.respondError(w, r, err, applog.OpUpdate)
		return
	}
	OK(body).Write(w)
}

func (s *Server) handleGetTab(w http.ResponseWriter, r *http.Request) {
	tab, err := s.prefs.ActiveTab(r.Context())
	if err != nil {
		s.respondError(w, r, err, applog.OpRead)
		return
	}
	OK(tabBody{Tab: tab}).Write(w)
}

func (s *Server) handleSetTab(w http.ResponseWriter, r *http.Request) {
	var body tabBody
	if err := DecodeJSON(w, r, &body); err != nil {
		s.respondError(w, r, err, applog.OpUpdate)
		return
	}
	if err := s.prefs.SetActiveTab(r.Context(), body.Tab); err != nil {
		s.respondError(w, r, err, applog.OpUpdate)
		return
	}
	OK(body).Write(w)
}
