package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
)

// Deps are the collaborators the API is built on.
type Deps struct {
	Store    TransactionService
	Prefs    PreferenceService
	Views    ViewService
	Registry *core.CategoryRegistry
	Clock    core.Clock
	Logger   *applog.Logger

	RateLimit ratelimit.Config
}

type Server struct {
	http.Server
	store    TransactionService
	prefs    PreferenceService
	views    ViewService
	registry *core.CategoryRegistry
	clock    core.Clock
	logger   *applog.Logger

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	registry := deps.Registry
	if registry == nil {
		registry = core.DefaultRegistry()
	}

	s := &Server{
		store:     deps.Store,
		prefs:     deps.Prefs,
		views:     deps.Views,
		registry:  registry,
		clock:     deps.Clock,
		logger:    logger.WithComponent(applog.ComponentHTTP),
		limiter:   ratelimit.NewLimiter(deps.RateLimit),
		detector:  security.NewDetector(),
		startedAt: deps.Clock.Now(),
	}
	s.tracer = trace.NewMiddleware(s.logger, s.detector.ExtractClientIP)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.tracer.Middleware)
	r.Use(s.detector.Middleware(s.logger.WithComponent(applog.ComponentSecurity)))
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundResponse("route not found").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").Write(w)
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.handleCategories)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Get("/{id}", s.handleGetTransaction)
			r.Patch("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/trend", s.handleTrend)
		r.Get("/export.csv", s.handleExportCSV)

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/theme", s.handleGetTheme)
			r.Put("/theme", s.handleSetTheme)
			r.Get("/tab", s.handleGetTab)
			r.Put("/tab", s.handleSetTab)
		})
	})
	return r
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
}

// Shutdown stops background routines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
