// Package server exposes survey sessions over HTTP. Each session owns one
// orchestrator; the HTML flow posts whole forms while the JSON routes drive
// single field edits.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-surveyform/pkg/metrics"
	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/render"
	theme "github.com/goliatone/go-theme"
)

// Option customises the server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry sets the renderers used for GET /sessions/{id}. The first
// registered renderer answers requests without a matching Accept header.
func WithRegistry(registry *render.Registry) Option {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithOrchestratorOptions are applied to every session's orchestrator.
func WithOrchestratorOptions(options ...orchestrator.Option) Option {
	return func(s *Server) {
		s.orchOptions = append(s.orchOptions, options...)
	}
}

// WithMetrics wires the collector as every orchestrator's observer and serves
// gatherer on /metrics.
func WithMetrics(collector *metrics.Collector, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.collector = collector
		s.gatherer = gatherer
	}
}

// WithDocument serves doc on /openapi.json.
func WithDocument(doc *openapi3.T) Option {
	return func(s *Server) {
		s.document = doc
	}
}

// WithAssets serves files on /assets/.
func WithAssets(files fs.FS) Option {
	return func(s *Server) {
		s.assets = files
	}
}

// WithTheme passes a theme to the renderers on every request.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithSessionTTL evicts sessions idle for longer than ttl while Run is active.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.sessionTTL = ttl
	}
}

// Server holds the HTTP routes and the live sessions.
type Server struct {
	logger      *zap.Logger
	registry    *render.Registry
	orchOptions []orchestrator.Option
	collector   *metrics.Collector
	gatherer    prometheus.Gatherer
	document    *openapi3.T
	assets      fs.FS
	theme       *theme.RendererConfig
	sessionTTL  time.Duration

	sessions *sessionStore
	router   chi.Router
}

// New builds the server. A renderer registry is required.
func New(options ...Option) (*Server, error) {
	s := &Server{logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.registry == nil || len(s.registry.List()) == 0 {
		return nil, fmt.Errorf("server: at least one renderer is required")
	}

	s.sessions = newSessionStore(s.newOrchestrator)
	if s.collector != nil {
		s.sessions.onOpen = s.collector.SessionOpened
		s.sessions.onClosed = s.collector.SessionClosed
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) newOrchestrator() *orchestrator.Orchestrator {
	options := make([]orchestrator.Option, 0, len(s.orchOptions)+2)
	options = append(options, orchestrator.WithLogger(s.logger))
	if s.collector != nil {
		options = append(options, orchestrator.WithObserver(s.collector))
	}
	options = append(options, s.orchOptions...)
	return orchestrator.New(options...)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run sweeps idle sessions until ctx ends, then closes every session.
func (s *Server) Run(ctx context.Context) {
	defer s.Close()
	if s.sessionTTL <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(sweepInterval(s.sessionTTL))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.sweep(s.sessionTTL); n > 0 {
				s.logger.Info("expired idle sessions", zap.Int("count", n))
			}
		}
	}
}

// minSweepInterval bounds how often Run scans for idle sessions.
const minSweepInterval = time.Second

func sweepInterval(ttl time.Duration) time.Duration {
	return max(ttl/2, minSweepInterval)
}

// Close discards every session and cancels their fetches.
func (s *Server) Close() {
	s.sessions.closeAll()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	if s.document != nil {
		r.Get("/openapi.json", s.handleDocument)
	}
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if s.assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(s.assets))))
	}

	r.Post("/sessions", s.handleCreate)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.handleRender)
		r.Post("/", s.handleFormPost)
		r.Delete("/", s.handleDelete)
		r.Get("/view", s.handleView)
		r.Patch("/fields", s.handleField)
		r.Post("/submit", s.handleSubmit)
		r.Post("/edit", s.handleEdit)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(started)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
