package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"

	"github.com/chandrakanthm/skyvern/internal/application/port/input"
	"github.com/chandrakanthm/skyvern/internal/application/port/output"
	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

type Config struct {
	Addr string
	// GuidelinesDir receives uploaded guideline files; empty keeps uploads
	// in memory only.
	GuidelinesDir string
}

func DefaultConfig() Config {
	return Config{Addr: ":8080"}
}

// Server is the REST surface over the audit runner. Uploaded guidelines
// become the active rule set for audits that do not carry their own.
type Server struct {
	cfg    Config
	runner input.AuditRunner
	log    output.LoggerPort
	router chi.Router
	srv    *http.Server

	mu     sync.RWMutex
	active *entity.BrandGuidelines
}

func NewServer(cfg Config, runner input.AuditRunner, log output.LoggerPort) *Server {
	s := &Server{
		cfg:    cfg,
		runner: runner,
		log:    log,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(httplog.RequestLogger(httplog.NewLogger("skyvern-api", httplog.Options{
		JSON:    true,
		Concise: true,
	})))

	r.Get("/health", s.handleHealth)
	r.Post("/audit/single", s.handleAuditSingle)
	r.Post("/audit/multiple", s.handleAuditMultiple)
	r.Get("/audit/{auditID}", s.handleGetAudit)
	r.Get("/audit/{auditID}/screenshot", s.handleGetScreenshot)
	r.Get("/audit/{auditID}/report", s.handleGetReport)
	r.Post("/audit/{auditID}/query", s.handleQuery)
	r.Post("/guidelines", s.handleUploadGuidelines)

	return r
}

// Handler exposes the routed mux, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		// Audits navigate, scrape and talk to an LLM; writes stay open for
		// the whole run.
		WriteTimeout: 10 * time.Minute,
	}
	s.log.Info("API server listening", "addr", s.cfg.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) activeGuidelines() *entity.BrandGuidelines {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Server) setActiveGuidelines(g *entity.BrandGuidelines) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = g
}
