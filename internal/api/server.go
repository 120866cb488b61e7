package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nguyentantai21042004/minutes-flow/internal/artifact"
	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/metrics"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
)

// Deps are the collaborators behind the HTTP endpoints.
type Deps struct {
	Store       artifact.Store
	Transcriber Transcriber
	Summarizer  summarizer.Summarizer
	Catalog     Catalog
	Prompt      PromptSource
}

type Server struct {
	http   *http.Server
	logger logger.Logger

	store          artifact.Store
	transcriber    Transcriber
	summarizer     summarizer.Summarizer
	catalog        Catalog
	prompt         PromptSource
	maxUploadBytes int64
}

func NewServer(cfg config.ServerConfig, deps Deps, log logger.Logger) *Server {
	s := &Server{
		logger:         log,
		store:          deps.Store,
		transcriber:    deps.Transcriber,
		summarizer:     deps.Summarizer,
		catalog:        deps.Catalog,
		prompt:         deps.Prompt,
		maxUploadBytes: cfg.MaxUploadBytes,
	}

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.InstrumentHandler)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/upload", s.upload)
	r.Post("/summarize", s.summarize)
	r.Get("/files", s.listFiles)
	r.Get("/files/{name}", s.getFile)
	r.Get("/models", s.listModels)
	r.Get("/prompt", s.getPrompt)

	return r
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info(ctx, "HTTP server listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "HTTP server shutting down")
	return s.http.Shutdown(ctx)
}
