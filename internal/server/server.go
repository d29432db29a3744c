// Package server exposes the translator as a JSON HTTP API.
//
// Endpoints:
//
//	GET  /api/translate?text=<text>
//	POST /api/translate   body: {"text":"..."}
//	GET  /api/analyze?word=<word>
//	GET  /api/lexicon
//	GET  /healthz
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"
	"golang.org/x/net/netutil"

	"github.com/ppiankov/arcaxh/internal/logging"
	"github.com/ppiankov/arcaxh/internal/model"
	"github.com/ppiankov/arcaxh/internal/translator"
	"github.com/ppiankov/arcaxh/internal/worker"
)

const (
	limiterCleanupInterval = time.Minute
	limiterStaleAfter      = 10 * time.Minute
)

// Server serves the HTTP API.
type Server struct {
	translator *translator.Translator
	cfg        model.ServerConfig
	limiter    *worker.Limiter // nil when rate limiting is disabled
	logger     *slog.Logger
	handler    http.Handler
}

// New builds a Server. Rate limiting is enabled when
// cfg.RateLimiting.RequestsPerSecond is positive.
func New(tr *translator.Translator, cfg *model.Config, logger *slog.Logger) *Server {
	s := &Server{
		translator: tr,
		cfg:        cfg.Server,
		logger:     logging.Default(logger).With("component", "server"),
	}
	if cfg.RateLimiting.RequestsPerSecond > 0 {
		s.limiter = worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/translate", s.handleTranslateQuery)
	mux.HandleFunc("POST /api/translate", s.handleTranslateBody)
	mux.HandleFunc("GET /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/lexicon", s.handleLexicon)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	var h http.Handler = mux
	if s.limiter != nil {
		h = s.rateLimitMiddleware(h)
	}
	h = cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(h)

	s.handler = h
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on the configured address and serves until ctx is
// done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done. It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}
	if s.limiter != nil {
		s.limiter.StartCleanup(ctx, limiterCleanupInterval, limiterStaleAfter)
	}

	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("listening", "addr", ln.Addr().String(), "max_conns", s.cfg.MaxConns)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// rateLimitMiddleware rejects requests from clients over their rate with 429.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil || client == "" {
			client = r.RemoteAddr
		}

		if !s.limiter.Allow(client) {
			w.Header().Set("Retry-After", "1")
			s.writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}
