package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/attr"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Config configures the HTTP server.
type Config struct {
	Address        string
	AllowedOrigins []string
	// RateLimit is the per-IP request rate; RateBurst its bucket size.
	RateLimit       float64
	RateBurst       int
	ShutdownTimeout time.Duration
}

// Server serves the REST API under /api and prometheus metrics under /metrics.
// Modules register their routes on API.
type Server struct {
	Router chi.Router
	API    chi.Router
	srv    *http.Server
	logger *slog.Logger
	cfg    Config
}

// NewServer builds the router tree. gatherer may be nil to skip /metrics.
func NewServer(cfg Config, logger *slog.Logger, m metrics.ScoringMetrics, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 20
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	root := chi.NewRouter()
	root.Use(middleware.RealIP)
	root.Use(CorrelationIDMiddleware)
	root.Use(InstrumentMiddleware(logger, m))
	root.Use(middleware.Recoverer)

	if gatherer != nil {
		root.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	api := chi.NewRouter()
	api.Use(CORSMiddleware(cfg.AllowedOrigins))
	api.Use(RateLimitMiddleware(NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)))
	api.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	root.Mount("/api", api)

	return &Server{
		Router: root,
		API:    api,
		logger: logger,
		cfg:    cfg,
	}
}

// Run listens until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Address == "" {
		return errors.New("httpapi: address is required")
	}
	s.srv = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "HTTP server listening", attr.String("address", s.cfg.Address))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
