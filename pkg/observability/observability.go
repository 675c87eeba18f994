// Package observability builds the logger, tracer and metrics shared by every module.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config selects the handlers and names.
type Config struct {
	ServiceName      string
	Version          string
	Environment      string
	LogLevel         string
	MetricsNamespace string
}

// Provider holds the process logger.
type Provider struct {
	Logger *slog.Logger
}

// Registry holds the tracer and metrics.
type Registry struct {
	Tracer     trace.Tracer
	Metrics    metrics.ScoringMetrics
	Prometheus *prometheus.Registry
}

// Observability bundles Provider and Registry.
type Observability struct {
	Provider Provider
	Registry Registry
}

// Init builds observability for a running service. Development environments
// log text; everything else logs JSON.
func Init(cfg Config) Observability {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	var handler slog.Handler
	if cfg.Environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	logger := slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Environment),
	)
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return Observability{
		Provider: Provider{Logger: logger},
		Registry: Registry{
			Tracer:     otel.Tracer(cfg.ServiceName),
			Metrics:    metrics.NewPrometheus(reg, cfg.MetricsNamespace),
			Prometheus: reg,
		},
	}
}

// NewTest returns observability that discards logs and spans and records
// metrics on a private registry.
func NewTest() Observability {
	reg := prometheus.NewRegistry()
	return Observability{
		Provider: Provider{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
		Registry: Registry{
			Tracer:     noop.NewTracerProvider().Tracer("test"),
			Metrics:    metrics.NewPrometheus(reg, "test"),
			Prometheus: reg,
		},
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
