// Package metrics exposes service operation and scoring metrics.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OperationMetrics is recorded by every service wrapper.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)
}

// ScoringMetrics adds round and game counters on top of OperationMetrics.
type ScoringMetrics interface {
	OperationMetrics
	RecordRoundSettled(ctx context.Context, bidName string, attackerWon bool)
	RecordDeclarationRejected(ctx context.Context, reason string)
	RecordGameStarted(ctx context.Context, players int)
	RecordGameFinished(ctx context.Context, rounds int)
	RecordHTTPRequest(ctx context.Context, route, method string, status int, d time.Duration)
}

// Prometheus implements ScoringMetrics on a prometheus registry.
type Prometheus struct {
	opTotal       *prometheus.CounterVec
	opDuration    *prometheus.HistogramVec
	roundsSettled *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	gamesStarted  *prometheus.CounterVec
	gameRounds    prometheus.Histogram
	httpTotal     *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewPrometheus registers the collectors on reg.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		opTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Service operations by service, operation and outcome",
		}, []string{"service", "operation", "outcome"}),
		opDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_ms",
			Help:      "Service operation duration in milliseconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"service", "operation"}),
		roundsSettled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_settled_total",
			Help:      "Settled rounds by bid and result",
		}, []string{"bid", "result"}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "declarations_rejected_total",
			Help:      "Round declarations rejected before settlement",
		}, []string{"reason"}),
		gamesStarted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games started by roster size",
		}, []string{"players"}),
		gameRounds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "game_rounds",
			Help:      "Rounds played per finished game",
			Buckets:   prometheus.LinearBuckets(0, 5, 10),
		}),
		httpTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 10),
		}, []string{"route", "method"}),
	}
}

func (p *Prometheus) RecordOperationAttempt(_ context.Context, operation, service string) {
	p.opTotal.WithLabelValues(service, operation, "attempt").Inc()
}

func (p *Prometheus) RecordOperationSuccess(_ context.Context, operation, service string) {
	p.opTotal.WithLabelValues(service, operation, "success").Inc()
}

func (p *Prometheus) RecordOperationFailure(_ context.Context, operation, service string) {
	p.opTotal.WithLabelValues(service, operation, "failure").Inc()
}

func (p *Prometheus) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	p.opDuration.WithLabelValues(service, operation).Observe(float64(d.Milliseconds()))
}

func (p *Prometheus) RecordRoundSettled(_ context.Context, bidName string, attackerWon bool) {
	result := "lost"
	if attackerWon {
		result = "won"
	}
	p.roundsSettled.WithLabelValues(bidName, result).Inc()
}

func (p *Prometheus) RecordDeclarationRejected(_ context.Context, reason string) {
	p.rejected.WithLabelValues(reason).Inc()
}

func (p *Prometheus) RecordGameStarted(_ context.Context, players int) {
	p.gamesStarted.WithLabelValues(strconv.Itoa(players)).Inc()
}

func (p *Prometheus) RecordGameFinished(_ context.Context, rounds int) {
	p.gameRounds.Observe(float64(rounds))
}

func (p *Prometheus) RecordHTTPRequest(_ context.Context, route, method string, status int, d time.Duration) {
	p.httpTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(route, method).Observe(float64(d.Milliseconds()))
}

// Noop discards everything.
type Noop struct{}

// NewNoop returns metrics that record nothing.
func NewNoop() ScoringMetrics { return Noop{} }

func (Noop) RecordOperationAttempt(context.Context, string, string) {}
func (Noop) RecordOperationSuccess(context.Context, string, string) {}
func (Noop) RecordOperationFailure(context.Context, string, string) {}
func (Noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (Noop) RecordRoundSettled(context.Context, string, bool) {}
func (Noop) RecordDeclarationRejected(context.Context, string) {}
func (Noop) RecordGameStarted(context.Context, int) {}
func (Noop) RecordGameFinished(context.Context, int) {}
func (Noop) RecordHTTPRequest(context.Context, string, string, int, time.Duration) {}

var (
	_ ScoringMetrics = (*Prometheus)(nil)
	_ ScoringMetrics = Noop{}
)
