package roundrouter

import (
	"context"
	"fmt"
	"log/slog"

	roundhandlers "github.com/Black-And-White-Club/ulti-bot/app/modules/round/infrastructure/handlers"
	roundevents "github.com/Black-And-White-Club/ulti-bot/pkg/events/round"
	"github.com/Black-And-White-Club/ulti-bot/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/attr"
	watermillmetrics "github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// RoundRouter registers the round module's Watermill handlers.
type RoundRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	publisher      message.Publisher
	tracer         trace.Tracer
	metricsBuilder *watermillmetrics.PrometheusMetricsBuilder
}

// NewRoundRouter creates a new RoundRouter. registry may be nil to skip
// router metrics.
func NewRoundRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	tracer trace.Tracer,
	registry prometheus.Registerer,
) *RoundRouter {
	var metricsBuilder *watermillmetrics.PrometheusMetricsBuilder
	if registry != nil {
		builder := watermillmetrics.NewPrometheusMetricsBuilder(registry, "", "")
		metricsBuilder = &builder
	}
	return &RoundRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}
}

// Configure adds middleware and registers handlers.
func (r *RoundRouter) Configure(_ context.Context, handlers roundhandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	r.logger.Info("Registering round module handlers",
		attr.String("round_create_subject", roundevents.RoundCreateRequestedV1),
	)

	registerHandler(r, roundevents.RoundCreateRequestedV1, handlers.HandleRoundCreateRequested)
	return nil
}

// registerHandler wires a typed handler to a topic. Returned messages are
// published to the topic carried in their metadata.
func registerHandler[T any](
	r *RoundRouter,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "round." + topic
	handlerFunc := handlerwrapper.WrapTransformingTyped(handlerName, r.logger, r.tracer, handler)

	r.Router.AddHandler(
		handlerName,
		topic,
		r.subscriber,
		"",
		nil,
		func(msg *message.Message) ([]*message.Message, error) {
			messages, err := handlerFunc(msg)
			if err != nil {
				r.logger.ErrorContext(msg.Context(), "Error processing message",
					attr.String("handler", handlerName),
					attr.String("message_id", msg.UUID),
					attr.Error(err),
				)
				return nil, err
			}
			for _, m := range messages {
				publishTopic := m.Metadata.Get(handlerwrapper.TopicMetadataKey)
				if publishTopic == "" {
					r.logger.Error("router failed to resolve publish topic - MESSAGE DROPPED",
						attr.String("handler", handlerName),
						attr.String("msg_uuid", m.UUID),
						attr.CorrelationIDFromMsg(m),
					)
					continue
				}
				if err := r.publisher.Publish(publishTopic, m); err != nil {
					return nil, fmt.Errorf("failed to publish to %s: %w", publishTopic, err)
				}
			}
			return nil, nil
		},
	)
}

// Close shuts down the router.
func (r *RoundRouter) Close() error {
	return r.Router.Close()
}
