// Package handlerwrapper adapts typed event handlers to watermill handler funcs.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

// CtxKeyReplyTo carries the reply_to metadata of the incoming message.
const CtxKeyReplyTo ctxKey = "reply_to"

// CtxKeyMessageID carries the UUID of the incoming message. Redeliveries and
// router retries keep it.
const CtxKeyMessageID ctxKey = "message_id"

// TopicMetadataKey is the metadata key the router reads the publish topic from.
const TopicMetadataKey = "topic"

// Result is one outgoing event produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// WrapTransformingTyped decodes the message JSON into T, calls handler and
// encodes every Result into an outgoing message. Outgoing messages keep the
// correlation id and carry their topic in metadata.
//
// A payload that cannot be decoded is logged and acked; redelivering it cannot
// succeed.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	handler func(context.Context, *T) ([]Result, error),
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx := msg.Context()
		if tracer != nil {
			var span trace.Span
			ctx, span = tracer.Start(ctx, handlerName)
			defer span.End()
		}

		correlationID := middleware.MessageCorrelationID(msg)
		ctx = attr.WithCorrelationID(ctx, correlationID)
		ctx = context.WithValue(ctx, CtxKeyMessageID, msg.UUID)
		if rt := msg.Metadata.Get(string(CtxKeyReplyTo)); rt != "" {
			ctx = context.WithValue(ctx, CtxKeyReplyTo, rt)
		}

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Failed to decode message payload",
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.CorrelationIDFromMsg(msg),
				attr.Error(err),
			)
			return nil, nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			return nil, err
		}

		out := make([]*message.Message, 0, len(results))
		for _, r := range results {
			m, err := newMessage(r, correlationID)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", handlerName, err)
			}
			out = append(out, m)
		}
		return out, nil
	}
}

// MessageID returns the UUID of the message being handled, or "".
func MessageID(ctx context.Context) string {
	id, _ := ctx.Value(CtxKeyMessageID).(string)
	return id
}

// NewMessage encodes a payload for publishing to topic.
func NewMessage(ctx context.Context, topic string, payload any) (*message.Message, error) {
	return newMessage(Result{Topic: topic, Payload: payload}, attr.CorrelationID(ctx))
}

func newMessage(r Result, correlationID string) (*message.Message, error) {
	body, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for %s: %w", r.Topic, err)
	}

	m := message.NewMessage(uuid.NewString(), body)
	for k, v := range r.Metadata {
		m.Metadata.Set(k, v)
	}
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	middleware.SetCorrelationID(correlationID, m)
	m.Metadata.Set(TopicMetadataKey, r.Topic)
	return m, nil
}
