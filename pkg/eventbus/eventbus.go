// Package eventbus provides the NATS backed publisher/subscriber pair used by
// module routers, plus an in-memory variant for tests and local runs.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventBus publishes and subscribes watermill messages.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// Config configures the NATS event bus.
type Config struct {
	URL              string
	QueueGroup       string
	SubscribersCount int
	// JetStream enables persistent delivery through StreamName, which is
	// created or updated on start to cover StreamSubjects.
	JetStream      bool
	StreamName     string
	StreamSubjects []string
}

// NATSEventBus is an EventBus on top of watermill-nats.
type NATSEventBus struct {
	publisher  *nats.Publisher
	subscriber *nats.Subscriber
	conn       *nc.Conn
	logger     *slog.Logger
}

var _ EventBus = (*NATSEventBus)(nil)

// NewNATSEventBus connects to NATS and builds the watermill publisher and subscriber.
func NewNATSEventBus(ctx context.Context, cfg Config, logger *slog.Logger) (*NATSEventBus, error) {
	if cfg.URL == "" {
		return nil, errors.New("eventbus: NATS URL is required")
	}

	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("Error in NATS subscription",
					slog.String("subject", s.Subject),
					slog.String("queue", s.Queue),
					slog.Any("error", err),
				)
				return
			}
			logger.Error("Error in NATS connection", slog.Any("error", err))
		}),
	}

	conn, err := nc.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	if cfg.JetStream {
		if err := ensureStream(ctx, conn, cfg); err != nil {
			conn.Close()
			return nil, err
		}
	}

	wmLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}
	jsConfig := nats.JetStreamConfig{
		Disabled:      !cfg.JetStream,
		AutoProvision: false,
	}

	publisher, err := nats.NewPublisher(nats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: options,
		Marshaler:   marshaler,
		JetStream:   jsConfig,
	}, wmLogger)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create Watermill NATS publisher: %w", err)
	}

	subscribers := cfg.SubscribersCount
	if subscribers <= 0 {
		subscribers = 1
	}
	subscriber, err := nats.NewSubscriber(nats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: subscribers,
		NatsOptions:      options,
		Unmarshaler:      marshaler,
		JetStream:        jsConfig,
	}, wmLogger)
	if err != nil {
		publisher.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to create Watermill NATS subscriber: %w", err)
	}

	return &NATSEventBus{
		publisher:  publisher,
		subscriber: subscriber,
		conn:       conn,
		logger:     logger,
	}, nil
}

func ensureStream(ctx context.Context, conn *nc.Conn, cfg Config) error {
	js, err := jetstream.New(conn)
	if err != nil {
		return fmt.Errorf("failed to initialize JetStream: %w", err)
	}
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: cfg.StreamSubjects,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", cfg.StreamName, err)
	}
	return nil
}

func (b *NATSEventBus) Publish(topic string, messages ...*message.Message) error {
	return b.publisher.Publish(topic, messages...)
}

func (b *NATSEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, topic)
}

// Close closes the subscriber, the publisher and the connection, in that order.
func (b *NATSEventBus) Close() error {
	var errs []error
	if err := b.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("subscriber: %w", err))
	}
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("publisher: %w", err))
	}
	b.conn.Close()
	return errors.Join(errs...)
}

// NewInMemory returns a gochannel backed EventBus.
func NewInMemory(logger *slog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NewSlogLogger(logger))
}

// PublishWithGameScope publishes to {baseTopic}.{gameID} so consumers can follow
// a single table or all of them with a wildcard.
func PublishWithGameScope(pub message.Publisher, baseTopic string, gameID int64, msg *message.Message) error {
	if gameID <= 0 {
		return fmt.Errorf("gameID must be positive for game-scoped publish, got %d", gameID)
	}
	return pub.Publish(FormatGameScopedTopic(baseTopic, gameID), msg)
}

// FormatGameScopedTopic formats a topic with the game id suffix.
func FormatGameScopedTopic(baseTopic string, gameID int64) string {
	return fmt.Sprintf("%s.%d", baseTopic, gameID)
}
