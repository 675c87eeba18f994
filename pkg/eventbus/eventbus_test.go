package eventbus

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatGameScopedTopic(t *testing.T) {
	assert.Equal(t, "ulti.round.settled.v1.42", FormatGameScopedTopic("ulti.round.settled.v1", 42))
}

func TestPublishWithGameScope(t *testing.T) {
	bus := NewInMemory(slog.Default())
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msgs, err := bus.Subscribe(ctx, "ulti.round.settled.v1.7")
	require.NoError(t, err)

	require.NoError(t, PublishWithGameScope(bus, "ulti.round.settled.v1", 7, message.NewMessage("m1", []byte(`{}`))))

	select {
	case m := <-msgs:
		assert.Equal(t, "m1", m.UUID)
		m.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for game-scoped message")
	}

	assert.Error(t, PublishWithGameScope(bus, "ulti.round.settled.v1", 0, message.NewMessage("m2", nil)))
}

func TestNewNATSEventBusRequiresURL(t *testing.T) {
	_, err := NewNATSEventBus(context.Background(), Config{}, slog.Default())
	assert.Error(t, err)
}
