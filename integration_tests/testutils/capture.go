//go:build integration

package testutils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

// MessageCapture records every message delivered on a set of topics.
type MessageCapture struct {
	messages map[string][]*message.Message
	mutex    sync.RWMutex
}

// NewMessageCapture subscribes to topics and records what arrives until ctx
// is canceled. Subscriptions are live when it returns.
func NewMessageCapture(ctx context.Context, sub message.Subscriber, topics ...string) (*MessageCapture, error) {
	mc := &MessageCapture{messages: make(map[string][]*message.Message)}
	for _, topic := range topics {
		ch, err := sub.Subscribe(ctx, topic)
		if err != nil {
			return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
		go mc.consume(topic, ch)
	}
	return mc, nil
}

func (mc *MessageCapture) consume(topic string, ch <-chan *message.Message) {
	for msg := range ch {
		mc.mutex.Lock()
		mc.messages[topic] = append(mc.messages[topic], msg)
		mc.mutex.Unlock()
		msg.Ack()
	}
}

// GetMessages returns a copy of the messages captured on topic.
func (mc *MessageCapture) GetMessages(topic string) []*message.Message {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()
	msgs := make([]*message.Message, len(mc.messages[topic]))
	copy(msgs, mc.messages[topic])
	return msgs
}

// WaitForMessages polls until topic has at least expectedCount messages.
func (mc *MessageCapture) WaitForMessages(topic string, expectedCount int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if len(mc.GetMessages(topic)) >= expectedCount {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
