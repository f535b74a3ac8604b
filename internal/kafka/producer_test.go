package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fathima-sithara/chat-profile-service/internal/events"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	failures int
	calls    int
	written  []kafka.Message
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("broker unavailable")
	}
	f.written = append(f.written, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

var _ events.Publisher = (*Producer)(nil)

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, zap.NewNop(), 3, 0, 5, time.Minute)

	e := events.New(events.MessageAdded)
	e.ChatID = "chat-1"
	e.MessageID = "msg-1"

	require.NoError(t, p.Publish(context.Background(), e))
	require.Len(t, w.written, 1)

	msg := w.written[0]
	assert.Equal(t, "chat-1", string(msg.Key))
	assert.Equal(t, "chat.message_added", string(msg.Headers[0].Value))

	var got events.Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "msg-1", got.MessageID)
}

func TestProducer_PublishRetries(t *testing.T) {
	w := &fakeWriter{failures: 2}
	p := newProducer(w, zap.NewNop(), 3, 0, 5, time.Minute)

	require.NoError(t, p.Publish(context.Background(), events.New(events.ChatCreated)))
	assert.Equal(t, 3, w.calls)
	assert.Len(t, w.written, 1)
}

func TestProducer_PublishGivesUp(t *testing.T) {
	w := &fakeWriter{failures: 5}
	p := newProducer(w, zap.NewNop(), 2, 0, 5, time.Minute)

	err := p.Publish(context.Background(), events.New(events.UserDeleted))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, w.calls)
}

func TestProducer_PublishCancelled(t *testing.T) {
	w := &fakeWriter{failures: 5}
	p := newProducer(w, zap.NewNop(), 3, 0, 5, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, events.New(events.ChatCreated))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, w.calls)
}

func TestProducer_BreakerOpens(t *testing.T) {
	w := &fakeWriter{failures: 100}
	p := newProducer(w, zap.NewNop(), 1, 0, 2, time.Minute)
	ctx := context.Background()

	require.Error(t, p.Publish(ctx, events.New(events.ChatCreated)))
	require.Error(t, p.Publish(ctx, events.New(events.ChatCreated)))
	assert.Equal(t, 2, w.calls)

	err := p.Publish(ctx, events.New(events.ChatCreated))
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, w.calls, "open breaker must not reach the broker")
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newProducer(w, zap.NewNop(), 0, 0, 5, time.Minute).Close())
	assert.True(t, w.closed)
}
