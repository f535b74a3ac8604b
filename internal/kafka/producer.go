package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fathima-sithara/chat-profile-service/config"
	"github.com/fathima-sithara/chat-profile-service/internal/events"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes domain events as JSON onto a single topic. A circuit
// breaker stops publishing for a while once the broker keeps failing.
type Producer struct {
	writer      messageWriter
	log         *zap.Logger
	maxAttempts int
	backoff     time.Duration
	breaker     *gobreaker.CircuitBreaker
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg config.KafkaConfig, log *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           cfg.WriteTimeout,
		MaxAttempts:            1,
		AllowAutoTopicCreation: true,
	}
	return newProducer(writer, log, cfg.MaxAttempts, 500*time.Millisecond, cfg.BreakerFailures, cfg.BreakerTimeout)
}

func newProducer(w messageWriter, log *zap.Logger, maxAttempts int, backoff time.Duration, tripAfter uint32, openFor time.Duration) *Producer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if tripAfter < 1 {
		tripAfter = 1
	}
	st := gobreaker.Settings{
		Name:        "kafka-producer",
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Info("circuit breaker state", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}
	return &Producer{
		writer:      w,
		log:         log,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		breaker:     gobreaker.NewCircuitBreaker(st),
	}
}

// Publish writes e keyed by e.Key() so events of one chat stay ordered.
func (p *Producer) Publish(ctx context.Context, e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(e.Key()),
		Value: data,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	}

	_, err = p.breaker.Execute(func() (interface{}, error) {
		return nil, p.write(ctx, e.Type, msg)
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

func (p *Producer) write(ctx context.Context, typ events.Type, msg kafka.Message) error {
	var lastErr error
	for i := 0; i < p.maxAttempts; i++ {
		if i > 0 {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.backoff):
			}
		}
		if lastErr = p.writer.WriteMessages(ctx, msg); lastErr == nil {
			return nil
		}
		p.log.Warn("kafka publish attempt failed",
			zap.Int("attempt", i+1),
			zap.String("event_type", string(typ)),
			zap.Error(lastErr),
		)
	}
	return fmt.Errorf("after %d attempts: %w", p.maxAttempts, lastErr)
}

// Close flushes and shuts down the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
