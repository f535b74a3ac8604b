package events

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrQueueFull = errors.New("event queue full")
	ErrClosed    = errors.New("event publisher closed")
)

// Async hands events to a background worker so callers never wait on the
// broker. When the queue is full the event is dropped and ErrQueueFull is
// returned.
type Async struct {
	next  Publisher
	log   *zap.Logger
	queue chan queued
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

type queued struct {
	ctx context.Context
	e   Event
}

func NewAsync(next Publisher, size int, log *zap.Logger) *Async {
	if size < 1 {
		size = 1
	}
	a := &Async{
		next:  next,
		log:   log,
		queue: make(chan queued, size),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) Publish(ctx context.Context, e Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	// The request context ends with the response; the event outlives it.
	select {
	case a.queue <- queued{ctx: context.WithoutCancel(ctx), e: e}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (a *Async) run() {
	defer close(a.done)
	for q := range a.queue {
		if err := a.next.Publish(q.ctx, q.e); err != nil {
			a.log.Warn("event publish failed",
				zap.String("event_id", q.e.ID),
				zap.String("event_type", string(q.e.Type)),
				zap.Error(err),
			)
		}
	}
}

// Close stops accepting events, waits for the queued ones and then closes
// the wrapped publisher.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	<-a.done
	return a.next.Close()
}
