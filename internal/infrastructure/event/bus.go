// Package event delivers domain events (institution registered, class created,
// student enrolled, subscription status changed) to in-process subscribers.
package event

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/edusaas/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// subscription with no types receives every event
type subscription struct {
	handler shared.EventHandler
	types   []string
}

func (s subscription) wants(eventType string) bool {
	return len(s.types) == 0 || slices.Contains(s.types, eventType)
}

// InMemoryEventBus dispatches events synchronously, in subscription order.
// Subscriber failures are logged and never reach the publisher.
type InMemoryEventBus struct {
	mu      sync.RWMutex
	subs    []subscription
	logger  *zap.Logger
	stopped atomic.Bool
}

func NewInMemoryEventBus(log *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{logger: log.Named("events")}
}

// Publish returns nil even when a subscriber fails. Events published after
// Stop are dropped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	log := logger.WithLogger(ctx, b.logger)
	if b.stopped.Load() {
		log.Warn("event bus stopped, dropping events", zap.Int("count", len(events)))
		return nil
	}

	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, event := range events {
		for _, sub := range subs {
			if !sub.wants(event.EventType()) {
				continue
			}
			if err := deliver(ctx, sub.handler, event); err != nil {
				log.Error("event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("domain_event_id", event.EventID().String()),
					zap.String("aggregate_id", event.AggregateID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, falling back to the handler's
// own EventTypes. A handler declaring none sees every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.mu.Lock()
	b.subs = append(b.subs, subscription{handler: handler, types: slices.Clone(eventTypes)})
	b.mu.Unlock()
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes every subscription of handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = slices.DeleteFunc(b.subs, func(s subscription) bool { return s.handler == handler })
}

func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.stopped.Store(false)
	return nil
}

// Stop disables delivery. Handlers run inline, so nothing is left in flight.
func (b *InMemoryEventBus) Stop(_ context.Context) error {
	b.stopped.Store(true)
	b.logger.Info("event bus stopped")
	return nil
}

func deliver(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
