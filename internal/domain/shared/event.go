package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate: an institution signed up, a
// class was created, a student enrolled or changed subscription status.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	// InstitutionID is the tenant the event belongs to
	InstitutionID() uuid.UUID
}

// BaseDomainEvent is embedded by concrete events for the envelope fields.
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"type"`
	At        time.Time `json:"occurred_at"`
	Aggregate uuid.UUID `json:"aggregate_id"`
	Category  string    `json:"aggregate_type"`
	Tenant    uuid.UUID `json:"institution_id"`
}

func (e *BaseDomainEvent) EventID() uuid.UUID       { return e.ID }
func (e *BaseDomainEvent) EventType() string        { return e.Kind }
func (e *BaseDomainEvent) OccurredAt() time.Time    { return e.At }
func (e *BaseDomainEvent) AggregateID() uuid.UUID   { return e.Aggregate }
func (e *BaseDomainEvent) AggregateType() string    { return e.Category }
func (e *BaseDomainEvent) InstitutionID() uuid.UUID { return e.Tenant }

// NewBaseDomainEvent fills the envelope for an event raised now.
func NewBaseDomainEvent(eventType, aggregateType string, aggregateID, institutionID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Kind:      eventType,
		At:        time.Now(),
		Aggregate: aggregateID,
		Category:  aggregateType,
		Tenant:    institutionID,
	}
}

// EventHandler reacts to published events. An empty EventTypes result
// subscribes the handler to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what application services depend on. Implementations
// must not fail a business operation because a subscriber failed.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the process-wide publisher plus subscription management.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
