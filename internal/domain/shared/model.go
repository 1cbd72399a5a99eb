package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and audit timestamps every stored record has.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps a fresh ID and sets both timestamps to now.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch moves UpdatedAt to the current time.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// BaseAggregateRoot is an entity whose changes are versioned for optimistic
// locking and which buffers domain events until the application layer
// publishes them after a successful save.
type BaseAggregateRoot struct {
	BaseEntity
	Version   int
	persisted int
	pending   []DomainEvent
}

// NewBaseAggregateRoot starts a new aggregate at version 1 with no events.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// RestoreAggregateRoot rebuilds a root read from storage at the given version.
func RestoreAggregateRoot(entity BaseEntity, version int) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: entity, Version: version, persisted: version}
}

// PersistedVersion is the version last read from or written to storage.
// Zero means the aggregate has never been stored.
func (a *BaseAggregateRoot) PersistedVersion() int {
	return a.persisted
}

// MarkPersisted records that the current version is now in storage.
func (a *BaseAggregateRoot) MarkPersisted() {
	a.persisted = a.Version
}

// GetVersion returns the optimistic-lock version.
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// MarkModified touches the entity. The version moves at most once between
// saves so a batch of edits is a single optimistic-lock step.
func (a *BaseAggregateRoot) MarkModified() {
	a.Touch()
	if a.persisted != 0 && a.Version == a.persisted {
		a.Version++
	}
}

// AddDomainEvent buffers an event for later publication.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// GetDomainEvents returns the buffered events without draining them.
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.pending
}

// PullDomainEvents drains the buffer. Events are handed out at most once.
func (a *BaseAggregateRoot) PullDomainEvents() []DomainEvent {
	events := a.pending
	a.pending = nil
	return events
}
