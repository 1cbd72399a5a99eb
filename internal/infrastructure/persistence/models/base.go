package models

import (
	"time"

	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Record holds the columns every table shares.
type Record struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (r *Record) entity() shared.BaseEntity {
	return shared.BaseEntity{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

func (r *Record) setEntity(e shared.BaseEntity) {
	r.ID, r.CreatedAt, r.UpdatedAt = e.ID, e.CreatedAt, e.UpdatedAt
}

// VersionedRecord is a Record whose rows are guarded by an optimistic-lock
// version column. Only aggregate roots are stored this way.
type VersionedRecord struct {
	Record
	Version int `gorm:"not null;default:1"`
}

// aggregate rebuilds the domain root. Buffered events never reach the table,
// so a loaded aggregate always starts with an empty buffer.
func (r *VersionedRecord) aggregate() shared.BaseAggregateRoot {
	return shared.RestoreAggregateRoot(r.Record.entity(), r.Version)
}

func (r *VersionedRecord) setAggregate(a shared.BaseAggregateRoot) {
	r.setEntity(a.BaseEntity)
	r.Version = a.Version
}
