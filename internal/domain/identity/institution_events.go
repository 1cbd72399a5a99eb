package identity

import (
	"github.com/edusaas/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInstitution = "Institution"

// Event type constants
const (
	EventTypeInstitutionRegistered = "InstitutionRegistered"
)

// InstitutionRegisteredEvent is published when a new institution signs up
type InstitutionRegisteredEvent struct {
	shared.BaseDomainEvent
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
}

// NewInstitutionRegisteredEvent creates a new InstitutionRegisteredEvent
func NewInstitutionRegisteredEvent(institution *Institution) *InstitutionRegisteredEvent {
	return &InstitutionRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInstitutionRegistered, AggregateTypeInstitution, institution.ID, institution.ID),
		Name:            institution.Name,
		ContactEmail:    institution.ContactEmail,
	}
}
