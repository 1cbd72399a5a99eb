package handler

import (
	"time"

	"github.com/edusaas/backend/internal/application/identity"
	"github.com/google/uuid"
)

// UpdateInstitutionRequest is a partial branding update; omitted fields are unchanged
type UpdateInstitutionRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=2,max=100"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email,max=255"`
	LogoURL      *string `json:"logo_url" binding:"omitempty,max=2048"`
	// An empty subdomain clears it
	Subdomain *string `json:"subdomain"`
}

// LogoUploadRequest asks for a presigned logo upload target
type LogoUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=image/png image/jpeg image/webp image/svg+xml"`
}

// InstitutionResponse is the branding view of an institution
type InstitutionResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email"`
	LogoURL      string    `json:"logo_url,omitempty"`
	Subdomain    string    `json:"subdomain,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SubdomainAvailabilityResponse answers a subdomain check
type SubdomainAvailabilityResponse struct {
	Subdomain string `json:"subdomain"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// LogoUploadResponse is a presigned PUT target for an institution logo
type LogoUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	PublicURL  string    `json:"public_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func toInstitutionResponse(i *identity.InstitutionInfo) InstitutionResponse {
	return InstitutionResponse{
		ID:           i.ID,
		Name:         i.Name,
		ContactEmail: i.ContactEmail,
		LogoURL:      i.LogoURL,
		Subdomain:    i.Subdomain,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}
