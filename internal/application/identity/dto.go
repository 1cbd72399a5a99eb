package identity

import (
	"time"

	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// SignupInput contains the input for institution signup
type SignupInput struct {
	InstitutionName string
	ContactEmail    string
	Password        string
	ConfirmPassword string
	FullName        string
	Subdomain       string // optional
}

// LoginInput contains the input for admin login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// AuthResult is returned by signup, login and refresh
type AuthResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	Admin                 AdminInfo
	Institution           *InstitutionInfo // set on signup only
}

// AdminInfo contains basic admin information
type AdminInfo struct {
	ID            uuid.UUID
	InstitutionID uuid.UUID
	Email         string
	FullName      string
	Role          string
	LastLoginAt   *time.Time
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput contains the input for admin logout
type LogoutInput struct {
	UserID       uuid.UUID
	TokenJTI     string        // JWT ID for blacklisting (optional)
	RemainingTTL time.Duration // lifetime left on the access token
}

// InstitutionInfo is the branding view of an institution
type InstitutionInfo struct {
	ID           uuid.UUID
	Name         string
	ContactEmail string
	LogoURL      string
	Subdomain    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ToInstitutionInfo converts the domain aggregate
func ToInstitutionInfo(i *identity.Institution) *InstitutionInfo {
	return &InstitutionInfo{
		ID:           i.ID,
		Name:         i.Name,
		ContactEmail: i.ContactEmail,
		LogoURL:      i.LogoURL,
		Subdomain:    i.Subdomain,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

// SubdomainAvailability answers a subdomain check
type SubdomainAvailability struct {
	Subdomain string
	Available bool
	Reason    string
}

// UpdateInstitutionInput carries a partial branding update. Nil fields are left unchanged.
type UpdateInstitutionInput struct {
	Name         *string
	ContactEmail *string
	LogoURL      *string
	Subdomain    *string
}

// LogoUploadResult contains a presigned upload target for an institution logo
type LogoUploadResult struct {
	UploadURL  string
	StorageKey string
	PublicURL  string
	ExpiresAt  time.Time
}
