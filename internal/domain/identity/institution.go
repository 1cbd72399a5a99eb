package identity

import (
	"net/mail"
	"strings"

	"github.com/edusaas/backend/internal/domain/shared"
	"golang.org/x/text/unicode/norm"
)

// Institution is a tenant organization using the platform.
// It is the aggregate root that owns classes and admin accounts.
type Institution struct {
	shared.BaseAggregateRoot
	Name         string
	ContactEmail string
	LogoURL      string
	Subdomain    string
}

// NewInstitution creates a new institution with required fields
func NewInstitution(name, contactEmail string) (*Institution, error) {
	name = normalizeName(name)
	if err := validateInstitutionName(name); err != nil {
		return nil, err
	}
	contactEmail = strings.TrimSpace(contactEmail)
	if err := validateEmail(contactEmail); err != nil {
		return nil, err
	}

	institution := &Institution{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ContactEmail:      contactEmail,
	}

	institution.AddDomainEvent(NewInstitutionRegisteredEvent(institution))

	return institution, nil
}

// Rename changes the institution's display name
func (i *Institution) Rename(name string) error {
	name = normalizeName(name)
	if err := validateInstitutionName(name); err != nil {
		return err
	}

	i.Name = name
	i.MarkModified()
	return nil
}

// SetContactEmail sets the institution's contact email
func (i *Institution) SetContactEmail(email string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	i.ContactEmail = email
	i.MarkModified()
	return nil
}

// SetLogoURL sets the institution's logo URL. An empty string removes the logo.
func (i *Institution) SetLogoURL(url string) error {
	url = strings.TrimSpace(url)
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_URL", "Logo URL cannot exceed 500 characters")
	}

	i.LogoURL = url
	i.MarkModified()
	return nil
}

// SetSubdomain claims a subdomain. Availability against other institutions
// is checked by the caller; this only enforces the format rules.
func (i *Institution) SetSubdomain(subdomain string) error {
	subdomain = NormalizeSubdomain(subdomain)
	if subdomain != "" {
		if err := ValidateSubdomain(subdomain); err != nil {
			return err
		}
	}

	i.Subdomain = subdomain
	i.MarkModified()
	return nil
}

// HasSubdomain reports whether a subdomain has been claimed
func (i *Institution) HasSubdomain() bool {
	return i.Subdomain != ""
}


func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func validateInstitutionName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Institution name cannot be empty")
	}
	if len([]rune(name)) < 2 {
		return shared.NewDomainError("INVALID_NAME", "Institution name must be at least 2 characters")
	}
	if len([]rune(name)) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Institution name cannot exceed 100 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 255 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 255 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
