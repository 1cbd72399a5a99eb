package identity

import (
	"regexp"
	"slices"
	"strings"

	"github.com/edusaas/backend/internal/domain/shared"
)

const (
	subdomainMinLength = 3
	subdomainMaxLength = 30
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]+$`)

// ReservedSubdomains cannot be claimed by any institution
var ReservedSubdomains = []string{
	"www", "api", "admin", "app", "mail", "email", "ftp", "blog", "shop",
	"store", "support", "help", "docs", "cdn", "assets", "static", "media",
	"dashboard", "panel", "console", "login", "auth", "account", "profile",
}

// NormalizeSubdomain trims surrounding whitespace. Case is preserved so that
// uppercase input is rejected rather than silently rewritten.
func NormalizeSubdomain(subdomain string) string {
	return strings.TrimSpace(subdomain)
}

// IsReservedSubdomain reports whether the subdomain is on the reserved list
func IsReservedSubdomain(subdomain string) bool {
	return slices.Contains(ReservedSubdomains, subdomain)
}

// ValidateSubdomain checks the format rules for a subdomain
func ValidateSubdomain(subdomain string) error {
	if len(subdomain) < subdomainMinLength || len(subdomain) > subdomainMaxLength {
		return shared.NewDomainError("INVALID_SUBDOMAIN", "Subdomain must be between 3 and 30 characters")
	}
	if !subdomainPattern.MatchString(subdomain) {
		return shared.NewDomainError("INVALID_SUBDOMAIN", "Subdomain can only contain lowercase letters and numbers")
	}
	if IsReservedSubdomain(subdomain) {
		return shared.NewDomainError("RESERVED_SUBDOMAIN", "This subdomain is reserved and cannot be used")
	}
	return nil
}
