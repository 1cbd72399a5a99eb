package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// AdminAccount is an authenticated staff member linked to exactly one institution
type AdminAccount struct {
	shared.BaseEntity
	InstitutionID uuid.UUID
	Email         string
	FullName      string
	PasswordHash  string
	LastLoginAt   *time.Time
}

// NewAdminAccount creates an account for the given institution and hashes the password
func NewAdminAccount(institutionID uuid.UUID, email, fullName, password string) (*AdminAccount, error) {
	if institutionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INSTITUTION", "Institution ID cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	fullName = normalizeName(fullName)
	if err := validateFullName(fullName); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return &AdminAccount{
		BaseEntity:    shared.NewBaseEntity(),
		InstitutionID: institutionID,
		Email:         email,
		FullName:      fullName,
		PasswordHash:  hash,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (a *AdminAccount) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps the last successful login
func (a *AdminAccount) RecordLogin() {
	now := time.Now()
	a.LastLoginAt = &now
	a.UpdatedAt = now
}

var passwordLetter = regexp.MustCompile(`[a-zA-Z]`)

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	// bcrypt ignores anything past 72 bytes
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !passwordLetter.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter")
	}
	return nil
}

func validateFullName(name string) error {
	if len([]rune(name)) < 2 {
		return shared.NewDomainError("INVALID_NAME", "Full name is required")
	}
	if len([]rune(name)) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot exceed 100 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
