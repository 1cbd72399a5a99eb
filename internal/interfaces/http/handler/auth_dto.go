package handler

import (
	"time"

	"github.com/edusaas/backend/internal/application/identity"
	"github.com/google/uuid"
)

// =====================
// Auth Request DTOs
// =====================

// SignupRequest registers an institution and its first admin
type SignupRequest struct {
	InstitutionName string `json:"institution_name" binding:"required,min=2,max=100"`
	ContactEmail    string `json:"contact_email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	FullName        string `json:"full_name" binding:"required,min=2,max=100"`
	Subdomain       string `json:"subdomain" binding:"omitempty,subdomain"`
}

// LoginRequest represents the request body for admin login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// =====================
// Auth Response DTOs
// =====================

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// AdminResponse represents the signed-in admin
type AdminResponse struct {
	ID            uuid.UUID  `json:"id"`
	InstitutionID uuid.UUID  `json:"institution_id"`
	Email         string     `json:"email"`
	FullName      string     `json:"full_name"`
	Role          string     `json:"role"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

// AuthResponse is returned by signup, login and refresh
type AuthResponse struct {
	Token       TokenResponse        `json:"token"`
	Admin       AdminResponse        `json:"admin"`
	Institution *InstitutionResponse `json:"institution,omitempty"`
}

func toAdminResponse(a identity.AdminInfo) AdminResponse {
	return AdminResponse{
		ID:            a.ID,
		InstitutionID: a.InstitutionID,
		Email:         a.Email,
		FullName:      a.FullName,
		Role:          a.Role,
		LastLoginAt:   a.LastLoginAt,
	}
}

func toAuthResponse(r *identity.AuthResult) AuthResponse {
	resp := AuthResponse{
		Token: TokenResponse{
			AccessToken:           r.AccessToken,
			RefreshToken:          r.RefreshToken,
			AccessTokenExpiresAt:  r.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: r.RefreshTokenExpiresAt,
			TokenType:             r.TokenType,
		},
		Admin: toAdminResponse(r.Admin),
	}
	if r.Institution != nil {
		inst := toInstitutionResponse(r.Institution)
		resp.Institution = &inst
	}
	return resp
}
