// Package auth issues and checks the admin session tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/edusaas/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
	ErrTokenBlacklisted   = errors.New("token has been revoked")
)

// Claims identify an admin account and the institution it acts for.
// Refresh tokens leave Email and Role empty; they are re-read on refresh.
type Claims struct {
	jwt.RegisteredClaims
	InstitutionID string    `json:"institution_id"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email,omitempty"`
	Role          string    `json:"role,omitempty"`
	TokenType     TokenType `json:"token_type"`
	RefreshCount  int       `json:"refresh_count,omitempty"`
}

func (c *Claims) InstitutionUUID() (uuid.UUID, error) { return uuid.Parse(c.InstitutionID) }
func (c *Claims) UserUUID() (uuid.UUID, error)        { return uuid.Parse(c.UserID) }

// RemainingTTL is how long the token stays valid, zero once expired
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}

type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

type GenerateTokenInput struct {
	InstitutionID uuid.UUID
	UserID        uuid.UUID
	Email         string
	Role          string
}

// tokenKind is the key and lifetime of one of the two token types
type tokenKind struct {
	typ    TokenType
	secret []byte
	ttl    time.Duration
}

// JWTService signs HS256 token pairs. Access and refresh tokens use
// separate secrets unless no refresh secret is configured.
type JWTService struct {
	access          tokenKind
	refresh         tokenKind
	issuer          string
	maxRefreshCount int
	now             func() time.Time
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}
	return &JWTService{
		access:          tokenKind{TokenTypeAccess, []byte(cfg.Secret), cfg.AccessTokenExpiration},
		refresh:         tokenKind{TokenTypeRefresh, []byte(refreshSecret), cfg.RefreshTokenExpiration},
		issuer:          cfg.Issuer,
		maxRefreshCount: cfg.MaxRefreshCount,
		now:             time.Now,
	}
}

func (s *JWTService) GenerateTokenPair(input GenerateTokenInput) (*TokenPair, error) {
	return s.issuePair(input, 0)
}

func (s *JWTService) issuePair(input GenerateTokenInput, refreshCount int) (*TokenPair, error) {
	now := s.now()
	identity := Claims{
		InstitutionID: input.InstitutionID.String(),
		UserID:        input.UserID.String(),
	}

	access := identity
	access.Email, access.Role = input.Email, input.Role
	accessToken, accessExp, err := s.sign(s.access, access, now)
	if err != nil {
		return nil, err
	}

	refresh := identity
	refresh.RefreshCount = refreshCount
	refreshToken, refreshExp, err := s.sign(s.refresh, refresh, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExp,
		RefreshTokenExpiresAt: refreshExp,
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) sign(kind tokenKind, claims Claims, now time.Time) (string, time.Time, error) {
	exp := now.Add(kind.ttl)
	claims.TokenType = kind.typ
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   claims.UserID,
		Audience:  jwt.ClaimStrings{s.issuer},
		ExpiresAt: jwt.NewNumericDate(exp),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(kind.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind.typ, err)
	}
	return signed, exp, nil
}

func (s *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	return s.parse(token, s.access)
}

func (s *JWTService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.parse(token, s.refresh)
}

func (s *JWTService) parse(raw string, kind tokenKind) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return kind.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	}

	if claims.TokenType != kind.typ {
		return nil, ErrInvalidTokenType
	}
	if claims.InstitutionID == "" || claims.UserID == "" {
		return nil, fmt.Errorf("%w: institution_id and user_id are required", ErrInvalidClaims)
	}
	return claims, nil
}

// RefreshTokenPair rotates a valid refresh token into a new pair. email and
// role come from the caller's fresh lookup of the account, so a demoted admin
// loses the role on the next refresh.
func (s *JWTService) RefreshTokenPair(refreshToken, email, role string) (*TokenPair, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.RefreshCount >= s.maxRefreshCount {
		return nil, ErrMaxRefreshExceeded
	}

	institutionID, err := claims.InstitutionUUID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}
	return s.issuePair(GenerateTokenInput{
		InstitutionID: institutionID,
		UserID:        userID,
		Email:         email,
		Role:          role,
	}, claims.RefreshCount+1)
}
