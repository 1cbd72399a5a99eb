// Package identity holds the signup, login and institution branding use cases.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/edusaas/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")

// AuthService handles authentication operations
type AuthService struct {
	registrations identity.RegistrationRepository
	institutions  identity.InstitutionRepository
	accounts      identity.AdminAccountRepository
	roles         identity.UserRoleRepository
	jwtService    *auth.JWTService
	blacklist     auth.TokenBlacklist
	events        shared.EventPublisher
	logger        *zap.Logger
}

// AuthServiceConfig contains the dependencies of AuthService.
// Blacklist and EventBus may be nil.
type AuthServiceConfig struct {
	Registrations identity.RegistrationRepository
	Institutions  identity.InstitutionRepository
	Accounts      identity.AdminAccountRepository
	Roles         identity.UserRoleRepository
	JWTService    *auth.JWTService
	Blacklist     auth.TokenBlacklist
	EventBus      shared.EventPublisher
	Logger        *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		registrations: cfg.Registrations,
		institutions:  cfg.Institutions,
		accounts:      cfg.Accounts,
		roles:         cfg.Roles,
		jwtService:    cfg.JWTService,
		blacklist:     cfg.Blacklist,
		events:        cfg.EventBus,
		logger:        log,
	}
}

// Signup registers an institution together with its first admin account
// and the institution_admin role, then signs the admin in.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	if input.Password != input.ConfirmPassword {
		return nil, shared.NewDomainError("INVALID_INPUT", "Passwords do not match")
	}

	institution, err := identity.NewInstitution(input.InstitutionName, input.ContactEmail)
	if err != nil {
		return nil, err
	}

	if subdomain := identity.NormalizeSubdomain(input.Subdomain); subdomain != "" {
		if err := institution.SetSubdomain(subdomain); err != nil {
			return nil, err
		}
		taken, err := s.institutions.ExistsBySubdomain(ctx, subdomain)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "This subdomain is already taken")
		}
	}

	account, err := identity.NewAdminAccount(institution.ID, institution.ContactEmail, input.FullName, input.Password)
	if err != nil {
		return nil, err
	}

	exists, err := s.accounts.ExistsByEmail(ctx, account.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	role := identity.NewUserRole(account.ID, institution.ID, identity.RoleInstitutionAdmin)
	if err := s.registrations.Register(ctx, institution, account, role); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
		}
		s.logger.Error("Failed to register institution", zap.Error(err))
		return nil, err
	}

	s.publish(ctx, institution.PullDomainEvents()...)

	s.logger.Info("Institution registered",
		zap.String("institution_id", institution.ID.String()),
		zap.String("admin_id", account.ID.String()))

	result, err := s.issue(account, string(identity.RoleInstitutionAdmin))
	if err != nil {
		return nil, err
	}
	result.Institution = ToInstitutionInfo(institution)
	return result, nil
}

// Login authenticates an admin by email and password
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	s.logger.Info("Login attempt", zap.String("email", email))

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Account not found during login", zap.String("email", email))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !account.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", email), zap.String("ip", input.IP))
		return nil, errInvalidCredentials
	}

	role, err := s.roleFor(ctx, account)
	if err != nil {
		s.logger.Error("Failed to load user roles", zap.Error(err))
		return nil, err
	}

	result, err := s.issue(account, role)
	if err != nil {
		return nil, err
	}

	account.RecordLogin()
	if err := s.accounts.Save(ctx, account); err != nil {
		// Don't fail the login
		s.logger.Error("Failed to record login", zap.Error(err))
	}
	result.Admin.LastLoginAt = account.LastLoginAt

	s.logger.Info("Admin logged in", zap.String("user_id", account.ID.String()))
	return result, nil
}

// RefreshToken rotates a refresh token, re-reading the account and its role
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	account, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Account no longer exists")
		}
		return nil, err
	}

	role, err := s.roleFor(ctx, account)
	if err != nil {
		return nil, err
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, account.Email, role)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		Admin:                 toAdminInfo(account, role),
	}, nil
}

// Logout revokes the presented access token until it would have expired.
// Without a blacklist the client simply discards its tokens.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("Admin logout", zap.String("user_id", input.UserID.String()))

	if s.blacklist == nil || input.TokenJTI == "" || input.RemainingTTL <= 0 {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.RemainingTTL); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return err
	}
	return nil
}

// Me returns the signed-in admin
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*AdminInfo, error) {
	account, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	role, err := s.roleFor(ctx, account)
	if err != nil {
		return nil, err
	}
	info := toAdminInfo(account, role)
	return &info, nil
}

// roleFor returns the role the account holds in its own institution, or ""
func (s *AuthService) roleFor(ctx context.Context, account *identity.AdminAccount) (string, error) {
	grants, err := s.roles.FindByUser(ctx, account.ID)
	if err != nil {
		return "", err
	}
	for _, g := range grants {
		if g.InstitutionID == account.InstitutionID {
			return string(g.Role), nil
		}
	}
	return "", nil
}

func (s *AuthService) issue(account *identity.AdminAccount, role string) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		InstitutionID: account.InstitutionID,
		UserID:        account.ID,
		Email:         account.Email,
		Role:          role,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}
	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		Admin:                 toAdminInfo(account, role),
	}, nil
}

func (s *AuthService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish identity events", zap.Error(err))
	}
}

func toAdminInfo(account *identity.AdminAccount, role string) AdminInfo {
	return AdminInfo{
		ID:            account.ID,
		InstitutionID: account.InstitutionID,
		Email:         account.Email,
		FullName:      account.FullName,
		Role:          role,
		LastLoginAt:   account.LastLoginAt,
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}
