package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogoStorage issues presigned upload targets for institution logos
type LogoStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	PublicURL(storageKey string) string
}

const defaultLogoUploadExpiry = 15 * time.Minute

// logoExtensions maps allowed logo content types to file extensions
var logoExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// InstitutionService handles institution branding for the signed-in admin
type InstitutionService struct {
	institutions identity.InstitutionRepository
	accounts     identity.AdminAccountRepository
	roles        identity.UserRoleRepository
	storage      LogoStorage
	uploadExpiry time.Duration
	logger       *zap.Logger
}

// NewInstitutionService creates a new InstitutionService
func NewInstitutionService(
	institutions identity.InstitutionRepository,
	accounts identity.AdminAccountRepository,
	roles identity.UserRoleRepository,
	storage LogoStorage,
	uploadExpiry time.Duration,
	logger *zap.Logger,
) *InstitutionService {
	if uploadExpiry <= 0 {
		uploadExpiry = defaultLogoUploadExpiry
	}
	return &InstitutionService{
		institutions: institutions,
		accounts:     accounts,
		roles:        roles,
		storage:      storage,
		uploadExpiry: uploadExpiry,
		logger:       logger,
	}
}

// CheckSubdomainAvailability reports whether subdomain can be claimed.
// Invalid input is an unavailable answer, not an error.
func (s *InstitutionService) CheckSubdomainAvailability(ctx context.Context, subdomain string) (*SubdomainAvailability, error) {
	subdomain = identity.NormalizeSubdomain(subdomain)
	result := &SubdomainAvailability{Subdomain: subdomain}

	if err := identity.ValidateSubdomain(subdomain); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			result.Reason = domainErr.Message
			return result, nil
		}
		return nil, err
	}

	taken, err := s.institutions.ExistsBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	if taken {
		result.Reason = "This subdomain is already taken"
		return result, nil
	}

	result.Available = true
	return result, nil
}

// ResolveInstitutionID finds the institution the admin belongs to: the
// account's own link first, then any institution_admin role grant.
func (s *InstitutionService) ResolveInstitutionID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	account, err := s.accounts.FindByID(ctx, userID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return uuid.Nil, err
	}
	if account != nil && account.InstitutionID != uuid.Nil {
		return account.InstitutionID, nil
	}

	grants, err := s.roles.FindByUser(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	for _, g := range grants {
		if g.Role == identity.RoleInstitutionAdmin {
			return g.InstitutionID, nil
		}
	}
	return uuid.Nil, shared.NewDomainError("NOT_FOUND", "No institution found for this account")
}

// GetCurrent returns the admin's institution
func (s *InstitutionService) GetCurrent(ctx context.Context, userID uuid.UUID) (*InstitutionInfo, error) {
	institution, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToInstitutionInfo(institution), nil
}

// UpdateCurrent applies a branding update to the admin's institution
func (s *InstitutionService) UpdateCurrent(ctx context.Context, userID uuid.UUID, input UpdateInstitutionInput) (*InstitutionInfo, error) {
	institution, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := institution.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.ContactEmail != nil {
		if err := institution.SetContactEmail(*input.ContactEmail); err != nil {
			return nil, err
		}
	}
	if input.LogoURL != nil {
		if err := institution.SetLogoURL(*input.LogoURL); err != nil {
			return nil, err
		}
	}
	if input.Subdomain != nil {
		subdomain := identity.NormalizeSubdomain(*input.Subdomain)
		if subdomain != institution.Subdomain {
			if err := institution.SetSubdomain(subdomain); err != nil {
				return nil, err
			}
			if subdomain != "" {
				taken, err := s.institutions.ExistsBySubdomain(ctx, subdomain)
				if err != nil {
					return nil, err
				}
				if taken {
					return nil, shared.NewDomainError("ALREADY_EXISTS", "This subdomain is already taken")
				}
			}
		}
	}

	if err := s.institutions.Save(ctx, institution); err != nil {
		s.logger.Error("Failed to save institution",
			zap.String("institution_id", institution.ID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Institution branding updated", zap.String("institution_id", institution.ID.String()))
	return ToInstitutionInfo(institution), nil
}

// CreateLogoUploadURL returns a presigned PUT target for a new logo
func (s *InstitutionService) CreateLogoUploadURL(ctx context.Context, userID uuid.UUID, contentType string) (*LogoUploadResult, error) {
	ext, ok := logoExtensions[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", "Logo must be a PNG, JPEG, WebP or SVG image")
	}

	institutionID, err := s.ResolveInstitutionID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("institutions/%s/logo/%s%s", institutionID, uuid.New(), ext)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.uploadExpiry)
	if err != nil {
		s.logger.Error("Failed to presign logo upload", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return &LogoUploadResult{
		UploadURL:  url,
		StorageKey: key,
		PublicURL:  s.storage.PublicURL(key),
		ExpiresAt:  expiresAt,
	}, nil
}

func (s *InstitutionService) current(ctx context.Context, userID uuid.UUID) (*identity.Institution, error) {
	institutionID, err := s.ResolveInstitutionID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.institutions.FindByID(ctx, institutionID)
}
