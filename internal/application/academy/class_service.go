// Package academy holds the class management use cases of an institution admin.
package academy

import (
	"context"
	"errors"

	"github.com/edusaas/backend/internal/domain/academy"
	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/edusaas/backend/internal/domain/shared/valueobject"
	"github.com/edusaas/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errClassNotFound        = shared.NewDomainError("NOT_FOUND", "Class not found")
	errNotInstitutionAdmin  = shared.NewDomainError("FORBIDDEN", "You must be an institution admin to manage classes")
	errProviderUnconfigured = shared.NewDomainError("PAYMENT_PROVIDER", "Stripe keys not configured")
)

// ClassService manages the classes of an institution
type ClassService struct {
	classes      academy.ClassRepository
	students     academy.StudentRepository
	institutions identity.InstitutionRepository
	roles        identity.UserRoleRepository
	provisioner  academy.PaymentLinkProvisioner
	currency     valueobject.Currency
	events       shared.EventPublisher
	logger       *zap.Logger
}

// ClassServiceConfig contains the dependencies of ClassService.
// Provisioner is nil when the payment provider is not configured.
type ClassServiceConfig struct {
	Classes      academy.ClassRepository
	Students     academy.StudentRepository
	Institutions identity.InstitutionRepository
	Roles        identity.UserRoleRepository
	Provisioner  academy.PaymentLinkProvisioner
	Currency     string
	EventBus     shared.EventPublisher
	Logger       *zap.Logger
}

// NewClassService creates a new ClassService
func NewClassService(cfg ClassServiceConfig) *ClassService {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	currency, err := valueobject.ParseCurrency(cfg.Currency)
	if err != nil {
		currency = valueobject.DefaultCurrency
	}
	return &ClassService{
		classes:      cfg.Classes,
		students:     cfg.Students,
		institutions: cfg.Institutions,
		roles:        cfg.Roles,
		provisioner:  cfg.Provisioner,
		currency:     currency,
		events:       cfg.EventBus,
		logger:       log,
	}
}

// ListClasses returns the institution's classes, newest first
func (s *ClassService) ListClasses(ctx context.Context, institutionID uuid.UUID) ([]ClassResponse, error) {
	classes, err := s.classes.FindByInstitution(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	out := make([]ClassResponse, len(classes))
	for i := range classes {
		out[i] = ToClassResponse(&classes[i])
	}
	return out, nil
}

// GetClassDetail returns a class with its students. A class owned by another
// institution is reported as not found.
func (s *ClassService) GetClassDetail(ctx context.Context, institutionID, classID uuid.UUID) (*ClassDetailResponse, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errClassNotFound
		}
		return nil, err
	}
	if !class.BelongsTo(institutionID) {
		return nil, errClassNotFound
	}

	students, err := s.students.FindByClass(ctx, class.ID)
	if err != nil {
		return nil, err
	}

	detail := &ClassDetailResponse{
		Class:    ToClassResponse(class),
		Students: make([]StudentResponse, len(students)),
		Counts:   academy.CountByStatus(students),
	}
	for i := range students {
		detail.Students[i] = ToStudentResponse(&students[i])
	}
	return detail, nil
}

// CreateClass creates a class, optionally provisioning a subscription payment
// link for it first. Nothing is stored when provisioning fails.
func (s *ClassService) CreateClass(ctx context.Context, input CreateClassInput) (*CreateClassResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "class", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInstitutionID, input.InstitutionID.String(),
		telemetry.SpanAttrClassName, input.Name,
	)

	log := s.logger.With(
		zap.String("institution_id", input.InstitutionID.String()),
		zap.String("user_id", input.UserID.String()),
	)

	isAdmin, err := s.roles.HasRole(ctx, input.UserID, input.InstitutionID, identity.RoleInstitutionAdmin)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		log.Warn("Class creation denied: not an institution admin")
		return nil, errNotInstitutionAdmin
	}

	institution, err := s.institutions.FindByID(ctx, input.InstitutionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Institution not found")
		}
		return nil, err
	}

	name := academy.NormalizeClassName(input.Name)
	if err := academy.ValidateClassName(name); err != nil {
		return nil, err
	}
	price, err := valueobject.NewMoney(input.MonthlyPrice, s.currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Invalid monthly price")
	}
	price = price.Round()
	if err := academy.ValidateMonthlyPrice(price); err != nil {
		return nil, err
	}

	exists, err := s.classes.ExistsByInstitutionAndName(ctx, institution.ID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A class with this name already exists")
	}

	var link academy.PaymentLinkInfo
	if input.ProvisionPaymentLink {
		if s.provisioner == nil {
			return nil, errProviderUnconfigured
		}
		link, err = s.provisioner.ProvisionPaymentLink(ctx, academy.ProvisionRequest{
			InstitutionID:   institution.ID,
			InstitutionName: institution.Name,
			ClassName:       name,
			MonthlyPrice:    price,
		})
		if err != nil {
			telemetry.RecordError(span, err)
			log.Error("Failed to provision payment link", zap.Error(err))
			return nil, shared.NewDomainError("PAYMENT_PROVIDER", "Failed to create Stripe payment link: "+err.Error()).WithCause(err)
		}
	}

	class, err := academy.NewClass(institution.ID, name, price, link)
	if err != nil {
		return nil, err
	}
	if err := s.classes.Save(ctx, class); err != nil {
		log.Error("Failed to save class", zap.Error(err))
		return nil, err
	}

	if events := class.PullDomainEvents(); s.events != nil {
		if err := s.events.Publish(ctx, events...); err != nil {
			log.Warn("Failed to publish class events", zap.Error(err))
		}
	}

	log.Info("Class created",
		zap.String("class_id", class.ID.String()),
		zap.Bool("payment_link", class.HasPaymentLink()))

	resp := ToClassResponse(class)
	return &CreateClassResult{Class: resp, PaymentLink: resp.StripePaymentLink}, nil
}
