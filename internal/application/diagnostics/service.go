// Package diagnostics runs the setup checks an admin sees on the diagnostics page.
package diagnostics

import (
	"context"
	"fmt"
	"strings"

	"github.com/edusaas/backend/internal/domain/academy"
	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status is the result of a single check
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Check names
const (
	CheckAuthentication = "Authentication"
	CheckUserRoles      = "User Roles"
	CheckInstitution    = "Institution"
	CheckProfile        = "Profile"
	CheckClassesTable   = "Classes Table"
	CheckStudentsTable  = "Students Table"
	CheckStripeConfig   = "Stripe Configuration"
	CheckDatabase       = "Database"
)

// Check is one diagnostic line
type Check struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Details string `json:"details"`
	Error   string `json:"error,omitempty"`
}

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// StripeSettings is the subset of provider configuration inspected by the checks
type StripeSettings struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
	TestMode       bool
}

// Caller identifies who asked for diagnostics. A zero UserID means unauthenticated.
type Caller struct {
	UserID        uuid.UUID
	InstitutionID uuid.UUID
}

// Service runs diagnostics
type Service struct {
	accounts     identity.AdminAccountRepository
	roles        identity.UserRoleRepository
	institutions identity.InstitutionRepository
	classes      academy.ClassRepository
	students     academy.StudentRepository
	db           Pinger
	stripe       StripeSettings
	logger       *zap.Logger
}

// NewService creates a diagnostics Service
func NewService(
	accounts identity.AdminAccountRepository,
	roles identity.UserRoleRepository,
	institutions identity.InstitutionRepository,
	classes academy.ClassRepository,
	students academy.StudentRepository,
	db Pinger,
	stripe StripeSettings,
	logger *zap.Logger,
) *Service {
	return &Service{
		accounts:     accounts,
		roles:        roles,
		institutions: institutions,
		classes:      classes,
		students:     students,
		db:           db,
		stripe:       stripe,
		logger:       logger,
	}
}

// Run executes every check in a fixed order. Failures are reported in the
// result, never returned.
func (s *Service) Run(ctx context.Context, caller Caller) []Check {
	authenticated := caller.UserID != uuid.Nil
	checks := []Check{
		s.checkAuthentication(caller),
		s.checkUserRoles(ctx, caller, authenticated),
		s.checkInstitution(ctx, caller, authenticated),
		s.checkProfile(ctx, caller, authenticated),
		s.checkCount(ctx, CheckClassesTable, "classes", s.classes.Count),
		s.checkCount(ctx, CheckStudentsTable, "students", s.students.Count),
		s.checkStripe(),
		s.checkDatabase(ctx),
	}

	failed := 0
	for _, c := range checks {
		if c.Status == StatusFail {
			failed++
		}
	}
	s.logger.Info("Diagnostics run",
		zap.String("user_id", caller.UserID.String()),
		zap.Int("failed", failed))
	return checks
}

func (s *Service) checkAuthentication(caller Caller) Check {
	if caller.UserID == uuid.Nil {
		return Check{Name: CheckAuthentication, Status: StatusFail, Details: "No authenticated user"}
	}
	return Check{Name: CheckAuthentication, Status: StatusPass, Details: "Signed in as " + caller.UserID.String()}
}

func (s *Service) checkUserRoles(ctx context.Context, caller Caller, authenticated bool) Check {
	if !authenticated {
		return skipped(CheckUserRoles)
	}
	grants, err := s.roles.FindByUser(ctx, caller.UserID)
	if err != nil {
		return failed(CheckUserRoles, "Could not load roles", err)
	}
	if len(grants) == 0 {
		return Check{Name: CheckUserRoles, Status: StatusFail, Details: "No roles assigned"}
	}
	names := make([]string, len(grants))
	for i, g := range grants {
		names[i] = string(g.Role)
	}
	return Check{Name: CheckUserRoles, Status: StatusPass, Details: "Roles: " + strings.Join(names, ", ")}
}

func (s *Service) checkInstitution(ctx context.Context, caller Caller, authenticated bool) Check {
	if !authenticated {
		return skipped(CheckInstitution)
	}
	if caller.InstitutionID == uuid.Nil {
		return Check{Name: CheckInstitution, Status: StatusFail, Details: "No institution linked to this account"}
	}
	institution, err := s.institutions.FindByID(ctx, caller.InstitutionID)
	if err != nil {
		return failed(CheckInstitution, "Institution lookup failed", err)
	}
	return Check{Name: CheckInstitution, Status: StatusPass, Details: "Institution: " + institution.Name}
}

func (s *Service) checkProfile(ctx context.Context, caller Caller, authenticated bool) Check {
	if !authenticated {
		return skipped(CheckProfile)
	}
	account, err := s.accounts.FindByID(ctx, caller.UserID)
	if err != nil {
		return failed(CheckProfile, "Admin profile lookup failed", err)
	}
	return Check{Name: CheckProfile, Status: StatusPass, Details: fmt.Sprintf("%s <%s>", account.FullName, account.Email)}
}

func (s *Service) checkCount(ctx context.Context, name, table string, count func(context.Context) (int64, error)) Check {
	n, err := count(ctx)
	if err != nil {
		return failed(name, "Cannot read "+table+" table", err)
	}
	return Check{Name: name, Status: StatusPass, Details: fmt.Sprintf("%d rows in %s", n, table)}
}

func (s *Service) checkStripe() Check {
	cfg := s.stripe
	var missing []string
	if cfg.SecretKey == "" {
		missing = append(missing, "secret key")
	}
	if cfg.WebhookSecret == "" {
		missing = append(missing, "webhook secret")
	}
	if len(missing) > 0 {
		return Check{Name: CheckStripeConfig, Status: StatusFail, Details: "Missing " + strings.Join(missing, " and ")}
	}

	if mode := keyMode(cfg.SecretKey, "sk_"); mode != "" && mode != expectedMode(cfg.TestMode) {
		return Check{Name: CheckStripeConfig, Status: StatusFail,
			Details: fmt.Sprintf("Secret key is a %s key but test_mode=%t", mode, cfg.TestMode)}
	}
	if mode := keyMode(cfg.PublishableKey, "pk_"); mode != "" && mode != expectedMode(cfg.TestMode) {
		return Check{Name: CheckStripeConfig, Status: StatusFail,
			Details: fmt.Sprintf("Publishable key is a %s key but test_mode=%t", mode, cfg.TestMode)}
	}

	return Check{Name: CheckStripeConfig, Status: StatusPass, Details: "Keys present (" + expectedMode(cfg.TestMode) + " mode)"}
}

func (s *Service) checkDatabase(ctx context.Context) Check {
	if s.db == nil {
		return skipped(CheckDatabase)
	}
	if err := s.db.PingContext(ctx); err != nil {
		return failed(CheckDatabase, "Database ping failed", err)
	}
	return Check{Name: CheckDatabase, Status: StatusPass, Details: "Database reachable"}
}

// keyMode returns "test" or "live" for a Stripe key with the given prefix, or "" if unrecognized
func keyMode(key, prefix string) string {
	switch {
	case strings.HasPrefix(key, prefix+"test_"):
		return "test"
	case strings.HasPrefix(key, prefix+"live_"):
		return "live"
	default:
		return ""
	}
}

func expectedMode(testMode bool) string {
	if testMode {
		return "test"
	}
	return "live"
}

func skipped(name string) Check {
	return Check{Name: name, Status: StatusSkip, Details: "Requires authentication"}
}

func failed(name, details string, err error) Check {
	return Check{Name: name, Status: StatusFail, Details: details, Error: err.Error()}
}
