package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/edusaas/backend/internal/infrastructure/auth"
	"github.com/edusaas/backend/internal/infrastructure/logger"
	"github.com/edusaas/backend/internal/infrastructure/telemetry"
	"github.com/edusaas/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// gin.Context keys set once a token is accepted
const (
	JWTClaimsKey        = "jwt_claims"
	JWTUserIDKey        = "jwt_user_id"
	JWTInstitutionIDKey = "jwt_institution_id"
	JWTRoleKey          = "jwt_role"
	AuthHeaderKey       = "Authorization"
	BearerPrefix        = "Bearer "
)

type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// TokenBlacklist is consulted when set; lookups that error let the
	// request through
	TokenBlacklist   auth.TokenBlacklist
	SkipPaths        []string
	SkipPathPrefixes []string
	// OnError replaces the default 401 envelope
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

// DefaultJWTConfig leaves the public endpoints open: health, signup, login,
// refresh, subdomain availability, the Stripe webhook and the docs.
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
			"/api/v1/auth/signup",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/institutions/subdomain-availability",
			"/webhooks/stripe",
		},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// JWTAuthMiddleware requires a valid access token on every non-public path
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	public := pathSkipper(cfg.SkipPaths, cfg.SkipPathPrefixes)

	return func(c *gin.Context) {
		if public(c.Request.URL.Path) {
			c.Next()
			return
		}

		token, reason := bearerToken(c)
		if token == "" {
			reject(c, cfg, log, auth.ErrInvalidToken, reason)
			return
		}
		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			reject(c, cfg, log, err, "token validation failed")
			return
		}
		if revoked(c, cfg.TokenBlacklist, claims, log) {
			reject(c, cfg, log, auth.ErrTokenBlacklisted, "token revoked")
			return
		}

		log.Debug("Authenticated request",
			zap.String("user_id", claims.UserID),
			zap.String("institution_id", claims.InstitutionID),
		)
		authenticate(c, claims)
	}
}

// OptionalJWTAuthMiddleware attaches the caller when a valid token is sent
// and otherwise lets the request through anonymously
func OptionalJWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, _ := bearerToken(c); token != "" {
			if claims, err := jwtService.ValidateAccessToken(token); err == nil {
				authenticate(c, claims)
				return
			}
		}
		c.Next()
	}
}

func revoked(c *gin.Context, blacklist auth.TokenBlacklist, claims *auth.Claims, log *zap.Logger) bool {
	if blacklist == nil || claims.ID == "" {
		return false
	}
	hit, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
	if err != nil {
		// a Redis outage must not log every admin out
		log.Error("Token blacklist lookup failed", zap.String("jti", claims.ID), zap.Error(err))
		return false
	}
	return hit
}

func bearerToken(c *gin.Context) (token, reason string) {
	header := c.GetHeader(AuthHeaderKey)
	switch {
	case header == "":
		return "", "missing authorization header"
	case !strings.HasPrefix(header, BearerPrefix):
		return "", "authorization header is not a bearer token"
	}
	if token = strings.TrimSpace(header[len(BearerPrefix):]); token == "" {
		return "", "empty bearer token"
	}
	return token, ""
}

// authenticate stores the claims for handlers and the log context, labels
// profiles with the institution, then continues the chain
func authenticate(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTInstitutionIDKey, claims.InstitutionID)
	c.Set(JWTRoleKey, claims.Role)

	ctx := logger.WithInstitutionID(logger.WithUserID(c.Request.Context(), claims.UserID), claims.InstitutionID)
	c.Request = c.Request.WithContext(ctx)

	nextLabelled(c, map[string]string{telemetry.ProfilingLabelInstitutionID: claims.InstitutionID})
}

var tokenFailures = []struct {
	errs    []error
	code    string
	message string
}{
	{[]error{auth.ErrExpiredToken}, dto.ErrCodeTokenExpired, "Token has expired"},
	{[]error{auth.ErrTokenBlacklisted}, dto.ErrCodeTokenRevoked, "Token has been revoked"},
	{
		[]error{auth.ErrInvalidToken, auth.ErrInvalidTokenType, auth.ErrInvalidClaims, auth.ErrTokenNotYetValid},
		dto.ErrCodeTokenInvalid, "Invalid token",
	},
}

func reject(c *gin.Context, cfg JWTMiddlewareConfig, log *zap.Logger, err error, reason string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}
	log.Warn("Rejected request token",
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	for _, f := range tokenFailures {
		if matchesAny(err, f.errs) {
			code, message = f.code, f.message
			break
		}
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, getRequestIDFromContext(c)))
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// GetJWTClaims returns nil on unauthenticated requests
func GetJWTClaims(c *gin.Context) *auth.Claims {
	claims, _ := c.Value(JWTClaimsKey).(*auth.Claims)
	return claims
}

func GetJWTUserID(c *gin.Context) string        { return c.GetString(JWTUserIDKey) }
func GetJWTInstitutionID(c *gin.Context) string { return c.GetString(JWTInstitutionIDKey) }
func GetJWTRole(c *gin.Context) string          { return c.GetString(JWTRoleKey) }
