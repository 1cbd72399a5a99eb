package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/edusaas/backend/internal/infrastructure/logger"
	"github.com/edusaas/backend/internal/interfaces/http/dto"
	"github.com/edusaas/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler is embedded by every handler for the shared response envelope.
type BaseHandler struct{}

var (
	errMissingUserID        = errors.New("user ID not found in context")
	errMissingInstitutionID = errors.New("institution ID not found in context")
)

// getRequestID prefers the ID the request-ID middleware stored over the raw header
func getRequestID(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDKey)
}

// claimID parses an identity claim the JWT middleware put on the context.
// Identity never comes from request headers.
func claimID(raw string, missing error) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, missing
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("malformed identity claim: %w", err)
	}
	return id, nil
}

func getUserID(c *gin.Context) (uuid.UUID, error) {
	return claimID(middleware.GetJWTUserID(c), errMissingUserID)
}

func getInstitutionID(c *gin.Context) (uuid.UUID, error) {
	return claimID(middleware.GetJWTInstitutionID(c), errMissingInstitutionID)
}

// bindJSON decodes and validates the body, writing the 400 itself on failure.
// Field rule and type mismatches get per-field details; broken JSON does not.
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var (
		fieldErrs validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
	)
	if errors.As(err, &fieldErrs) || errors.As(err, &typeErr) {
		middleware.HandleValidationError(c, err)
	} else {
		h.BadRequest(c, "Invalid request body")
	}
	return false
}

func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes the error envelope, stamped with the request ID
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode looks the status up in dto.ErrorCodeHTTPStatus
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeBadRequest, message)
}

func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeNotFound, message)
}

func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeUnauthorized, message)
}

func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeForbidden, message)
}

// Conflict reports a duplicate such as a taken subdomain or email
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeAlreadyExists, message)
}

func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeInternal, message)
}

// HandleError maps a DomainError anywhere in err's chain to its HTTP status.
// Other errors are logged and answered with a generic 500 so driver or SDK
// text never reaches the client.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.ErrorWithCode(c, dto.NormalizeErrorCode(domainErr.Code), domainErr.Message)
		return
	}
	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}
