package handler

import (
	"context"
	"strings"

	"github.com/edusaas/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InstitutionUseCases is the slice of identity.InstitutionService the institution endpoints need
type InstitutionUseCases interface {
	CheckSubdomainAvailability(ctx context.Context, subdomain string) (*identity.SubdomainAvailability, error)
	GetCurrent(ctx context.Context, userID uuid.UUID) (*identity.InstitutionInfo, error)
	UpdateCurrent(ctx context.Context, userID uuid.UUID, input identity.UpdateInstitutionInput) (*identity.InstitutionInfo, error)
	CreateLogoUploadURL(ctx context.Context, userID uuid.UUID, contentType string) (*identity.LogoUploadResult, error)
}

// InstitutionHandler serves institution branding endpoints
type InstitutionHandler struct {
	BaseHandler
	institutionService InstitutionUseCases
}

// NewInstitutionHandler creates a new InstitutionHandler
func NewInstitutionHandler(institutionService InstitutionUseCases) *InstitutionHandler {
	return &InstitutionHandler{institutionService: institutionService}
}

// CheckSubdomainAvailability godoc
// @ID           checkSubdomainAvailability
// @Summary      Check subdomain availability
// @Description  Report whether a subdomain is valid and unclaimed
// @Tags         institutions
// @Produce      json
// @Param        subdomain query string true "Subdomain to check"
// @Success      200 {object} APIResponse[SubdomainAvailabilityResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /institutions/subdomain-availability [get]
func (h *InstitutionHandler) CheckSubdomainAvailability(c *gin.Context) {
	subdomain := strings.TrimSpace(c.Query("subdomain"))
	if subdomain == "" {
		h.BadRequest(c, "subdomain query parameter is required")
		return
	}

	result, err := h.institutionService.CheckSubdomainAvailability(c.Request.Context(), subdomain)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SubdomainAvailabilityResponse{
		Subdomain: result.Subdomain,
		Available: result.Available,
		Reason:    result.Reason,
	})
}

// GetCurrent godoc
// @ID           getCurrentInstitution
// @Summary      Current institution
// @Description  Return the signed-in admin's institution
// @Tags         institutions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[InstitutionResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /institutions/current [get]
func (h *InstitutionHandler) GetCurrent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.institutionService.GetCurrent(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInstitutionResponse(info))
}

// UpdateCurrent godoc
// @ID           updateCurrentInstitution
// @Summary      Update branding
// @Description  Change the name, contact email, logo or subdomain of the admin's institution
// @Tags         institutions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateInstitutionRequest true "Fields to change"
// @Success      200 {object} APIResponse[InstitutionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /institutions/current [put]
func (h *InstitutionHandler) UpdateCurrent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateInstitutionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	info, err := h.institutionService.UpdateCurrent(c.Request.Context(), userID, identity.UpdateInstitutionInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		LogoURL:      req.LogoURL,
		Subdomain:    req.Subdomain,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInstitutionResponse(info))
}

// CreateLogoUploadURL godoc
// @ID           createLogoUploadURL
// @Summary      Presign a logo upload
// @Description  Return a presigned PUT URL for a new institution logo
// @Tags         institutions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body LogoUploadRequest true "Image content type"
// @Success      200 {object} APIResponse[LogoUploadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /institutions/current/logo-upload-url [post]
func (h *InstitutionHandler) CreateLogoUploadURL(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req LogoUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.institutionService.CreateLogoUploadURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LogoUploadResponse{
		UploadURL:  result.UploadURL,
		StorageKey: result.StorageKey,
		PublicURL:  result.PublicURL,
		ExpiresAt:  result.ExpiresAt,
	})
}
