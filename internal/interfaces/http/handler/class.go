package handler

import (
	"context"

	"github.com/edusaas/backend/internal/application/academy"
	"github.com/edusaas/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClassUseCases is the slice of academy.ClassService the class endpoints need
type ClassUseCases interface {
	ListClasses(ctx context.Context, institutionID uuid.UUID) ([]academy.ClassResponse, error)
	GetClassDetail(ctx context.Context, institutionID, classID uuid.UUID) (*academy.ClassDetailResponse, error)
	CreateClass(ctx context.Context, input academy.CreateClassInput) (*academy.CreateClassResult, error)
}

// CreateClassRequest creates a class, by default with a subscription payment link
type CreateClassRequest struct {
	Name                 string          `json:"name" binding:"required,min=2,max=100"`
	MonthlyPrice         decimal.Decimal `json:"monthly_price" swaggertype:"string" example:"49.90"`
	ProvisionPaymentLink *bool           `json:"provision_payment_link"`
}

// ClassHandler serves class endpoints for the signed-in admin's institution
type ClassHandler struct {
	BaseHandler
	classService ClassUseCases
}

// NewClassHandler creates a new ClassHandler
func NewClassHandler(classService ClassUseCases) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// ListClasses godoc
// @ID           listClasses
// @Summary      List classes
// @Description  Classes of the admin's institution, newest first
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[[]academy.ClassResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /classes [get]
func (h *ClassHandler) ListClasses(c *gin.Context) {
	institutionID, err := getInstitutionID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	classes, err := h.classService.ListClasses(c.Request.Context(), institutionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, classes)
}

// GetClass godoc
// @ID           getClass
// @Summary      Class detail
// @Description  A class with its students and subscription status counts
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Class ID" format(uuid)
// @Success      200 {object} APIResponse[academy.ClassDetailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /classes/{id} [get]
func (h *ClassHandler) GetClass(c *gin.Context) {
	institutionID, err := getInstitutionID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid class ID")
		return
	}

	detail, err := h.classService.GetClassDetail(c.Request.Context(), institutionID, classID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, detail)
}

// CreateClass godoc
// @ID           createClass
// @Summary      Create a class
// @Description  Create a class and, unless provision_payment_link is false, a monthly subscription payment link for it
// @Tags         classes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateClassRequest true "Class details"
// @Success      201 {object} APIResponse[academy.CreateClassResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /classes [post]
func (h *ClassHandler) CreateClass(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	institutionID, err := getInstitutionID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateClassRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if !req.MonthlyPrice.IsPositive() {
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeValidation), dto.NewValidationErrorResponse(
			"Request validation failed", getRequestID(c),
			[]dto.ValidationDetail{{Field: "monthly_price", Message: "Must be greater than 0"}}))
		return
	}

	provision := true
	if req.ProvisionPaymentLink != nil {
		provision = *req.ProvisionPaymentLink
	}

	result, err := h.classService.CreateClass(c.Request.Context(), academy.CreateClassInput{
		UserID:               userID,
		InstitutionID:        institutionID,
		Name:                 req.Name,
		MonthlyPrice:         req.MonthlyPrice,
		ProvisionPaymentLink: provision,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
