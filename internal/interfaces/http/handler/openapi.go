package handler

import "github.com/edusaas/backend/internal/interfaces/http/dto"

// The types below only describe dto.Response to swag. Handlers never build
// them; they write dto.Response through BaseHandler.

// APIResponse is dto.Response with its data field typed for the docs
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// ErrorResponse is the failure envelope
// @Description Returned with every 4xx and 5xx except the Stripe webhook
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}

// SuccessResponse is returned by endpoints with nothing to report, such as logout
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}
