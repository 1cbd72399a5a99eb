package handler

import (
	"context"

	"github.com/edusaas/backend/internal/application/diagnostics"
	"github.com/edusaas/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DiagnosticsRunner runs the setup checks
type DiagnosticsRunner interface {
	Run(ctx context.Context, caller diagnostics.Caller) []diagnostics.Check
}

// DiagnosticsResponse lists every check with a tally
type DiagnosticsResponse struct {
	Checks  []diagnostics.Check `json:"checks"`
	Passed  int                 `json:"passed"`
	Failed  int                 `json:"failed"`
	Skipped int                 `json:"skipped"`
}

// DiagnosticsHandler serves the setup diagnostics page
type DiagnosticsHandler struct {
	BaseHandler
	runner DiagnosticsRunner
}

// NewDiagnosticsHandler creates a new DiagnosticsHandler
func NewDiagnosticsHandler(runner DiagnosticsRunner) *DiagnosticsHandler {
	return &DiagnosticsHandler{runner: runner}
}

// Run godoc
// @ID           runDiagnostics
// @Summary      Run diagnostics
// @Description  Check authentication, roles, institution, tables, payment provider keys and database. Always answers 200.
// @Tags         diagnostics
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[DiagnosticsResponse]
// @Router       /diagnostics [get]
func (h *DiagnosticsHandler) Run(c *gin.Context) {
	checks := h.runner.Run(c.Request.Context(), callerFromContext(c))

	resp := DiagnosticsResponse{Checks: checks}
	for _, check := range checks {
		switch check.Status {
		case diagnostics.StatusPass:
			resp.Passed++
		case diagnostics.StatusFail:
			resp.Failed++
		case diagnostics.StatusSkip:
			resp.Skipped++
		}
	}

	h.Success(c, resp)
}

// callerFromContext reads optional claims; unparseable ids count as anonymous
func callerFromContext(c *gin.Context) diagnostics.Caller {
	var caller diagnostics.Caller
	if id, err := uuid.Parse(middleware.GetJWTUserID(c)); err == nil {
		caller.UserID = id
	}
	if id, err := uuid.Parse(middleware.GetJWTInstitutionID(c)); err == nil {
		caller.InstitutionID = id
	}
	return caller
}
