package handler

import (
	"context"

	"github.com/edusaas/backend/internal/application/identity"
	"github.com/edusaas/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthUseCases is the slice of identity.AuthService the auth endpoints need
type AuthUseCases interface {
	Signup(ctx context.Context, input identity.SignupInput) (*identity.AuthResult, error)
	Login(ctx context.Context, input identity.LoginInput) (*identity.AuthResult, error)
	RefreshToken(ctx context.Context, input identity.RefreshTokenInput) (*identity.AuthResult, error)
	Logout(ctx context.Context, input identity.LogoutInput) error
	Me(ctx context.Context, userID uuid.UUID) (*identity.AdminInfo, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthUseCases
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthUseCases) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup godoc
// @ID           signupInstitution
// @Summary      Register an institution
// @Description  Create an institution with its first admin account and sign that admin in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Institution and admin details"
// @Success      201 {object} APIResponse[AuthResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), identity.SignupInput{
		InstitutionName: req.InstitutionName,
		ContactEmail:    req.ContactEmail,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        req.FullName,
		Subdomain:       req.Subdomain,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAuthResponse(result))
}

// Login godoc
// @ID           loginAdmin
// @Summary      Admin login
// @Description  Authenticate an institution admin with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[AuthResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuthResponse(result))
}

// RefreshToken godoc
// @ID           refreshAuthToken
// @Summary      Refresh access token
// @Description  Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} APIResponse[AuthResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), identity.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuthResponse(result))
}

// Logout godoc
// @ID           logoutAdmin
// @Summary      Admin logout
// @Description  Revoke the presented access token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} SuccessResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	input := identity.LogoutInput{UserID: userID}
	if claims := middleware.GetJWTClaims(c); claims != nil {
		input.TokenJTI = claims.ID
		input.RemainingTTL = claims.RemainingTTL()
	}

	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, nil)
}

// Me godoc
// @ID           getCurrentAdmin
// @Summary      Current admin
// @Description  Return the signed-in admin and their role
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} APIResponse[AdminResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	admin, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAdminResponse(*admin))
}
