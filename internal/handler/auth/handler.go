package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seikotsu/booking-api/internal/handler"
	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/service/auth"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/auth")
	{
		g.POST("/register", h.Register)
		g.POST("/login", h.Login)
		g.POST("/refresh", h.Refresh)
		g.POST("/password-reset", h.RequestPasswordReset)
		g.POST("/password-reset/confirm", h.ConfirmPasswordReset)
	}
}

// RegisterProtectedRoutes adds the routes that need an authenticated
// caller.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/auth/logout", h.Logout)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, tokens, err := h.svc.Register(c.Request.Context(), &req)
	if errors.Is(err, auth.ErrEmailTaken) {
		c.JSON(http.StatusConflict, handler.NewErrorResponse("email already registered"))
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("registration failed"))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{
		"user":   user,
		"tokens": tokens,
	}))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, tokens, err := h.svc.Login(c.Request.Context(), &req)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid email or password"))
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("login failed"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"user":   user,
		"tokens": tokens,
	}))
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if errors.Is(err, auth.ErrInvalidToken) {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid refresh token"))
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("token refresh failed"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Logout(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), claims); err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("logout failed"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req model.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("password reset failed"))
		return
	}

	// Always accepted, regardless of whether the email is registered.
	c.JSON(http.StatusAccepted, handler.NewSuccessResponse(nil))
}

func (h *Handler) ConfirmPasswordReset(c *gin.Context) {
	var req model.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	err := h.svc.ConfirmPasswordReset(c.Request.Context(), &req)
	if errors.Is(err, auth.ErrInvalidToken) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid or expired reset token"))
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("password reset failed"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func claimsFromContext(c *gin.Context) (*model.TokenClaims, error) {
	userID, email, err := handler.Identity(c)
	if err != nil {
		return nil, err
	}
	return &model.TokenClaims{UserID: userID, Email: email}, nil
}
