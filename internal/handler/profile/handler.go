package profile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seikotsu/booking-api/internal/handler"
	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/service/profile"
)

type Handler struct {
	svc *profile.Service
}

func NewHandler(svc *profile.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/profile")
	{
		g.GET("", h.GetProfile)
		g.PUT("", h.UpdateProfile)
	}
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, _, err := handler.Identity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	p, err := h.svc.Get(c.Request.Context(), userID)
	if errors.Is(err, profile.ErrNotFound) {
		// No profile yet: the client shows an empty form.
		c.JSON(http.StatusOK, handler.NewSuccessResponse(&model.Profile{ID: userID}))
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to load profile"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, _, err := handler.Identity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	p, err := h.svc.Update(c.Request.Context(), userID, &req)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to save profile"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}
