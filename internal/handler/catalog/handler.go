package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seikotsu/booking-api/internal/handler"
	"github.com/seikotsu/booking-api/internal/service/catalog"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/services", h.ListServices)
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to load services"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(services))
}
