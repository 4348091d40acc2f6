package reminder

import (
	"github.com/gin-gonic/gin"

	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/service/reminder"
	apperrors "github.com/vetcare/clinic-api/pkg/errors"
	"github.com/vetcare/clinic-api/pkg/httputil"
)

// Handler exposes the reminder sweep configuration to staff.
type Handler struct {
	service *reminder.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *reminder.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	configs := rg.Group("/reminders/config",
		h.auth.RequireRole(middleware.RoleReceptionist, middleware.RoleVeterinarian))
	{
		configs.GET("", h.GetConfig)
		configs.PUT("", h.UpdateConfig)
	}
}

func (h *Handler) GetConfig(c *gin.Context) {
	cfg, err := h.service.GetConfig(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, cfg)
}

func (h *Handler) UpdateConfig(c *gin.Context) {
	var req model.UpdateReminderConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	cfg, err := h.service.UpdateConfig(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, cfg)
}
