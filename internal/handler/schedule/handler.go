package schedule

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/service/schedule"
	apperrors "github.com/vetcare/clinic-api/pkg/errors"
	"github.com/vetcare/clinic-api/pkg/httputil"
)

// Handler exposes the role-scoped schedule views.
type Handler struct {
	service *schedule.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *schedule.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	schedules := rg.Group("/schedule")
	{
		schedules.GET("/veterinarian/:id/daily",
			h.auth.RequireRole(middleware.RoleVeterinarian, middleware.RoleReceptionist),
			h.VeterinarianDayView)
		schedules.GET("/daily",
			h.auth.RequireRole(middleware.RoleReceptionist),
			h.ReceptionistDayView)
		schedules.GET("/my-pets",
			h.auth.RequireRole(middleware.RoleClient),
			h.ClientAppointmentsByPet)
	}
}

func (h *Handler) VeterinarianDayView(c *gin.Context) {
	vetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid veterinarian ID", err))
		return
	}

	date, err := parseDate(c)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid date", err))
		return
	}

	page := parsePage(c)
	responses, total, err := h.service.VeterinarianDayView(c.Request.Context(), vetID, date, page,
		c.Query("filter_field"), c.Query("filter_value"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithPagination(c, responses, page.Page, page.Size, total)
}

func (h *Handler) ReceptionistDayView(c *gin.Context) {
	date, err := parseDate(c)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid date", err))
		return
	}

	page := parsePage(c)
	daily, total, err := h.service.ReceptionistDayView(c.Request.Context(), date, page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithPagination(c, daily, page.Page, page.Size, total)
}

func (h *Handler) ClientAppointmentsByPet(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized("caller identity missing", nil))
		return
	}

	page := parsePage(c)
	summaries, total, err := h.service.ClientAppointmentsByPet(c.Request.Context(), callerID, page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithPagination(c, summaries, page.Page, page.Size, total)
}

// parseDate reads the day to query, defaulting to today. Both date-only and
// RFC 3339 values are accepted; only the calendar day is used.
func parseDate(c *gin.Context) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if d, err := time.Parse("2006-01-02", raw); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func parsePage(c *gin.Context) *model.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	return &model.PageRequest{
		Page:    page,
		Size:    size,
		SortBy:  c.Query("sort_by"),
		SortDir: c.Query("sort_dir"),
	}
}
