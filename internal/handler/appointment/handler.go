package appointment

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/service/appointment"
	"github.com/vetcare/clinic-api/internal/service/confirmation"
	apperrors "github.com/vetcare/clinic-api/pkg/errors"
	"github.com/vetcare/clinic-api/pkg/httputil"
)

// Handler exposes the appointment lifecycle over HTTP. The confirmation
// endpoint is registered separately because it is reached from emailed links
// without a session.
type Handler struct {
	service       *appointment.Service
	confirmations *confirmation.Service
}

func NewHandler(service *appointment.Service, confirmations *confirmation.Service) *Handler {
	return &Handler{
		service:       service,
		confirmations: confirmations,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	appointments := rg.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id/reschedule", h.RescheduleAppointment)
		appointments.PUT("/:id/cancel", h.CancelAppointment)
	}
}

// RegisterPublicRoutes registers the token-authenticated confirmation
// endpoint outside the session-protected group.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/confirm", h.ConfirmAppointment)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized("caller identity missing", nil))
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	// Clients may only book for themselves.
	if c.GetString(middleware.ContextCallerRole) == middleware.RoleClient {
		req.ClientID = callerID
	}

	resp, err := h.service.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, resp)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	callerID, _ := middleware.CallerID(c)
	if c.GetString(middleware.ContextCallerRole) == middleware.RoleClient &&
		!h.service.IsOwner(c.Request.Context(), id, callerID) {
		httputil.RespondWithError(c, apperrors.Unauthorized("appointment does not belong to caller", nil))
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) RescheduleAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	callerID, ok := middleware.CallerID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized("caller identity missing", nil))
		return
	}

	var req model.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	enforceOwnership := c.GetString(middleware.ContextCallerRole) == middleware.RoleClient
	resp, err := h.service.Reschedule(c.Request.Context(), id, &req, callerID, enforceOwnership)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	callerID, ok := middleware.CallerID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized("caller identity missing", nil))
		return
	}

	enforceOwnership := c.GetString(middleware.ContextCallerRole) == middleware.RoleClient
	resp, err := h.service.Cancel(c.Request.Context(), id, callerID, enforceOwnership)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, resp)
}

// ConfirmAppointment handles the emailed confirmation link.
func (h *Handler) ConfirmAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	token := c.Query("token")
	if token == "" {
		httputil.RespondWithError(c, apperrors.BadRequest("missing confirmation token", nil))
		return
	}

	apt, err := h.confirmations.Confirm(c.Request.Context(), id, token)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{
		"appointment_id": apt.ID,
		"status":         apt.Status,
	})
}
