package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medipoint/clinic-api/internal/handler"
	"github.com/medipoint/clinic-api/internal/middleware"
	"github.com/medipoint/clinic-api/internal/model"
	appointmentService "github.com/medipoint/clinic-api/internal/service/appointment"
)

type Handler struct {
	service *appointmentService.Service
}

func NewHandler(service *appointmentService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	appointments := rg.Group("/appointments")
	{
		appointments.POST("", h.Schedule)
		appointments.GET("", h.List)
		appointments.POST("/:id/cancel", h.Cancel)
	}
}

func (h *Handler) Schedule(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if !actor.Staff() && req.PatientID != actor.SubjectID {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("cannot schedule for another patient"))
		return
	}

	apt, err := h.service.Schedule(c.Request.Context(), &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	patientID := c.Query("patient_id")
	if patientID == "" {
		patientID = actor.SubjectID
	}
	if !actor.Staff() && patientID != actor.SubjectID {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("cannot list appointments for another patient"))
		return
	}

	appointments, err := h.service.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) Cancel(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.service.Cancel(c.Request.Context(), actor, id); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
