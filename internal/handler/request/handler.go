package request

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/medipoint/clinic-api/internal/handler"
	"github.com/medipoint/clinic-api/internal/middleware"
	"github.com/medipoint/clinic-api/internal/model"
	requestService "github.com/medipoint/clinic-api/internal/service/request"
	apperrors "github.com/medipoint/clinic-api/pkg/errors"
	"github.com/medipoint/clinic-api/pkg/metrics"
)

type Handler struct {
	service *requestService.Service
	metrics *metrics.Metrics
}

func NewHandler(service *requestService.Service, m *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: m}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/requests")
	{
		requests.POST("", h.Submit)
		requests.GET("", h.List)
		requests.GET("/active-count", h.ActiveCount)
		requests.PATCH("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) Submit(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.CreateClinicRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(bindErrorMessage(err)))
		return
	}

	// Patients submit on their own behalf; staff may submit for any patient.
	if !actor.Staff() && req.PatientID != actor.SubjectID {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("cannot submit a request for another patient"))
		return
	}

	start := time.Now()
	created, err := h.service.Submit(c.Request.Context(), &req)
	if h.metrics != nil {
		h.metrics.SubmitLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		h.countRejection(err)
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	if h.metrics != nil {
		h.metrics.RequestsSubmitted.Inc()
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
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
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("cannot list requests for another patient"))
		return
	}

	requests, err := h.service.ListForSubject(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}

func (h *Handler) ActiveCount(c *gin.Context) {
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
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("cannot inspect requests for another patient"))
		return
	}

	count, err := h.service.CountActive(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"active_count": count}))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid request ID"))
		return
	}

	var req model.UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(bindErrorMessage(err)))
		return
	}

	update := &model.StatusUpdate{
		Status:              req.Status,
		AssignedPhysicianID: req.AssignedPhysicianID,
		AdditionalNotes:     req.AdditionalNotes,
	}
	if err := h.service.UpdateStatus(c.Request.Context(), actor, id, update); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	if h.metrics != nil {
		h.metrics.StatusTransitions.WithLabelValues(string(req.Status)).Inc()
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) countRejection(err error) {
	if h.metrics == nil {
		return
	}
	switch apperrors.Code(err) {
	case apperrors.ErrDuplicateRequest:
		h.metrics.RequestsRejected.WithLabelValues("duplicate").Inc()
	case apperrors.ErrRateLimited:
		h.metrics.RequestsRejected.WithLabelValues("rate_limited").Inc()
	case apperrors.ErrInvalidEmail, apperrors.ErrInvalidPhone, apperrors.ErrInvalidDate:
		h.metrics.RequestsRejected.WithLabelValues("validation").Inc()
	default:
		h.metrics.RequestsRejected.WithLabelValues("other").Inc()
	}
}

// bindErrorMessage flattens gin's binding errors into a single readable line.
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "invalid field: " + verrs[0].Field()
	}
	return err.Error()
}
