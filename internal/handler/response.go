package handler

import (
	"net/http"

	apperrors "github.com/medipoint/clinic-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// HTTPStatus maps an application error to the transport status code.
// Business conditions (duplicate request, rate limit, invalid transition)
// are deliberate, non-5xx outcomes.
func HTTPStatus(err error) int {
	switch apperrors.Code(err) {
	case apperrors.ErrInvalidEmail, apperrors.ErrInvalidPhone, apperrors.ErrInvalidDate, apperrors.ErrBadRequest:
		return http.StatusBadRequest
	case apperrors.ErrDuplicateRequest:
		return http.StatusConflict
	case apperrors.ErrRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrInvalidTransition:
		return http.StatusUnprocessableEntity
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
