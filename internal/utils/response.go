package utils

import (
	"errors"
	"net/http"

	"promptversioning-backend/internal/versioning"

	"github.com/gin-gonic/gin"
)

// Response represents a standardized response structure.
// It includes a status code, a message, and data.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"` // Ensure data is always present, even if nil (will be null in JSON)
}

// NewResponse creates a new Response instance.
func NewResponse(status int, message string, data interface{}) Response {
	return Response{
		Status:  status,
		Message: message,
		Data:    data,
	}
}

// NewSuccessResponse creates a new success Response instance.
// Defaults status to 200 (OK).
func NewSuccessResponse(message string, data interface{}) Response {
	return Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse creates a new error Response instance.
// Data is explicitly set to nil.
func NewErrorResponse(status int, message string) Response {
	return Response{
		Status:  status,
		Message: message,
		Data:    nil,
	}
}

// StatusFromError maps the versioning error kinds onto HTTP status codes.
// Domain errors are looked for first so a TransactionError that wraps one
// reports the underlying kind.
func StatusFromError(err error) int {
	var (
		authErr *versioning.AuthenticationError
		permErr *versioning.PermissionDeniedError
		valErr  *versioning.ValidationError
		nfErr   *versioning.NotFoundError
		txErr   *versioning.TransactionError
	)
	switch {
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &permErr):
		return http.StatusForbidden
	case errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.As(err, &nfErr):
		return http.StatusNotFound
	case errors.As(err, &txErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err in the standard envelope and records it on the
// context for the request logger. Internal error text is not exposed.
func RespondError(c *gin.Context, err error) {
	status := StatusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	_ = c.Error(err)
	c.JSON(status, NewErrorResponse(status, message))
}
