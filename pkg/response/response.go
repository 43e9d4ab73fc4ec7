package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carvia-mobility/service-rental/pkg/domain"
)

// envelope is the standard JSON response body.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// paginatedEnvelope is the standard JSON body for paginated lists.
type paginatedEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// NoContent writes a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 response with paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, paginatedEnvelope{
		Success: true,
		Data:    items,
		Total:   total,
		Page:    page,
		Limit:   limit,
	})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{Success: false, Error: message})
}

// Unauthorized writes a 401 response with the given message.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, envelope{Success: false, Error: message})
}

// Error maps a domain error to its HTTP status and writes the response.
func Error(c *gin.Context, err error) {
	var (
		validationErr   *domain.ValidationError
		dateRangeErr    *domain.InvalidDateRangeError
		notFoundErr     *domain.NotFoundError
		accessDeniedErr *domain.AccessDeniedError
		invalidStateErr *domain.InvalidStateError
		conflictErr     *domain.ConflictError
		unauthorizedErr *domain.UnauthorizedError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, envelope{Success: false, Error: validationErr.Error()})
	case errors.As(err, &dateRangeErr):
		c.JSON(http.StatusBadRequest, envelope{Success: false, Error: dateRangeErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, envelope{Success: false, Error: notFoundErr.Error()})
	case errors.As(err, &accessDeniedErr):
		c.JSON(http.StatusForbidden, envelope{Success: false, Error: accessDeniedErr.Error()})
	case errors.As(err, &invalidStateErr):
		c.JSON(http.StatusConflict, envelope{Success: false, Error: invalidStateErr.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, envelope{Success: false, Error: conflictErr.Error()})
	case errors.As(err, &unauthorizedErr):
		c.JSON(http.StatusUnauthorized, envelope{Success: false, Error: unauthorizedErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, envelope{Success: false, Error: "internal server error"})
	}
}
