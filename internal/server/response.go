package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// Envelope is the uniform API response shape
type Envelope struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *APIError `json:"error,omitempty"`
}

// APIError carries a machine-readable code plus a human message
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// successResponse writes a success envelope
func successResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{Status: "success", Data: data})
}

// errorResponse writes an error envelope with the given HTTP status
func errorResponse(c echo.Context, status int, code, message string, details any) error {
	return c.JSON(status, Envelope{
		Status: "error",
		Error:  &APIError{Code: code, Message: message, Details: details},
	})
}

// domainErrorResponse maps the error taxonomy onto HTTP statuses
func domainErrorResponse(c echo.Context, err error) error {
	var prereq *models.PrerequisiteNotMetError
	if errors.As(err, &prereq) {
		return errorResponse(c, http.StatusConflict, "PREREQUISITE_NOT_MET", prereq.Error(), prereq.Missing)
	}

	var schema *models.SchemaValidationError
	if errors.As(err, &schema) {
		return errorResponse(c, http.StatusUnprocessableEntity, "SCHEMA_VALIDATION", schema.Error(), nil)
	}

	var invocation *models.ModelInvocationError
	if errors.As(err, &invocation) {
		return errorResponse(c, http.StatusBadGateway, "MODEL_INVOCATION", invocation.Error(), nil)
	}

	var unavailable *models.DataUnavailableError
	if errors.As(err, &unavailable) {
		return errorResponse(c, http.StatusServiceUnavailable, "DATA_UNAVAILABLE", unavailable.Error(), nil)
	}

	var storageErr *models.StorageError
	if errors.As(err, &storageErr) {
		return errorResponse(c, http.StatusInternalServerError, "STORAGE", storageErr.Error(), nil)
	}

	return errorResponse(c, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
}
