package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/facecheck/attendance-api/internal/core/domain"
)

// Response is the JSON envelope returned by every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindDuplicate, domain.KindAlreadyMarked:
		return http.StatusConflict
	case domain.KindUpstreamUnavailable:
		return http.StatusBadGateway
	case domain.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	case domain.KindNotRecognized:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func okMessage(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func invalidInput(message string, cause error) error {
	return domain.NewError(domain.KindInvalidInput, message, cause)
}

// bindAndValidate decodes the body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return invalidInput("Invalid request body", err)
	}
	if err := c.Validate(req); err != nil {
		return invalidInput(err.Error(), nil)
	}
	return nil
}
