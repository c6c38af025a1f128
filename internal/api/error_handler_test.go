package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/facecheck/attendance-api/internal/api/handler"
	"github.com/facecheck/attendance-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		kind    string
		message string
	}{
		{"invalid input", domain.NewError(domain.KindInvalidInput, "No image provided", nil), http.StatusBadRequest, "invalid_input", "No image provided"},
		{"unauthorized", domain.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized", "Invalid credentials"},
		{"not found", domain.NewError(domain.KindNotFound, "Employee not found", nil), http.StatusNotFound, "not_found", "Employee not found"},
		{"duplicate", domain.NewError(domain.KindDuplicate, "Department already exists", nil), http.StatusConflict, "duplicate", "Department already exists"},
		{"upstream", domain.NewError(domain.KindUpstreamUnavailable, "Face recognition service failed", errors.New("dial tcp: refused")), http.StatusBadGateway, "upstream_unavailable", "Face recognition service failed"},
		{"storage", domain.NewError(domain.KindStorageUnavailable, "Could not fetch stats", errors.New("server selection timeout")), http.StatusServiceUnavailable, "storage_unavailable", "Could not fetch stats"},
		{"wrapped domain error", fmt.Errorf("load: %w", domain.NewError(domain.KindNotFound, "Department not found", nil)), http.StatusNotFound, "not_found", "Department not found"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "", "Method Not Allowed"},
		{"unexpected", errors.New("nil pointer somewhere"), http.StatusInternalServerError, "internal", "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var resp handler.Response
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Success {
				t.Fatalf("error envelope must have success=false")
			}
			if resp.Kind != tc.kind || resp.Message != tc.message {
				t.Fatalf("unexpected envelope: %+v", resp)
			}
		})
	}
}

func TestHTTPErrorHandler_DoesNotLeakCause(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	cause := errors.New("mongodb://admin:hunter2@db:27017 unreachable")
	NewHTTPErrorHandler(zerolog.Nop())(domain.NewError(domain.KindStorageUnavailable, "Could not fetch history", cause), c)

	if body := rec.Body.String(); strings.Contains(body, "hunter2") {
		t.Fatalf("cause leaked to client: %s", body)
	}
}
