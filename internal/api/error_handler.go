package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/facecheck/attendance-api/internal/api/handler"
	"github.com/facecheck/attendance-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps classified domain errors to their HTTP status and kind.
//   - Logs causes and unexpected errors without leaking them to the client.
//   - Renders the envelope {"success": false, "message": ..., "kind": ...}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.Response) {
	// Echo's own errors (router 404/405, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.Response{Message: fmt.Sprintf("%v", he.Message), Kind: kindForStatus(he.Code)}
	}

	var de *domain.Error
	if errors.As(err, &de) {
		code := handler.StatusFor(de.Kind)
		if code >= http.StatusInternalServerError {
			logEvent(log.Error(), c).Err(err).Str("kind", string(de.Kind)).Msg("request failed")
		} else if de.Err != nil {
			logEvent(log.Debug(), c).Err(err).Str("kind", string(de.Kind)).Msg("request rejected")
		}
		return code, handler.Response{Message: de.Message, Kind: string(de.Kind)}
	}

	// Unexpected error: log the real cause, return a generic message.
	logEvent(log.Error(), c).Err(err).Msg("unhandled error")

	return http.StatusInternalServerError, handler.Response{
		Message: "Internal server error",
		Kind:    string(domain.KindInternal),
	}
}

func logEvent(ev *zerolog.Event, c echo.Context) *zerolog.Event {
	return ev.
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Str("method", c.Request().Method).
		Str("path", c.Path())
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return string(domain.KindInvalidInput)
	case http.StatusUnauthorized:
		return string(domain.KindUnauthorized)
	case http.StatusNotFound:
		return string(domain.KindNotFound)
	case http.StatusServiceUnavailable:
		return string(domain.KindStorageUnavailable)
	}
	if code >= http.StatusInternalServerError {
		return string(domain.KindInternal)
	}
	return ""
}
