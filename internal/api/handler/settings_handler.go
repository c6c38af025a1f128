package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/facecheck/attendance-api/internal/core/ports"
)

type SettingsHandler struct {
	service ports.SettingsService
}

func NewSettingsHandler(service ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get handles GET /api/settings: stored values merged over defaults.
//
// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      503  {object}  Response
// @Router       /settings [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	values, err := h.service.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, values)
}

// Update handles POST and PUT /api/settings. The body is a flat object of
// setting keys; numbers and strings are accepted as values.
//
// @Summary      Update settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      map[string]string  true  "Settings to change"
// @Success      200   {object}  Response
// @Failure      400   {object}  Response
// @Failure      503   {object}  Response
// @Router       /settings [post]
// @Router       /settings [put]
func (h *SettingsHandler) Update(c echo.Context) error {
	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return invalidInput("Invalid request body", err)
	}

	values := make(map[string]string, len(body))
	for key, raw := range body {
		switch v := raw.(type) {
		case string:
			values[key] = v
		case float64:
			values[key] = fmt.Sprint(v)
		default:
			return invalidInput(fmt.Sprintf("%s must be a string or number", key), nil)
		}
	}

	if err := h.service.SetAll(c.Request().Context(), values); err != nil {
		return err
	}
	return okMessage(c, "Settings updated successfully", nil)
}
