package handler

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/facecheck/attendance-api/internal/core/ports"
)

// LiveFeed takes ownership of an upgraded websocket connection.
type LiveFeed interface {
	Serve(conn *ws.Conn)
}

// AttendanceHandler serves the kiosk check-in and the attendance reports.
type AttendanceHandler struct {
	service  ports.AttendanceService
	feed     LiveFeed
	loc      *time.Location
	upgrader ws.Upgrader
}

// NewAttendanceHandler builds the handler. allowOrigins restricts websocket
// origins; an empty list or "*" accepts any origin.
func NewAttendanceHandler(service ports.AttendanceService, feed LiveFeed, loc *time.Location, allowOrigins []string) *AttendanceHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceHandler{
		service: service,
		feed:    feed,
		loc:     loc,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// MarkAttendance handles POST /api/mark-attendance.
//
// Decided outcomes (checked in, not recognized, already marked, unknown
// employee) are 200 with success=false where applicable; kind tells them apart.
//
// @Summary      Mark attendance from a kiosk photo
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        body  body      markAttendanceRequest  true  "Base64 image"
// @Success      200   {object}  Response{data=markAttendanceData}
// @Failure      400   {object}  Response
// @Failure      502   {object}  Response
// @Failure      503   {object}  Response
// @Router       /mark-attendance [post]
func (h *AttendanceHandler) MarkAttendance(c echo.Context) error {
	var req markAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return invalidInput("Invalid request body", err)
	}

	res, err := h.service.MarkAttendance(c.Request().Context(), req.Image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMarkAttendanceResponse(res))
}

// CheckFaceService handles POST /api/check-face-service.
//
// @Summary      Recognizer health
// @Tags         attendance
// @Produce      json
// @Success      200  {object}  Response{data=faceServiceResponse}
// @Router       /check-face-service [post]
func (h *AttendanceHandler) CheckFaceService(c echo.Context) error {
	health := h.service.RecognizerHealth(c.Request().Context())
	return c.JSON(http.StatusOK, Response{
		Success: health == ports.RecognizerHealthy,
		Data:    faceServiceResponse{Status: string(health)},
	})
}

// History handles GET /api/history.
//
// @Summary      Attendance history
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        start_date   query     string  false  "YYYY-MM-DD; alone selects one day"
// @Param        end_date     query     string  false  "YYYY-MM-DD, inclusive"
// @Param        employee_id  query     string  false  "Employee id or 'all'"
// @Success      200          {object}  Response{data=[]historyEntry}
// @Failure      400          {object}  Response
// @Failure      503          {object}  Response
// @Router       /history [get]
func (h *AttendanceHandler) History(c echo.Context) error {
	filter, err := h.historyFilter(c)
	if err != nil {
		return err
	}
	entries, err := h.service.History(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ok(c, toHistoryEntries(entries))
}

// ExportHistory handles GET /api/history/export.
//
// @Summary      Export attendance history as .xlsx
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        start_date   query  string  false  "YYYY-MM-DD"
// @Param        end_date     query  string  false  "YYYY-MM-DD"
// @Param        employee_id  query  string  false  "Employee id or 'all'"
// @Success      200
// @Failure      400  {object}  Response
// @Failure      503  {object}  Response
// @Router       /history/export [get]
func (h *AttendanceHandler) ExportHistory(c echo.Context) error {
	filter, err := h.historyFilter(c)
	if err != nil {
		return err
	}
	entries, err := h.service.History(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	buf, err := buildHistoryWorkbook(entries, h.loc)
	if err != nil {
		return fmt.Errorf("export history: %w", err)
	}

	filename := exportFilename(filter, time.Now().In(h.loc))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *AttendanceHandler) historyFilter(c echo.Context) (ports.HistoryFilter, error) {
	var q historyQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return ports.HistoryFilter{}, invalidInput("Invalid query parameters", err)
	}
	if err := c.Validate(&q); err != nil {
		return ports.HistoryFilter{}, invalidInput(err.Error(), nil)
	}
	return toHistoryFilter(q), nil
}

// Stats handles GET /api/stats and /api/attendance/stats.
//
// @Summary      Today's attendance counts
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=statsResponse}
// @Failure      503  {object}  Response
// @Router       /stats [get]
func (h *AttendanceHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, toStatsResponse(stats))
}

// Recent handles GET /api/recent.
//
// @Summary      Latest check-ins today
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=[]recentCheckIn}
// @Failure      503  {object}  Response
// @Router       /recent [get]
func (h *AttendanceHandler) Recent(c echo.Context) error {
	rows, err := h.service.Recent(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, toRecentCheckIns(rows))
}

// LiveFeed handles GET /api/ws/attendance and streams attendance:new events.
//
// @Summary      Live check-in feed (websocket)
// @Tags         attendance
// @Security     BearerAuth
// @Param        access_token  query  string  false  "JWT when the Authorization header cannot be set"
// @Success      101
// @Router       /ws/attendance [get]
func (h *AttendanceHandler) LiveFeed(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the error response.
		return nil
	}
	h.feed.Serve(conn)
	return nil
}
