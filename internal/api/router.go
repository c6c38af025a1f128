package api

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/facecheck/attendance-api/docs"
	"github.com/facecheck/attendance-api/internal/api/handler"
	"github.com/facecheck/attendance-api/internal/api/middleware"
	"github.com/facecheck/attendance-api/internal/core/domain"
	"github.com/facecheck/attendance-api/internal/core/ports"
)

// bodyLimit fits a base64 kiosk photo with room to spare.
const bodyLimit = "10M"

// Dependencies are the wired services the HTTP layer serves.
type Dependencies struct {
	Attendance  ports.AttendanceService
	Employees   ports.EmployeeService
	Departments ports.DepartmentService
	Settings    ports.SettingsService
	Auth        ports.AuthService
	LiveFeed    handler.LiveFeed
	Checks      []handler.DependencyCheck

	JWTSecret    string
	AllowOrigins []string
	Location     *time.Location
	Logger       zerolog.Logger

	// Registerer receives the HTTP request metrics; nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "attendance",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- Handlers ---
	attendanceHandler := handler.NewAttendanceHandler(deps.Attendance, deps.LiveFeed, deps.Location, deps.AllowOrigins)
	employeeHandler := handler.NewEmployeeHandler(deps.Employees)
	departmentHandler := handler.NewDepartmentHandler(deps.Departments)
	settingsHandler := handler.NewSettingsHandler(deps.Settings)
	authHandler := handler.NewAuthHandler(deps.Auth)
	healthHandler := handler.NewHealthHandler(deps.Checks...)

	// --- Operational (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	apiGroup := e.Group("/api")

	// --- Kiosk (public) ---
	apiGroup.POST("/mark-attendance", attendanceHandler.MarkAttendance)
	apiGroup.POST("/check-face-service", attendanceHandler.CheckFaceService)
	apiGroup.POST("/auth/login", authHandler.Login)

	// --- Admin ---
	admin := apiGroup.Group("", middleware.Auth(deps.JWTSecret), middleware.RBAC(domain.RoleAdmin))

	admin.GET("/auth/me", authHandler.Me)

	admin.GET("/history", attendanceHandler.History)
	admin.GET("/history/export", attendanceHandler.ExportHistory)
	admin.GET("/stats", attendanceHandler.Stats)
	admin.GET("/attendance/stats", attendanceHandler.Stats)
	admin.GET("/recent", attendanceHandler.Recent)
	admin.GET("/ws/attendance", attendanceHandler.LiveFeed)

	admin.GET("/employees", employeeHandler.List)
	admin.POST("/employees", employeeHandler.Create)
	admin.GET("/employees/:id", employeeHandler.Get)
	admin.PATCH("/employees/:id", employeeHandler.Update)
	admin.DELETE("/employees/:id", employeeHandler.Delete)
	admin.POST("/employees/:id/enroll", employeeHandler.Enroll)

	admin.GET("/departments", departmentHandler.List)
	admin.POST("/departments", departmentHandler.Create)
	admin.DELETE("/departments/:id", departmentHandler.Delete)

	admin.GET("/settings", settingsHandler.Get)
	admin.POST("/settings", settingsHandler.Update)
	admin.PUT("/settings", settingsHandler.Update)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/health") || c.Path() == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error()
			} else if v.Status >= 400 {
				ev = log.Warn()
			}
			ev.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
