package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/facecheck/attendance-api/internal/api"
	"github.com/facecheck/attendance-api/internal/api/handler"
	"github.com/facecheck/attendance-api/internal/core/ports"
	"github.com/facecheck/attendance-api/internal/core/service"
	"github.com/facecheck/attendance-api/internal/infrastructure/config"
	mongodb "github.com/facecheck/attendance-api/internal/infrastructure/db/mongo"
	redisdb "github.com/facecheck/attendance-api/internal/infrastructure/db/redis"
	"github.com/facecheck/attendance-api/internal/infrastructure/livefeed"
	"github.com/facecheck/attendance-api/internal/infrastructure/queue"
	"github.com/facecheck/attendance-api/internal/infrastructure/recognizer"
	"github.com/facecheck/attendance-api/pkg/logger"
)

const (
	tokenTTL        = 24 * time.Hour
	shutdownTimeout = 30 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the attendance API. Configuration is read from the environment
(and an optional .env file); see JWT_SECRET, MONGO_URI, RECOGNIZER_URL.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func initLogger(cfg *config.Config) zerolog.Logger {
	return logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "facecheck",
		Version: Version,
	})
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := initLogger(cfg)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// --- Datastores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	var (
		rdb           *redis.Client
		settingsCache ports.SettingsCache
	)
	if cfg.Redis.Enabled {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, settings cache disabled")
		} else {
			defer rdb.Close()
			settingsCache = redisdb.NewSettingsCache(rdb)
		}
	}

	employeeRepo := mongodb.NewEmployeeRepository(db)
	attendanceRepo := mongodb.NewAttendanceRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	settingsRepo := mongodb.NewSettingsRepository(db)
	departmentRepo := mongodb.NewDepartmentRepository(db)
	adminRepo := mongodb.NewAdminRepository(db)

	// --- Background workers ---
	audit := queue.NewAuditDispatcher(cfg.AuditWorkers, auditRepo, logger.Component("audit"))
	audit.Start()

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := livefeed.NewHub(logger.Component("livefeed"))
	go hub.Run(hubCtx)

	// --- Services ---
	recognizerClient := recognizer.NewClient(cfg.Recognizer.URL, nil, recognizer.Timeouts{
		Recognize: cfg.Recognizer.Timeout,
	}, logger.Component("recognizer"))

	settingsService := service.NewSettingsService(settingsRepo, settingsCache, logger.Component("settings"))
	attendanceService := service.NewAttendanceService(
		recognizerClient, settingsService, employeeRepo, attendanceRepo, audit, hub,
		service.AttendanceOptions{Location: loc, DegradedMode: cfg.KioskDegradedMode},
		logger.Component("attendance"),
	)
	employeeService := service.NewEmployeeService(employeeRepo, recognizerClient, logger.Component("employees"))
	departmentService := service.NewDepartmentService(departmentRepo, logger.Component("departments"))
	authService := service.NewAuthService(adminRepo, cfg.JWTSecret, tokenTTL, logger.Component("auth"))

	if ok, err := authService.HasAdmin(ctx); err != nil {
		log.Warn().Err(err).Msg("could not check for admin accounts")
	} else if !ok {
		log.Warn().Msg("no admin account exists; create one with `facecheck admin create`")
	}

	checks := []handler.DependencyCheck{
		{Name: "mongodb", Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
		{Name: "recognizer", Optional: true, Ping: func(ctx context.Context) error {
			if h := recognizerClient.Health(ctx); h != ports.RecognizerHealthy {
				return fmt.Errorf("recognizer %s", h)
			}
			return nil
		}},
	}
	if rdb != nil {
		checks = append(checks, handler.DependencyCheck{
			Name: "redis", Optional: true,
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	e := api.NewRouter(api.Dependencies{
		Attendance:   attendanceService,
		Employees:    employeeService,
		Departments:  departmentService,
		Settings:     settingsService,
		Auth:         authService,
		LiveFeed:     hub,
		Checks:       checks,
		JWTSecret:    cfg.JWTSecret,
		AllowOrigins: cfg.AllowOrigins(),
		Location:     loc,
		Logger:       logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("timezone", loc.String()).
			Bool("degraded_mode", cfg.KioskDegradedMode).
			Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	stopHub()
	if err := audit.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("audit queue did not drain")
	}
	log.Info().Msg("stopped")
	return nil
}
