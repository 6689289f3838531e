package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/adapter/handler"
	"github.com/johnquangdev/meeting-insights/internal/adapter/repository"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/external/meetingbaas"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/external/sendgrid"
	httpmw "github.com/johnquangdev/meeting-insights/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-insights/internal/usecase/access"
	"github.com/johnquangdev/meeting-insights/internal/usecase/directory"
	"github.com/johnquangdev/meeting-insights/internal/usecase/identity"
	"github.com/johnquangdev/meeting-insights/internal/usecase/insight"
	"github.com/johnquangdev/meeting-insights/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-insights/internal/usecase/notification"
	pkgai "github.com/johnquangdev/meeting-insights/pkg/ai"
	"github.com/johnquangdev/meeting-insights/pkg/config"
	"github.com/johnquangdev/meeting-insights/pkg/jwt"
	"github.com/johnquangdev/meeting-insights/pkg/retry"
	pkgvalidator "github.com/johnquangdev/meeting-insights/pkg/validator"
)

const lockPrefix = "meeting-insights:lock:"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	logger.Info("connecting to database", zap.String("host", cfg.Database.Host))
	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	// Initialize Redis; without it the processing lock is process-local
	var (
		redisClient *redis.Client
		locker      cache.Locker
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		locker = cache.NewRedisLocker(redisClient, lockPrefix)
	} else {
		logger.Warn("redis disabled, using in-memory processing lock")
		store := cache.NewMemoryStore()
		defer store.Close()
		locker = cache.NewMemoryLocker(store, lockPrefix)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	insightRepo := repository.NewInsightRepository(db)

	appMetrics := metrics.New()
	policy := retry.Policy{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval,
		MaxInterval:     cfg.Retry.MaxInterval,
	}

	// Pipeline collaborators
	claude := pkgai.NewClaudeClient(cfg.Claude)
	extractors := insight.NewRegistry(claude, policy, logger.Named("insight"))
	notifier := notification.NewNotifier(sendgrid.NewSender(cfg.Email), cfg.Email.DashboardURL, logger.Named("notification"))

	coordinatorOpts := []meeting.Option{
		meeting.WithLocker(locker),
		meeting.WithMetrics(appMetrics),
	}
	if cfg.Storage.Enabled {
		archive, err := storage.NewTranscriptArchive(context.Background(), cfg.Storage)
		if err != nil {
			logger.Warn("transcript archive unavailable", zap.Error(err))
		} else {
			coordinatorOpts = append(coordinatorOpts, meeting.WithArchive(archive))
		}
	}
	coordinator := meeting.NewCoordinator(
		meetingRepo,
		transcriptRepo,
		insightRepo,
		extractors,
		notifier,
		meeting.CoordinatorConfig{
			ExtractionTimeout: cfg.Pipeline.ExtractionTimeout,
			LockTTL:           cfg.Pipeline.LockTTL,
		},
		logger.Named("coordinator"),
		coordinatorOpts...,
	)

	// Use cases
	resolver := access.NewResolver(teamRepo, employeeRepo, departmentRepo, meetingRepo, logger.Named("access"))
	bots := meetingbaas.NewClient(cfg.MeetingBaaS)
	if !bots.Enabled() {
		logger.Warn("meetingbaas api key not set, bot invitations disabled")
	}
	meetingService := meeting.NewService(meetingRepo, transcriptRepo, insightRepo, resolver, bots, policy, logger.Named("meeting"))
	directoryService := directory.NewService(teamRepo, employeeRepo, departmentRepo, resolver, logger.Named("directory"))
	identityService := identity.NewService(userRepo, orgRepo, employeeRepo, identity.Config{
		MultiTenant:         cfg.Clerk.MultiTenant,
		DefaultOrganization: cfg.Clerk.DefaultOrganization,
	}, logger.Named("identity"))

	// Authentication
	jwtManager, err := jwt.NewManager(cfg.Auth.PublicKey, cfg.Auth.Secret, cfg.Auth.Issuer)
	if err != nil {
		logger.Fatal("failed to initialize token verifier", zap.Error(err))
	}

	// Health checks
	checks := map[string]handler.Pinger{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = pkgvalidator.New()
	e.HTTPErrorHandler = handler.HTTPErrorHandler(logger)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return ulid.Make().String() },
	}))
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(appMetrics.Middleware())

	router := handler.NewRouter(
		httpmw.EchoAuth(jwtManager, userRepo, logger.Named("auth")),
		appMetrics,
		handler.NewHealthHandler(checks, logger),
		handler.NewWebhookHandler(coordinator, cfg.MeetingBaaS.APIKey, appMetrics, logger.Named("webhook")),
		handler.NewIdentityWebhookHandler(identityService, cfg.Clerk.WebhookSecret, appMetrics, logger.Named("webhook")),
		handler.NewDirectoryHandler(directoryService, logger),
		handler.NewMeetingHandler(meetingService, logger),
	)
	router.Setup(e)

	// Start server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	go func() {
		logger.Info("server starting", zap.String("addr", addr), zap.String("environment", cfg.Server.Environment))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
