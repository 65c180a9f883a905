package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"taskapi/internal/auth"
	"taskapi/internal/config"
	"taskapi/internal/database"
	"taskapi/internal/database/migration"
	handlers "taskapi/internal/http/handler"
	"taskapi/internal/http/middleware"
	"taskapi/internal/logger"
	"taskapi/internal/otel"
	"taskapi/internal/repository/postgres"
	"taskapi/internal/service"
	"taskapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Task API
// @version 1.0
// @description Projects, members and tasks with role based access.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, zl)
	if err != nil {
		zl.Fatal("tracing_init_failed", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, zl); err != nil {
			zl.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	rdb, err := auth.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		zl.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// S3-compatible object storage for task attachments
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO, zl)
	if err != nil {
		zl.Fatal("failed to initialize object storage", zap.Error(err))
	}

	users := postgres.NewUserPostgres(db)
	projects := postgres.NewProjectPostgres(db)
	members := postgres.NewProjectUserPostgres(db)
	tasks := postgres.NewTaskPostgres(db)
	attachments := postgres.NewAttachmentPostgres(db)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL)
	revoker := auth.NewRedisRevoker(rdb)

	svc := handlers.Services{
		Auth:         service.NewAuthService(users, auth.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, revoker, zl),
		Projects:     service.NewProjectService(projects, members, tasks),
		ProjectUsers: service.NewProjectUserService(members, users, zl),
		Tasks:        service.NewTaskService(tasks, members, users, zl),
		Attachments: service.NewAttachmentService(objStore, attachments, tasks, members, service.AttachmentOptions{
			MaxBytes:  cfg.Attachment.MaxBytes,
			URLExpiry: cfg.Attachment.URLExpiry,
		}, zl),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(zl),
		// Room for multipart framing around the largest accepted file.
		BodyLimit:             int(cfg.Attachment.MaxBytes) + 1<<20,
		DisableStartupMessage: true,
	})

	metrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		zl.Fatal("failed to register metrics", zap.Error(err))
	}

	app.Use(otelfiber.Middleware())
	// RequestID adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(zl))
	app.Use(metrics.Handler())

	handlers.RegisterRoutes(app, db, svc, middleware.JWT(tokens, revoker), prometheus.DefaultGatherer)

	addr := ":" + cfg.Port
	go func() {
		zl.Info("server_listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			zl.Error("server_failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("server_shutting_down")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		zl.Error("http shutdown failed", zap.Error(err))
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		zl.Error("tracing shutdown failed", zap.Error(err))
	}
}
