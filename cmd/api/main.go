package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/moonbase-api/internal/config"
	"github.com/noah-isme/moonbase-api/internal/database"
	"github.com/noah-isme/moonbase-api/internal/handler"
	"github.com/noah-isme/moonbase-api/internal/middleware"
	"github.com/noah-isme/moonbase-api/internal/observability"
	"github.com/noah-isme/moonbase-api/internal/repository"
	"github.com/noah-isme/moonbase-api/internal/router"
	"github.com/noah-isme/moonbase-api/internal/service"
	"github.com/noah-isme/moonbase-api/internal/utils"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger = logger.With().Str("service", cfg.AppName).Str("env", cfg.AppEnv).Logger()
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("classroom cache disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("event publishing disabled")
			natsConn = nil
		} else {
			defer natsConn.Drain()
		}
	}

	observability.RegisterMetrics()
	validate := utils.NewValidator()

	userRepo := repository.NewUserRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	testCaseRepo := repository.NewTestCaseRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	publisher := service.NewNATSEventPublisher(natsConn, cfg.EventSubject, logger)
	authService := service.NewAuthService(userRepo, validate, service.TokenConfig{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL}, logger)
	classroomService := service.NewClassroomService(classroomRepo, validate, activityService, redisClient, cfg.ClassroomCacheTTL, logger)
	exerciseService := service.NewExerciseService(exerciseRepo, classroomRepo, validate, logger)
	testCaseService := service.NewTestCaseService(testCaseRepo, exerciseRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, exerciseRepo, validate, activityService, publisher, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ErrorHandler: utils.ErrorHandler,
	})

	middleware.Register(app, middleware.Config{
		Logger:      &logger,
		CORSOrigins: cfg.CORSOrigins,
		AccessLog:   !cfg.IsProduction(),
	})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, handler.CookieConfig{Name: cfg.JWTCookieName, Secure: cfg.CookieSecure}, logger),
		ClassroomHandler:  handler.NewClassroomHandler(classroomService, logger),
		ExerciseHandler:   handler.NewExerciseHandler(exerciseService, logger),
		TestCaseHandler:   handler.NewTestCaseHandler(testCaseService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		ActivityHandler:   handler.NewActivityHandler(activityService, logger),
		JWTMiddleware:     middleware.JWTProtected(middleware.JWTConfig{Secret: cfg.JWTSecret, CookieName: cfg.JWTCookieName}),
		HealthProbes:      healthProbes(db, redisClient, natsConn),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	logger.Info().Str("addr", cfg.HTTPAddress()).Msg("server started")

	waitForShutdown(app, logger)
}

func healthProbes(db *gorm.DB, redisClient *redis.Client, natsConn *nats.Conn) []handler.HealthProbe {
	probes := []handler.HealthProbe{{
		Name:     "database",
		Critical: true,
		Check:    func(ctx context.Context) error { return database.Ping(ctx, db) },
	}}
	if redisClient != nil {
		probes = append(probes, handler.HealthProbe{
			Name:  "cache",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}
	if natsConn != nil {
		probes = append(probes, handler.HealthProbe{
			Name: "events",
			Check: func(context.Context) error {
				if !natsConn.IsConnected() {
					return fmt.Errorf("nats %s", natsConn.Status())
				}
				return nil
			},
		})
	}
	return probes
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
