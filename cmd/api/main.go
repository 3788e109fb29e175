package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/classtrack/attendance-service/internal/api/http"
	"github.com/classtrack/attendance-service/internal/api/http/handlers"
	"github.com/classtrack/attendance-service/internal/auth"
	"github.com/classtrack/attendance-service/internal/config"
	"github.com/classtrack/attendance-service/internal/events"
	"github.com/classtrack/attendance-service/internal/observability"
	"github.com/classtrack/attendance-service/internal/persistence"
	"github.com/classtrack/attendance-service/internal/qr"
	"github.com/classtrack/attendance-service/internal/ratelimit"
	"github.com/classtrack/attendance-service/internal/repository"
	"github.com/classtrack/attendance-service/internal/service"
	"github.com/classtrack/attendance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	professorRepo := repository.NewProfessorRepository(pool)
	scannerRepo := repository.NewScannerRepository(pool)
	unitRepo := repository.NewUnitRepository(pool)
	nonceRepo := repository.NewNonceRepository(pool)
	attendanceEventRepo := repository.NewAttendanceEventRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	codec := qr.NewCodec(cfg.QR.Secret, cfg.QR.PreviousSecret, cfg.QR.TokenTTL)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		ProfessorRepo: professorRepo,
		ScannerRepo:   scannerRepo,
	})
	attendanceService := service.NewAttendanceService(service.AttendanceDependencies{
		NonceRepo:     nonceRepo,
		ProfessorRepo: professorRepo,
		Codec:         codec,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	})
	registrarService := service.NewRegistrarService(attendanceService, unitRepo, attendanceEventRepo, dispatcher, logger)
	securityService := service.NewSecurityService(dispatcher, logger)

	worker.StartSecurityWorker(securityService)
	worker.StartJanitor(ctx, cfg.Janitor, nonceRepo, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), professorRepo, scannerRepo)
	limiter := ratelimit.NewLimiter(redis.Client, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService, registrarService, limiter, cfg.Limits)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           authHandler,
		Attendance:     attendanceHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
