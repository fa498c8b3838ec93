package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cureconnect/cureconnect/internal/config"
	v1 "github.com/cureconnect/cureconnect/internal/handler/v1"
	"github.com/cureconnect/cureconnect/internal/repository/postgres"
	"github.com/cureconnect/cureconnect/internal/service"
	"github.com/cureconnect/cureconnect/pkg/auth"
	"github.com/cureconnect/cureconnect/pkg/cache"
	"github.com/cureconnect/cureconnect/pkg/database"
	"github.com/cureconnect/cureconnect/pkg/logger"
	"github.com/cureconnect/cureconnect/pkg/mailer"
	"github.com/cureconnect/cureconnect/pkg/metrics"
	"github.com/cureconnect/cureconnect/pkg/tracer"
)

func main() {
	// .env is a local development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.Name, cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(cfg.Tracing)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	collector := metrics.NewCollector("cureconnect")

	// The availability cache and the mailer are both optional: an empty
	// REDIS_ADDR or SMTP_HOST simply disables them.
	var availCache service.AvailabilityCache
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.New(cfg.Redis, log)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisCache.Close() }()
		availCache = redisCache
		log.Info("availability cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	var notifier service.Notifier
	if cfg.SMTP.Enabled() {
		notifier = mailer.New(cfg.SMTP)
		log.Info("mail notifications enabled", zap.String("host", cfg.SMTP.Host))
	}

	jwtManager := auth.NewJWTManager(cfg.JWT)

	userRepo := postgres.NewUserRepo(db)
	doctorRepo := postgres.NewDoctorRepo(db)
	apptRepo := postgres.NewAppointmentRepo(db)
	prescriptionRepo := postgres.NewPrescriptionRepo(db)
	reviewRepo := postgres.NewReviewRepo(db)
	reportRepo := postgres.NewReportRepo(db)
	auditRepo := postgres.NewAuditRepo(db)

	auditSvc := service.NewAuditService(auditRepo, log)
	defer auditSvc.Shutdown()

	authSvc := service.NewAuthService(userRepo, doctorRepo, jwtManager, log)
	doctorSvc := service.NewDoctorService(doctorRepo, auditSvc, availCache, log)
	apptSvc := service.NewAppointmentService(apptRepo, doctorRepo, userRepo, auditSvc, notifier, availCache, log)
	prescriptionSvc := service.NewPrescriptionService(prescriptionRepo, apptRepo, doctorRepo, auditSvc, log)
	reviewSvc := service.NewReviewService(reviewRepo, apptRepo, auditSvc, log)
	reportSvc := service.NewReportService(reportRepo, apptRepo, auditSvc, log)

	router := v1.NewRouter(v1.RouterDeps{
		Config:     cfg,
		Logger:     log,
		JWTManager: jwtManager,
		Collector:  collector,

		Auth:          v1.NewAuthHandler(authSvc),
		Doctors:       v1.NewDoctorHandler(doctorSvc, reviewSvc),
		Appointments:  v1.NewAppointmentHandler(apptSvc, collector),
		Prescriptions: v1.NewPrescriptionHandler(prescriptionSvc, collector),
		Reviews:       v1.NewReviewHandler(reviewSvc, collector),
		Reports:       v1.NewReportHandler(reportSvc),
	})

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("http server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	log.Info("stopped")
}
