package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jeffreyeugu-sketch/expedientes/internal/app"
	"github.com/jeffreyeugu-sketch/expedientes/internal/config"
	"github.com/jeffreyeugu-sketch/expedientes/internal/controller/httpapi"
	"github.com/jeffreyeugu-sketch/expedientes/internal/repository"
	"github.com/jeffreyeugu-sketch/expedientes/internal/service"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting clinic server",
		zap.String("environment", cfg.Environment),
		zap.String("clinic_timezone", cfg.ClinicTimezone),
	)

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Failed to load clinic timezone", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to reach database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool)
	if err != nil {
		logger.Fatal("Failed to init migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	if version, err := migrator.Version(ctx); err == nil {
		logger.Info("Database schema ready", zap.Int64("version", version))
	}
	migrator.Close()

	consultationRepo := repository.NewConsultationRepository(pool)
	patientRepo := repository.NewPatientRepository(pool)
	doctorRepo := repository.NewDoctorRepository(pool)
	recordRepo := repository.NewMedicalRecordRepository(pool)
	prescriptionRepo := repository.NewPrescriptionRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	consultationService := service.NewConsultationService(consultationRepo, patientRepo, doctorRepo, prescriptionRepo, loc, logger)
	patientService := service.NewPatientService(patientRepo, recordRepo, consultationRepo, loc, logger)
	doctorService := service.NewDoctorService(doctorRepo, logger)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, logger)

	server := httpapi.NewServer(cfg.Port, authService, consultationService, patientService, doctorService, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Server stopped")
}
