// Package httpapi exposes the scheduling engine and the registry services
// over HTTP for the presentation layer.
package httpapi

import (
	"context"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
	"github.com/jeffreyeugu-sketch/expedientes/internal/service"
)

type Server struct {
	echo   *echo.Echo
	port   string
	logger *zap.Logger
}

func NewServer(
	port string,
	auth *service.AuthService,
	consultations *service.ConsultationService,
	patients *service.PatientService,
	doctors *service.DoctorService,
	logger *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(RequestLogger(logger))

	api := e.Group("/api/v1")

	authHandler := NewAuthHandler(auth, logger)
	api.POST("/auth/login", authHandler.Login)

	// Everything below requires a valid session token
	guarded := api.Group("", Auth(auth))
	guarded.POST("/users", authHandler.CreateUser, RequireRole(model.RoleAdmin))

	NewConsultationHandler(consultations, logger).RegisterRoutes(guarded)
	NewPatientHandler(patients, logger).RegisterRoutes(guarded)
	NewDoctorHandler(doctors, logger).RegisterRoutes(guarded)

	return &Server{
		echo:   e,
		port:   port,
		logger: logger,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("port", s.port))
	return s.echo.Start(":" + s.port)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
