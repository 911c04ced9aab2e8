package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
	"github.com/jeffreyeugu-sketch/expedientes/internal/service"
)

type PatientHandler struct {
	svc    *service.PatientService
	logger *zap.Logger
}

func NewPatientHandler(svc *service.PatientService, logger *zap.Logger) *PatientHandler {
	return &PatientHandler{svc: svc, logger: logger}
}

func (h *PatientHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/patients", h.Register)
	g.GET("/patients", h.List)
	g.GET("/patients/:id", h.Detail)
	g.PUT("/patients/:id", h.Update)
	g.DELETE("/patients/:id", h.Deactivate)
}

func patientID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	return id, nil
}

func (h *PatientHandler) Register(c echo.Context) error {
	var patient model.Patient
	if err := c.Bind(&patient); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.Register(c.Request().Context(), &patient); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, patient)
}

func (h *PatientHandler) List(c echo.Context) error {
	registry, err := h.svc.Registry(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, registry)
}

func (h *PatientHandler) Detail(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}

	detail, err := h.svc.Detail(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, detail)
}

func (h *PatientHandler) Update(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}

	var patient model.Patient
	if err := c.Bind(&patient); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	patient.ID = id

	if err := h.svc.Update(c.Request().Context(), &patient); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, patient)
}

func (h *PatientHandler) Deactivate(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.NoContent(http.StatusNoContent)
}
