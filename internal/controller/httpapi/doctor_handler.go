package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
	"github.com/jeffreyeugu-sketch/expedientes/internal/service"
)

type DoctorHandler struct {
	svc    *service.DoctorService
	logger *zap.Logger
}

func NewDoctorHandler(svc *service.DoctorService, logger *zap.Logger) *DoctorHandler {
	return &DoctorHandler{svc: svc, logger: logger}
}

func (h *DoctorHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/doctors", h.Create, RequireRole(model.RoleAdmin))
	g.GET("/doctors", h.List)
	g.GET("/doctors/:id", h.Get)
	g.PUT("/doctors/:id", h.Update, RequireRole(model.RoleAdmin))
	g.DELETE("/doctors/:id", h.Deactivate, RequireRole(model.RoleAdmin))
}

func doctorID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	return id, nil
}

func (h *DoctorHandler) Create(c echo.Context) error {
	var doctor model.Doctor
	if err := c.Bind(&doctor); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.Create(c.Request().Context(), &doctor); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, doctor)
}

func (h *DoctorHandler) List(c echo.Context) error {
	doctors, err := h.svc.ListActive(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, doctors)
}

func (h *DoctorHandler) Get(c echo.Context) error {
	id, err := doctorID(c)
	if err != nil {
		return err
	}

	doctor, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, doctor)
}

func (h *DoctorHandler) Update(c echo.Context) error {
	id, err := doctorID(c)
	if err != nil {
		return err
	}

	var doctor model.Doctor
	if err := c.Bind(&doctor); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	doctor.ID = id

	if err := h.svc.Update(c.Request().Context(), &doctor); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, doctor)
}

func (h *DoctorHandler) Deactivate(c echo.Context) error {
	id, err := doctorID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.NoContent(http.StatusNoContent)
}
