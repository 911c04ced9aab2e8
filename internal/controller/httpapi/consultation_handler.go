package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jeffreyeugu-sketch/expedientes/internal/render"
	"github.com/jeffreyeugu-sketch/expedientes/internal/service"
)

type ConsultationHandler struct {
	svc    *service.ConsultationService
	logger *zap.Logger
}

func NewConsultationHandler(svc *service.ConsultationService, logger *zap.Logger) *ConsultationHandler {
	return &ConsultationHandler{svc: svc, logger: logger}
}

func (h *ConsultationHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/consultations", h.Create)
	g.GET("/consultations/:id", h.Get)
	g.PUT("/consultations/:id", h.Edit)
	g.POST("/consultations/:id/cancel", h.Cancel)
	g.POST("/consultations/:id/clinical", h.RecordClinicalData)
	g.POST("/consultations/:id/prescriptions", h.AddPrescription)
	g.GET("/consultations/:id/prescriptions", h.ListPrescriptions)
	g.GET("/agenda", h.Agenda)
	g.GET("/agenda/week.png", h.WeekImage)
}

func consultationID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid consultation id")
	}
	return id, nil
}

func (h *ConsultationHandler) Create(c echo.Context) error {
	var req service.ScheduleConsultationInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	consultation, err := h.svc.Schedule(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, consultation)
}

func (h *ConsultationHandler) Get(c echo.Context) error {
	id, err := consultationID(c)
	if err != nil {
		return err
	}

	consultation, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, consultation)
}

func (h *ConsultationHandler) Edit(c echo.Context) error {
	id, err := consultationID(c)
	if err != nil {
		return err
	}

	var req service.EditConsultationInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	consultation, err := h.svc.Edit(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, consultation)
}

// Cancel supports two response modes: programmatic callers (marked with
// X-Requested-With: XMLHttpRequest) get a JSON result, interactive callers a
// redirect back to the patient page with a flash message.
func (h *ConsultationHandler) Cancel(c echo.Context) error {
	id, err := consultationID(c)
	if err != nil {
		return err
	}

	var req struct {
		Reason string `json:"reason" form:"reason"`
	}
	// The body is optional for cancellation
	_ = c.Bind(&req)

	ajax := c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest"

	result, err := h.svc.Cancel(c.Request().Context(), id, req.Reason)
	if err != nil {
		if ajax {
			return respondError(c, h.logger, err)
		}
		return c.Redirect(http.StatusSeeOther,
			"/patients?error="+url.QueryEscape("could not cancel the consultation"))
	}

	if ajax {
		return c.JSON(http.StatusOK, echo.Map{
			"success":         true,
			"message":         "consultation cancelled",
			"consultation_id": result.ConsultationID,
			"new_status":      result.Status,
		})
	}

	return c.Redirect(http.StatusSeeOther,
		fmt.Sprintf("/patients/%d?message=%s", result.PatientID, url.QueryEscape("consultation cancelled")))
}

func (h *ConsultationHandler) RecordClinicalData(c echo.Context) error {
	id, err := consultationID(c)
	if err != nil {
		return err
	}

	var req service.ClinicalDataInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	consultation, err := h.svc.RecordClinicalData(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, consultation)
}

func (h *ConsultationHandler) AddPrescription(c echo.Context) error {
	id, err := consultationID(c)
	if err != nil {
		return err
	}

	var req service.PrescriptionInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	prescription, err := h.svc.AddPrescription(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, prescription)
}

func (h *ConsultationHandler) ListPrescriptions(c echo.Context) error {
	id, err := consultationID(c)
	if err != nil {
		return err
	}

	prescriptions, err := h.svc.Prescriptions(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, prescriptions)
}

func (h *ConsultationHandler) Agenda(c echo.Context) error {
	agenda, err := h.svc.Agenda(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, agenda)
}

// WeekImage renders the current clinic week as a PNG schedule grid.
func (h *ConsultationHandler) WeekImage(c echo.Context) error {
	start, consultations, err := h.svc.Week(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var buf bytes.Buffer
	if err := render.WeekImage(&buf, start, consultations); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
