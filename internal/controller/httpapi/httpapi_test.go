package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
	"github.com/jeffreyeugu-sketch/expedientes/internal/service"
)

// -- Stub repositories --

// stubConsultationRepo holds a single consultation; enough for the cancel
// handler paths.
type stubConsultationRepo struct {
	consultation *model.Consultation
}

func (s *stubConsultationRepo) Create(context.Context, *model.Consultation) error { return nil }
func (s *stubConsultationRepo) Update(context.Context, *model.Consultation) error { return nil }
func (s *stubConsultationRepo) UpdateClinicalData(context.Context, *model.Consultation, bool) error {
	return nil
}

func (s *stubConsultationRepo) UpdateStatusNotes(_ context.Context, id int64, status model.ConsultationStatus, notes string) error {
	s.consultation.Status = status
	s.consultation.Notes = notes
	return nil
}

func (s *stubConsultationRepo) GetByID(_ context.Context, id int64) (*model.Consultation, error) {
	if s.consultation == nil || s.consultation.ID != id {
		return nil, nil
	}
	return s.consultation, nil
}

func (s *stubConsultationRepo) ListInRange(context.Context, time.Time, time.Time, ...model.ConsultationStatus) ([]*model.Consultation, error) {
	return nil, nil
}

func (s *stubConsultationRepo) CountInRange(context.Context, time.Time, time.Time, model.ConsultationStatus) (int, error) {
	return 0, nil
}

func (s *stubConsultationRepo) ListByPatient(context.Context, int64) ([]*model.Consultation, error) {
	return nil, nil
}

type stubUserRepo struct {
	users map[string]*model.User
}

func (s *stubUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = int64(len(s.users) + 1)
	s.users[u.Username] = u
	return nil
}

func (s *stubUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return s.users[username], nil
}

func newCancelHandler(c *model.Consultation) (*ConsultationHandler, *stubConsultationRepo) {
	repo := &stubConsultationRepo{consultation: c}
	svc := service.NewConsultationService(repo, nil, nil, nil, time.UTC, zap.NewNop())
	return NewConsultationHandler(svc, zap.NewNop()), repo
}

// -- Error mapping --

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", &service.ValidationError{Fields: []string{"date"}}, http.StatusUnprocessableEntity, "validation_error"},
		{"past time", &service.PastTimeError{ScheduledAt: time.Now()}, http.StatusUnprocessableEntity, "past_time"},
		{"conflict", &service.ConflictError{DoctorName: "Carlos Mendoza"}, http.StatusConflict, "schedule_conflict"},
		{"state", &service.StateError{Op: "edit", Status: model.StatusCompleted}, http.StatusConflict, "invalid_state"},
		{"not found", &service.NotFoundError{Entity: "patient", ID: 7}, http.StatusNotFound, "not_found"},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, respondError(c, zap.NewNop(), tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["error"])
		})
	}
}

// -- Cancel response modes --

func TestCancelAjaxReturnsJSON(t *testing.T) {
	handler, repo := newCancelHandler(&model.Consultation{
		ID:        5,
		PatientID: 9,
		Status:    model.StatusScheduled,
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/consultations/5/cancel",
		strings.NewReader(`{"reason":"patient request"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/consultations/:id/cancel")
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, handler.Cancel(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(5), body["consultation_id"])
	assert.Equal(t, "cancelled", body["new_status"])

	assert.Equal(t, model.StatusCancelled, repo.consultation.Status)
	assert.Contains(t, repo.consultation.Notes, "patient request")
}

func TestCancelBrowserRedirects(t *testing.T) {
	handler, _ := newCancelHandler(&model.Consultation{
		ID:        5,
		PatientID: 9,
		Status:    model.StatusScheduled,
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/consultations/5/cancel", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/consultations/:id/cancel")
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, handler.Cancel(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	location, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
	require.NoError(t, err)
	assert.Equal(t, "/patients/9", location.Path)
	assert.Equal(t, "consultation cancelled", location.Query().Get("message"))
}

func TestCancelAjaxErrorIsTyped(t *testing.T) {
	handler, _ := newCancelHandler(&model.Consultation{
		ID:        5,
		PatientID: 9,
		Status:    model.StatusCompleted,
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/consultations/5/cancel", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/consultations/:id/cancel")
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, handler.Cancel(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid_state", body["error"])
}

func TestCancelBrowserErrorRedirects(t *testing.T) {
	handler, _ := newCancelHandler(&model.Consultation{
		ID:        5,
		PatientID: 9,
		Status:    model.StatusCompleted,
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/consultations/5/cancel", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/consultations/:id/cancel")
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, handler.Cancel(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderLocation), "/patients?error=")
}

// -- Auth middleware --

func TestAuthMiddleware(t *testing.T) {
	users := &stubUserRepo{users: make(map[string]*model.User)}
	auth := service.NewAuthService(users, "test-secret", zap.NewNop())

	_, err := auth.CreateUser(context.Background(), "dra.garcia", "s3cret", model.RoleDoctor)
	require.NoError(t, err)
	token, err := auth.Login(context.Background(), "dra.garcia", "s3cret")
	require.NoError(t, err)

	e := echo.New()
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	run := func(header string, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := handler
		for i := len(mw) - 1; i >= 0; i-- {
			h = mw[i](h)
		}
		if err := h(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, run("", Auth(auth)).Code)
	assert.Equal(t, http.StatusUnauthorized, run("Basic abc", Auth(auth)).Code)
	assert.Equal(t, http.StatusUnauthorized, run("Bearer not-a-token", Auth(auth)).Code)
	assert.Equal(t, http.StatusOK, run("Bearer "+token, Auth(auth)).Code)

	assert.Equal(t, http.StatusOK,
		run("Bearer "+token, Auth(auth), RequireRole(model.RoleDoctor)).Code)
	assert.Equal(t, http.StatusOK,
		run("Bearer "+token, Auth(auth), RequireRole(model.RoleAdmin, model.RoleDoctor)).Code)
	assert.Equal(t, http.StatusForbidden,
		run("Bearer "+token, Auth(auth), RequireRole(model.RoleAdmin)).Code)
}
