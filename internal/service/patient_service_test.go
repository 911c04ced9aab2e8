package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
)

type patientFixture struct {
	svc           *PatientService
	patients      *mockPatientRepo
	records       *mockRecordRepo
	consultations *mockConsultationRepo
}

func newPatientFixture(now time.Time) *patientFixture {
	patients := newMockPatientRepo()
	records := newMockRecordRepo()
	consultations := newMockConsultationRepo()
	consultations.patients = patients

	svc := NewPatientService(patients, records, consultations, clinicLocation(), zap.NewNop())
	svc.clock = FixedClock{T: now}

	return &patientFixture{
		svc:           svc,
		patients:      patients,
		records:       records,
		consultations: consultations,
	}
}

func validPatient() *model.Patient {
	return &model.Patient{
		FirstName:             "Maria",
		LastName:              "Lopez",
		BirthDate:             time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		Gender:                "F",
		DocumentID:            "LOML900412",
		Phone:                 "5551234",
		EmergencyName:         "Jose Lopez",
		EmergencyRelationship: "brother",
		EmergencyPhone:        "5555678",
	}
}

func TestRegisterCreatesPatientWithRecord(t *testing.T) {
	fx := newPatientFixture(testNow())

	p := validPatient()
	require.NoError(t, fx.svc.Register(context.Background(), p))

	assert.NotZero(t, p.ID)
	assert.True(t, p.Active)

	rec, err := fx.records.GetByPatientID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, p.ID, rec.PatientID)
}

func TestRegisterMissingFields(t *testing.T) {
	fx := newPatientFixture(testNow())

	err := fx.svc.Register(context.Background(), &model.Patient{FirstName: "Maria"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "last_name")
	assert.Contains(t, valErr.Fields, "birth_date")
	assert.Contains(t, valErr.Fields, "emergency_phone")
	assert.Zero(t, fx.records.creates)
}

func TestDetailCreatesMissingRecord(t *testing.T) {
	fx := newPatientFixture(testNow())
	ctx := context.Background()

	// Patient created directly in the repo, bypassing Register, so no record
	p := validPatient()
	require.NoError(t, fx.patients.Create(ctx, p))
	require.Zero(t, fx.records.creates)

	detail, err := fx.svc.Detail(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Record)
	assert.Equal(t, 1, fx.records.creates)

	// Second open reuses the record
	_, err = fx.svc.Detail(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fx.records.creates)
}

func TestDetailPartitionsHistory(t *testing.T) {
	fx := newPatientFixture(testNow())
	ctx := context.Background()
	loc := clinicLocation()

	p := validPatient()
	require.NoError(t, fx.svc.Register(ctx, p))

	seed := func(at time.Time, status model.ConsultationStatus) {
		fx.consultations.nextID++
		id := fx.consultations.nextID
		fx.consultations.consultations[id] = &model.Consultation{
			ID:          id,
			PatientID:   p.ID,
			ScheduledAt: at,
			Status:      status,
		}
	}

	seed(time.Date(2025, 9, 10, 10, 0, 0, 0, loc), model.StatusCompleted)
	seed(time.Date(2025, 9, 20, 10, 0, 0, 0, loc), model.StatusCompleted)
	seed(time.Date(2025, 9, 30, 10, 0, 0, 0, loc), model.StatusScheduled)
	seed(time.Date(2025, 9, 15, 10, 0, 0, 0, loc), model.StatusCancelled)
	seed(time.Date(2025, 9, 25, 8, 0, 0, 0, loc), model.StatusInProgress)

	detail, err := fx.svc.Detail(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, 5, detail.TotalConsultations)
	assert.Len(t, detail.Completed, 2)
	assert.Len(t, detail.Scheduled, 1)
	assert.Len(t, detail.InProgress, 1)
	assert.Len(t, detail.Cancelled, 1)

	require.NotNil(t, detail.LastCompleted)
	assert.Equal(t, time.Date(2025, 9, 20, 10, 0, 0, 0, loc), detail.LastCompleted.ScheduledAt)

	require.NotNil(t, detail.NextScheduled)
	assert.Equal(t, time.Date(2025, 9, 30, 10, 0, 0, 0, loc), detail.NextScheduled.ScheduledAt)

	require.NotNil(t, detail.DaysSinceLast)
	assert.Equal(t, 4, *detail.DaysSinceLast)
}

func TestDetailUnknownPatient(t *testing.T) {
	fx := newPatientFixture(testNow())

	_, err := fx.svc.Detail(context.Background(), 999)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "patient", notFound.Entity)
}

func TestRegistryStats(t *testing.T) {
	fx := newPatientFixture(testNow())
	ctx := context.Background()
	loc := clinicLocation()

	older := validPatient()
	older.CreatedAt = time.Date(2025, 7, 1, 10, 0, 0, 0, loc)
	require.NoError(t, fx.patients.Create(ctx, older))

	recent := validPatient()
	recent.FirstName = "Ana"
	recent.DocumentID = "RARA910101"
	recent.CreatedAt = time.Date(2025, 9, 20, 10, 0, 0, 0, loc)
	require.NoError(t, fx.patients.Create(ctx, recent))

	gone := validPatient()
	gone.FirstName = "Luis"
	require.NoError(t, fx.patients.Create(ctx, gone))
	require.NoError(t, fx.patients.Deactivate(ctx, gone.ID))

	view, err := fx.svc.Registry(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, view.Total)
	assert.Equal(t, 1, view.NewThisMonth)
	require.Len(t, view.Patients, 2)

	for _, row := range view.Patients {
		assert.Equal(t, 35, row.Age) // born 12/04/1990, now 25/09/2025
		if row.FullName == "Ana Lopez" {
			assert.Equal(t, "new", row.State)
		} else {
			assert.Equal(t, "active", row.State)
		}
	}
}

func TestDeactivatePatient(t *testing.T) {
	fx := newPatientFixture(testNow())
	ctx := context.Background()

	p := validPatient()
	require.NoError(t, fx.svc.Register(ctx, p))
	require.NoError(t, fx.svc.Deactivate(ctx, p.ID))

	assert.False(t, fx.patients.patients[p.ID].Active)

	err := fx.svc.Deactivate(ctx, 999)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}
