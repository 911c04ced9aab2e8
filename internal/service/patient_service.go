package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
)

// PatientService handles the patient registry and the per-patient detail
// view with its medical record and consultation history.
type PatientService struct {
	patients      PatientRepository
	records       MedicalRecordRepository
	consultations ConsultationRepository
	clock         Clock
	loc           *time.Location
	logger        *zap.Logger
}

func NewPatientService(
	patients PatientRepository,
	records MedicalRecordRepository,
	consultations ConsultationRepository,
	loc *time.Location,
	logger *zap.Logger,
) *PatientService {
	return &PatientService{
		patients:      patients,
		records:       records,
		consultations: consultations,
		clock:         SystemClock,
		loc:           loc,
		logger:        logger,
	}
}

func missingPatientFields(p *model.Patient) []string {
	var missing []string
	if strings.TrimSpace(p.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(p.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if p.BirthDate.IsZero() {
		missing = append(missing, "birth_date")
	}
	if strings.TrimSpace(p.Gender) == "" {
		missing = append(missing, "gender")
	}
	if strings.TrimSpace(p.DocumentID) == "" {
		missing = append(missing, "document_id")
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(p.EmergencyName) == "" {
		missing = append(missing, "emergency_name")
	}
	if strings.TrimSpace(p.EmergencyRelationship) == "" {
		missing = append(missing, "emergency_relationship")
	}
	if strings.TrimSpace(p.EmergencyPhone) == "" {
		missing = append(missing, "emergency_phone")
	}
	return missing
}

// Register creates a patient together with their empty medical record.
func (s *PatientService) Register(ctx context.Context, p *model.Patient) error {
	if missing := missingPatientFields(p); len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}

	if err := s.patients.Create(ctx, p); err != nil {
		return fmt.Errorf("create patient: %w", err)
	}

	rec := &model.MedicalRecord{PatientID: p.ID}
	if err := s.records.Create(ctx, rec); err != nil {
		return fmt.Errorf("create medical record: %w", err)
	}

	s.logger.Info("Patient registered",
		zap.Int64("patient_id", p.ID),
		zap.String("name", p.FullName()),
	)

	return nil
}

// Update rewrites a patient card.
func (s *PatientService) Update(ctx context.Context, p *model.Patient) error {
	if missing := missingPatientFields(p); len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}

	if err := s.patients.Update(ctx, p); err != nil {
		return mapNotFound(err, "patient", p.ID)
	}

	return nil
}

// Deactivate soft-deletes a patient.
func (s *PatientService) Deactivate(ctx context.Context, id int64) error {
	if err := s.patients.Deactivate(ctx, id); err != nil {
		return mapNotFound(err, "patient", id)
	}

	s.logger.Info("Patient deactivated", zap.Int64("patient_id", id))
	return nil
}

// PatientDetail is the complete per-patient view: card, chart and the
// consultation history partitioned by status.
type PatientDetail struct {
	Patient *model.Patient       `json:"patient"`
	Record  *model.MedicalRecord `json:"record"`

	Consultations []*model.Consultation `json:"consultations"`
	Completed     []*model.Consultation `json:"completed"`
	Scheduled     []*model.Consultation `json:"scheduled"`
	InProgress    []*model.Consultation `json:"in_progress"`
	Cancelled     []*model.Consultation `json:"cancelled"`

	TotalConsultations int                 `json:"total_consultations"`
	LastCompleted      *model.Consultation `json:"last_completed"`
	NextScheduled      *model.Consultation `json:"next_scheduled"`
	DaysSinceLast      *int                `json:"days_since_last"`
}

// Detail assembles the patient view. A missing medical record is created on
// the spot, so every patient opened at least once has a chart.
func (s *PatientService) Detail(ctx context.Context, id int64) (*PatientDetail, error) {
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	if patient == nil {
		return nil, &NotFoundError{Entity: "patient", ID: id}
	}

	record, err := s.records.GetByPatientID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get medical record: %w", err)
	}
	if record == nil {
		record = &model.MedicalRecord{PatientID: id}
		if err := s.records.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("create medical record: %w", err)
		}
	}

	history, err := s.consultations.ListByPatient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}

	detail := &PatientDetail{
		Patient:            patient,
		Record:             record,
		Consultations:      history,
		TotalConsultations: len(history),
	}

	// History comes newest first; the next scheduled visit is the last
	// "scheduled" entry in that ordering.
	for _, c := range history {
		switch c.Status {
		case model.StatusCompleted:
			if detail.LastCompleted == nil {
				detail.LastCompleted = c
			}
			detail.Completed = append(detail.Completed, c)
		case model.StatusScheduled:
			detail.NextScheduled = c
			detail.Scheduled = append(detail.Scheduled, c)
		case model.StatusInProgress:
			detail.InProgress = append(detail.InProgress, c)
		case model.StatusCancelled:
			detail.Cancelled = append(detail.Cancelled, c)
		}
	}

	if detail.LastCompleted != nil {
		days := int(s.clock.Now().In(s.loc).Sub(detail.LastCompleted.ScheduledAt) / (24 * time.Hour))
		detail.DaysSinceLast = &days
	}

	return detail, nil
}

// PatientSummary is one row of the registry listing.
type PatientSummary struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Age      int    `json:"age"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	State    string `json:"state"` // new | active
}

// RegistryView is the patient listing plus month statistics.
type RegistryView struct {
	Patients     []*PatientSummary `json:"patients"`
	Total        int               `json:"total"`
	NewThisMonth int               `json:"new_this_month"`
}

// Registry lists all active patients with the registration statistics of the
// current month.
func (s *PatientService) Registry(ctx context.Context) (*RegistryView, error) {
	patients, err := s.patients.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}

	now := s.clock.Now().In(s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	newThisMonth, err := s.patients.CountRegisteredBetween(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("count new patients: %w", err)
	}

	view := &RegistryView{
		Total:        len(patients),
		NewThisMonth: newThisMonth,
	}
	for _, p := range patients {
		view.Patients = append(view.Patients, &PatientSummary{
			ID:       p.ID,
			FullName: p.FullName(),
			Age:      p.Age(now),
			Phone:    p.Phone,
			Email:    p.Email,
			State:    p.RegistrationState(now),
		})
	}

	return view, nil
}
