package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
	"github.com/jeffreyeugu-sketch/expedientes/internal/repository"
)

// ConsultationService is the scheduling engine: it books, edits and cancels
// consultations and keeps the status lifecycle consistent.
type ConsultationService struct {
	consultations ConsultationRepository
	patients      PatientRepository
	doctors       DoctorRepository
	prescriptions PrescriptionRepository
	clock         Clock
	loc           *time.Location
	logger        *zap.Logger
}

func NewConsultationService(
	consultations ConsultationRepository,
	patients PatientRepository,
	doctors DoctorRepository,
	prescriptions PrescriptionRepository,
	loc *time.Location,
	logger *zap.Logger,
) *ConsultationService {
	return &ConsultationService{
		consultations: consultations,
		patients:      patients,
		doctors:       doctors,
		prescriptions: prescriptions,
		clock:         SystemClock,
		loc:           loc,
		logger:        logger,
	}
}

type ScheduleConsultationInput struct {
	PatientID int64                  `json:"patient_id"`
	DoctorID  int64                  `json:"doctor_id"`
	Date      string                 `json:"date"` // 2006-01-02
	Time      string                 `json:"time"` // 15:04 or 15:04:05
	Type      model.ConsultationType `json:"type"`
	Reason    string                 `json:"reason"`
}

type EditConsultationInput struct {
	ScheduleConsultationInput
	ChangeNote string `json:"change_note"`
}

type ClinicalDataInput struct {
	BloodPressure   string `json:"blood_pressure"`
	HeartRate       string `json:"heart_rate"`
	Temperature     string `json:"temperature"`
	Weight          string `json:"weight"`
	Symptoms        string `json:"symptoms"`
	Examination     string `json:"examination"`
	Diagnosis       string `json:"diagnosis"`
	Treatment       string `json:"treatment"`
	Notes           string `json:"notes"`
	NextAppointment string `json:"next_appointment"` // 2006-01-02, optional
}

func missingBookingFields(in ScheduleConsultationInput) []string {
	var missing []string
	if in.PatientID == 0 {
		missing = append(missing, "patient_id")
	}
	if in.DoctorID == 0 {
		missing = append(missing, "doctor_id")
	}
	if strings.TrimSpace(in.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(in.Time) == "" {
		missing = append(missing, "time")
	}
	if in.Type == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(in.Reason) == "" {
		missing = append(missing, "reason")
	}
	return missing
}

// combineDateTime joins the date and time-of-day form fields into an instant
// in the clinic's timezone. A time without a seconds component, zero-padded
// or not, is normalized to HH:MM:SS first.
func (s *ConsultationService) combineDateTime(date, timeOfDay string) (time.Time, error) {
	if strings.Count(timeOfDay, ":") == 1 {
		timeOfDay += ":00"
	}
	return time.ParseInLocation("2006-01-02 15:4:5", date+" "+timeOfDay, s.loc)
}

// validateBookingTime runs the shared validation of the create and edit
// paths: required fields, parseable date/time, strictly in the future.
func (s *ConsultationService) validateBookingTime(in ScheduleConsultationInput) (time.Time, error) {
	if missing := missingBookingFields(in); len(missing) > 0 {
		return time.Time{}, &ValidationError{Fields: missing}
	}
	if !model.ValidConsultationType(in.Type) {
		return time.Time{}, &ValidationError{Fields: []string{"type"}}
	}

	at, err := s.combineDateTime(in.Date, in.Time)
	if err != nil {
		return time.Time{}, &ValidationError{Fields: []string{"date", "time"}}
	}

	if !at.After(s.clock.Now()) {
		return time.Time{}, &PastTimeError{ScheduledAt: at}
	}

	return at, nil
}

// Schedule books a new consultation with status "scheduled".
func (s *ConsultationService) Schedule(ctx context.Context, in ScheduleConsultationInput) (*model.Consultation, error) {
	at, err := s.validateBookingTime(in)
	if err != nil {
		return nil, err
	}

	patient, err := s.patients.GetByID(ctx, in.PatientID)
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	if patient == nil {
		return nil, &NotFoundError{Entity: "patient", ID: in.PatientID}
	}

	doctor, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if doctor == nil {
		return nil, &NotFoundError{Entity: "doctor", ID: in.DoctorID}
	}

	c := &model.Consultation{
		PatientID:   in.PatientID,
		DoctorID:    in.DoctorID,
		ScheduledAt: at,
		Type:        in.Type,
		Reason:      in.Reason,
		Status:      model.StatusScheduled,
	}

	if err := s.consultations.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, &ConflictError{DoctorName: doctor.FullName(), ScheduledAt: at}
		}
		return nil, fmt.Errorf("create consultation: %w", err)
	}

	c.Patient = patient
	c.Doctor = doctor

	s.logger.Info("Consultation scheduled",
		zap.Int64("consultation_id", c.ID),
		zap.Int64("patient_id", c.PatientID),
		zap.Int64("doctor_id", c.DoctorID),
		zap.Time("scheduled_at", c.ScheduledAt),
		zap.String("type", string(c.Type)),
	)

	return c, nil
}

// Edit reschedules a consultation. Only "scheduled" consultations can be
// edited; prior values are preserved as an audit note in the notes field.
func (s *ConsultationService) Edit(ctx context.Context, id int64, in EditConsultationInput) (*model.Consultation, error) {
	c, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	if c == nil {
		return nil, &NotFoundError{Entity: "consultation", ID: id}
	}

	if c.Status != model.StatusScheduled {
		return nil, &StateError{Op: "edit", Status: c.Status}
	}

	at, err := s.validateBookingTime(in.ScheduleConsultationInput)
	if err != nil {
		return nil, err
	}

	patient, err := s.patients.GetByID(ctx, in.PatientID)
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	if patient == nil {
		return nil, &NotFoundError{Entity: "patient", ID: in.PatientID}
	}

	doctor, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if doctor == nil {
		return nil, &NotFoundError{Entity: "doctor", ID: in.DoctorID}
	}

	// Capture the prior booking before overwriting it
	note := s.editAuditNote(c, in.ChangeNote)

	c.PatientID = in.PatientID
	c.DoctorID = in.DoctorID
	c.ScheduledAt = at
	c.Type = in.Type
	c.Reason = in.Reason
	c.Notes = appendNote(c.Notes, note)

	if err := s.consultations.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			return nil, &ConflictError{DoctorName: doctor.FullName(), ScheduledAt: at}
		case errors.Is(err, repository.ErrNotFound):
			return nil, &NotFoundError{Entity: "consultation", ID: id}
		}
		return nil, fmt.Errorf("update consultation: %w", err)
	}

	c.Patient = patient
	c.Doctor = doctor

	s.logger.Info("Consultation edited",
		zap.Int64("consultation_id", c.ID),
		zap.Int64("doctor_id", c.DoctorID),
		zap.Time("scheduled_at", c.ScheduledAt),
	)

	return c, nil
}

// editAuditNote describes the booking as it was before the edit.
func (s *ConsultationService) editAuditNote(c *model.Consultation, changeNote string) string {
	priorDoctor := strconv.FormatInt(c.DoctorID, 10)
	if c.Doctor != nil {
		priorDoctor = c.Doctor.FullName()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- EDITED %s ---", s.clock.Now().In(s.loc).Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "\nPrevious doctor: %s", priorDoctor)
	fmt.Fprintf(&b, "\nPrevious date: %s", c.ScheduledAt.In(s.loc).Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "\nPrevious type: %s", c.Type)
	if changeNote != "" {
		fmt.Fprintf(&b, "\nChange reason: %s", changeNote)
	}
	return b.String()
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "\n\n" + note
}

// CancelResult is what both response modes of the cancel operation render.
type CancelResult struct {
	ConsultationID int64                    `json:"consultation_id"`
	PatientID      int64                    `json:"patient_id"`
	Status         model.ConsultationStatus `json:"new_status"`
}

// Cancel calls off a scheduled or in-progress consultation. The record is
// kept; the reason lands in the notes.
func (s *ConsultationService) Cancel(ctx context.Context, id int64, reason string) (*CancelResult, error) {
	c, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	if c == nil {
		return nil, &NotFoundError{Entity: "consultation", ID: id}
	}

	if !c.Status.Cancellable() {
		return nil, &StateError{Op: "cancel", Status: c.Status}
	}

	notes := c.Notes
	if reason != "" {
		if notes != "" {
			notes += "\n\n--- CANCELLATION ---\nReason: " + reason
		} else {
			notes = "CONSULTATION CANCELLED\nReason: " + reason
		}
	} else {
		if notes != "" {
			notes += "\n\n--- CONSULTATION CANCELLED ---"
		} else {
			notes = "CONSULTATION CANCELLED"
		}
	}

	if err := s.consultations.UpdateStatusNotes(ctx, id, model.StatusCancelled, notes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "consultation", ID: id}
		}
		return nil, fmt.Errorf("cancel consultation: %w", err)
	}

	s.logger.Info("Consultation cancelled",
		zap.Int64("consultation_id", id),
		zap.String("previous_status", string(c.Status)),
		zap.Bool("reason_given", reason != ""),
	)

	return &CancelResult{
		ConsultationID: id,
		PatientID:      c.PatientID,
		Status:         model.StatusCancelled,
	}, nil
}

// InferStatus derives the consultation status from which clinical text
// fields were filled in: a diagnosis completes the visit, symptoms or an
// examination mean it is underway, anything else leaves the status as is.
func InferStatus(current model.ConsultationStatus, diagnosis, symptoms, examination string) model.ConsultationStatus {
	switch {
	case strings.TrimSpace(diagnosis) != "":
		return model.StatusCompleted
	case strings.TrimSpace(symptoms) != "" || strings.TrimSpace(examination) != "":
		return model.StatusInProgress
	default:
		return current
	}
}

// RecordClinicalData saves vitals and clinical findings on a consultation and
// moves its status according to InferStatus. A recorded weight is copied to
// the patient's card in the same transaction.
func (s *ConsultationService) RecordClinicalData(ctx context.Context, id int64, in ClinicalDataInput) (*model.Consultation, error) {
	c, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	if c == nil {
		return nil, &NotFoundError{Entity: "consultation", ID: id}
	}

	var bad []string

	var heartRate *int
	if v := strings.TrimSpace(in.HeartRate); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			bad = append(bad, "heart_rate")
		} else {
			heartRate = &n
		}
	}

	var temperature *float64
	if v := strings.TrimSpace(in.Temperature); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			bad = append(bad, "temperature")
		} else {
			temperature = &f
		}
	}

	var weight *float64
	if v := strings.TrimSpace(in.Weight); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			bad = append(bad, "weight")
		} else {
			weight = &f
		}
	}

	var nextAppointment *time.Time
	if v := strings.TrimSpace(in.NextAppointment); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, s.loc)
		if err != nil {
			bad = append(bad, "next_appointment")
		} else {
			nextAppointment = &d
		}
	}

	if len(bad) > 0 {
		return nil, &ValidationError{Fields: bad}
	}

	prev := c.Status

	c.BloodPressure = in.BloodPressure
	c.HeartRate = heartRate
	c.Temperature = temperature
	c.Weight = weight
	c.Symptoms = in.Symptoms
	c.Examination = in.Examination
	c.Diagnosis = in.Diagnosis
	c.Treatment = in.Treatment
	c.Notes = in.Notes
	c.NextAppointment = nextAppointment
	c.Status = InferStatus(c.Status, in.Diagnosis, in.Symptoms, in.Examination)

	if err := s.consultations.UpdateClinicalData(ctx, c, weight != nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "consultation", ID: id}
		}
		return nil, fmt.Errorf("save clinical data: %w", err)
	}

	s.logger.Info("Clinical data recorded",
		zap.Int64("consultation_id", c.ID),
		zap.String("previous_status", string(prev)),
		zap.String("status", string(c.Status)),
		zap.Bool("weight_updated", weight != nil),
	)

	return c, nil
}

// GetByID fetches a single consultation with patient and doctor attached.
func (s *ConsultationService) GetByID(ctx context.Context, id int64) (*model.Consultation, error) {
	c, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	if c == nil {
		return nil, &NotFoundError{Entity: "consultation", ID: id}
	}
	return c, nil
}

// ListByPatient returns the full consultation history of a patient.
func (s *ConsultationService) ListByPatient(ctx context.Context, patientID int64) ([]*model.Consultation, error) {
	return s.consultations.ListByPatient(ctx, patientID)
}

// AgendaView is the day-scoped and near-term view used by the front desk.
type AgendaView struct {
	Date           string                `json:"date"`
	Today          []*model.Consultation `json:"today"`
	Upcoming       []*model.Consultation `json:"upcoming"`
	TotalToday     int                   `json:"total_today"`
	CompletedToday int                   `json:"completed_today"`
	PendingToday   int                   `json:"pending_today"`
}

// dayBounds returns the clinic-local [midnight, end-of-day] window of the
// day containing t.
func (s *ConsultationService) dayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 1).Add(-time.Microsecond)
	return start, end
}

// Agenda builds today's consultation list, the upcoming seven days, and the
// day counters. Pure read, no mutation.
func (s *ConsultationService) Agenda(ctx context.Context) (*AgendaView, error) {
	dayStart, dayEnd := s.dayBounds(s.clock.Now())

	today, err := s.consultations.ListInRange(ctx, dayStart, dayEnd,
		model.StatusScheduled, model.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("list today's consultations: %w", err)
	}

	upcomingFrom := dayStart.AddDate(0, 0, 1)
	upcomingTo := dayStart.AddDate(0, 0, 8).Add(-time.Microsecond)

	upcoming, err := s.consultations.ListInRange(ctx, upcomingFrom, upcomingTo,
		model.StatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("list upcoming consultations: %w", err)
	}

	completed, err := s.consultations.CountInRange(ctx, dayStart, dayEnd, model.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("count completed consultations: %w", err)
	}

	pending := 0
	for _, c := range today {
		if c.Status == model.StatusScheduled {
			pending++
		}
	}

	return &AgendaView{
		Date:           dayStart.Format("2006-01-02"),
		Today:          today,
		Upcoming:       upcoming,
		TotalToday:     len(today),
		CompletedToday: completed,
		PendingToday:   pending,
	}, nil
}

// Week returns the current clinic week (Monday through Sunday) for the
// agenda image, along with the week's starting day.
func (s *ConsultationService) Week(ctx context.Context) (time.Time, []*model.Consultation, error) {
	dayStart, _ := s.dayBounds(s.clock.Now())

	start := dayStart
	for start.Weekday() != time.Monday {
		start = start.AddDate(0, 0, -1)
	}
	end := start.AddDate(0, 0, 7).Add(-time.Microsecond)

	consultations, err := s.consultations.ListInRange(ctx, start, end,
		model.StatusScheduled, model.StatusInProgress, model.StatusCompleted)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("list week consultations: %w", err)
	}

	return start, consultations, nil
}

type PrescriptionInput struct {
	Medication   string `json:"medication"`
	Dose         string `json:"dose"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

// AddPrescription issues a prescription for a consultation that is underway
// or already completed.
func (s *ConsultationService) AddPrescription(ctx context.Context, consultationID int64, in PrescriptionInput) (*model.Prescription, error) {
	c, err := s.consultations.GetByID(ctx, consultationID)
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	if c == nil {
		return nil, &NotFoundError{Entity: "consultation", ID: consultationID}
	}

	if c.Status != model.StatusInProgress && c.Status != model.StatusCompleted {
		return nil, &StateError{Op: "prescribe for", Status: c.Status}
	}

	var missing []string
	if strings.TrimSpace(in.Medication) == "" {
		missing = append(missing, "medication")
	}
	if strings.TrimSpace(in.Dose) == "" {
		missing = append(missing, "dose")
	}
	if strings.TrimSpace(in.Frequency) == "" {
		missing = append(missing, "frequency")
	}
	if strings.TrimSpace(in.Duration) == "" {
		missing = append(missing, "duration")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	p := &model.Prescription{
		ConsultationID: consultationID,
		Medication:     in.Medication,
		Dose:           in.Dose,
		Frequency:      in.Frequency,
		Duration:       in.Duration,
		Instructions:   in.Instructions,
	}

	if err := s.prescriptions.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create prescription: %w", err)
	}

	s.logger.Info("Prescription issued",
		zap.Int64("prescription_id", p.ID),
		zap.Int64("consultation_id", consultationID),
	)

	return p, nil
}

// Prescriptions lists the prescriptions of a consultation.
func (s *ConsultationService) Prescriptions(ctx context.Context, consultationID int64) ([]*model.Prescription, error) {
	return s.prescriptions.ListByConsultation(ctx, consultationID)
}
