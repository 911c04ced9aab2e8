package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
	"github.com/jeffreyeugu-sketch/expedientes/internal/repository/base"
)

type ConsultationRepository struct {
	*base.Repository
}

func NewConsultationRepository(pool *pgxpool.Pool) *ConsultationRepository {
	return &ConsultationRepository{Repository: base.NewRepository(pool)}
}

const consultationColumns = `
	c.id, c.patient_id, c.doctor_id, c.scheduled_at, c.type, c.reason, c.status,
	c.symptoms, c.examination, c.diagnosis, c.treatment, c.notes, c.next_appointment,
	c.blood_pressure, c.heart_rate, c.temperature, c.weight,
	c.created_at, c.updated_at,
	p.first_name, p.last_name, p.phone,
	d.first_name, d.last_name, d.specialty`

const consultationJoins = `
	FROM consultations c
	JOIN patients p ON p.id = c.patient_id
	JOIN doctors  d ON d.id = c.doctor_id`

func scanConsultation(row pgx.Row) (*model.Consultation, error) {
	var (
		c       model.Consultation
		patient model.Patient
		doctor  model.Doctor
	)

	err := row.Scan(
		&c.ID,
		&c.PatientID,
		&c.DoctorID,
		&c.ScheduledAt,
		&c.Type,
		&c.Reason,
		&c.Status,
		&c.Symptoms,
		&c.Examination,
		&c.Diagnosis,
		&c.Treatment,
		&c.Notes,
		&c.NextAppointment,
		&c.BloodPressure,
		&c.HeartRate,
		&c.Temperature,
		&c.Weight,
		&c.CreatedAt,
		&c.UpdatedAt,
		&patient.FirstName,
		&patient.LastName,
		&patient.Phone,
		&doctor.FirstName,
		&doctor.LastName,
		&doctor.Specialty,
	)
	if err != nil {
		return nil, err
	}

	patient.ID = c.PatientID
	doctor.ID = c.DoctorID
	c.Patient = &patient
	c.Doctor = &doctor

	return &c, nil
}

// hasConflict checks whether another scheduled consultation already occupies
// the doctor's slot. Runs on the given db so callers can keep the check and
// the following write inside one transaction.
func (r *ConsultationRepository) hasConflict(ctx context.Context, db base.DB, doctorID int64, at time.Time, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM consultations
			WHERE doctor_id = $1
			  AND scheduled_at = $2
			  AND status = 'scheduled'
			  AND id <> $3
		)
	`

	var exists bool
	if err := db.QueryRow(ctx, query, doctorID, at, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slot conflict: %w", err)
	}
	return exists, nil
}

// Create books a new consultation. The conflict check and the insert run in
// one transaction; the partial unique index on (doctor_id, scheduled_at)
// backstops concurrent writers that raced past the check.
func (r *ConsultationRepository) Create(ctx context.Context, c *model.Consultation) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	taken, err := r.hasConflict(ctx, tx, c.DoctorID, c.ScheduledAt, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}

	query := `
		INSERT INTO consultations (patient_id, doctor_id, scheduled_at, type, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(
		ctx, query,
		c.PatientID,
		c.DoctorID,
		c.ScheduledAt,
		c.Type,
		c.Reason,
		c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("create consultation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Update rewrites the booking fields of a consultation (edit operation).
// Same transaction discipline as Create, excluding the row being edited from
// the conflict check.
func (r *ConsultationRepository) Update(ctx context.Context, c *model.Consultation) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	taken, err := r.hasConflict(ctx, tx, c.DoctorID, c.ScheduledAt, c.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}

	query := `
		UPDATE consultations
		SET patient_id = $1, doctor_id = $2, scheduled_at = $3, type = $4,
		    reason = $5, notes = $6, updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`

	err = tx.QueryRow(
		ctx, query,
		c.PatientID,
		c.DoctorID,
		c.ScheduledAt,
		c.Type,
		c.Reason,
		c.Notes,
		c.ID,
	).Scan(&c.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return ErrNotFound
		}
		if base.IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("update consultation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// UpdateClinicalData saves the clinical fields, vitals and status of a
// consultation. When updatePatientWeight is set, the recorded weight is also
// written to the patient's card inside the same transaction.
func (r *ConsultationRepository) UpdateClinicalData(ctx context.Context, c *model.Consultation, updatePatientWeight bool) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE consultations
		SET symptoms = $1, examination = $2, diagnosis = $3, treatment = $4,
		    notes = $5, next_appointment = $6,
		    blood_pressure = $7, heart_rate = $8, temperature = $9, weight = $10,
		    status = $11, updated_at = now()
		WHERE id = $12
		RETURNING updated_at
	`

	err = tx.QueryRow(
		ctx, query,
		c.Symptoms,
		c.Examination,
		c.Diagnosis,
		c.Treatment,
		c.Notes,
		c.NextAppointment,
		c.BloodPressure,
		c.HeartRate,
		c.Temperature,
		c.Weight,
		c.Status,
		c.ID,
	).Scan(&c.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update clinical data: %w", err)
	}

	if updatePatientWeight && c.Weight != nil {
		_, err = tx.Exec(ctx,
			`UPDATE patients SET weight = $1, updated_at = now() WHERE id = $2`,
			c.Weight, c.PatientID,
		)
		if err != nil {
			return fmt.Errorf("update patient weight: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// UpdateStatusNotes changes the status and replaces the notes text, used by
// the cancel operation (the caller appends to the existing notes first).
func (r *ConsultationRepository) UpdateStatusNotes(ctx context.Context, id int64, status model.ConsultationStatus, notes string) error {
	query := `
		UPDATE consultations
		SET status = $1, notes = $2, updated_at = now()
		WHERE id = $3
	`

	affected, err := r.ExecAffected(ctx, query, status, notes, id)
	if err != nil {
		return fmt.Errorf("update consultation status: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID fetches a consultation with patient and doctor names attached.
func (r *ConsultationRepository) GetByID(ctx context.Context, id int64) (*model.Consultation, error) {
	query := `SELECT` + consultationColumns + consultationJoins + `
	WHERE c.id = $1`

	c, err := scanConsultation(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consultation by id: %w", err)
	}

	return c, nil
}

// ListInRange returns consultations inside [from, to] with one of the given
// statuses, ordered by time ascending.
func (r *ConsultationRepository) ListInRange(ctx context.Context, from, to time.Time, statuses ...model.ConsultationStatus) ([]*model.Consultation, error) {
	query := `SELECT` + consultationColumns + consultationJoins + `
	WHERE c.scheduled_at >= $1
	  AND c.scheduled_at <= $2
	  AND c.status = ANY($3)
	ORDER BY c.scheduled_at`

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	rows, err := r.Query(ctx, query, from, to, names)
	if err != nil {
		return nil, fmt.Errorf("list consultations in range: %w", err)
	}
	defer rows.Close()

	var consultations []*model.Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		consultations = append(consultations, c)
	}

	return consultations, rows.Err()
}

// CountInRange counts consultations inside [from, to] with the given status.
func (r *ConsultationRepository) CountInRange(ctx context.Context, from, to time.Time, status model.ConsultationStatus) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM consultations
		WHERE scheduled_at >= $1
		  AND scheduled_at <= $2
		  AND status = $3
	`

	var count int
	if err := r.QueryRow(ctx, query, from, to, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("count consultations in range: %w", err)
	}

	return count, nil
}

// ListByPatient returns the patient's full consultation history, newest first.
func (r *ConsultationRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Consultation, error) {
	query := `SELECT` + consultationColumns + consultationJoins + `
	WHERE c.patient_id = $1
	ORDER BY c.scheduled_at DESC`

	rows, err := r.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("list consultations by patient: %w", err)
	}
	defer rows.Close()

	var consultations []*model.Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		consultations = append(consultations, c)
	}

	return consultations, rows.Err()
}
