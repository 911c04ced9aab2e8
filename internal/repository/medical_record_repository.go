package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
	"github.com/jeffreyeugu-sketch/expedientes/internal/repository/base"
)

type MedicalRecordRepository struct {
	*base.Repository
}

func NewMedicalRecordRepository(pool *pgxpool.Pool) *MedicalRecordRepository {
	return &MedicalRecordRepository{Repository: base.NewRepository(pool)}
}

const medicalRecordColumns = `
	id, patient_id, previous_surgeries, hospitalizations, traumas,
	menarche, menstrual_cycle, pregnancies, births, cesareans, abortions,
	important_notes, created_at, updated_at`

// Create opens an empty chart for a patient.
func (r *MedicalRecordRepository) Create(ctx context.Context, rec *model.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (patient_id)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(ctx, query, rec.PatientID).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create medical record: %w", err)
	}

	return nil
}

// GetByPatientID fetches the patient's chart, nil when none exists yet.
func (r *MedicalRecordRepository) GetByPatientID(ctx context.Context, patientID int64) (*model.MedicalRecord, error) {
	query := `SELECT` + medicalRecordColumns + ` FROM medical_records WHERE patient_id = $1`

	var rec model.MedicalRecord
	err := r.QueryRow(ctx, query, patientID).Scan(
		&rec.ID,
		&rec.PatientID,
		&rec.PreviousSurgeries,
		&rec.Hospitalizations,
		&rec.Traumas,
		&rec.Menarche,
		&rec.MenstrualCycle,
		&rec.Pregnancies,
		&rec.Births,
		&rec.Cesareans,
		&rec.Abortions,
		&rec.ImportantNotes,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medical record by patient: %w", err)
	}

	return &rec, nil
}
