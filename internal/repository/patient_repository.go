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

type PatientRepository struct {
	*base.Repository
}

func NewPatientRepository(pool *pgxpool.Pool) *PatientRepository {
	return &PatientRepository{Repository: base.NewRepository(pool)}
}

const patientColumns = `
	id, first_name, last_name, birth_date, gender, marital_status, occupation,
	document_id, address, blood_type, weight, height, allergies,
	current_medications, chronic_diseases, family_history, smoker, alcohol,
	phone, alternate_phone, email, emergency_name, emergency_relationship,
	emergency_phone, insurance_provider, insurance_policy, active,
	created_at, updated_at`

func scanPatient(row pgx.Row) (*model.Patient, error) {
	var p model.Patient
	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.BirthDate,
		&p.Gender,
		&p.MaritalStatus,
		&p.Occupation,
		&p.DocumentID,
		&p.Address,
		&p.BloodType,
		&p.Weight,
		&p.Height,
		&p.Allergies,
		&p.CurrentMedications,
		&p.ChronicDiseases,
		&p.FamilyHistory,
		&p.Smoker,
		&p.Alcohol,
		&p.Phone,
		&p.AlternatePhone,
		&p.Email,
		&p.EmergencyName,
		&p.EmergencyRelationship,
		&p.EmergencyPhone,
		&p.InsuranceProvider,
		&p.InsurancePolicy,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create registers a new patient.
func (r *PatientRepository) Create(ctx context.Context, p *model.Patient) error {
	query := `
		INSERT INTO patients (
			first_name, last_name, birth_date, gender, marital_status, occupation,
			document_id, address, blood_type, weight, height, allergies,
			current_medications, chronic_diseases, family_history, smoker, alcohol,
			phone, alternate_phone, email, emergency_name, emergency_relationship,
			emergency_phone, insurance_provider, insurance_policy
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING id, active, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		p.FirstName, p.LastName, p.BirthDate, p.Gender, p.MaritalStatus, p.Occupation,
		p.DocumentID, p.Address, p.BloodType, p.Weight, p.Height, p.Allergies,
		p.CurrentMedications, p.ChronicDiseases, p.FamilyHistory, p.Smoker, p.Alcohol,
		p.Phone, p.AlternatePhone, p.Email, p.EmergencyName, p.EmergencyRelationship,
		p.EmergencyPhone, p.InsuranceProvider, p.InsurancePolicy,
	).Scan(&p.ID, &p.Active, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create patient: %w", err)
	}

	return nil
}

// GetByID fetches a patient by primary key.
func (r *PatientRepository) GetByID(ctx context.Context, id int64) (*model.Patient, error) {
	query := `SELECT` + patientColumns + ` FROM patients WHERE id = $1`

	p, err := scanPatient(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient by id: %w", err)
	}

	return p, nil
}

// Update rewrites the editable fields of a patient card.
func (r *PatientRepository) Update(ctx context.Context, p *model.Patient) error {
	query := `
		UPDATE patients
		SET first_name = $1, last_name = $2, birth_date = $3, gender = $4,
		    marital_status = $5, occupation = $6, address = $7, blood_type = $8,
		    weight = $9, height = $10, allergies = $11, current_medications = $12,
		    chronic_diseases = $13, family_history = $14, smoker = $15, alcohol = $16,
		    phone = $17, alternate_phone = $18, email = $19, emergency_name = $20,
		    emergency_relationship = $21, emergency_phone = $22,
		    insurance_provider = $23, insurance_policy = $24, updated_at = now()
		WHERE id = $25
	`

	affected, err := r.ExecAffected(
		ctx, query,
		p.FirstName, p.LastName, p.BirthDate, p.Gender,
		p.MaritalStatus, p.Occupation, p.Address, p.BloodType,
		p.Weight, p.Height, p.Allergies, p.CurrentMedications,
		p.ChronicDiseases, p.FamilyHistory, p.Smoker, p.Alcohol,
		p.Phone, p.AlternatePhone, p.Email, p.EmergencyName,
		p.EmergencyRelationship, p.EmergencyPhone,
		p.InsuranceProvider, p.InsurancePolicy, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// ListActive returns all active patients ordered by name.
func (r *PatientRepository) ListActive(ctx context.Context) ([]*model.Patient, error) {
	query := `SELECT` + patientColumns + `
	FROM patients
	WHERE active = TRUE
	ORDER BY last_name, first_name`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active patients: %w", err)
	}
	defer rows.Close()

	var patients []*model.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, p)
	}

	return patients, rows.Err()
}

// CountRegisteredBetween counts patients registered inside [from, to).
func (r *PatientRepository) CountRegisteredBetween(ctx context.Context, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM patients
		WHERE active = TRUE
		  AND created_at >= $1
		  AND created_at < $2
	`

	var count int
	if err := r.QueryRow(ctx, query, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count registered patients: %w", err)
	}

	return count, nil
}

// Deactivate soft-deletes a patient.
func (r *PatientRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE patients SET active = FALSE, updated_at = now() WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate patient: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
