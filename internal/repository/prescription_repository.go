package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
	"github.com/jeffreyeugu-sketch/expedientes/internal/repository/base"
)

type PrescriptionRepository struct {
	*base.Repository
}

func NewPrescriptionRepository(pool *pgxpool.Pool) *PrescriptionRepository {
	return &PrescriptionRepository{Repository: base.NewRepository(pool)}
}

// Create stores a prescription issued during a consultation.
func (r *PrescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (consultation_id, medication, dose, frequency, duration, instructions)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		p.ConsultationID, p.Medication, p.Dose, p.Frequency, p.Duration, p.Instructions,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		return fmt.Errorf("create prescription: %w", err)
	}

	return nil
}

// ListByConsultation returns the prescriptions of a consultation, newest first.
func (r *PrescriptionRepository) ListByConsultation(ctx context.Context, consultationID int64) ([]*model.Prescription, error) {
	query := `
		SELECT id, consultation_id, medication, dose, frequency, duration, instructions, created_at
		FROM prescriptions
		WHERE consultation_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, consultationID)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()

	var prescriptions []*model.Prescription
	for rows.Next() {
		var p model.Prescription
		err := rows.Scan(
			&p.ID,
			&p.ConsultationID,
			&p.Medication,
			&p.Dose,
			&p.Frequency,
			&p.Duration,
			&p.Instructions,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan prescription: %w", err)
		}
		prescriptions = append(prescriptions, &p)
	}

	return prescriptions, rows.Err()
}
