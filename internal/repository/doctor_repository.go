package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
	"github.com/jeffreyeugu-sketch/expedientes/internal/repository/base"
)

type DoctorRepository struct {
	*base.Repository
}

func NewDoctorRepository(pool *pgxpool.Pool) *DoctorRepository {
	return &DoctorRepository{Repository: base.NewRepository(pool)}
}

const doctorColumns = `id, first_name, last_name, license_number, specialty, phone, email, active, created_at`

func scanDoctor(row pgx.Row) (*model.Doctor, error) {
	var d model.Doctor
	err := row.Scan(
		&d.ID,
		&d.FirstName,
		&d.LastName,
		&d.LicenseNumber,
		&d.Specialty,
		&d.Phone,
		&d.Email,
		&d.Active,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create adds a doctor to the roster.
func (r *DoctorRepository) Create(ctx context.Context, d *model.Doctor) error {
	query := `
		INSERT INTO doctors (first_name, last_name, license_number, specialty, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, active, created_at
	`

	err := r.QueryRow(
		ctx, query,
		d.FirstName, d.LastName, d.LicenseNumber, d.Specialty, d.Phone, d.Email,
	).Scan(&d.ID, &d.Active, &d.CreatedAt)

	if err != nil {
		return fmt.Errorf("create doctor: %w", err)
	}

	return nil
}

// GetByID fetches a doctor by primary key.
func (r *DoctorRepository) GetByID(ctx context.Context, id int64) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`

	d, err := scanDoctor(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get doctor by id: %w", err)
	}

	return d, nil
}

// Update rewrites a doctor's roster entry.
func (r *DoctorRepository) Update(ctx context.Context, d *model.Doctor) error {
	query := `
		UPDATE doctors
		SET first_name = $1, last_name = $2, license_number = $3,
		    specialty = $4, phone = $5, email = $6
		WHERE id = $7
	`

	affected, err := r.ExecAffected(
		ctx, query,
		d.FirstName, d.LastName, d.LicenseNumber, d.Specialty, d.Phone, d.Email, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update doctor: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// ListActive returns active doctors ordered by name.
func (r *DoctorRepository) ListActive(ctx context.Context) ([]*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + `
	FROM doctors
	WHERE active = TRUE
	ORDER BY last_name, first_name`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active doctors: %w", err)
	}
	defer rows.Close()

	var doctors []*model.Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, d)
	}

	return doctors, rows.Err()
}

// Deactivate removes a doctor from the active roster.
func (r *DoctorRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE doctors SET active = FALSE WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate doctor: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
