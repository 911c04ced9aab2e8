package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
)

// DoctorService manages the doctor roster.
type DoctorService struct {
	doctors DoctorRepository
	logger  *zap.Logger
}

func NewDoctorService(doctors DoctorRepository, logger *zap.Logger) *DoctorService {
	return &DoctorService{doctors: doctors, logger: logger}
}

func missingDoctorFields(d *model.Doctor) []string {
	var missing []string
	if strings.TrimSpace(d.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(d.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if strings.TrimSpace(d.LicenseNumber) == "" {
		missing = append(missing, "license_number")
	}
	if strings.TrimSpace(d.Specialty) == "" {
		missing = append(missing, "specialty")
	}
	if strings.TrimSpace(d.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(d.Email) == "" {
		missing = append(missing, "email")
	}
	return missing
}

// Create adds a doctor to the roster.
func (s *DoctorService) Create(ctx context.Context, d *model.Doctor) error {
	if missing := missingDoctorFields(d); len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}

	if err := s.doctors.Create(ctx, d); err != nil {
		return fmt.Errorf("create doctor: %w", err)
	}

	s.logger.Info("Doctor added",
		zap.Int64("doctor_id", d.ID),
		zap.String("name", d.FullName()),
		zap.String("specialty", d.Specialty),
	)

	return nil
}

// Update rewrites a roster entry.
func (s *DoctorService) Update(ctx context.Context, d *model.Doctor) error {
	if missing := missingDoctorFields(d); len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}

	if err := s.doctors.Update(ctx, d); err != nil {
		return mapNotFound(err, "doctor", d.ID)
	}

	return nil
}

// GetByID fetches a doctor.
func (s *DoctorService) GetByID(ctx context.Context, id int64) (*model.Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if d == nil {
		return nil, &NotFoundError{Entity: "doctor", ID: id}
	}
	return d, nil
}

// ListActive returns the active roster ordered by name.
func (s *DoctorService) ListActive(ctx context.Context) ([]*model.Doctor, error) {
	return s.doctors.ListActive(ctx)
}

// Deactivate removes a doctor from the active roster.
func (s *DoctorService) Deactivate(ctx context.Context, id int64) error {
	if err := s.doctors.Deactivate(ctx, id); err != nil {
		return mapNotFound(err, "doctor", id)
	}

	s.logger.Info("Doctor deactivated", zap.Int64("doctor_id", id))
	return nil
}
