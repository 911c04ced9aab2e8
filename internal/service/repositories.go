package service

import (
	"context"
	"time"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
)

// Repository interfaces consumed by the services. The concrete pgx
// implementations live in internal/repository; tests substitute in-memory
// fakes.

type ConsultationRepository interface {
	Create(ctx context.Context, c *model.Consultation) error
	Update(ctx context.Context, c *model.Consultation) error
	UpdateClinicalData(ctx context.Context, c *model.Consultation, updatePatientWeight bool) error
	UpdateStatusNotes(ctx context.Context, id int64, status model.ConsultationStatus, notes string) error
	GetByID(ctx context.Context, id int64) (*model.Consultation, error)
	ListInRange(ctx context.Context, from, to time.Time, statuses ...model.ConsultationStatus) ([]*model.Consultation, error)
	CountInRange(ctx context.Context, from, to time.Time, status model.ConsultationStatus) (int, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*model.Consultation, error)
}

type PatientRepository interface {
	Create(ctx context.Context, p *model.Patient) error
	GetByID(ctx context.Context, id int64) (*model.Patient, error)
	Update(ctx context.Context, p *model.Patient) error
	ListActive(ctx context.Context) ([]*model.Patient, error)
	CountRegisteredBetween(ctx context.Context, from, to time.Time) (int, error)
	Deactivate(ctx context.Context, id int64) error
}

type DoctorRepository interface {
	Create(ctx context.Context, d *model.Doctor) error
	GetByID(ctx context.Context, id int64) (*model.Doctor, error)
	Update(ctx context.Context, d *model.Doctor) error
	ListActive(ctx context.Context) ([]*model.Doctor, error)
	Deactivate(ctx context.Context, id int64) error
}

type MedicalRecordRepository interface {
	Create(ctx context.Context, rec *model.MedicalRecord) error
	GetByPatientID(ctx context.Context, patientID int64) (*model.MedicalRecord, error)
}

type PrescriptionRepository interface {
	Create(ctx context.Context, p *model.Prescription) error
	ListByConsultation(ctx context.Context, consultationID int64) ([]*model.Prescription, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}
