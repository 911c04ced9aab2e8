package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
	"github.com/jeffreyeugu-sketch/expedientes/internal/repository"
)

// -- Mock repositories --

type mockConsultationRepo struct {
	consultations map[int64]*model.Consultation
	nextID        int64

	// sibling repos for the patient/doctor joins the real queries perform
	patients *mockPatientRepo
	doctors  *mockDoctorRepo

	// patientID -> last weight copied over by UpdateClinicalData
	weightUpdates map[int64]float64
}

func newMockConsultationRepo() *mockConsultationRepo {
	return &mockConsultationRepo{
		consultations: make(map[int64]*model.Consultation),
		weightUpdates: make(map[int64]float64),
	}
}

// joined mirrors the JOIN columns of the real queries: every returned row
// carries its patient and doctor records.
func (m *mockConsultationRepo) joined(c *model.Consultation) *model.Consultation {
	cp := clone(c)
	if m.patients != nil {
		cp.Patient = m.patients.patients[c.PatientID]
	}
	if m.doctors != nil {
		cp.Doctor = m.doctors.doctors[c.DoctorID]
	}
	return cp
}

// hasConflict mirrors the partial unique index: one scheduled consultation
// per doctor per instant.
func (m *mockConsultationRepo) hasConflict(doctorID int64, at time.Time, excludeID int64) bool {
	for _, c := range m.consultations {
		if c.ID != excludeID && c.DoctorID == doctorID && c.ScheduledAt.Equal(at) && c.Status == model.StatusScheduled {
			return true
		}
	}
	return false
}

func clone(c *model.Consultation) *model.Consultation {
	cp := *c
	return &cp
}

func (m *mockConsultationRepo) Create(_ context.Context, c *model.Consultation) error {
	if m.hasConflict(c.DoctorID, c.ScheduledAt, 0) {
		return repository.ErrSlotTaken
	}
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.consultations[c.ID] = clone(c)
	return nil
}

func (m *mockConsultationRepo) Update(_ context.Context, c *model.Consultation) error {
	stored, ok := m.consultations[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if m.hasConflict(c.DoctorID, c.ScheduledAt, c.ID) {
		return repository.ErrSlotTaken
	}
	stored.PatientID = c.PatientID
	stored.DoctorID = c.DoctorID
	stored.ScheduledAt = c.ScheduledAt
	stored.Type = c.Type
	stored.Reason = c.Reason
	stored.Notes = c.Notes
	stored.UpdatedAt = time.Now()
	return nil
}

func (m *mockConsultationRepo) UpdateClinicalData(_ context.Context, c *model.Consultation, updatePatientWeight bool) error {
	stored, ok := m.consultations[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.BloodPressure = c.BloodPressure
	stored.HeartRate = c.HeartRate
	stored.Temperature = c.Temperature
	stored.Weight = c.Weight
	stored.Symptoms = c.Symptoms
	stored.Examination = c.Examination
	stored.Diagnosis = c.Diagnosis
	stored.Treatment = c.Treatment
	stored.Notes = c.Notes
	stored.NextAppointment = c.NextAppointment
	stored.Status = c.Status
	if updatePatientWeight && c.Weight != nil {
		m.weightUpdates[stored.PatientID] = *c.Weight
	}
	return nil
}

func (m *mockConsultationRepo) UpdateStatusNotes(_ context.Context, id int64, status model.ConsultationStatus, notes string) error {
	stored, ok := m.consultations[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = status
	stored.Notes = notes
	return nil
}

func (m *mockConsultationRepo) GetByID(_ context.Context, id int64) (*model.Consultation, error) {
	c, ok := m.consultations[id]
	if !ok {
		return nil, nil
	}
	return m.joined(c), nil
}

func (m *mockConsultationRepo) ListInRange(_ context.Context, from, to time.Time, statuses ...model.ConsultationStatus) ([]*model.Consultation, error) {
	var result []*model.Consultation
	for _, c := range m.consultations {
		if c.ScheduledAt.Before(from) || c.ScheduledAt.After(to) {
			continue
		}
		for _, st := range statuses {
			if c.Status == st {
				result = append(result, m.joined(c))
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledAt.Before(result[j].ScheduledAt)
	})
	return result, nil
}

func (m *mockConsultationRepo) CountInRange(_ context.Context, from, to time.Time, status model.ConsultationStatus) (int, error) {
	count := 0
	for _, c := range m.consultations {
		if !c.ScheduledAt.Before(from) && !c.ScheduledAt.After(to) && c.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockConsultationRepo) ListByPatient(_ context.Context, patientID int64) ([]*model.Consultation, error) {
	var result []*model.Consultation
	for _, c := range m.consultations {
		if c.PatientID == patientID {
			result = append(result, m.joined(c))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledAt.After(result[j].ScheduledAt)
	})
	return result, nil
}

type mockPatientRepo struct {
	patients map[int64]*model.Patient
	nextID   int64
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[int64]*model.Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *model.Patient) error {
	m.nextID++
	p.ID = m.nextID
	p.Active = true
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id int64) (*model.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *model.Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return repository.ErrNotFound
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) ListActive(_ context.Context) ([]*model.Patient, error) {
	var result []*model.Patient
	for _, p := range m.patients {
		if p.Active {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastName < result[j].LastName
	})
	return result, nil
}

func (m *mockPatientRepo) CountRegisteredBetween(_ context.Context, from, to time.Time) (int, error) {
	count := 0
	for _, p := range m.patients {
		if p.Active && !p.CreatedAt.Before(from) && p.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (m *mockPatientRepo) Deactivate(_ context.Context, id int64) error {
	p, ok := m.patients[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Active = false
	return nil
}

type mockDoctorRepo struct {
	doctors map[int64]*model.Doctor
	nextID  int64
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[int64]*model.Doctor)}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *model.Doctor) error {
	m.nextID++
	d.ID = m.nextID
	d.Active = true
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id int64) (*model.Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, nil
	}
	return d, nil
}

func (m *mockDoctorRepo) Update(_ context.Context, d *model.Doctor) error {
	if _, ok := m.doctors[d.ID]; !ok {
		return repository.ErrNotFound
	}
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) ListActive(_ context.Context) ([]*model.Doctor, error) {
	var result []*model.Doctor
	for _, d := range m.doctors {
		if d.Active {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *mockDoctorRepo) Deactivate(_ context.Context, id int64) error {
	d, ok := m.doctors[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.Active = false
	return nil
}

type mockRecordRepo struct {
	records map[int64]*model.MedicalRecord // keyed by patient ID
	nextID  int64
	creates int
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{records: make(map[int64]*model.MedicalRecord)}
}

func (m *mockRecordRepo) Create(_ context.Context, rec *model.MedicalRecord) error {
	m.nextID++
	rec.ID = m.nextID
	m.records[rec.PatientID] = rec
	m.creates++
	return nil
}

func (m *mockRecordRepo) GetByPatientID(_ context.Context, patientID int64) (*model.MedicalRecord, error) {
	rec, ok := m.records[patientID]
	if !ok {
		return nil, nil
	}
	return rec, nil
}

type mockPrescriptionRepo struct {
	prescriptions []*model.Prescription
	nextID        int64
}

func newMockPrescriptionRepo() *mockPrescriptionRepo {
	return &mockPrescriptionRepo{}
}

func (m *mockPrescriptionRepo) Create(_ context.Context, p *model.Prescription) error {
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	m.prescriptions = append(m.prescriptions, p)
	return nil
}

func (m *mockPrescriptionRepo) ListByConsultation(_ context.Context, consultationID int64) ([]*model.Prescription, error) {
	var result []*model.Prescription
	for _, p := range m.prescriptions {
		if p.ConsultationID == consultationID {
			result = append(result, p)
		}
	}
	return result, nil
}

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *model.User) error {
	m.nextID++
	u.ID = m.nextID
	u.Active = true
	m.users[u.Username] = u
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := m.users[username]
	if !ok || !u.Active {
		return nil, nil
	}
	return u, nil
}

// -- Fixtures --

type consultationFixture struct {
	svc           *ConsultationService
	consultations *mockConsultationRepo
	patients      *mockPatientRepo
	doctors       *mockDoctorRepo
	prescriptions *mockPrescriptionRepo
	patient       *model.Patient
	doctor        *model.Doctor
}

// newConsultationFixture wires a service over fresh mocks with one patient
// and one doctor already registered and "now" pinned to the given instant.
func newConsultationFixture(now time.Time) *consultationFixture {
	consultations := newMockConsultationRepo()
	patients := newMockPatientRepo()
	doctors := newMockDoctorRepo()
	prescriptions := newMockPrescriptionRepo()
	consultations.patients = patients
	consultations.doctors = doctors

	svc := NewConsultationService(consultations, patients, doctors, prescriptions, clinicLocation(), zap.NewNop())
	svc.clock = FixedClock{T: now}

	patient := &model.Patient{FirstName: "Maria", LastName: "Lopez", Phone: "5551234"}
	patients.Create(context.Background(), patient)

	doctor := &model.Doctor{FirstName: "Carlos", LastName: "Mendoza", Specialty: "General"}
	doctors.Create(context.Background(), doctor)

	return &consultationFixture{
		svc:           svc,
		consultations: consultations,
		patients:      patients,
		doctors:       doctors,
		prescriptions: prescriptions,
		patient:       patient,
		doctor:        doctor,
	}
}

func clinicLocation() *time.Location {
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		panic(err)
	}
	return loc
}
