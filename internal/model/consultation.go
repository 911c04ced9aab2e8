package model

import "time"

type ConsultationStatus string

const (
	StatusScheduled  ConsultationStatus = "scheduled"   // Booked, not yet started
	StatusInProgress ConsultationStatus = "in_progress" // Patient is being seen
	StatusCompleted  ConsultationStatus = "completed"   // Visit finished with a diagnosis
	StatusCancelled  ConsultationStatus = "cancelled"   // Called off, record kept
	StatusNoShow     ConsultationStatus = "no_show"     // Patient never arrived
)

type ConsultationType string

const (
	TypeGeneral    ConsultationType = "general"
	TypeFollowUp   ConsultationType = "follow_up"
	TypeUrgent     ConsultationType = "urgent"
	TypeControl    ConsultationType = "control"
	TypeFirstVisit ConsultationType = "first_visit"
)

// ValidConsultationType reports whether t is one of the known visit types.
func ValidConsultationType(t ConsultationType) bool {
	switch t {
	case TypeGeneral, TypeFollowUp, TypeUrgent, TypeControl, TypeFirstVisit:
		return true
	}
	return false
}

// Cancellable reports whether a consultation in this status may still be
// called off. Terminal statuses keep their record untouched.
func (s ConsultationStatus) Cancellable() bool {
	return s == StatusScheduled || s == StatusInProgress
}

type Consultation struct {
	ID          int64              `json:"id"`
	PatientID   int64              `json:"patient_id"`
	DoctorID    int64              `json:"doctor_id"`
	ScheduledAt time.Time          `json:"scheduled_at"`
	Type        ConsultationType   `json:"type"`
	Reason      string             `json:"reason"`
	Status      ConsultationStatus `json:"status"`

	// Clinical data, filled in during/after the visit
	Symptoms        string     `json:"symptoms"`
	Examination     string     `json:"examination"`
	Diagnosis       string     `json:"diagnosis"`
	Treatment       string     `json:"treatment"`
	Notes           string     `json:"notes"`
	NextAppointment *time.Time `json:"next_appointment"`

	// Vital signs
	BloodPressure string   `json:"blood_pressure"`
	HeartRate     *int     `json:"heart_rate"`
	Temperature   *float64 `json:"temperature"`
	Weight        *float64 `json:"weight"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Convenience fields filled by joins, not columns of this table
	Patient *Patient `json:"patient,omitempty"`
	Doctor  *Doctor  `json:"doctor,omitempty"`
}
