package model

import "time"

// MedicalRecord is the long-lived chart, one per patient. It is created
// lazily the first time the patient's detail is opened.
type MedicalRecord struct {
	ID        int64 `json:"id"`
	PatientID int64 `json:"patient_id"`

	PreviousSurgeries string `json:"previous_surgeries"`
	Hospitalizations  string `json:"hospitalizations"`
	Traumas           string `json:"traumas"`

	// Gyn-ob history
	Menarche       string `json:"menarche"`
	MenstrualCycle string `json:"menstrual_cycle"`
	Pregnancies    *int   `json:"pregnancies"`
	Births         *int   `json:"births"`
	Cesareans      *int   `json:"cesareans"`
	Abortions      *int   `json:"abortions"`

	ImportantNotes string `json:"important_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
