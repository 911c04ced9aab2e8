package model

import "time"

type Prescription struct {
	ID             int64     `json:"id"`
	ConsultationID int64     `json:"consultation_id"`
	Medication     string    `json:"medication"`
	Dose           string    `json:"dose"`
	Frequency      string    `json:"frequency"`
	Duration       string    `json:"duration"`
	Instructions   string    `json:"instructions"`
	CreatedAt      time.Time `json:"created_at"`
}
