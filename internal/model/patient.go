package model

import "time"

type Patient struct {
	ID int64 `json:"id"`

	// Personal data
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	BirthDate     time.Time `json:"birth_date"`
	Gender        string    `json:"gender"`
	MaritalStatus string    `json:"marital_status"`
	Occupation    string    `json:"occupation"`
	DocumentID    string    `json:"document_id"`
	Address       string    `json:"address"`

	// Medical info
	BloodType          string   `json:"blood_type"`
	Weight             *float64 `json:"weight"`
	Height             *int     `json:"height"`
	Allergies          string   `json:"allergies"`
	CurrentMedications string   `json:"current_medications"`
	ChronicDiseases    string   `json:"chronic_diseases"`
	FamilyHistory      string   `json:"family_history"`
	Smoker             string   `json:"smoker"`
	Alcohol            string   `json:"alcohol"`

	// Contact
	Phone          string `json:"phone"`
	AlternatePhone string `json:"alternate_phone"`
	Email          string `json:"email"`

	// Emergency contact
	EmergencyName         string `json:"emergency_name"`
	EmergencyRelationship string `json:"emergency_relationship"`
	EmergencyPhone        string `json:"emergency_phone"`

	// Insurance
	InsuranceProvider string `json:"insurance_provider"`
	InsurancePolicy   string `json:"insurance_policy"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Age in full years at the given reference time.
func (p *Patient) Age(now time.Time) int {
	years := now.Year() - p.BirthDate.Year()
	if now.Month() < p.BirthDate.Month() ||
		(now.Month() == p.BirthDate.Month() && now.Day() < p.BirthDate.Day()) {
		years--
	}
	return years
}

// RegistrationState classifies the patient as "new" during the first 30 days
// after registration, "active" afterwards.
func (p *Patient) RegistrationState(now time.Time) string {
	if p.CreatedAt.After(now.AddDate(0, 0, -30)) {
		return "new"
	}
	return "active"
}
