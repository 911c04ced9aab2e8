package model

import "time"

type Doctor struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	LicenseNumber string    `json:"license_number"`
	Specialty     string    `json:"specialty"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

func (d *Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}
