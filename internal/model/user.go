package model

import "time"

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleDoctor    UserRole = "doctor"
	RoleReception UserRole = "reception"
)

// ValidUserRole reports whether r is one of the known roles.
func ValidUserRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleReception:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}
