package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jeffreyeugu-sketch/expedientes/internal/model"
	"github.com/jeffreyeugu-sketch/expedientes/internal/repository"
)

// ErrInvalidCredentials is returned by Login for a wrong username/password
// pair. Deliberately opaque about which of the two was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError reports missing or malformed input fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Fields, ", ")
}

// PastTimeError means the requested instant is not in the future.
type PastTimeError struct {
	ScheduledAt time.Time
}

func (e *PastTimeError) Error() string {
	return fmt.Sprintf("cannot schedule a consultation in the past: %s", e.ScheduledAt.Format("02/01/2006 15:04"))
}

// ConflictError means the doctor already holds a scheduled consultation at
// the requested instant.
type ConflictError struct {
	DoctorName  string
	ScheduledAt time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Dr. %s already has a consultation scheduled at %s",
		e.DoctorName, e.ScheduledAt.Format("02/01/2006 15:04"))
}

// StateError means the operation is not allowed in the consultation's
// current status.
type StateError struct {
	Op     string
	Status model.ConsultationStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s a consultation with status: %s", e.Op, e.Status)
}

// NotFoundError means no record matched the identifier.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// mapNotFound converts the repository's not-found sentinel into a typed
// NotFoundError and wraps everything else.
func mapNotFound(err error, entity string, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return fmt.Errorf("update %s: %w", entity, err)
}
