package repository

import "errors"

var (
	// ErrNotFound means no row matched the identifier.
	ErrNotFound = errors.New("record not found")
	// ErrSlotTaken means the doctor already holds a scheduled consultation
	// at the exact same instant.
	ErrSlotTaken = errors.New("doctor already has a scheduled consultation at this time")
)
