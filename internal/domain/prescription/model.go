package prescription

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by point lookups when no record matches.
var ErrNotFound = errors.New("prescription: not found")

// Status is the prescription lifecycle state.
type Status string

const (
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

var validStatuses = map[Status]bool{
	StatusActive:    true,
	StatusCompleted: true,
	StatusCancelled: true,
}

func (s Status) Valid() bool { return validStatuses[s] }

// Item is one prescribed medicine line. Name and dosage are free text so
// doctors are not limited to the order catalogue.
type Item struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Dosage       string    `json:"dosage"`
	Duration     string    `json:"duration,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
}

// Prescription is written by a doctor for a patient, optionally against a
// specific appointment. It carries at least one item.
type Prescription struct {
	ID            uuid.UUID  `json:"id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	DoctorID      uuid.UUID  `json:"doctor_id"`
	PatientID     string     `json:"patient_id"`
	Date          string     `json:"date"`
	Diagnosis     string     `json:"diagnosis,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Items         []Item     `json:"items"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
