package appointment

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the storage contract shared by the postgres and local
// backends.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetByToken(ctx context.Context, token string) (*Appointment, error)
	TokenExists(ctx context.Context, token string) (bool, error)
	Create(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	UpdateFields(ctx context.Context, id uuid.UUID, p Partial) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SlotBooker is implemented by backends that track per-slot availability.
// The postgres repository provides it; local mode leaves it nil and books
// without reservation.
type SlotBooker interface {
	// BookWithSlot reserves the appointment's slot and inserts the record
	// in one transaction. Returns ErrSlotTaken when the slot is not
	// available.
	BookWithSlot(ctx context.Context, a *Appointment) error
	// SwapSlot reserves the new slot, releases the old one and moves the
	// appointment, atomically. Returns ErrSlotTaken when the new slot is
	// not available.
	SwapSlot(ctx context.Context, a *Appointment, newDate, newTime string) error
	// ReleaseSlot frees the appointment's slot, used on cancellation.
	ReleaseSlot(ctx context.Context, a *Appointment) error
}
