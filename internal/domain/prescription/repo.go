package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Prescription, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Prescription, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	Create(ctx context.Context, p *Prescription) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}
