package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the storage contract shared by the postgres and local
// backends. Delete is a hard delete; orders have no soft-cancel tombstone.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]*MedicineOrder, int, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*MedicineOrder, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*MedicineOrder, error)
	Create(ctx context.Context, o *MedicineOrder) error
	UpdateFields(ctx context.Context, id uuid.UUID, p Partial) error
	Delete(ctx context.Context, id uuid.UUID) error
}
