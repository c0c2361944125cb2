package directory

import (
	"context"

	"github.com/google/uuid"
)

// DoctorRepository provides access to the doctor catalogue.
type DoctorRepository interface {
	List(ctx context.Context, specialization string, limit, offset int) ([]*Doctor, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
}

// MedicineRepository provides access to the medicine catalogue.
type MedicineRepository interface {
	List(ctx context.Context, limit, offset int) ([]*Medicine, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error)
}
