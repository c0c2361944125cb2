package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service exposes catalogue reads. List reads degrade to an empty page when
// the backing store fails; point lookups surface ErrNotFound.
type Service struct {
	doctors   DoctorRepository
	medicines MedicineRepository
	logger    zerolog.Logger
}

func NewService(doctors DoctorRepository, medicines MedicineRepository, logger zerolog.Logger) *Service {
	return &Service{doctors: doctors, medicines: medicines, logger: logger}
}

func (s *Service) ListDoctors(ctx context.Context, specialization string, limit, offset int) ([]*Doctor, int, error) {
	items, total, err := s.doctors.List(ctx, specialization, limit, offset)
	if err != nil {
		s.logger.Warn().Err(err).Msg("doctor catalogue read failed, serving empty page")
		return []*Doctor{}, 0, nil
	}
	if items == nil {
		items = []*Doctor{}
	}
	return items, total, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("doctor id is required")
	}
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) ListMedicines(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	items, total, err := s.medicines.List(ctx, limit, offset)
	if err != nil {
		s.logger.Warn().Err(err).Msg("medicine catalogue read failed, serving empty page")
		return []*Medicine{}, 0, nil
	}
	if items == nil {
		items = []*Medicine{}
	}
	return items, total, nil
}

func (s *Service) GetMedicine(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("medicine id is required")
	}
	return s.medicines.GetByID(ctx, id)
}

// IsNotFound reports whether err is the catalogue's not-found sentinel.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
