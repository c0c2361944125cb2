package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shedula/shedula/internal/domain/directory"
)

// MedicineLookup resolves catalogue entries for snapshotting at order time.
type MedicineLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*directory.Medicine, error)
}

// PlaceRequest is the patient-supplied part of an order.
type PlaceRequest struct {
	MedicineID      uuid.UUID `json:"medicine_id"`
	Quantity        int       `json:"quantity"`
	CustomerName    string    `json:"customer_name"`
	Phone           string    `json:"phone,omitempty"`
	DeliveryAddress string    `json:"delivery_address,omitempty"`
}

// Service implements the order lifecycle. TotalPrice is computed exactly
// once at placement from the catalogue price in force at that moment.
type Service struct {
	repo      Repository
	medicines MedicineLookup
	logger    zerolog.Logger
}

func NewService(repo Repository, medicines MedicineLookup, logger zerolog.Logger) *Service {
	return &Service{repo: repo, medicines: medicines, logger: logger}
}

func (s *Service) Place(ctx context.Context, ownerID string, req *PlaceRequest) (*MedicineOrder, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}
	if req.MedicineID == uuid.Nil {
		return nil, fmt.Errorf("medicine_id is required")
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	m, err := s.medicines.GetByID(ctx, req.MedicineID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, fmt.Errorf("unknown medicine: %s", req.MedicineID)
		}
		return nil, err
	}
	if !m.InStock {
		return nil, fmt.Errorf("%s is out of stock", m.Name)
	}

	o := &MedicineOrder{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		MedicineID:      m.ID,
		MedicineName:    m.Name,
		PricePerUnit:    m.PricePerUnit,
		Quantity:        req.Quantity,
		TotalPrice:      float64(req.Quantity) * m.PricePerUnit,
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
		DeliveryAddress: req.DeliveryAddress,
		Status:          StatusPending,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Update applies a sparse edit. Quantity edits recompute the total from the
// snapshotted unit price, never from the current catalogue.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p Partial) error {
	if p.Quantity != nil && *p.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("invalid status: %s", *p.Status)
	}
	return s.repo.UpdateFields(ctx, id, p)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status: %s", status)
	}
	return s.repo.UpdateFields(ctx, id, Partial{Status: &status})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*MedicineOrder, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every order, unscoped, for administrative callers.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*MedicineOrder, int, error) {
	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Warn().Err(err).Msg("order list read failed, serving empty page")
		return []*MedicineOrder{}, 0, nil
	}
	if items == nil {
		items = []*MedicineOrder{}
	}
	return items, total, nil
}

// ListByOwner degrades to an empty page when the store is unreadable.
func (s *Service) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*MedicineOrder, int, error) {
	items, total, err := s.repo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("order list read failed, serving empty page")
		return []*MedicineOrder{}, 0, nil
	}
	if items == nil {
		items = []*MedicineOrder{}
	}
	return items, total, nil
}

// Delete removes the order record entirely.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
