package order

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shedula/shedula/internal/platform/kvstore"
	"github.com/shedula/shedula/pkg/pagination"
)

// localStoreKey is the key-value entry holding the whole order collection
// as one JSON array.
const localStoreKey = "shedula_medicine_orders"

// localStore keeps orders in the injected key-value surface with the same
// best-effort contract as the appointment store: unreadable entries read as
// empty, failed writes are logged and dropped.
type localStore struct {
	mu     sync.Mutex
	kv     kvstore.Store
	logger zerolog.Logger
}

func NewLocalStore(kv kvstore.Store, logger zerolog.Logger) Repository {
	return &localStore{kv: kv, logger: logger}
}

func (s *localStore) load() []*MedicineOrder {
	raw, ok, err := s.kv.Get(localStoreKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("order store read failed, treating as empty")
		return nil
	}
	if !ok {
		return nil
	}
	var items []*MedicineOrder
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn().Err(err).Msg("order store entry corrupt, treating as empty")
		return nil
	}
	return items
}

func (s *localStore) save(items []*MedicineOrder) {
	raw, err := json.Marshal(items)
	if err != nil {
		s.logger.Warn().Err(err).Msg("order store encode failed, dropping write")
		return
	}
	if err := s.kv.Set(localStoreKey, string(raw)); err != nil {
		s.logger.Warn().Err(err).Msg("order store write failed, dropping write")
	}
}

func (s *localStore) List(ctx context.Context, limit, offset int) ([]*MedicineOrder, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.load()
	lo, hi := pagination.Params{Limit: limit, Offset: offset}.Slice(len(items))
	return items[lo:hi], len(items), nil
}

func (s *localStore) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*MedicineOrder, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*MedicineOrder
	for _, o := range s.load() {
		if o.OwnerID == ownerID {
			matched = append(matched, o)
		}
	}
	lo, hi := pagination.Params{Limit: limit, Offset: offset}.Slice(len(matched))
	return matched[lo:hi], len(matched), nil
}

func (s *localStore) GetByID(ctx context.Context, id uuid.UUID) (*MedicineOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.load() {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, ErrNotFound
}

func (s *localStore) Create(ctx context.Context, o *MedicineOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := time.Now()
	o.CreatedAt, o.UpdatedAt = now, now
	s.save(append(s.load(), o))
	return nil
}

func (s *localStore) UpdateFields(ctx context.Context, id uuid.UUID, p Partial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.load()
	for _, o := range items {
		if o.ID == id {
			if p.apply(o) {
				o.UpdatedAt = time.Now()
				s.save(items)
			}
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes the record if present; removing an absent id is a no-op.
func (s *localStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.load()
	kept := items[:0]
	for _, o := range items {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	if len(kept) != len(items) {
		s.save(kept)
	}
	return nil
}
