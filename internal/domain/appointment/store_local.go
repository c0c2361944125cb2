package appointment

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

// localStoreKey is the key-value entry holding the whole appointment
// collection as one JSON array.
const localStoreKey = "shedula_appointments"

// localStore keeps appointments in an injected key-value surface, local
// mode's stand-in for a remote record service. Reads of a missing or
// unreadable entry yield an empty collection, and write failures are
// swallowed after logging; the surface is best-effort by contract.
type localStore struct {
	mu     sync.Mutex
	kv     kvstore.Store
	logger zerolog.Logger
}

func NewLocalStore(kv kvstore.Store, logger zerolog.Logger) Repository {
	return &localStore{kv: kv, logger: logger}
}

func (s *localStore) load() []*Appointment {
	raw, ok, err := s.kv.Get(localStoreKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("appointment store read failed, treating as empty")
		return nil
	}
	if !ok {
		return nil
	}
	var items []*Appointment
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn().Err(err).Msg("appointment store entry corrupt, treating as empty")
		return nil
	}
	return items
}

func (s *localStore) save(items []*Appointment) {
	raw, err := json.Marshal(items)
	if err != nil {
		s.logger.Warn().Err(err).Msg("appointment store encode failed, dropping write")
		return
	}
	if err := s.kv.Set(localStoreKey, string(raw)); err != nil {
		s.logger.Warn().Err(err).Msg("appointment store write failed, dropping write")
	}
}

func (s *localStore) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.load()
	lo, hi := pagination.Params{Limit: limit, Offset: offset}.Slice(len(items))
	return items[lo:hi], len(items), nil
}

func (s *localStore) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Appointment, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*Appointment
	for _, a := range s.load() {
		if a.PatientID == patientID {
			matched = append(matched, a)
		}
	}
	lo, hi := pagination.Params{Limit: limit, Offset: offset}.Slice(len(matched))
	return matched[lo:hi], len(matched), nil
}

func (s *localStore) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*Appointment
	for _, a := range s.load() {
		if a.DoctorID == doctorID {
			matched = append(matched, a)
		}
	}
	lo, hi := pagination.Params{Limit: limit, Offset: offset}.Slice(len(matched))
	return matched[lo:hi], len(matched), nil
}

func (s *localStore) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.load() {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, ErrNotFound
}

func (s *localStore) GetByToken(ctx context.Context, token string) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.load() {
		if a.Token == token {
			return a, nil
		}
	}
	return nil, ErrNotFound
}

func (s *localStore) TokenExists(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.load() {
		if a.Token == token {
			return true, nil
		}
	}
	return false, nil
}

func (s *localStore) Create(ctx context.Context, a *Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	s.save(append(s.load(), a))
	return nil
}

func (s *localStore) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return s.UpdateFields(ctx, id, Partial{Status: &status})
}

func (s *localStore) UpdateFields(ctx context.Context, id uuid.UUID, p Partial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.load()
	for _, a := range items {
		if a.ID == id {
			if p.apply(a) {
				a.UpdatedAt = time.Now()
				s.save(items)
			}
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes the record if present. Removing an absent id is a no-op,
// matching the surface's best-effort contract.
func (s *localStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.load()
	kept := items[:0]
	for _, a := range items {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) != len(items) {
		s.save(kept)
	}
	return nil
}
