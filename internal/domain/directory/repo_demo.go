package directory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shedula/shedula/pkg/pagination"
)

// DemoRepo serves the catalogue from memory in local mode. Doctor and
// medicine identities are fixed at construction so appointments and orders
// keep valid references, but slot calendars are rebuilt on every read.
type DemoRepo struct {
	mu        sync.Mutex
	rng       *rand.Rand
	bias      float64
	doctors   []*Doctor
	medicines []*Medicine
}

// NewDemoRepo generates a demo catalogue seeded from the given source.
func NewDemoRepo(bias float64, seed int64) *DemoRepo {
	rng := rand.New(rand.NewSource(seed))
	return &DemoRepo{
		rng:       rng,
		bias:      bias,
		doctors:   GenerateDoctors(DefaultDoctorCount, time.Now(), bias, rng),
		medicines: GenerateMedicines(rng),
	}
}

func (r *DemoRepo) List(ctx context.Context, specialization string, limit, offset int) ([]*Doctor, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*Doctor
	for _, d := range r.doctors {
		if specialization != "" && d.Specialization != specialization {
			continue
		}
		matched = append(matched, d)
	}
	total := len(matched)

	start, end := pagination.Params{Limit: limit, Offset: offset}.Slice(total)
	items := make([]*Doctor, 0, end-start)
	for _, d := range matched[start:end] {
		items = append(items, r.withFreshCalendar(d))
	}
	return items, total, nil
}

func (r *DemoRepo) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.doctors {
		if d.ID == id {
			return r.withFreshCalendar(d), nil
		}
	}
	return nil, ErrNotFound
}

func (r *DemoRepo) withFreshCalendar(d *Doctor) *Doctor {
	cp := *d
	cp.Calendar = BuildCalendar(time.Now(), r.bias, r.rng)
	return &cp
}

// Medicines exposes the same catalogue's medicine side.
func (r *DemoRepo) Medicines() MedicineRepository { return &demoMedicineRepo{repo: r} }

type demoMedicineRepo struct{ repo *DemoRepo }

func (r *demoMedicineRepo) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	r.repo.mu.Lock()
	defer r.repo.mu.Unlock()
	total := len(r.repo.medicines)
	start, end := pagination.Params{Limit: limit, Offset: offset}.Slice(total)
	items := make([]*Medicine, end-start)
	copy(items, r.repo.medicines[start:end])
	return items, total, nil
}

func (r *demoMedicineRepo) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	r.repo.mu.Lock()
	defer r.repo.mu.Unlock()
	for _, m := range r.repo.medicines {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, ErrNotFound
}
