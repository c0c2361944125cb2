package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shedula/shedula/internal/domain/directory"
)

type mockRepo struct {
	byID    map[uuid.UUID]*MedicineOrder
	listErr error
}

func newMockRepo() *mockRepo { return &mockRepo{byID: make(map[uuid.UUID]*MedicineOrder)} }

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*MedicineOrder, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var items []*MedicineOrder
	for _, o := range m.byID {
		items = append(items, o)
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*MedicineOrder, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var items []*MedicineOrder
	for _, o := range m.byID {
		if o.OwnerID == ownerID {
			items = append(items, o)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*MedicineOrder, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockRepo) Create(ctx context.Context, o *MedicineOrder) error {
	m.byID[o.ID] = o
	return nil
}

func (m *mockRepo) UpdateFields(ctx context.Context, id uuid.UUID, p Partial) error {
	o, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.apply(o)
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.byID, id)
	return nil
}

type mockMedicines struct {
	byID map[uuid.UUID]*directory.Medicine
}

func (m *mockMedicines) GetByID(ctx context.Context, id uuid.UUID) (*directory.Medicine, error) {
	med, ok := m.byID[id]
	if !ok {
		return nil, directory.ErrNotFound
	}
	return med, nil
}

func testMedicine(price float64) *directory.Medicine {
	return &directory.Medicine{
		ID:           uuid.New(),
		Name:         "Paracetamol 500mg",
		Manufacturer: "Cipla",
		PricePerUnit: price,
		InStock:      true,
	}
}

func newTestService(repo Repository, m *directory.Medicine) (*Service, *mockMedicines) {
	lookup := &mockMedicines{byID: map[uuid.UUID]*directory.Medicine{}}
	if m != nil {
		lookup.byID[m.ID] = m
	}
	return NewService(repo, lookup, zerolog.Nop()), lookup
}

func TestPlace_ComputesTotalOnce(t *testing.T) {
	repo := newMockRepo()
	med := testMedicine(2.50)
	svc, lookup := newTestService(repo, med)
	ctx := context.Background()

	o, err := svc.Place(ctx, "patient-1", &PlaceRequest{MedicineID: med.ID, Quantity: 3})
	if err != nil {
		t.Fatal(err)
	}
	if o.TotalPrice != 7.50 {
		t.Fatalf("expected total 7.50, got %f", o.TotalPrice)
	}
	if o.Status != StatusPending {
		t.Errorf("new order should be Placed, got %s", o.Status)
	}

	// A later catalogue price change must not touch the stored order.
	lookup.byID[med.ID].PricePerUnit = 99.0
	got, err := svc.Get(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalPrice != 7.50 || got.PricePerUnit != 2.50 {
		t.Error("order should keep the price snapshot taken at placement")
	}
}

func TestPlace_Validation(t *testing.T) {
	med := testMedicine(5)
	svc, _ := newTestService(newMockRepo(), med)
	ctx := context.Background()

	if _, err := svc.Place(ctx, "", &PlaceRequest{MedicineID: med.ID, Quantity: 1}); err == nil {
		t.Error("expected error for missing owner")
	}
	if _, err := svc.Place(ctx, "patient-1", &PlaceRequest{MedicineID: med.ID, Quantity: 0}); err == nil {
		t.Error("expected error for zero quantity")
	}
	if _, err := svc.Place(ctx, "patient-1", &PlaceRequest{MedicineID: uuid.New(), Quantity: 1}); err == nil {
		t.Error("expected error for unknown medicine")
	}
}

func TestPlace_OutOfStock(t *testing.T) {
	med := testMedicine(5)
	med.InStock = false
	svc, _ := newTestService(newMockRepo(), med)

	if _, err := svc.Place(context.Background(), "patient-1", &PlaceRequest{MedicineID: med.ID, Quantity: 1}); err == nil {
		t.Error("expected error for out-of-stock medicine")
	}
}

func TestUpdate_QuantityRecomputesFromSnapshot(t *testing.T) {
	repo := newMockRepo()
	med := testMedicine(2.50)
	svc, lookup := newTestService(repo, med)
	ctx := context.Background()

	o, err := svc.Place(ctx, "patient-1", &PlaceRequest{MedicineID: med.ID, Quantity: 3})
	if err != nil {
		t.Fatal(err)
	}

	lookup.byID[med.ID].PricePerUnit = 99.0
	qty := 4
	if err := svc.Update(ctx, o.ID, Partial{Quantity: &qty}); err != nil {
		t.Fatal(err)
	}
	got, _ := svc.Get(ctx, o.ID)
	if got.TotalPrice != 10.0 {
		t.Errorf("total should use the snapshotted unit price: expected 10.0, got %f", got.TotalPrice)
	}
}

func TestUpdate_Validation(t *testing.T) {
	repo := newMockRepo()
	med := testMedicine(2.50)
	svc, _ := newTestService(repo, med)
	ctx := context.Background()

	o, _ := svc.Place(ctx, "patient-1", &PlaceRequest{MedicineID: med.ID, Quantity: 1})

	zero := 0
	if err := svc.Update(ctx, o.ID, Partial{Quantity: &zero}); err == nil {
		t.Error("quantity 0 should be rejected")
	}
	bad := Status("Teleported")
	if err := svc.Update(ctx, o.ID, Partial{Status: &bad}); err == nil {
		t.Error("unknown status should be rejected")
	}
	good := StatusShipped
	if err := svc.Update(ctx, o.ID, Partial{Status: &good}); err != nil {
		t.Fatal(err)
	}
}

func TestDelete_HardRemoval(t *testing.T) {
	repo := newMockRepo()
	med := testMedicine(2.50)
	svc, _ := newTestService(repo, med)
	ctx := context.Background()

	o, _ := svc.Place(ctx, "patient-1", &PlaceRequest{MedicineID: med.ID, Quantity: 1})
	if err := svc.Delete(ctx, o.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, o.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	items, total, err := svc.ListByOwner(ctx, "patient-1", 20, 0)
	if err != nil || total != 0 || len(items) != 0 {
		t.Error("deleted order should not appear in listings")
	}
}

func TestListByOwner_DegradesOnStoreFailure(t *testing.T) {
	repo := newMockRepo()
	repo.listErr = context.DeadlineExceeded
	svc, _ := newTestService(repo, nil)

	items, total, err := svc.ListByOwner(context.Background(), "patient-1", 20, 0)
	if err != nil {
		t.Fatalf("list should degrade, not fail: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Error("degraded list should be empty")
	}
}
