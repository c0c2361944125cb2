package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/shedula/shedula/internal/platform/kvstore"
)

func newMemStore(t *testing.T) Repository {
	t.Helper()
	kv, err := kvstore.NewFileStore(afero.NewMemMapFs(), "/data")
	if err != nil {
		t.Fatal(err)
	}
	return NewLocalStore(kv, zerolog.Nop())
}

func localOrder(ownerID string) *MedicineOrder {
	return &MedicineOrder{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		MedicineID:   uuid.New(),
		MedicineName: "Cetirizine 10mg",
		PricePerUnit: 3.20,
		Quantity:     2,
		TotalPrice:   6.40,
		Status:       StatusPending,
	}
}

func TestLocalStore_RoundTrip(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()

	o := localOrder("patient-1")
	if err := store.Create(ctx, o); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalPrice != 6.40 || got.MedicineName != o.MedicineName {
		t.Error("stored order should round-trip intact")
	}
}

func TestLocalStore_OwnerScoping(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, localOrder("patient-1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, localOrder("patient-2")); err != nil {
		t.Fatal(err)
	}

	items, total, err := store.ListByOwner(ctx, "patient-1", 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || items[0].OwnerID != "patient-1" {
		t.Error("listing should be scoped to the owner")
	}
}

func TestLocalStore_HardDelete(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()

	o := localOrder("patient-1")
	if err := store.Create(ctx, o); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, o.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetByID(ctx, o.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	// Absent id deletes are no-ops.
	if err := store.Delete(ctx, o.ID); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}
}

func TestLocalStore_Unavailable(t *testing.T) {
	store := NewLocalStore(kvstore.Unavailable{}, zerolog.Nop())
	ctx := context.Background()

	o := localOrder("patient-1")
	if err := store.Create(ctx, o); err != nil {
		t.Fatalf("create against an unavailable surface should no-op: %v", err)
	}
	items, total, err := store.ListByOwner(ctx, "patient-1", 20, 0)
	if err != nil || total != 0 || len(items) != 0 {
		t.Error("unavailable surface should read as empty")
	}
}
