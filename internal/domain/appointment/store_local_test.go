package appointment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/shedula/shedula/internal/platform/kvstore"
)

func newMemStore(t *testing.T) (Repository, kvstore.Store) {
	t.Helper()
	kv, err := kvstore.NewFileStore(afero.NewMemMapFs(), "/data")
	if err != nil {
		t.Fatal(err)
	}
	return NewLocalStore(kv, zerolog.Nop()), kv
}

func localAppt(patientID string) *Appointment {
	return &Appointment{
		ID:         uuid.New(),
		Token:      "ABC234",
		DoctorID:   uuid.New(),
		DoctorName: "Dr. Rohan Desai",
		PatientID:  patientID,
		Date:       "2025-03-12",
		Time:       "09:30 AM",
		Mode:       "clinic",
		Status:     StatusPending,
	}
}

func TestLocalStore_CreateThenList(t *testing.T) {
	store, _ := newMemStore(t)
	ctx := context.Background()

	a := localAppt("patient-1")
	if err := store.Create(ctx, a); err != nil {
		t.Fatal(err)
	}

	items, total, err := store.ListByPatient(ctx, "patient-1", 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || items[0].ID != a.ID {
		t.Fatalf("expected the created appointment back, got total=%d", total)
	}
	if items[0].CreatedAt.IsZero() {
		t.Error("create should stamp created_at")
	}

	other, total, err := store.ListByPatient(ctx, "patient-2", 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 || len(other) != 0 {
		t.Error("other patients should not see the appointment")
	}

	all, total, err := store.List(ctx, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(all) != 1 {
		t.Errorf("unscoped list should see every record, got total=%d", total)
	}
}

func TestLocalStore_UpdateStatusVisibleInList(t *testing.T) {
	store, _ := newMemStore(t)
	ctx := context.Background()

	a := localAppt("patient-1")
	if err := store.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := store.UpdateStatus(ctx, a.ID, StatusAccepted); err != nil {
		t.Fatal(err)
	}

	items, _, err := store.ListByPatient(ctx, "patient-1", 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Status != StatusAccepted {
		t.Errorf("expected Accepted after update, got %s", items[0].Status)
	}
}

func TestLocalStore_DeleteIdempotent(t *testing.T) {
	store, _ := newMemStore(t)
	ctx := context.Background()

	a := localAppt("patient-1")
	if err := store.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	// Deleting an absent id is a no-op, not an error.
	if err := store.Delete(ctx, a.ID); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}
	if _, err := store.GetByID(ctx, a.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	// Updates, unlike deletes, report the missing record.
	if err := store.UpdateStatus(ctx, a.ID, StatusAccepted); err != ErrNotFound {
		t.Errorf("expected ErrNotFound updating a deleted appointment, got %v", err)
	}
}

func TestLocalStore_GetByToken(t *testing.T) {
	store, _ := newMemStore(t)
	ctx := context.Background()

	a := localAppt("patient-1")
	if err := store.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetByToken(ctx, a.Token)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != a.ID {
		t.Error("token lookup returned the wrong record")
	}

	exists, err := store.TokenExists(ctx, a.Token)
	if err != nil || !exists {
		t.Error("TokenExists should see the stored token")
	}
	exists, err = store.TokenExists(ctx, "ZZZZZZ")
	if err != nil || exists {
		t.Error("TokenExists should miss an unknown token")
	}
}

func TestLocalStore_SurvivesReopen(t *testing.T) {
	fs := afero.NewMemMapFs()
	kv, err := kvstore.NewFileStore(fs, "/data")
	if err != nil {
		t.Fatal(err)
	}
	store := NewLocalStore(kv, zerolog.Nop())
	ctx := context.Background()

	a := localAppt("patient-1")
	if err := store.Create(ctx, a); err != nil {
		t.Fatal(err)
	}

	// A fresh store over the same filesystem sees the data.
	kv2, err := kvstore.NewFileStore(fs, "/data")
	if err != nil {
		t.Fatal(err)
	}
	reopened := NewLocalStore(kv2, zerolog.Nop())
	got, err := reopened.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Token != a.Token {
		t.Error("reopened store should return the persisted record")
	}
}

func TestLocalStore_UnavailableSurface(t *testing.T) {
	store := NewLocalStore(kvstore.Unavailable{}, zerolog.Nop())
	ctx := context.Background()

	// Writes are silently dropped, reads come back empty; nothing errors.
	a := localAppt("patient-1")
	if err := store.Create(ctx, a); err != nil {
		t.Fatalf("create against an unavailable surface should no-op: %v", err)
	}
	items, total, err := store.ListByPatient(ctx, "patient-1", 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 || len(items) != 0 {
		t.Error("unavailable surface should read as empty")
	}
	if err := store.Delete(ctx, a.ID); err != nil {
		t.Errorf("delete against an unavailable surface should no-op: %v", err)
	}
}
