package kvstore

import (
	"testing"

	"github.com/spf13/afero"
)

func TestFileStore_RoundTrip(t *testing.T) {
	s, err := NewFileStore(afero.NewMemMapFs(), "/data")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if _, ok, _ := s.Get("appointments"); ok {
		t.Fatal("expected missing key before Set")
	}

	if err := s.Set("appointments", `[{"id":"a1"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, ok, err := s.Get("appointments")
	if err != nil || !ok {
		t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
	}
	if v != `[{"id":"a1"}]` {
		t.Errorf("unexpected value %q", v)
	}
}

func TestFileStore_Overwrite(t *testing.T) {
	s, _ := NewFileStore(afero.NewMemMapFs(), "/data")
	_ = s.Set("k", "one")
	_ = s.Set("k", "two")
	v, _, _ := s.Get("k")
	if v != "two" {
		t.Errorf("expected last write to win, got %q", v)
	}
}

func TestFileStore_DeleteIdempotent(t *testing.T) {
	s, _ := NewFileStore(afero.NewMemMapFs(), "/data")
	_ = s.Set("k", "v")
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("second Delete should be a no-op, got %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Error("key still present after delete")
	}
}

func TestUnavailable_NoOps(t *testing.T) {
	var s Store = Unavailable{}
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set on unavailable surface must not error: %v", err)
	}
	if _, ok, err := s.Get("k"); ok || err != nil {
		t.Fatalf("Get on unavailable surface: ok=%v err=%v", ok, err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete on unavailable surface: %v", err)
	}
}
