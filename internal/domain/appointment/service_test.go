package appointment

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shedula/shedula/internal/domain/directory"
)

type mockRepo struct {
	byID      map[uuid.UUID]*Appointment
	listErr   error
	createErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var items []*Appointment
	for _, a := range m.byID {
		items = append(items, a)
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Appointment, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var items []*Appointment
	for _, a := range m.byID {
		if a.PatientID == patientID {
			items = append(items, a)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var items []*Appointment
	for _, a := range m.byID {
		if a.DoctorID == doctorID {
			items = append(items, a)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) GetByToken(ctx context.Context, token string) (*Appointment, error) {
	for _, a := range m.byID {
		if a.Token == token {
			return a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) TokenExists(ctx context.Context, token string) (bool, error) {
	_, err := m.GetByToken(ctx, token)
	return err == nil, nil
}

func (m *mockRepo) Create(ctx context.Context, a *Appointment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.byID[a.ID] = a
	return nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	a, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	return nil
}

func (m *mockRepo) UpdateFields(ctx context.Context, id uuid.UUID, p Partial) error {
	a, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.apply(a)
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.byID, id)
	return nil
}

type mockBooker struct {
	reserved map[string]bool // doctor/mode/date/time -> taken
}

func newMockBooker() *mockBooker { return &mockBooker{reserved: make(map[string]bool)} }

func slotKey(doctorID uuid.UUID, mode, date, timeLabel string) string {
	return strings.Join([]string{doctorID.String(), mode, date, timeLabel}, "/")
}

func (m *mockBooker) reserve(doctorID uuid.UUID, mode, date, timeLabel string) error {
	key := slotKey(doctorID, mode, date, timeLabel)
	if m.reserved[key] {
		return ErrSlotTaken
	}
	m.reserved[key] = true
	return nil
}

type mockDoctors struct {
	doctors map[uuid.UUID]*directory.Doctor
}

func (m *mockDoctors) GetByID(ctx context.Context, id uuid.UUID) (*directory.Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, directory.ErrNotFound
	}
	return d, nil
}

func testDoctor() *directory.Doctor {
	return &directory.Doctor{
		ID:              uuid.New(),
		Name:            "Dr. Meera Nair",
		Specialization:  "Cardiologist",
		Avatar:          "/avatars/doctor-01.png",
		Location:        "Apollo Clinic, MG Road",
		ConsultationFee: 500,
	}
}

func newTestService(repo Repository, booker SlotBooker, d *directory.Doctor) *Service {
	lookup := &mockDoctors{doctors: map[uuid.UUID]*directory.Doctor{}}
	if d != nil {
		lookup.doctors[d.ID] = d
	}
	return NewService(repo, booker, lookup, zerolog.Nop())
}

func bookReq(doctorID uuid.UUID) *BookRequest {
	return &BookRequest{
		DoctorID:      doctorID,
		PatientName:   "Asha Verma",
		Date:          "2025-03-12",
		Time:          "10:00 AM",
		Mode:          directory.ModeClinic,
		PaymentMethod: PaymentCash,
		Reason:        "chest pain follow-up",
	}
}

func TestBook_CreatesPendingWithDenormalizedDoctor(t *testing.T) {
	repo := newMockRepo()
	doctor := testDoctor()
	svc := newTestService(repo, nil, doctor)

	a, err := svc.Book(context.Background(), "patient-1", bookReq(doctor.ID))
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != StatusPending {
		t.Errorf("new booking should be Pending, got %s", a.Status)
	}
	if a.Token == "" || len(a.Token) != TokenLength {
		t.Errorf("expected %d-char token, got %q", TokenLength, a.Token)
	}
	if a.DoctorName != doctor.Name || a.ConsultationFee != doctor.ConsultationFee {
		t.Error("doctor display fields should be copied from the catalogue")
	}
	if _, ok := repo.byID[a.ID]; !ok {
		t.Error("booking should be persisted")
	}
}

func TestBook_ValidationFailures(t *testing.T) {
	doctor := testDoctor()
	svc := newTestService(newMockRepo(), nil, doctor)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*BookRequest)
	}{
		{"missing doctor", func(r *BookRequest) { r.DoctorID = uuid.Nil }},
		{"missing patient name", func(r *BookRequest) { r.PatientName = "" }},
		{"missing date", func(r *BookRequest) { r.Date = "" }},
		{"bad mode", func(r *BookRequest) { r.Mode = "telepathy" }},
		{"bad payment method", func(r *BookRequest) { r.PaymentMethod = "barter" }},
	}
	for _, tc := range cases {
		req := bookReq(doctor.ID)
		tc.mutate(req)
		if _, err := svc.Book(ctx, "patient-1", req); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}

	if _, err := svc.Book(ctx, "", bookReq(doctor.ID)); err == nil {
		t.Error("expected error for missing patient id")
	}
	if _, err := svc.Book(ctx, "patient-1", bookReq(uuid.New())); err == nil {
		t.Error("expected error for unknown doctor")
	}
}

func TestBook_UniqueTokens(t *testing.T) {
	repo := newMockRepo()
	doctor := testDoctor()
	svc := newTestService(repo, nil, doctor)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		req := bookReq(doctor.ID)
		req.Time = directory.TimeLabels[i%len(directory.TimeLabels)]
		a, err := svc.Book(ctx, "patient-1", req)
		if err != nil {
			t.Fatal(err)
		}
		if seen[a.Token] {
			t.Fatalf("token %q issued twice", a.Token)
		}
		seen[a.Token] = true
	}
}

type bookerRepo struct {
	*mockRepo
	booker *mockBooker
}

func (b *bookerRepo) BookWithSlot(ctx context.Context, a *Appointment) error {
	if err := b.booker.reserve(a.DoctorID, a.Mode, a.Date, a.Time); err != nil {
		return err
	}
	return b.Create(ctx, a)
}

func (b *bookerRepo) SwapSlot(ctx context.Context, a *Appointment, newDate, newTime string) error {
	if err := b.booker.reserve(a.DoctorID, a.Mode, newDate, newTime); err != nil {
		return err
	}
	delete(b.booker.reserved, slotKey(a.DoctorID, a.Mode, a.Date, a.Time))
	status := StatusRescheduled
	if err := b.UpdateFields(ctx, a.ID, Partial{Date: &newDate, Time: &newTime, Status: &status}); err != nil {
		return err
	}
	a.Date, a.Time, a.Status = newDate, newTime, status
	return nil
}

func (b *bookerRepo) ReleaseSlot(ctx context.Context, a *Appointment) error {
	delete(b.booker.reserved, slotKey(a.DoctorID, a.Mode, a.Date, a.Time))
	return nil
}

func TestBook_DoubleBookingRejected(t *testing.T) {
	repo := &bookerRepo{mockRepo: newMockRepo(), booker: newMockBooker()}
	doctor := testDoctor()
	svc := newTestService(repo, repo, doctor)
	ctx := context.Background()

	if _, err := svc.Book(ctx, "patient-1", bookReq(doctor.ID)); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Book(ctx, "patient-2", bookReq(doctor.ID))
	if err != ErrSlotTaken {
		t.Fatalf("second booking of the same slot: expected ErrSlotTaken, got %v", err)
	}

	// Same label in the other mode is a different slot.
	req := bookReq(doctor.ID)
	req.Mode = directory.ModeOnline
	if _, err := svc.Book(ctx, "patient-2", req); err != nil {
		t.Fatalf("same time in a different mode should book: %v", err)
	}
}

func TestReschedule(t *testing.T) {
	repo := &bookerRepo{mockRepo: newMockRepo(), booker: newMockBooker()}
	doctor := testDoctor()
	svc := newTestService(repo, repo, doctor)
	ctx := context.Background()

	a, err := svc.Book(ctx, "patient-1", bookReq(doctor.ID))
	if err != nil {
		t.Fatal(err)
	}

	moved, err := svc.Reschedule(ctx, a.ID, "2025-03-13", "02:30 PM")
	if err != nil {
		t.Fatal(err)
	}
	if moved.Status != StatusRescheduled || moved.Date != "2025-03-13" {
		t.Errorf("expected Rescheduled on the new slot, got %s %s", moved.Status, moved.Date)
	}

	// The old slot is free again.
	if _, err := svc.Book(ctx, "patient-2", bookReq(doctor.ID)); err != nil {
		t.Errorf("old slot should be released after reschedule: %v", err)
	}

	// Rescheduled is re-entrant.
	if _, err := svc.Reschedule(ctx, a.ID, "2025-03-14", "11:00 AM"); err != nil {
		t.Errorf("second reschedule should succeed: %v", err)
	}

	if err := svc.Cancel(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Reschedule(ctx, a.ID, "2025-03-15", "11:00 AM"); err == nil {
		t.Error("cancelled appointment should not reschedule")
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newMockRepo()
	doctor := testDoctor()
	svc := newTestService(repo, nil, doctor)
	ctx := context.Background()

	a, err := svc.Book(ctx, "patient-1", bookReq(doctor.ID))
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateStatus(ctx, a.ID, StatusAccepted); err != nil {
		t.Fatal(err)
	}
	got, _ := svc.Get(ctx, a.ID)
	if got.Status != StatusAccepted {
		t.Errorf("expected Accepted, got %s", got.Status)
	}

	if err := svc.UpdateStatus(ctx, a.ID, "Confirmed"); err == nil {
		t.Error("unknown status should be rejected")
	}
	if err := svc.UpdateStatus(ctx, uuid.New(), StatusAccepted); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCancel_Idempotent(t *testing.T) {
	repo := newMockRepo()
	doctor := testDoctor()
	svc := newTestService(repo, nil, doctor)
	ctx := context.Background()

	a, _ := svc.Book(ctx, "patient-1", bookReq(doctor.ID))
	if err := svc.Cancel(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Cancel(ctx, a.ID); err != nil {
		t.Errorf("second cancel should be a no-op, got %v", err)
	}
}

func TestRate(t *testing.T) {
	repo := newMockRepo()
	doctor := testDoctor()
	svc := newTestService(repo, nil, doctor)
	ctx := context.Background()

	a, _ := svc.Book(ctx, "patient-1", bookReq(doctor.ID))
	if err := svc.Rate(ctx, a.ID, 5); err == nil {
		t.Error("rating a pending appointment should fail")
	}
	if err := svc.UpdateStatus(ctx, a.ID, StatusCompleted); err != nil {
		t.Fatal(err)
	}
	if err := svc.Rate(ctx, a.ID, 0); err == nil {
		t.Error("rating 0 should be rejected")
	}
	if err := svc.Rate(ctx, a.ID, 4); err != nil {
		t.Fatal(err)
	}
	got, _ := svc.Get(ctx, a.ID)
	if got.Rating == nil || *got.Rating != 4 {
		t.Error("rating should be recorded")
	}
}

func TestListByPatient_DegradesOnStoreFailure(t *testing.T) {
	repo := newMockRepo()
	repo.listErr = context.DeadlineExceeded
	svc := newTestService(repo, nil, nil)

	items, total, err := svc.ListByPatient(context.Background(), "patient-1", 20, 0)
	if err != nil {
		t.Fatalf("list should degrade, not fail: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Error("degraded list should be empty")
	}
}
