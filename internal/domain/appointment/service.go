package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shedula/shedula/internal/domain/directory"
)

// maxTokenAttempts bounds the collision retry loop when generating a
// booking token.
const maxTokenAttempts = 5

var validModes = map[string]bool{
	directory.ModeOnline: true,
	directory.ModeClinic: true,
}

// DoctorLookup resolves catalogue entries for denormalization at booking
// time.
type DoctorLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*directory.Doctor, error)
}

// BookRequest is the patient-supplied part of a booking.
type BookRequest struct {
	DoctorID      uuid.UUID `json:"doctor_id"`
	PatientName   string    `json:"patient_name"`
	PatientAge    *int      `json:"patient_age,omitempty"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Mode          string    `json:"mode"`
	PaymentMethod string    `json:"payment_method"`
	Reason        string    `json:"reason,omitempty"`
}

// Service implements the booking lifecycle on top of a Repository. When the
// backend also tracks slot availability (postgres), booker is non-nil and
// bookings reserve their slot atomically; in local mode booker is nil and
// slots are demo data only.
type Service struct {
	repo    Repository
	booker  SlotBooker
	doctors DoctorLookup
	logger  zerolog.Logger
}

func NewService(repo Repository, booker SlotBooker, doctors DoctorLookup, logger zerolog.Logger) *Service {
	return &Service{repo: repo, booker: booker, doctors: doctors, logger: logger}
}

func (s *Service) validateBooking(req *BookRequest) error {
	if req.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	if req.PatientName == "" {
		return fmt.Errorf("patient_name is required")
	}
	if req.Date == "" || req.Time == "" {
		return fmt.Errorf("date and time are required")
	}
	if !validModes[req.Mode] {
		return fmt.Errorf("invalid mode: %s", req.Mode)
	}
	if req.PaymentMethod != "" && !validPaymentMethods[req.PaymentMethod] {
		return fmt.Errorf("invalid payment method: %s", req.PaymentMethod)
	}
	return nil
}

// newToken draws tokens until one is unused, giving up after
// maxTokenAttempts collisions.
func (s *Service) newToken(ctx context.Context) (string, error) {
	for i := 0; i < maxTokenAttempts; i++ {
		token, err := GenerateToken()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.TokenExists(ctx, token)
		if err != nil {
			return "", err
		}
		if !exists {
			return token, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrTokenCollision, maxTokenAttempts)
}

// Book creates a Pending appointment for the authenticated patient,
// denormalizing doctor display fields from the catalogue. Returns
// ErrSlotTaken when the chosen slot was booked concurrently.
func (s *Service) Book(ctx context.Context, patientID string, req *BookRequest) (*Appointment, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	if err := s.validateBooking(req); err != nil {
		return nil, err
	}

	doctor, err := s.doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, fmt.Errorf("unknown doctor: %s", req.DoctorID)
		}
		return nil, err
	}

	token, err := s.newToken(ctx)
	if err != nil {
		return nil, err
	}

	a := &Appointment{
		ID:                   uuid.New(),
		Token:                token,
		DoctorID:             doctor.ID,
		DoctorName:           doctor.Name,
		DoctorSpecialization: doctor.Specialization,
		DoctorAvatar:         doctor.Avatar,
		PatientID:            patientID,
		PatientName:          req.PatientName,
		PatientAge:           req.PatientAge,
		Date:                 req.Date,
		Time:                 req.Time,
		Mode:                 req.Mode,
		ConsultationFee:      doctor.ConsultationFee,
		PaymentMethod:        req.PaymentMethod,
		Location:             doctor.Location,
		Reason:               req.Reason,
		Status:               StatusPending,
	}

	if s.booker != nil {
		err = s.booker.BookWithSlot(ctx, a)
	} else {
		err = s.repo.Create(ctx, a)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Reschedule moves an appointment to a new slot and marks it Rescheduled.
// Cancelled and Completed appointments cannot be moved; Rescheduled ones
// can be moved again.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, date, timeLabel string) (*Appointment, error) {
	if date == "" || timeLabel == "" {
		return nil, fmt.Errorf("date and time are required")
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusCancelled || a.Status == StatusCompleted {
		return nil, fmt.Errorf("cannot reschedule a %s appointment", a.Status)
	}

	if s.booker != nil {
		if err := s.booker.SwapSlot(ctx, a, date, timeLabel); err != nil {
			return nil, err
		}
		return a, nil
	}

	status := StatusRescheduled
	if err := s.repo.UpdateFields(ctx, id, Partial{Date: &date, Time: &timeLabel, Status: &status}); err != nil {
		return nil, err
	}
	a.Date, a.Time, a.Status = date, timeLabel, status
	return a, nil
}

// UpdateStatus moves an appointment to the given lifecycle state.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status: %s", status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Cancel marks the appointment Cancelled and frees its slot. Cancelling an
// already cancelled appointment is a no-op.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Status == StatusCancelled {
		return nil
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		return err
	}
	if s.booker != nil {
		if err := s.booker.ReleaseSlot(ctx, a); err != nil {
			s.logger.Warn().Err(err).Str("appointment_id", id.String()).Msg("failed to release slot on cancel")
		}
	}
	return nil
}

// AddNotes records the doctor's consultation notes.
func (s *Service) AddNotes(ctx context.Context, id uuid.UUID, notes string) error {
	return s.repo.UpdateFields(ctx, id, Partial{Notes: &notes})
}

// Rate records a 1-5 patient rating on a completed appointment.
func (s *Service) Rate(ctx context.Context, id uuid.UUID, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Status != StatusCompleted {
		return fmt.Errorf("only completed appointments can be rated")
	}
	return s.repo.UpdateFields(ctx, id, Partial{Rating: &rating})
}

// Update applies a sparse edit. Status changes still go through enum
// validation.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p Partial) error {
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("invalid status: %s", *p.Status)
	}
	if p.PaymentMethod != nil && !validPaymentMethods[*p.PaymentMethod] {
		return fmt.Errorf("invalid payment method: %s", *p.PaymentMethod)
	}
	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return s.repo.UpdateFields(ctx, id, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByToken(ctx context.Context, token string) (*Appointment, error) {
	if token == "" {
		return nil, fmt.Errorf("token is required")
	}
	return s.repo.GetByToken(ctx, token)
}

// List returns every appointment, unscoped. Reserved for administrative
// callers; owner-facing reads go through ListByPatient/ListByDoctor.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Warn().Err(err).Msg("appointment list read failed, serving empty page")
		return []*Appointment{}, 0, nil
	}
	if items == nil {
		items = []*Appointment{}
	}
	return items, total, nil
}

// ListByPatient degrades to an empty page when the store is unreadable so
// a broken storage surface never blanks the whole appointments screen.
func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Appointment, int, error) {
	items, total, err := s.repo.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		s.logger.Warn().Err(err).Str("patient_id", patientID).Msg("appointment list read failed, serving empty page")
		return []*Appointment{}, 0, nil
	}
	if items == nil {
		items = []*Appointment{}
	}
	return items, total, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	items, total, err := s.repo.ListByDoctor(ctx, doctorID, limit, offset)
	if err != nil {
		s.logger.Warn().Err(err).Str("doctor_id", doctorID.String()).Msg("appointment list read failed, serving empty page")
		return []*Appointment{}, 0, nil
	}
	if items == nil {
		items = []*Appointment{}
	}
	return items, total, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
