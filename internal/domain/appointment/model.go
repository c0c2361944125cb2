package appointment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors shared by both storage backends.
var (
	ErrNotFound       = errors.New("appointment: not found")
	ErrSlotTaken      = errors.New("appointment: slot already booked")
	ErrTokenCollision = errors.New("appointment: could not allocate a unique token")
)

// Status is the lifecycle state of an appointment. Rescheduled is
// re-entrant: a rescheduled appointment may be rescheduled again.
type Status string

const (
	StatusPending     Status = "Pending"
	StatusAccepted    Status = "Accepted"
	StatusRescheduled Status = "Rescheduled"
	StatusCancelled   Status = "Cancelled"
	StatusCompleted   Status = "Completed"
)

var validStatuses = map[Status]bool{
	StatusPending:     true,
	StatusAccepted:    true,
	StatusRescheduled: true,
	StatusCancelled:   true,
	StatusCompleted:   true,
}

func (s Status) Valid() bool { return validStatuses[s] }

// Payment methods accepted at booking time.
const (
	PaymentCash   = "cash"
	PaymentOnline = "online"
)

var validPaymentMethods = map[string]bool{
	PaymentCash:   true,
	PaymentOnline: true,
}

// Appointment is the canonical booking record. Doctor display fields are
// denormalized from the catalogue at booking time so listings render
// without a directory join.
type Appointment struct {
	ID    uuid.UUID `json:"id"`
	Token string    `json:"token"`

	DoctorID             uuid.UUID `json:"doctor_id"`
	DoctorName           string    `json:"doctor_name"`
	DoctorSpecialization string    `json:"doctor_specialization"`
	DoctorAvatar         string    `json:"doctor_avatar,omitempty"`

	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	PatientAge  *int   `json:"patient_age,omitempty"`

	Date string `json:"date"`
	Time string `json:"time"`
	Mode string `json:"mode"`

	ConsultationFee float64 `json:"consultation_fee"`
	PaymentMethod   string  `json:"payment_method"`
	Location        string  `json:"location,omitempty"`

	Reason string  `json:"reason,omitempty"`
	Notes  *string `json:"notes,omitempty"`
	Rating *int    `json:"rating,omitempty"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Partial carries a sparse update; nil fields are left untouched.
type Partial struct {
	Date          *string `json:"date,omitempty"`
	Time          *string `json:"time,omitempty"`
	PaymentMethod *string `json:"payment_method,omitempty"`
	Location      *string `json:"location,omitempty"`
	Reason        *string `json:"reason,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	Rating        *int    `json:"rating,omitempty"`
	Status        *Status `json:"status,omitempty"`
}

// apply merges the partial into a, returning whether anything changed.
func (p Partial) apply(a *Appointment) bool {
	changed := false
	if p.Date != nil {
		a.Date, changed = *p.Date, true
	}
	if p.Time != nil {
		a.Time, changed = *p.Time, true
	}
	if p.PaymentMethod != nil {
		a.PaymentMethod, changed = *p.PaymentMethod, true
	}
	if p.Location != nil {
		a.Location, changed = *p.Location, true
	}
	if p.Reason != nil {
		a.Reason, changed = *p.Reason, true
	}
	if p.Notes != nil {
		a.Notes, changed = p.Notes, true
	}
	if p.Rating != nil {
		a.Rating, changed = p.Rating, true
	}
	if p.Status != nil {
		a.Status, changed = *p.Status, true
	}
	return changed
}
