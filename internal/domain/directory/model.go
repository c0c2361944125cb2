package directory

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by point lookups when no record matches.
var ErrNotFound = errors.New("directory: not found")

// Slot is a single bookable time label for one doctor, date and mode.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Calendar maps consultation mode -> ISO date (YYYY-MM-DD) -> ordered slots.
type Calendar map[string]map[string][]Slot

// Doctor is a catalogue entry. The calendar covers the rolling 7-day window
// starting today; in local mode it is regenerated on every catalogue load
// and is not durable.
type Doctor struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Specialization  string    `json:"specialization"`
	Avatar          string    `json:"avatar"`
	Location        string    `json:"location"`
	Rating          float64   `json:"rating"`
	ExperienceYears int       `json:"experience_years"`
	ConsultationFee float64   `json:"consultation_fee"`
	Available       bool      `json:"available"`
	Calendar        Calendar  `json:"calendar,omitempty"`
}

// Medicine is a catalogue entry. PricePerUnit is the unit price at catalogue
// time; orders snapshot it and never re-read it.
type Medicine struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Manufacturer string    `json:"manufacturer"`
	PricePerUnit float64   `json:"price_per_unit"`
	InStock      bool      `json:"in_stock"`
}
