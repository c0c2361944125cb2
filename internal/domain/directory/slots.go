package directory

import (
	"math/rand"
	"time"
)

// Consultation modes.
const (
	ModeOnline = "online"
	ModeClinic = "clinic"
)

// Modes lists the consultation modes in presentation order.
var Modes = []string{ModeOnline, ModeClinic}

// ValidMode reports whether mode names a known consultation mode.
func ValidMode(mode string) bool {
	for _, m := range Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// DateLayout is the ISO calendar-date format used throughout the service.
const DateLayout = "2006-01-02"

// CalendarDays is the length of the rolling booking window.
const CalendarDays = 7

// TimeLabels is the fixed ordered list of bookable time labels. Every date
// in every calendar carries exactly this list.
var TimeLabels = []string{
	"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM",
	"11:00 AM", "11:30 AM", "12:00 PM",
	"02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM",
	"04:00 PM", "04:30 PM", "05:00 PM",
}

// DefaultAvailabilityBias is the probability that a generated slot is
// available.
const DefaultAvailabilityBias = 0.6

// BuildCalendar produces a calendar of CalendarDays consecutive dates
// starting at today (inclusive), for every consultation mode, each date
// carrying TimeLabels in order. Availability is an independent random draw
// per slot with the given bias, so repeated calls differ. The result is
// demo data, not a scheduling source of truth.
func BuildCalendar(today time.Time, bias float64, rng *rand.Rand) Calendar {
	cal := make(Calendar, len(Modes))
	for _, mode := range Modes {
		days := make(map[string][]Slot, CalendarDays)
		for d := 0; d < CalendarDays; d++ {
			date := today.AddDate(0, 0, d).Format(DateLayout)
			slots := make([]Slot, len(TimeLabels))
			for i, label := range TimeLabels {
				slots[i] = Slot{Time: label, Available: rng.Float64() < bias}
			}
			days[date] = slots
		}
		cal[mode] = days
	}
	return cal
}

// CalendarDates returns the window's dates in ascending order.
func CalendarDates(today time.Time) []string {
	dates := make([]string, CalendarDays)
	for d := 0; d < CalendarDays; d++ {
		dates[d] = today.AddDate(0, 0, d).Format(DateLayout)
	}
	return dates
}
