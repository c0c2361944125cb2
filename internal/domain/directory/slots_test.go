package directory

import (
	"math/rand"
	"sort"
	"testing"
	"time"
)

func TestBuildCalendar_WindowShape(t *testing.T) {
	today := time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))
	cal := BuildCalendar(today, 0.5, rng)

	if len(cal) != len(Modes) {
		t.Fatalf("expected %d modes, got %d", len(Modes), len(cal))
	}
	for _, mode := range Modes {
		days, ok := cal[mode]
		if !ok {
			t.Fatalf("missing mode %q", mode)
		}
		if len(days) != CalendarDays {
			t.Fatalf("mode %q: expected %d dates, got %d", mode, CalendarDays, len(days))
		}

		dates := make([]string, 0, len(days))
		for d := range days {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		if dates[0] != "2025-03-10" {
			t.Errorf("window should start at the reference date, got %s", dates[0])
		}
		for i, want := range CalendarDates(today) {
			if dates[i] != want {
				t.Errorf("date %d: expected %s, got %s", i, want, dates[i])
			}
		}
	}
}

func TestBuildCalendar_FixedTimeLabels(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	cal := BuildCalendar(today, 0.5, rand.New(rand.NewSource(7)))

	for mode, days := range cal {
		for date, slots := range days {
			if len(slots) != len(TimeLabels) {
				t.Fatalf("%s/%s: expected %d slots, got %d", mode, date, len(TimeLabels), len(slots))
			}
			for i, slot := range slots {
				if slot.Time != TimeLabels[i] {
					t.Errorf("%s/%s slot %d: expected %q, got %q", mode, date, i, TimeLabels[i], slot.Time)
				}
			}
		}
	}
}

func TestBuildCalendar_BiasExtremes(t *testing.T) {
	today := time.Now()
	all := BuildCalendar(today, 1.0, rand.New(rand.NewSource(3)))
	for _, days := range all {
		for _, slots := range days {
			for _, slot := range slots {
				if !slot.Available {
					t.Fatal("bias 1.0 should make every slot available")
				}
			}
		}
	}
	none := BuildCalendar(today, 0.0, rand.New(rand.NewSource(3)))
	for _, days := range none {
		for _, slots := range days {
			for _, slot := range slots {
				if slot.Available {
					t.Fatal("bias 0.0 should make every slot unavailable")
				}
			}
		}
	}
}

func TestBuildCalendar_MonthBoundary(t *testing.T) {
	today := time.Date(2025, 1, 29, 0, 0, 0, 0, time.UTC)
	cal := BuildCalendar(today, 0.5, rand.New(rand.NewSource(5)))
	if _, ok := cal[ModeOnline]["2025-02-04"]; !ok {
		t.Error("window crossing a month boundary should roll into February")
	}
}
