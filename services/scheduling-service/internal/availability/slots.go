package availability

import (
	"fmt"

	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
)

// BusinessHours describes one working day. Hours are on a 24-hour clock.
type BusinessHours struct {
	StartHour      int `json:"start_hour"`
	EndHour        int `json:"end_hour"`
	BreakStartHour int `json:"break_start_hour"`
	BreakEndHour   int `json:"break_end_hour"`
	IntervalMin    int `json:"interval_minutes"`
}

func DefaultBusinessHours() BusinessHours {
	return BusinessHours{StartHour: 8, EndHour: 18, BreakStartHour: 12, BreakEndHour: 13, IntervalMin: 30}
}

func (h BusinessHours) Validate() error {
	if h.StartHour < 0 || h.EndHour > 24 || h.StartHour > h.EndHour {
		return fmt.Errorf("business hours %d-%d out of range", h.StartHour, h.EndHour)
	}
	if h.BreakStartHour > h.BreakEndHour {
		return fmt.Errorf("break %d-%d is inverted", h.BreakStartHour, h.BreakEndHour)
	}
	if h.IntervalMin <= 0 {
		return fmt.Errorf("slot interval must be positive")
	}
	return nil
}

// inBreak reports whether minute-of-day m falls in [breakStart, breakEnd).
func (h BusinessHours) inBreak(m int) bool {
	return m >= h.BreakStartHour*60 && m < h.BreakEndHour*60
}

// Slot is one bookable time point and whether it is free.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// GenerateSlots returns every HH:MM from start (inclusive) to end (exclusive) stepped by the
// interval, skipping the break window. An empty result is valid.
func GenerateSlots(date string, hours BusinessHours) ([]string, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, err
	}
	return hours.Times(), nil
}

// Times lists the slot start times of any working day.
func (h BusinessHours) Times() []string {
	if h.IntervalMin <= 0 {
		return nil
	}
	var slots []string
	for m := h.StartHour * 60; m < h.EndHour*60; m += h.IntervalMin {
		if h.inBreak(m) {
			continue
		}
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

// ReasonBooked explains why a slot is unavailable.
const ReasonBooked = "time slot already booked"

// Availability marks each slot unavailable when an active appointment holds it on date.
func Availability(date string, slots []string, appts []model.Appointment) ([]Slot, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, err
	}
	taken := make(map[string]bool)
	for _, a := range appts {
		if a.Date == date && a.Occupies() {
			taken[a.Time] = true
		}
	}

	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		slot := Slot{Time: s, Available: !taken[s]}
		if !slot.Available {
			slot.Reason = ReasonBooked
		}
		out = append(out, slot)
	}
	return out, nil
}

// Contains reports whether clock (HH:MM) is one of the generated slots.
func Contains(slots []string, clock string) bool {
	for _, s := range slots {
		if s == clock {
			return true
		}
	}
	return false
}
