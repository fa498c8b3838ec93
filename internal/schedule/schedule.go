// Package schedule holds the daily slot grid and the availability filter.
// Both are pure; every caller shares this one implementation instead of
// re-deriving the grid per call site.
package schedule

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cureconnect/cureconnect/internal/domain/appointment"
)

const (
	openingHour  = 9  // 9:00 AM
	closingHour  = 17 // 5:00 PM
	intervalMins = 30
)

// Grid returns the ordered daily grid of bookable slot labels:
// "9:00 AM" through "5:00 PM" in 30-minute steps, 17 entries. At the closing
// hour only the :00 slot is emitted, so "5:30 PM" never appears.
func Grid() []string {
	slots := make([]string, 0, (closingHour-openingHour)*60/intervalMins+1)
	for hour := openingHour; hour <= closingHour; hour++ {
		for minute := 0; minute < 60; minute += intervalMins {
			if hour == closingHour && minute > 0 {
				break
			}
			slots = append(slots, formatSlot(hour, minute))
		}
	}
	return slots
}

// formatSlot renders a 24h clock time as the 12-hour display label used
// everywhere an appointment stores its slot.
func formatSlot(hour, minute int) string {
	period := "AM"
	display := hour
	switch {
	case hour == 12:
		period = "PM"
	case hour > 12:
		period = "PM"
		display = hour - 12
	case hour == 0:
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, period)
}

// IsOnGrid reports whether the label names a bookable slot.
func IsOnGrid(slot string) bool {
	for _, s := range Grid() {
		if s == slot {
			return true
		}
	}
	return false
}

// Available subtracts occupied slots from the full grid, preserving grid
// order. A slot counts as occupied when some appointment holds it with a
// status other than cancelled and an ID other than excludeID. Passing the
// appointment being rescheduled as excludeID keeps its current slot bookable
// for itself.
func Available(appts []*appointment.Appointment, excludeID *uuid.UUID) []string {
	occupied := make(map[string]bool, len(appts))
	for _, a := range appts {
		if a.Status == appointment.StatusCancelled {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		occupied[a.TimeSlot] = true
	}

	grid := Grid()
	free := make([]string, 0, len(grid))
	for _, slot := range grid {
		if !occupied[slot] {
			free = append(free, slot)
		}
	}
	return free
}

// Intersect keeps only the slots of ordered that also appear in allowed,
// preserving the order of ordered. Used to apply a doctor's configured slot
// subset on top of the availability filter. An empty allowed set means the
// doctor has not restricted their day and everything passes through.
func Intersect(ordered, allowed []string) []string {
	if len(allowed) == 0 {
		return ordered
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, s := range allowed {
		allowedSet[s] = true
	}
	out := make([]string, 0, len(ordered))
	for _, s := range ordered {
		if allowedSet[s] {
			out = append(out, s)
		}
	}
	return out
}
