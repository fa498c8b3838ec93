package schedule

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/cureconnect/cureconnect/internal/domain/appointment"
)

func TestGrid_Shape(t *testing.T) {
	grid := Grid()

	assert.Len(t, grid, 17)
	assert.Equal(t, "9:00 AM", grid[0])
	assert.Equal(t, "5:00 PM", grid[16])
	assert.NotContains(t, grid, "5:30 PM")
	assert.NotContains(t, grid, "8:30 AM")
}

func TestGrid_NoonCrossover(t *testing.T) {
	grid := Grid()

	assert.Contains(t, grid, "11:30 AM")
	assert.Contains(t, grid, "12:00 PM")
	assert.Contains(t, grid, "12:30 PM")
	assert.Contains(t, grid, "1:00 PM")
}

func TestGrid_Deterministic(t *testing.T) {
	assert.Equal(t, Grid(), Grid())
}

func TestIsOnGrid(t *testing.T) {
	assert.True(t, IsOnGrid("9:00 AM"))
	assert.True(t, IsOnGrid("5:00 PM"))
	assert.False(t, IsOnGrid("5:30 PM"))
	assert.False(t, IsOnGrid("9:15 AM"))
	assert.False(t, IsOnGrid("09:00 AM"))
	assert.False(t, IsOnGrid(""))
}

func appt(slot string, status appointment.Status) *appointment.Appointment {
	return &appointment.Appointment{
		ID:       uuid.New(),
		TimeSlot: slot,
		Status:   status,
	}
}

func TestAvailable_EmptyDay(t *testing.T) {
	free := Available(nil, nil)

	assert.Equal(t, Grid(), free)
}

func TestAvailable_OccupiedSlotsRemoved(t *testing.T) {
	appts := []*appointment.Appointment{
		appt("9:00 AM", appointment.StatusPending),
		appt("10:30 AM", appointment.StatusConfirmed),
		appt("3:00 PM", appointment.StatusCompleted),
	}

	free := Available(appts, nil)

	assert.Len(t, free, 14)
	assert.NotContains(t, free, "9:00 AM")
	assert.NotContains(t, free, "10:30 AM")
	assert.NotContains(t, free, "3:00 PM")
	assert.Contains(t, free, "9:30 AM")
}

func TestAvailable_CancelledSlotIsBookable(t *testing.T) {
	appts := []*appointment.Appointment{
		appt("11:00 AM", appointment.StatusCancelled),
	}

	free := Available(appts, nil)

	assert.Contains(t, free, "11:00 AM")
	assert.Equal(t, Grid(), free)
}

func TestAvailable_PreservesGridOrder(t *testing.T) {
	appts := []*appointment.Appointment{
		appt("9:00 AM", appointment.StatusPending),
		appt("12:00 PM", appointment.StatusPending),
	}

	free := Available(appts, nil)

	assert.Equal(t, "9:30 AM", free[0])

	index := make(map[string]int)
	for i, slot := range Grid() {
		index[slot] = i
	}
	for i := 1; i < len(free); i++ {
		assert.Less(t, index[free[i-1]], index[free[i]])
	}
}

func TestAvailable_ExcludeOwnAppointment(t *testing.T) {
	own := appt("2:00 PM", appointment.StatusPending)
	other := appt("2:30 PM", appointment.StatusPending)

	free := Available([]*appointment.Appointment{own, other}, &own.ID)

	assert.Contains(t, free, "2:00 PM")
	assert.NotContains(t, free, "2:30 PM")
}

func TestAvailable_FullyBooked(t *testing.T) {
	var appts []*appointment.Appointment
	for _, slot := range Grid() {
		appts = append(appts, appt(slot, appointment.StatusConfirmed))
	}

	free := Available(appts, nil)

	assert.Empty(t, free)
}

func TestIntersect(t *testing.T) {
	ordered := []string{"9:00 AM", "9:30 AM", "10:00 AM"}

	assert.Equal(t, ordered, Intersect(ordered, nil), "empty allowed set passes everything")
	assert.Equal(t, []string{"9:30 AM"}, Intersect(ordered, []string{"9:30 AM", "4:00 PM"}))
	assert.Empty(t, Intersect(ordered, []string{"5:00 PM"}))
}
