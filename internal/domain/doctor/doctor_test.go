package doctor

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestApprove(t *testing.T) {
	admin := uuid.New()
	d := &Doctor{Status: StatusPending}

	assert.NoError(t, d.Approve(admin))
	assert.Equal(t, StatusActive, d.Status)
	assert.Equal(t, admin, *d.ReviewedBy)
	assert.NotNil(t, d.ReviewedAt)

	assert.ErrorIs(t, d.Approve(admin), ErrNotPending)
}

func TestReject(t *testing.T) {
	d := &Doctor{Status: StatusPending}

	assert.NoError(t, d.Reject(uuid.New()))
	assert.Equal(t, StatusRejected, d.Status)

	active := &Doctor{Status: StatusActive}
	assert.ErrorIs(t, active.Reject(uuid.New()), ErrNotPending)
}

func TestSuspendAndReinstate(t *testing.T) {
	d := &Doctor{Status: StatusActive}

	assert.NoError(t, d.Suspend(uuid.New()))
	assert.Equal(t, StatusSuspended, d.Status)
	assert.True(t, d.IsSuspended())
	assert.False(t, d.IsActive())

	assert.NoError(t, d.Reinstate(uuid.New()))
	assert.Equal(t, StatusActive, d.Status)
	assert.True(t, d.IsActive())
}

func TestSuspend_RequiresActive(t *testing.T) {
	d := &Doctor{Status: StatusPending}
	assert.ErrorIs(t, d.Suspend(uuid.New()), ErrNotActive)
}

func TestReinstate_RequiresSuspended(t *testing.T) {
	d := &Doctor{Status: StatusActive}
	assert.ErrorIs(t, d.Reinstate(uuid.New()), ErrNotSuspended)
}

func TestIsActive_SoftDeleted(t *testing.T) {
	now := time.Now()
	d := &Doctor{Status: StatusActive, DeletedAt: &now}
	assert.False(t, d.IsActive())
}

func TestFullName(t *testing.T) {
	d := &Doctor{FirstName: "Asha", LastName: "Menon"}
	assert.Equal(t, "Asha Menon", d.FullName())
}

func TestWorksOn(t *testing.T) {
	monday := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)

	d := &Doctor{AvailableDays: []string{"Monday", "Wednesday"}}
	assert.True(t, d.WorksOn(monday))
	assert.False(t, d.WorksOn(sunday))

	// No declared days means no restriction.
	unrestricted := &Doctor{}
	assert.True(t, unrestricted.WorksOn(sunday))
}
