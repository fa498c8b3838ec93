package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new doctor profile. Returns ErrAlreadyRegistered when
	// the user already owns one.
	Create(ctx context.Context, d *Doctor) error

	// GetByID retrieves a doctor by primary key. Returns ErrDoctorNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	// GetByUserID retrieves the profile owned by the given auth user.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)

	// UpdateProfile applies partial updates to profile fields.
	UpdateProfile(ctx context.Context, id uuid.UUID, cmd *UpdateProfileCommand) (*Doctor, error)

	// UpdateStatus persists a status change made on a loaded aggregate.
	UpdateStatus(ctx context.Context, d *Doctor) error

	// List returns a paginated, filtered list of doctors.
	List(ctx context.Context, q *ListDoctorsQuery) (*PagedDoctors, error)
}
