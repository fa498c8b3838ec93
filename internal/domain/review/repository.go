package review

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	Update(ctx context.Context, r *Review) error
	List(ctx context.Context, q *ListReviewsQuery) (*PagedReviews, error)

	// ListApprovedByDoctor feeds the public doctor profile.
	ListApprovedByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Review, error)
}
