package review

import "errors"

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("appointment has already been reviewed")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)
