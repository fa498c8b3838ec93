package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cureconnect/cureconnect/internal/domain/review"
	"github.com/cureconnect/cureconnect/internal/service"
	"github.com/cureconnect/cureconnect/pkg/metrics"
)

type ReviewHandler struct {
	reviewSvc *service.ReviewService
	collector *metrics.Collector
}

func NewReviewHandler(reviewSvc *service.ReviewService, collector *metrics.Collector) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc, collector: collector}
}

type submitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type reviewResponse struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func toReviewResponse(r *review.Review) reviewResponse {
	return reviewResponse{
		ID:            r.ID,
		AppointmentID: r.AppointmentID,
		PatientID:     r.PatientID,
		DoctorID:      r.DoctorID,
		Rating:        r.Rating,
		Comment:       r.Comment,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
	}
}

// Submit handles POST /appointments/:id/review. Only the patient of a
// completed appointment may review it, once.
func (h *ReviewHandler) Submit(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}
	appointmentID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req submitReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &review.SubmitReviewCommand{
		AppointmentID: appointmentID,
		PatientID:     claims.UserID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}

	r, err := h.reviewSvc.Submit(c.Request.Context(), cmd, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if h.collector != nil {
		h.collector.ReviewsSubmitted.Inc()
	}
	respondCreated(c, toReviewResponse(r))
}

// List handles GET /admin/reviews, primarily for the moderation queue.
func (h *ReviewHandler) List(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	q := &review.ListReviewsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		st := review.ModerationStatus(raw)
		if st != review.StatusPending && st != review.StatusApproved {
			respondError(c, http.StatusBadRequest, "invalid status filter")
			return
		}
		q.Status = &st
	}
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid doctor_id filter")
			return
		}
		q.DoctorID = &id
	}

	page, err := h.reviewSvc.ListReviews(c.Request.Context(), q, claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]reviewResponse, 0, len(page.Reviews))
	for _, r := range page.Reviews {
		items = append(items, toReviewResponse(r))
	}
	respondOK(c, pagedResponse[reviewResponse]{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

// Approve handles PATCH /admin/reviews/:id/approve.
func (h *ReviewHandler) Approve(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	r, err := h.reviewSvc.Approve(c.Request.Context(), id, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toReviewResponse(r))
}
