package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cureconnect/cureconnect/internal/domain"
	doctordomain "github.com/cureconnect/cureconnect/internal/domain/doctor"
	"github.com/cureconnect/cureconnect/internal/service"
)

type DoctorHandler struct {
	doctorSvc *service.DoctorService
	reviewSvc *service.ReviewService
}

func NewDoctorHandler(doctorSvc *service.DoctorService, reviewSvc *service.ReviewService) *DoctorHandler {
	return &DoctorHandler{doctorSvc: doctorSvc, reviewSvc: reviewSvc}
}

type doctorResponse struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Specialization  string    `json:"specialization"`
	Location        string    `json:"location,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Education       string    `json:"education,omitempty"`
	ExperienceYrs   int       `json:"experience_years"`
	ConsultationFee float64   `json:"consultation_fee"`
	AvailableDays   []string  `json:"available_days,omitempty"`
	AvailableSlots  []string  `json:"available_slots,omitempty"`
	ProfileImage    string    `json:"profile_image,omitempty"`
	Status          string    `json:"status"`
}

type updateDoctorProfileRequest struct {
	Location        *string   `json:"location"`
	Bio             *string   `json:"bio"`
	Education       *string   `json:"education"`
	ExperienceYrs   *int      `json:"experience_years"`
	ConsultationFee *float64  `json:"consultation_fee"`
	AvailableDays   *[]string `json:"available_days"`
	AvailableSlots  *[]string `json:"available_slots"`
	ProfileImage    *string   `json:"profile_image"`
}

type doctorReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toDoctorResponse(d *doctordomain.Doctor) doctorResponse {
	return doctorResponse{
		ID:              d.ID,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Specialization:  d.Specialization,
		Location:        d.Location,
		Bio:             d.Bio,
		Education:       d.Education,
		ExperienceYrs:   d.ExperienceYrs,
		ConsultationFee: d.ConsultationFee,
		AvailableDays:   d.AvailableDays,
		AvailableSlots:  d.AvailableSlots,
		ProfileImage:    d.ProfileImage,
		Status:          string(d.Status),
	}
}

// List handles GET /doctors. Patients only ever see active doctors; admins
// may filter by status to review the moderation queue.
func (h *DoctorHandler) List(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	q := &doctordomain.ListDoctorsQuery{
		Specialization: c.Query("specialization"),
		Page:           parseQueryInt(c, "page", 1),
		PageSize:       parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		st := doctordomain.Status(raw)
		if !st.IsValid() {
			respondError(c, http.StatusBadRequest, "invalid status filter")
			return
		}
		q.Status = &st
	}

	page, err := h.doctorSvc.ListDoctors(c.Request.Context(), q, claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]doctorResponse, 0, len(page.Doctors))
	for _, d := range page.Doctors {
		items = append(items, toDoctorResponse(d))
	}
	respondOK(c, pagedResponse[doctorResponse]{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

// Get handles GET /doctors/:id.
func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	d, err := h.doctorSvc.GetDoctor(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toDoctorResponse(d))
}

// Reviews handles GET /doctors/:id/reviews. Only approved reviews are
// visible here.
func (h *DoctorHandler) Reviews(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviewSvc.ApprovedForDoctor(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]doctorReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, doctorReviewResponse{
			ID:        r.ID,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}
	respondOK(c, items)
}

// UpdateProfile handles PUT /doctor/profile for the authenticated doctor.
func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	var req updateDoctorProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &doctordomain.UpdateProfileCommand{
		Location:        req.Location,
		Bio:             req.Bio,
		Education:       req.Education,
		ExperienceYrs:   req.ExperienceYrs,
		ConsultationFee: req.ConsultationFee,
		AvailableDays:   req.AvailableDays,
		AvailableSlots:  req.AvailableSlots,
		ProfileImage:    req.ProfileImage,
	}

	d, err := h.doctorSvc.UpdateProfile(c.Request.Context(), cmd, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toDoctorResponse(d))
}

// Approve handles PATCH /admin/doctors/:id/approve.
func (h *DoctorHandler) Approve(c *gin.Context) {
	h.moderate(c, h.doctorSvc.Approve)
}

// Reject handles PATCH /admin/doctors/:id/reject.
func (h *DoctorHandler) Reject(c *gin.Context) {
	h.moderate(c, h.doctorSvc.Reject)
}

// Suspend handles PATCH /admin/doctors/:id/suspend.
func (h *DoctorHandler) Suspend(c *gin.Context) {
	h.moderate(c, h.doctorSvc.Suspend)
}

// Reinstate handles PATCH /admin/doctors/:id/reinstate.
func (h *DoctorHandler) Reinstate(c *gin.Context) {
	h.moderate(c, h.doctorSvc.Reinstate)
}

func (h *DoctorHandler) moderate(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) (*doctordomain.Doctor, error)) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	d, err := fn(c.Request.Context(), id, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toDoctorResponse(d))
}
