package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cureconnect/cureconnect/internal/domain"
	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	"github.com/cureconnect/cureconnect/internal/service"
	"github.com/cureconnect/cureconnect/pkg/metrics"
)

const dateLayout = "2006-01-02"

type AppointmentHandler struct {
	apptSvc   *service.AppointmentService
	collector *metrics.Collector
}

func NewAppointmentHandler(apptSvc *service.AppointmentService, collector *metrics.Collector) *AppointmentHandler {
	return &AppointmentHandler{apptSvc: apptSvc, collector: collector}
}

func (h *AppointmentHandler) countStatus(status appointment.Status) {
	if h.collector != nil {
		h.collector.AppointmentsTotal.WithLabelValues(string(status)).Inc()
	}
}

type bookAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" binding:"required"`
	Date     string    `json:"date" binding:"required"`
	TimeSlot string    `json:"time_slot" binding:"required"`
	Symptoms string    `json:"symptoms"`
}

type rescheduleRequest struct {
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"time_slot" binding:"required"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type appointmentResponse struct {
	ID                 uuid.UUID             `json:"id"`
	PatientID          uuid.UUID             `json:"patient_id"`
	DoctorID           uuid.UUID             `json:"doctor_id"`
	Date               string                `json:"date"`
	TimeSlot           string                `json:"time_slot"`
	Symptoms           string                `json:"symptoms,omitempty"`
	Status             string                `json:"status"`
	Feedback           *appointment.Feedback `json:"feedback,omitempty"`
	CancellationReason string                `json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time            `json:"completed_at,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
}

type pagedResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

type availabilityResponse struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"date"`
	Slots    []string  `json:"slots"`
}

func toAppointmentResponse(a *appointment.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:                 a.ID,
		PatientID:          a.PatientID,
		DoctorID:           a.DoctorID,
		Date:               a.Date.Format(dateLayout),
		TimeSlot:           a.TimeSlot,
		Symptoms:           a.Symptoms,
		Status:             string(a.Status),
		Feedback:           a.Feedback,
		CancellationReason: a.CancellationReason,
		CompletedAt:        a.CompletedAt,
		CreatedAt:          a.CreatedAt,
	}
}

func parseBodyDate(c *gin.Context, raw string) (time.Time, bool) {
	d, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date: expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

// Availability handles GET /doctors/:id/slots?date=YYYY-MM-DD. Returns free
// grid slots in chronological order. A backend failure yields 503, never an
// optimistic empty-calendar response.
func (h *AppointmentHandler) Availability(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	date, ok := parseDate(c, "date")
	if !ok {
		return
	}

	slots, err := h.apptSvc.AvailableSlots(c.Request.Context(), doctorID, date, nil)
	if h.collector != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		h.collector.AvailabilityRequests.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if slots == nil {
		slots = []string{}
	}
	respondOK(c, availabilityResponse{
		DoctorID: doctorID,
		Date:     date.Format(dateLayout),
		Slots:    slots,
	})
}

// Book handles POST /appointments.
func (h *AppointmentHandler) Book(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	var req bookAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	date, ok := parseBodyDate(c, req.Date)
	if !ok {
		return
	}

	cmd := &appointment.BookAppointmentCommand{
		DoctorID: req.DoctorID,
		Date:     date,
		TimeSlot: req.TimeSlot,
		Symptoms: req.Symptoms,
	}

	a, err := h.apptSvc.Book(c.Request.Context(), cmd, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.countStatus(a.Status)
	respondCreated(c, toAppointmentResponse(a))
}

// Get handles GET /appointments/:id.
func (h *AppointmentHandler) Get(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.apptSvc.GetAppointment(c.Request.Context(), id, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toAppointmentResponse(a))
}

// List handles GET /appointments. Patients and doctors are scoped to their
// own appointments regardless of filters.
func (h *AppointmentHandler) List(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	q := &appointment.ListAppointmentsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		st := appointment.Status(raw)
		if !st.IsValid() {
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
	if raw := c.Query("from"); raw != "" {
		d, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid from: expected YYYY-MM-DD")
			return
		}
		q.DateFrom = &d
	}
	if raw := c.Query("to"); raw != "" {
		d, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid to: expected YYYY-MM-DD")
			return
		}
		q.DateTo = &d
	}

	page, err := h.apptSvc.ListAppointments(c.Request.Context(), q, claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]appointmentResponse, 0, len(page.Appointments))
	for _, a := range page.Appointments {
		items = append(items, toAppointmentResponse(a))
	}
	respondOK(c, pagedResponse[appointmentResponse]{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

// Reschedule handles PATCH /appointments/:id/reschedule.
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req rescheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	date, ok := parseBodyDate(c, req.Date)
	if !ok {
		return
	}

	cmd := &appointment.RescheduleAppointmentCommand{
		Date:          date,
		TimeSlot:      req.TimeSlot,
		RescheduledBy: claims.UserID,
	}

	a, err := h.apptSvc.Reschedule(c.Request.Context(), id, cmd, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toAppointmentResponse(a))
}

// Cancel handles PATCH /appointments/:id/cancel.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req cancelRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &appointment.CancelAppointmentCommand{
		Reason:      req.Reason,
		CancelledBy: claims.UserID,
	}

	a, err := h.apptSvc.Cancel(c.Request.Context(), id, cmd, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.countStatus(a.Status)
	respondOK(c, toAppointmentResponse(a))
}

// Confirm handles PATCH /doctor/appointments/:id/confirm.
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, h.apptSvc.Confirm)
}

// Complete handles PATCH /doctor/appointments/:id/complete.
func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.apptSvc.Complete)
}

// Delete handles DELETE /admin/appointments/:id.
func (h *AppointmentHandler) Delete(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.apptSvc.Delete(c.Request.Context(), id, claims, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AppointmentHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) (*appointment.Appointment, error)) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := fn(c.Request.Context(), id, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.countStatus(a.Status)
	respondOK(c, toAppointmentResponse(a))
}
