package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cureconnect/cureconnect/internal/domain/prescription"
	"github.com/cureconnect/cureconnect/internal/service"
	"github.com/cureconnect/cureconnect/pkg/metrics"
	"github.com/cureconnect/cureconnect/pkg/pdf"
)

type PrescriptionHandler struct {
	prescriptionSvc *service.PrescriptionService
	collector       *metrics.Collector
}

func NewPrescriptionHandler(prescriptionSvc *service.PrescriptionService, collector *metrics.Collector) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptionSvc: prescriptionSvc, collector: collector}
}

type medicationRequest struct {
	Name      string `json:"name" binding:"required"`
	Dosage    string `json:"dosage" binding:"required"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

type writePrescriptionRequest struct {
	AppointmentID uuid.UUID           `json:"appointment_id" binding:"required"`
	Medications   []medicationRequest `json:"medications" binding:"required,min=1"`
	Notes         string              `json:"notes"`
}

type prescriptionResponse struct {
	ID            uuid.UUID                 `json:"id"`
	AppointmentID uuid.UUID                 `json:"appointment_id"`
	PatientID     uuid.UUID                 `json:"patient_id"`
	DoctorID      uuid.UUID                 `json:"doctor_id"`
	Medications   []prescription.Medication `json:"medications"`
	Notes         string                    `json:"notes,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

func toPrescriptionResponse(p *prescription.Prescription) prescriptionResponse {
	return prescriptionResponse{
		ID:            p.ID,
		AppointmentID: p.AppointmentID,
		PatientID:     p.PatientID,
		DoctorID:      p.DoctorID,
		Medications:   p.Medications,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Write handles POST /doctor/prescriptions. The same endpoint updates the
// existing prescription when the appointment already has one; an
// appointment never accumulates two.
func (h *PrescriptionHandler) Write(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	var req writePrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	meds := make([]prescription.Medication, 0, len(req.Medications))
	for _, m := range req.Medications {
		meds = append(meds, prescription.Medication{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}

	cmd := &prescription.WriteOrUpdateCommand{
		AppointmentID: req.AppointmentID,
		Medications:   meds,
		Notes:         req.Notes,
		CreatedBy:     claims.UserID,
	}

	p, err := h.prescriptionSvc.WriteOrUpdate(c.Request.Context(), cmd, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if h.collector != nil {
		h.collector.PrescriptionsIssued.Inc()
	}
	respondCreated(c, toPrescriptionResponse(p))
}

// Get handles GET /prescriptions/:id.
func (h *PrescriptionHandler) Get(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.prescriptionSvc.GetPrescription(c.Request.Context(), id, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPrescriptionResponse(p))
}

// List handles GET /prescriptions, scoped to the caller's own records for
// patients and doctors.
func (h *PrescriptionHandler) List(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	q := &prescription.ListPrescriptionsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	page, err := h.prescriptionSvc.ListPrescriptions(c.Request.Context(), q, claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]prescriptionResponse, 0, len(page.Prescriptions))
	for _, p := range page.Prescriptions {
		items = append(items, toPrescriptionResponse(p))
	}
	respondOK(c, pagedResponse[prescriptionResponse]{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

// Download handles GET /prescriptions/:id/pdf. The document is rendered on
// demand from the stored record.
func (h *PrescriptionHandler) Download(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.prescriptionSvc.GetPrescription(c.Request.Context(), id, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	doc, err := h.prescriptionSvc.PrescribingDoctor(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	data, err := pdf.RenderPrescription(p, doc)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render prescription")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="prescription-%s.pdf"`, p.ID))
	c.Data(http.StatusOK, "application/pdf", data)
}
