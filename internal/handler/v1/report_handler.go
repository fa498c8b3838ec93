package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cureconnect/cureconnect/internal/domain/report"
	"github.com/cureconnect/cureconnect/internal/service"
)

type ReportHandler struct {
	reportSvc *service.ReportService
}

func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

type uploadReportRequest struct {
	Title   string `json:"title" binding:"required"`
	FileRef string `json:"file_ref" binding:"required"`
}

type reportResponse struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	Title     string    `json:"title"`
	FileRef   string    `json:"file_ref"`
	CreatedAt time.Time `json:"created_at"`
}

func toReportResponse(r *report.Report) reportResponse {
	return reportResponse{
		ID:        r.ID,
		PatientID: r.PatientID,
		Title:     r.Title,
		FileRef:   r.FileRef,
		CreatedAt: r.CreatedAt,
	}
}

// Upload handles POST /reports. Only metadata is stored; the file itself
// lives in external storage under file_ref.
func (h *ReportHandler) Upload(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	var req uploadReportRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &report.UploadReportCommand{
		PatientID: claims.UserID,
		Title:     req.Title,
		FileRef:   req.FileRef,
	}

	r, err := h.reportSvc.Upload(c.Request.Context(), cmd, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toReportResponse(r))
}

// List handles GET /reports for the calling patient, or
// GET /reports?patient_id= for admins.
func (h *ReportHandler) List(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}

	patientID := claims.UserID
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid patient_id filter")
			return
		}
		patientID = id
	}

	reports, err := h.reportSvc.ListForPatient(c.Request.Context(), patientID, claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]reportResponse, 0, len(reports))
	for _, r := range reports {
		items = append(items, toReportResponse(r))
	}
	respondOK(c, items)
}

// Delete handles DELETE /reports/:id.
func (h *ReportHandler) Delete(c *gin.Context) {
	claims, ok := callerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.reportSvc.Delete(c.Request.Context(), id, claims, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
