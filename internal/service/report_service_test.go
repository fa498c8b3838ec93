package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/cureconnect/cureconnect/internal/domain/report"
)

func setupReportService() (*ReportService, *MockReportRepo, *MockAppointmentRepo) {
	reportRepo := new(MockReportRepo)
	apptRepo := new(MockAppointmentRepo)
	svc := NewReportService(reportRepo, apptRepo, newTestAudit(), zap.NewNop())
	return svc, reportRepo, apptRepo
}

func TestUploadReport_Success(t *testing.T) {
	svc, reportRepo, _ := setupReportService()
	caller := patientClaims()

	reportRepo.On("Create", mock.Anything, mock.AnythingOfType("*report.Report")).Return(nil)

	r, err := svc.Upload(context.Background(), &report.UploadReportCommand{
		Title:   "Blood panel",
		FileRef: "reports/2026/blood-panel.pdf",
	}, caller, "127.0.0.1")

	assert.NoError(t, err)
	assert.Equal(t, caller.UserID, r.PatientID)
	reportRepo.AssertExpectations(t)
}

func TestUploadReport_OnlyPatients(t *testing.T) {
	svc, reportRepo, _ := setupReportService()

	_, err := svc.Upload(context.Background(), &report.UploadReportCommand{
		Title:   "Blood panel",
		FileRef: "reports/blood-panel.pdf",
	}, adminClaims(), "127.0.0.1")

	assert.ErrorIs(t, err, ErrForbidden)
	reportRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadReport_TitleRequired(t *testing.T) {
	svc, _, _ := setupReportService()

	_, err := svc.Upload(context.Background(), &report.UploadReportCommand{
		FileRef: "reports/untitled.pdf",
	}, patientClaims(), "127.0.0.1")

	assert.ErrorIs(t, err, report.ErrTitleRequired)
}

func TestListReports_PatientOwnOnly(t *testing.T) {
	svc, reportRepo, _ := setupReportService()
	caller := patientClaims()

	reportRepo.On("ListByPatient", mock.Anything, caller.UserID).
		Return([]*report.Report{{ID: uuid.New(), PatientID: caller.UserID}}, nil)

	reports, err := svc.ListForPatient(context.Background(), caller.UserID, caller)

	assert.NoError(t, err)
	assert.Len(t, reports, 1)

	_, err = svc.ListForPatient(context.Background(), uuid.New(), caller)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListReports_DoctorNeedsAppointmentLink(t *testing.T) {
	svc, reportRepo, apptRepo := setupReportService()
	doctorID := uuid.New()
	patientID := uuid.New()
	caller := doctorClaims(doctorID)

	apptRepo.On("ExistsForDoctorPatient", mock.Anything, doctorID, patientID).Return(false, nil)

	_, err := svc.ListForPatient(context.Background(), patientID, caller)

	assert.ErrorIs(t, err, ErrForbidden)
	reportRepo.AssertNotCalled(t, "ListByPatient", mock.Anything, mock.Anything)
}

func TestListReports_DoctorWithAppointment(t *testing.T) {
	svc, reportRepo, apptRepo := setupReportService()
	doctorID := uuid.New()
	patientID := uuid.New()

	apptRepo.On("ExistsForDoctorPatient", mock.Anything, doctorID, patientID).Return(true, nil)
	reportRepo.On("ListByPatient", mock.Anything, patientID).
		Return([]*report.Report{{ID: uuid.New(), PatientID: patientID}}, nil)

	reports, err := svc.ListForPatient(context.Background(), patientID, doctorClaims(doctorID))

	assert.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestDeleteReport_OwnerOrAdmin(t *testing.T) {
	svc, reportRepo, _ := setupReportService()
	owner := patientClaims()
	r := &report.Report{ID: uuid.New(), PatientID: owner.UserID}

	reportRepo.On("GetByID", mock.Anything, r.ID).Return(r, nil)
	reportRepo.On("SoftDelete", mock.Anything, r.ID).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), r.ID, owner, "127.0.0.1"))
	assert.NoError(t, svc.Delete(context.Background(), r.ID, adminClaims(), "127.0.0.1"))
	assert.ErrorIs(t, svc.Delete(context.Background(), r.ID, patientClaims(), "127.0.0.1"), ErrForbidden)
}
