package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/models"
	"github.com/parsamooz/school-api/internal/service"
	appErrors "github.com/parsamooz/school-api/pkg/errors"
	"github.com/parsamooz/school-api/pkg/response"
)

type gradeReportService interface {
	MonthlyGradeReport(ctx context.Context, query dto.MonthlyReportQuery) (*models.MonthlyGradeReport, error)
	ReportCards(ctx context.Context, query dto.ReportCardQuery) (*models.ReportCardReport, error)
}

type reportJobService interface {
	CreateJob(ctx context.Context, req dto.ReportRequest, actorID string) (*dto.ReportJobResponse, error)
	GetStatus(ctx context.Context, id string) (*dto.ReportStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error)
}

// ReportHandler exposes synchronous report composition and the asynchronous
// export job lifecycle.
type ReportHandler struct {
	grades gradeReportService
	jobs   reportJobService
}

// NewReportHandler constructs handler.
func NewReportHandler(grades gradeReportService, jobs reportJobService) *ReportHandler {
	return &ReportHandler{grades: grades, jobs: jobs}
}

// MonthlyGrades godoc
// @Summary Monthly grade report for one teaching assignment
// @Tags Reports
// @Produce json
// @Param schoolCode query string true "School code"
// @Param classCode query string true "Class code"
// @Param teacherCode query string true "Teacher code"
// @Param courseCode query string true "Course code"
// @Param schoolYear query int true "Solar school year, e.g. 1403"
// @Param showRanks query bool false "Include class rankings"
// @Success 200 {object} response.Envelope
// @Router /reports/monthly-grades [get]
func (h *ReportHandler) MonthlyGrades(c *gin.Context) {
	var query dto.MonthlyReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	report, err := h.grades.MonthlyGradeReport(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// ReportCards godoc
// @Summary Yearly report cards for a class
// @Tags Reports
// @Produce json
// @Param schoolCode query string true "School code"
// @Param classCode query string true "Class code"
// @Param schoolYear query int true "Solar school year, e.g. 1403"
// @Success 200 {object} response.Envelope
// @Router /reports/report-cards [get]
func (h *ReportHandler) ReportCards(c *gin.Context) {
	var query dto.ReportCardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	report, err := h.grades.ReportCards(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Generate godoc
// @Summary Enqueue an asynchronous report export
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ReportRequest true "Report definition"
// @Success 202 {object} response.Envelope
// @Router /reports/generate [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	resp, err := h.jobs.CreateJob(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, resp)
}

// Status godoc
// @Summary Report job status
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /reports/{id} [get]
func (h *ReportHandler) Status(c *gin.Context) {
	resp, err := h.jobs.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Download godoc
// @Summary Download a finished export by signed token
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /export/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	download, err := h.jobs.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	contentType := "application/octet-stream"
	switch download.Format {
	case models.ReportFormatCSV:
		contentType = "text/csv"
	case models.ReportFormatPDF:
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Header("Content-Type", contentType)
	http.ServeContent(c.Writer, c.Request, download.Filename, download.ExpiresAt, download.File)
}
