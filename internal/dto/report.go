package dto

import "github.com/parsamooz/school-api/internal/models"

// MonthlyReportQuery captures GET /reports/monthly-grades parameters.
type MonthlyReportQuery struct {
	SchoolCode  string `form:"schoolCode" binding:"required"`
	ClassCode   string `form:"classCode" binding:"required"`
	TeacherCode string `form:"teacherCode" binding:"required"`
	CourseCode  string `form:"courseCode" binding:"required"`
	SchoolYear  int    `form:"schoolYear" binding:"required"`
	ShowRanks   bool   `form:"showRanks"`
}

// ReportCardQuery captures GET /reports/report-cards parameters.
type ReportCardQuery struct {
	SchoolCode string `form:"schoolCode" binding:"required"`
	ClassCode  string `form:"classCode" binding:"required"`
	SchoolYear int    `form:"schoolYear" binding:"required"`
}

// ReportRequest captures POST /reports/generate payload.
type ReportRequest struct {
	Type        models.ReportType   `json:"type"`
	SchoolCode  string              `json:"schoolCode"`
	ClassCode   string              `json:"classCode"`
	TeacherCode string              `json:"teacherCode,omitempty"`
	CourseCode  string              `json:"courseCode,omitempty"`
	SchoolYear  int                 `json:"schoolYear"`
	Format      models.ReportFormat `json:"format"`
	ShowRanks   bool                `json:"showRanks,omitempty"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
