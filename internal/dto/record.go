package dto

import "github.com/parsamooz/school-api/internal/models"

// RecordQuery captures GET /records parameters.
type RecordQuery struct {
	SchoolCode  string `form:"schoolCode" binding:"required"`
	ClassCode   string `form:"classCode"`
	StudentCode string `form:"studentCode"`
	TeacherCode string `form:"teacherCode"`
	CourseCode  string `form:"courseCode"`
	DateFrom    string `form:"dateFrom"`
	DateTo      string `form:"dateTo"`
}

// UpsertRecordRequest captures PUT /records payload: one class sheet cell.
type UpsertRecordRequest struct {
	SchoolCode        string                   `json:"schoolCode" binding:"required"`
	ClassCode         string                   `json:"classCode" binding:"required"`
	StudentCode       string                   `json:"studentCode" binding:"required"`
	TeacherCode       string                   `json:"teacherCode" binding:"required"`
	CourseCode        string                   `json:"courseCode" binding:"required"`
	Date              string                   `json:"date" binding:"required"`
	TimeSlot          string                   `json:"timeSlot" binding:"required"`
	Note              string                   `json:"note"`
	PresenceStatus    *models.PresenceStatus   `json:"presenceStatus,omitempty"`
	DescriptiveStatus *string                  `json:"descriptiveStatus,omitempty"`
	Grades            []models.GradeEntry      `json:"grades"`
	Assessments       []models.AssessmentEntry `json:"assessments"`
}

// AssessmentOptionRequest captures PUT /assessment-options payload.
type AssessmentOptionRequest struct {
	SchoolCode  string `json:"schoolCode" binding:"required"`
	TeacherCode string `json:"teacherCode" binding:"required"`
	CourseCode  string `json:"courseCode" binding:"required"`
	Value       string `json:"value" binding:"required"`
	Weight      int    `json:"weight"`
}
