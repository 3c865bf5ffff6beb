package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/models"
	appErrors "github.com/parsamooz/school-api/pkg/errors"
	"github.com/parsamooz/school-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error)
	Get(ctx context.Context, schoolCode, studentCode string) (*models.Student, error)
}

type attendanceService interface {
	StudentProfile(ctx context.Context, studentCode string, query dto.AttendanceProfileQuery) (*models.StudentAttendance, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students   studentService
	attendance attendanceService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, attendance attendanceService) *StudentHandler {
	return &StudentHandler{students: students, attendance: attendance}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param schoolCode query string true "School code"
// @Param classCode query string false "Filter by class"
// @Param search query string false "Search by name or code"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	var filter models.StudentFilter
	filter.SchoolCode = strings.TrimSpace(c.Query("schoolCode"))
	filter.ClassCode = strings.TrimSpace(c.Query("classCode"))
	filter.Search = strings.TrimSpace(c.Query("search"))
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "active must be a boolean"))
			return
		}
		filter.Active = &active
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Student detail
// @Tags Students
// @Produce json
// @Param code path string true "Student code"
// @Param schoolCode query string true "School code"
// @Success 200 {object} response.Envelope
// @Router /students/{code} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	schoolCode := strings.TrimSpace(c.Query("schoolCode"))
	if schoolCode == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "schoolCode is required"))
		return
	}
	student, err := h.students.Get(c.Request.Context(), schoolCode, c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Attendance godoc
// @Summary Per-student attendance profile bucketed by solar month
// @Tags Students
// @Produce json
// @Param code path string true "Student code"
// @Param schoolCode query string true "School code"
// @Param classCode query string true "Class code"
// @Param schoolYear query int true "Solar school year, e.g. 1403"
// @Success 200 {object} response.Envelope
// @Router /students/{code}/attendance [get]
func (h *StudentHandler) Attendance(c *gin.Context) {
	var query dto.AttendanceProfileQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	profile, err := h.attendance.StudentProfile(c.Request.Context(), c.Param("code"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}
