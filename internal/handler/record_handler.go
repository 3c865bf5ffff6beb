package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/parsamooz/school-api/internal/dto"
	"github.com/parsamooz/school-api/internal/models"
	appErrors "github.com/parsamooz/school-api/pkg/errors"
	"github.com/parsamooz/school-api/pkg/response"
)

type recordService interface {
	List(ctx context.Context, query dto.RecordQuery) ([]models.ClassRecord, error)
	Upsert(ctx context.Context, req dto.UpsertRecordRequest) (*models.ClassRecord, error)
	SaveAssessmentOption(ctx context.Context, req dto.AssessmentOptionRequest) (*models.AssessmentOption, error)
	ListAssessmentOptions(ctx context.Context, schoolCode, teacherCode, courseCode string) ([]models.AssessmentOption, error)
}

// RecordHandler wires class record endpoints.
type RecordHandler struct {
	service recordService
}

// NewRecordHandler constructs the handler.
func NewRecordHandler(service recordService) *RecordHandler {
	return &RecordHandler{service: service}
}

// List godoc
// @Summary List class records
// @Tags Records
// @Produce json
// @Param schoolCode query string true "School code"
// @Param classCode query string false "Class code"
// @Param studentCode query string false "Student code"
// @Param courseCode query string false "Course code"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /records [get]
func (h *RecordHandler) List(c *gin.Context) {
	var query dto.RecordQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	records, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Upsert godoc
// @Summary Create or replace a class record
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.UpsertRecordRequest true "Record payload"
// @Success 200 {object} response.Envelope
// @Router /records [put]
func (h *RecordHandler) Upsert(c *gin.Context) {
	var req dto.UpsertRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	record, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// SaveAssessmentOption godoc
// @Summary Define or update a qualitative assessment option
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.AssessmentOptionRequest true "Option payload"
// @Success 200 {object} response.Envelope
// @Router /assessment-options [put]
func (h *RecordHandler) SaveAssessmentOption(c *gin.Context) {
	var req dto.AssessmentOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	option, err := h.service.SaveAssessmentOption(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, option, nil)
}

// ListAssessmentOptions godoc
// @Summary List assessment options for a teaching assignment
// @Tags Records
// @Produce json
// @Param schoolCode query string true "School code"
// @Param teacherCode query string true "Teacher code"
// @Param courseCode query string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /assessment-options [get]
func (h *RecordHandler) ListAssessmentOptions(c *gin.Context) {
	schoolCode := strings.TrimSpace(c.Query("schoolCode"))
	teacherCode := strings.TrimSpace(c.Query("teacherCode"))
	courseCode := strings.TrimSpace(c.Query("courseCode"))
	if schoolCode == "" || teacherCode == "" || courseCode == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "schoolCode, teacherCode and courseCode are required"))
		return
	}
	options, err := h.service.ListAssessmentOptions(c.Request.Context(), schoolCode, teacherCode, courseCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}
