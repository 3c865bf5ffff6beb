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

type examService interface {
	Create(ctx context.Context, req dto.CreateExamRequest) (*models.Exam, error)
	List(ctx context.Context, schoolCode, classCode string) ([]models.Exam, error)
	SubmitAnswers(ctx context.Context, examID string, req dto.SubmitAnswersRequest) (*models.ExamParticipant, error)
	Statistics(ctx context.Context, examID string) (*models.ExamStatistics, error)
	AnswerSheets(ctx context.Context, examID string, req dto.AnswerSheetRequest) ([]byte, error)
}

// ExamHandler wires exam endpoints.
type ExamHandler struct {
	service examService
}

// NewExamHandler constructs the handler.
func NewExamHandler(service examService) *ExamHandler {
	return &ExamHandler{service: service}
}

// Create godoc
// @Summary Create an exam
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body dto.CreateExamRequest true "Exam payload"
// @Success 201 {object} response.Envelope
// @Router /exams [post]
func (h *ExamHandler) Create(c *gin.Context) {
	var req dto.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	exam, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exam)
}

// List godoc
// @Summary List exams of a class
// @Tags Exams
// @Produce json
// @Param schoolCode query string true "School code"
// @Param classCode query string true "Class code"
// @Success 200 {object} response.Envelope
// @Router /exams [get]
func (h *ExamHandler) List(c *gin.Context) {
	schoolCode := strings.TrimSpace(c.Query("schoolCode"))
	classCode := strings.TrimSpace(c.Query("classCode"))
	if schoolCode == "" || classCode == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "schoolCode and classCode are required"))
		return
	}
	exams, err := h.service.List(c.Request.Context(), schoolCode, classCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exams, nil)
}

// SubmitAnswers godoc
// @Summary Submit one participant's answer sheet
// @Tags Exams
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param payload body dto.SubmitAnswersRequest true "Answers payload"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/answers [post]
func (h *ExamHandler) SubmitAnswers(c *gin.Context) {
	var req dto.SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	participant, err := h.service.SubmitAnswers(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, participant, nil)
}

// Statistics godoc
// @Summary Exam statistics with ranking and per-question outcomes
// @Tags Exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/statistics [get]
func (h *ExamHandler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	resp := dto.ExamStatisticsResponse{
		ExamID:     stats.ExamID,
		Title:      stats.Title,
		Statistics: stats,
		Ranking:    stats.Ranking,
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// AnswerSheets godoc
// @Summary Render printable answer sheets
// @Tags Exams
// @Accept json
// @Produce application/pdf
// @Param id path string true "Exam ID"
// @Param payload body dto.AnswerSheetRequest false "Optional subset of students"
// @Success 200 {file} binary
// @Router /exams/{id}/answer-sheets [post]
func (h *ExamHandler) AnswerSheets(c *gin.Context) {
	var req dto.AnswerSheetRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
			return
		}
	}
	payload, err := h.service.AnswerSheets(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\"answer-sheets.pdf\"")
	c.Data(http.StatusOK, "application/pdf", payload)
}
