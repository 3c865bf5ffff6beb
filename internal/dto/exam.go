package dto

import "github.com/parsamooz/school-api/internal/models"

// CreateExamRequest captures POST /exams payload.
type CreateExamRequest struct {
	SchoolCode    string `json:"schoolCode" binding:"required"`
	Title         string `json:"title" binding:"required"`
	ClassCode     string `json:"classCode" binding:"required"`
	CourseCode    string `json:"courseCode" binding:"required"`
	QuestionCount int    `json:"questionCount" binding:"required,min=1"`
	ChoiceCount   int    `json:"choiceCount"`
	Date          string `json:"date" binding:"required"`
}

// SubmitAnswersRequest captures POST /exams/:id/answers payload for one
// participant.
type SubmitAnswersRequest struct {
	StudentCode string                  `json:"studentCode" binding:"required"`
	Answers     []models.QuestionAnswer `json:"answers"`
	Score       *float64                `json:"score,omitempty"`
}

// AnswerSheetRequest captures POST /exams/:id/answer-sheets payload.
type AnswerSheetRequest struct {
	StudentCodes []string `json:"studentCodes"`
}

// ExamStatisticsResponse wraps the computed statistics for clients.
type ExamStatisticsResponse struct {
	ExamID     string                   `json:"examId"`
	Title      string                   `json:"title"`
	Statistics *models.ExamStatistics   `json:"statistics"`
	Ranking    []models.ParticipantRank `json:"ranking"`
}
