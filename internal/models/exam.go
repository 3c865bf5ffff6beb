package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Exam describes a test with its answer-sheet layout.
type Exam struct {
	ID            string    `db:"id" json:"id"`
	SchoolCode    string    `db:"school_code" json:"school_code"`
	Title         string    `db:"title" json:"title"`
	ClassCode     string    `db:"class_code" json:"class_code"`
	CourseCode    string    `db:"course_code" json:"course_code"`
	QuestionCount int       `db:"question_count" json:"question_count"`
	ChoiceCount   int       `db:"choice_count" json:"choice_count"`
	Date          time.Time `db:"date" json:"date"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ExamParticipant records one student's result for an exam. Score is nil
// until the sheet has been graded.
type ExamParticipant struct {
	ID          string          `db:"id" json:"id"`
	ExamID      string          `db:"exam_id" json:"exam_id"`
	StudentCode string          `db:"student_code" json:"student_code"`
	StudentName string          `db:"student_name" json:"student_name"`
	Score       *float64        `db:"score" json:"score,omitempty"`
	Answers     QuestionAnswers `db:"answers" json:"answers"`
	GradedAt    *time.Time      `db:"graded_at" json:"graded_at,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// QuestionAnswer is one answered question: the chosen option (0 means
// unanswered) and whether it matched the key.
type QuestionAnswer struct {
	Question int   `json:"question"`
	Choice   int   `json:"choice"`
	Correct  *bool `json:"correct,omitempty"`
}

// QuestionAnswers persists answer payloads as JSONB.
type QuestionAnswers []QuestionAnswer

// Value marshals answers for persistence.
func (q QuestionAnswers) Value() (driver.Value, error) {
	if q == nil {
		q = QuestionAnswers{}
	}
	data, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("marshal question answers: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the slice.
func (q *QuestionAnswers) Scan(value interface{}) error {
	return scanJSON(value, q, "QuestionAnswers")
}

// QuestionStat aggregates outcomes for a single exam question.
type QuestionStat struct {
	Question   int     `json:"question"`
	Correct    int     `json:"correct"`
	Wrong      int     `json:"wrong"`
	Unanswered int     `json:"unanswered"`
	Difficulty float64 `json:"difficulty"`
}

// ExamStatistics is the computed statistics view of an exam.
type ExamStatistics struct {
	ExamID       string            `json:"exam_id"`
	Title        string            `json:"title"`
	Participants int               `json:"participants"`
	Graded       int               `json:"graded"`
	Min          *float64          `json:"min,omitempty"`
	Max          *float64          `json:"max,omitempty"`
	Mean         *float64          `json:"mean,omitempty"`
	Median       *float64          `json:"median,omitempty"`
	Ranking      []ParticipantRank `json:"ranking"`
	Questions    []QuestionStat    `json:"questions"`
}
