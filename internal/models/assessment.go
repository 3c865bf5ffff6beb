package models

import "time"

// Standard qualitative assessment labels. Persian labels from the classroom
// UI are normalised to these keys at the storage boundary.
const (
	AssessmentExcellent = "excellent"
	AssessmentGood      = "good"
	AssessmentAverage   = "average"
	AssessmentWeak      = "weak"
	AssessmentVeryWeak  = "very-weak"
)

// AssessmentOption is a custom assessment label with its score delta, scoped
// to a teacher+course pair. Custom options take precedence over the default
// weight table.
type AssessmentOption struct {
	ID          string    `db:"id" json:"id"`
	SchoolCode  string    `db:"school_code" json:"school_code"`
	TeacherCode string    `db:"teacher_code" json:"teacher_code"`
	CourseCode  string    `db:"course_code" json:"course_code"`
	Value       string    `db:"value" json:"value"`
	Weight      int       `db:"weight" json:"weight"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
