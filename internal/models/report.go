package models

// MonthlyBucket groups the raw entries of one solar month for a student and
// course, together with the derived scores. Derived fields are written once
// per generation pass and never mutated afterwards; the whole report is
// rebuilt from raw records on every request.
type MonthlyBucket struct {
	Month        int               `json:"month"`
	Grades       []GradeEntry      `json:"grades"`
	Assessments  []AssessmentEntry `json:"assessments"`
	AverageGrade *float64          `json:"average_grade,omitempty"`
	FinalScore   *float64          `json:"final_score,omitempty"`
	Rank         *int              `json:"rank,omitempty"`
	Progress     *float64          `json:"progress,omitempty"`
}

// StudentMonthlyReport is one row of the monthly grade report matrix.
type StudentMonthlyReport struct {
	StudentCode string          `json:"student_code"`
	StudentName string          `json:"student_name"`
	Buckets     []MonthlyBucket `json:"buckets"`
	YearAverage *float64        `json:"year_average,omitempty"`
	YearRank    *int            `json:"year_rank,omitempty"`
	Skipped     int             `json:"skipped_records,omitempty"`
}

// MonthlyGradeReport is the full report for a class, teacher and course over
// one school year. Months follow the display order Mehr..Shahrivar.
type MonthlyGradeReport struct {
	ClassCode   string                 `json:"class_code"`
	TeacherCode string                 `json:"teacher_code"`
	CourseCode  string                 `json:"course_code"`
	SchoolYear  int                    `json:"school_year"`
	MonthOrder  []int                  `json:"month_order"`
	Students    []StudentMonthlyReport `json:"students"`
	Warnings    []string               `json:"warnings,omitempty"`
}

// ParticipantRank is an ephemeral ranking row, computed per generation and
// never persisted.
type ParticipantRank struct {
	ParticipantID string  `json:"participant_id"`
	Score         float64 `json:"score"`
	Rank          int     `json:"rank"`
}

// CourseScore is one course column of a report card row.
type CourseScore struct {
	CourseCode   string           `json:"course_code"`
	CourseName   string           `json:"course_name"`
	Credit       int              `json:"credit"`
	MonthlyFinal map[int]*float64 `json:"monthly_final"`
	YearScore    *float64         `json:"year_score,omitempty"`
}

// ReportCardRow is a student's report card: per-course year scores plus the
// credit-weighted overall average.
type ReportCardRow struct {
	StudentCode     string        `json:"student_code"`
	StudentName     string        `json:"student_name"`
	Courses         []CourseScore `json:"courses"`
	WeightedAverage *float64      `json:"weighted_average,omitempty"`
	OverallRank     *int          `json:"overall_rank,omitempty"`
}

// ReportCardReport aggregates report cards for a class and school year.
type ReportCardReport struct {
	ClassCode  string          `json:"class_code"`
	SchoolYear int             `json:"school_year"`
	Students   []ReportCardRow `json:"students"`
	Warnings   []string        `json:"warnings,omitempty"`
}
