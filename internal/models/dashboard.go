package models

import "time"

// DashboardFilter scopes dashboard aggregate queries.
type DashboardFilter struct {
	SchoolCode string
	ClassCode  string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// AttendanceSummary aggregates presence tallies for a class.
type AttendanceSummary struct {
	ClassCode    string  `db:"class_code" json:"class_code"`
	PresentCount int     `db:"present_count" json:"present_count"`
	AbsentCount  int     `db:"absent_count" json:"absent_count"`
	LateCount    int     `db:"late_count" json:"late_count"`
	Rate         float64 `json:"rate"`
}

// CourseGradeSummary aggregates raw grade values per course.
type CourseGradeSummary struct {
	CourseCode string   `db:"course_code" json:"course_code"`
	GradeCount int      `db:"grade_count" json:"grade_count"`
	Average    *float64 `db:"average" json:"average,omitempty"`
}

// AssessmentTally counts qualitative labels per course.
type AssessmentTally struct {
	CourseCode string `db:"course_code" json:"course_code"`
	Value      string `db:"value" json:"value"`
	Count      int    `db:"count" json:"count"`
}

// ClassDashboard is the cached dashboard aggregate for one class.
type ClassDashboard struct {
	ClassCode   string               `json:"class_code"`
	Attendance  AttendanceSummary    `json:"attendance"`
	Courses     []CourseGradeSummary `json:"courses"`
	Assessments []AssessmentTally    `json:"assessments"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// SystemMetrics is an aggregated instrumentation snapshot for operators.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	UptimeSeconds            int64     `json:"uptime_seconds"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// StudentAttendance is the per-student attendance view bucketed by solar
// month for the profile screen.
type StudentAttendance struct {
	StudentCode string                 `json:"student_code"`
	SchoolYear  int                    `json:"school_year"`
	Months      []MonthAttendance      `json:"months"`
	Totals      map[PresenceStatus]int `json:"totals"`
	Rate        *float64               `json:"rate,omitempty"`
}

// MonthAttendance tallies presence statuses within one solar month.
type MonthAttendance struct {
	Month   int                    `json:"month"`
	Counts  map[PresenceStatus]int `json:"counts"`
	Skipped int                    `json:"skipped,omitempty"`
}
