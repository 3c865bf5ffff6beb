package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PresenceStatus marks attendance captured on a class record.
type PresenceStatus string

const (
	PresencePresent PresenceStatus = "present"
	PresenceAbsent  PresenceStatus = "absent"
	PresenceLate    PresenceStatus = "late"
)

// Valid returns true when the status is a supported value.
func (s PresenceStatus) Valid() bool {
	switch s {
	case PresencePresent, PresenceAbsent, PresenceLate:
		return true
	default:
		return false
	}
}

// GradeEntry is a single numeric score recorded on a class record.
type GradeEntry struct {
	Value       float64  `json:"value"`
	Description string   `json:"description"`
	Date        DateOnly `json:"date"`
	TotalPoints *float64 `json:"totalPoints,omitempty"`
}

// AssessmentEntry is a qualitative judgment recorded on a class record. The
// value is one of the standard labels or a custom label defined per
// teacher+course.
type AssessmentEntry struct {
	Title  string   `json:"title"`
	Value  string   `json:"value"`
	Date   DateOnly `json:"date"`
	Weight *int     `json:"weight,omitempty"`
}

// GradeEntries persists grade payloads as JSONB.
type GradeEntries []GradeEntry

// Value marshals entries for persistence.
func (g GradeEntries) Value() (driver.Value, error) {
	if g == nil {
		g = GradeEntries{}
	}
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshal grade entries: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the slice.
func (g *GradeEntries) Scan(value interface{}) error {
	return scanJSON(value, g, "GradeEntries")
}

// AssessmentEntries persists assessment payloads as JSONB.
type AssessmentEntries []AssessmentEntry

// Value marshals entries for persistence.
func (a AssessmentEntries) Value() (driver.Value, error) {
	if a == nil {
		a = AssessmentEntries{}
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal assessment entries: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the slice.
func (a *AssessmentEntries) Scan(value interface{}) error {
	return scanJSON(value, a, "AssessmentEntries")
}

func scanJSON(value, dest interface{}, label string) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for %s", value, label)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", label, err)
	}
	return nil
}

// ClassRecord is one dated cell of a class sheet: grades, assessments and
// presence captured for a student in a course slot on a given day.
type ClassRecord struct {
	ID                string            `db:"id" json:"id"`
	SchoolCode        string            `db:"school_code" json:"school_code"`
	ClassCode         string            `db:"class_code" json:"class_code"`
	StudentCode       string            `db:"student_code" json:"student_code"`
	TeacherCode       string            `db:"teacher_code" json:"teacher_code"`
	CourseCode        string            `db:"course_code" json:"course_code"`
	Date              time.Time         `db:"date" json:"date"`
	TimeSlot          string            `db:"time_slot" json:"time_slot"`
	Note              string            `db:"note" json:"note"`
	PresenceStatus    *PresenceStatus   `db:"presence_status" json:"presence_status,omitempty"`
	DescriptiveStatus *string           `db:"descriptive_status" json:"descriptive_status,omitempty"`
	Grades            GradeEntries      `db:"grades" json:"grades"`
	Assessments       AssessmentEntries `db:"assessments" json:"assessments"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

// RecordFilter scopes class record queries.
type RecordFilter struct {
	SchoolCode  string
	ClassCode   string
	StudentCode string
	TeacherCode string
	CourseCode  string
	DateFrom    *time.Time
	DateTo      *time.Time
}

// DateOnly is a yyyy-mm-dd JSON date that tolerates full timestamps and
// rejects nothing: unparseable values scan as the zero time so callers can
// skip them.
type DateOnly struct {
	time.Time
}

// UnmarshalJSON accepts date-only and RFC3339 payloads.
func (d *DateOnly) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	d.Time = time.Time{}
	return nil
}

// MarshalJSON renders the date-only form.
func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Time.Format("2006-01-02"))
}
