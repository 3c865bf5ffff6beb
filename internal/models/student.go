package models

import "time"

// Student represents a learner registered at a school.
type Student struct {
	ID          string    `db:"id" json:"id"`
	SchoolCode  string    `db:"school_code" json:"school_code"`
	StudentCode string    `db:"student_code" json:"student_code"`
	FullName    string    `db:"full_name" json:"full_name"`
	Gender      string    `db:"gender" json:"gender"`
	BirthDate   time.Time `db:"birth_date" json:"birth_date"`
	Phone       string    `db:"phone" json:"phone"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	SchoolCode string
	ClassCode  string
	Search     string
	Active     *bool
	Page       int
	PageSize   int
}
