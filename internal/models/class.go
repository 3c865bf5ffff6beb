package models

import "time"

// Class represents a class group with its teacher/course assignments.
type Class struct {
	ID         string          `db:"id" json:"id"`
	SchoolCode string          `db:"school_code" json:"school_code"`
	ClassCode  string          `db:"class_code" json:"class_code"`
	ClassName  string          `db:"class_name" json:"class_name"`
	Grade      string          `db:"grade" json:"grade"`
	Teachers   []TeacherCourse `json:"teachers,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// TeacherCourse assigns a teacher to a course within a class. Credit carries
// the course unit count used by report-card weighted averages.
type TeacherCourse struct {
	ID          string `db:"id" json:"id"`
	ClassCode   string `db:"class_code" json:"class_code"`
	TeacherCode string `db:"teacher_code" json:"teacher_code"`
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseName  string `db:"course_name" json:"course_name"`
	Credit      int    `db:"credit" json:"credit"`
}
