package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/parsamooz/school-api/internal/models"
)

// ClassRepository manages class groups and their teacher/course assignments.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns all classes for a school.
func (r *ClassRepository) List(ctx context.Context, schoolCode string) ([]models.Class, error) {
	const query = `SELECT id, school_code, class_code, class_name, grade, created_at, updated_at
        FROM classes WHERE school_code = $1 ORDER BY class_code ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, schoolCode); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByCode returns a class with its teacher/course assignments.
func (r *ClassRepository) FindByCode(ctx context.Context, schoolCode, classCode string) (*models.Class, error) {
	const query = `SELECT id, school_code, class_code, class_name, grade, created_at, updated_at
        FROM classes WHERE school_code = $1 AND class_code = $2`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, schoolCode, classCode); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class: %w", err)
	}
	teachers, err := r.TeacherCourses(ctx, classCode)
	if err != nil {
		return nil, err
	}
	class.Teachers = teachers
	return &class, nil
}

// TeacherCourses returns the teacher/course assignments for a class.
func (r *ClassRepository) TeacherCourses(ctx context.Context, classCode string) ([]models.TeacherCourse, error) {
	const query = `SELECT tc.id, tc.class_code, tc.teacher_code, tc.course_code, c.course_name, c.credit
        FROM teacher_courses tc
        JOIN courses c ON c.course_code = tc.course_code
        WHERE tc.class_code = $1 ORDER BY tc.course_code ASC`
	var assignments []models.TeacherCourse
	if err := r.db.SelectContext(ctx, &assignments, query, classCode); err != nil {
		return nil, fmt.Errorf("list teacher courses: %w", err)
	}
	return assignments, nil
}
