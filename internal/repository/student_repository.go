package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/parsamooz/school-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `s.id, s.school_code, s.student_code, s.full_name, s.gender, s.birth_date, s.phone, s.active, s.created_at, s.updated_at`

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students s"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.SchoolCode != "" {
		args = append(args, filter.SchoolCode)
		conditions = append(conditions, fmt.Sprintf("s.school_code = $%d", len(args)))
	}
	if filter.ClassCode != "" {
		args = append(args, filter.ClassCode)
		base += " JOIN class_members cm ON cm.student_code = s.student_code AND cm.school_code = s.school_code"
		conditions = append(conditions, fmt.Sprintf("cm.class_code = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("s.active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.full_name) LIKE $%d OR s.student_code LIKE $%d)", len(args), len(args)))
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY s.student_code ASC LIMIT %d OFFSET %d", studentColumns, base, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT s.id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// ListByClass returns the roster for a class ordered by student code.
func (r *StudentRepository) ListByClass(ctx context.Context, schoolCode, classCode string) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students s
        JOIN class_members cm ON cm.student_code = s.student_code AND cm.school_code = s.school_code
        WHERE s.school_code = $1 AND cm.class_code = $2 AND s.active = TRUE
        ORDER BY s.student_code ASC`, studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, schoolCode, classCode); err != nil {
		return nil, fmt.Errorf("list class roster: %w", err)
	}
	return students, nil
}

// FindByCode returns a single student by school and student code.
func (r *StudentRepository) FindByCode(ctx context.Context, schoolCode, studentCode string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students s WHERE s.school_code = $1 AND s.student_code = $2", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, schoolCode, studentCode); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}
