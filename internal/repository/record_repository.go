package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/parsamooz/school-api/internal/models"
)

// RecordRepository manages persistence for class sheet records.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository constructs a RecordRepository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

const recordColumns = `id, school_code, class_code, student_code, teacher_code, course_code,
        date, time_slot, note, presence_status, descriptive_status, grades, assessments, created_at, updated_at`

// List returns class records matching the filter, newest first.
func (r *RecordRepository) List(ctx context.Context, filter models.RecordFilter) ([]models.ClassRecord, error) {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("SELECT %s FROM class_records WHERE 1=1", recordColumns))
	var args []interface{}
	if filter.SchoolCode != "" {
		args = append(args, filter.SchoolCode)
		builder.WriteString(fmt.Sprintf(" AND school_code = $%d", len(args)))
	}
	if filter.ClassCode != "" {
		args = append(args, filter.ClassCode)
		builder.WriteString(fmt.Sprintf(" AND class_code = $%d", len(args)))
	}
	if filter.StudentCode != "" {
		args = append(args, filter.StudentCode)
		builder.WriteString(fmt.Sprintf(" AND student_code = $%d", len(args)))
	}
	if filter.TeacherCode != "" {
		args = append(args, filter.TeacherCode)
		builder.WriteString(fmt.Sprintf(" AND teacher_code = $%d", len(args)))
	}
	if filter.CourseCode != "" {
		args = append(args, filter.CourseCode)
		builder.WriteString(fmt.Sprintf(" AND course_code = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		builder.WriteString(fmt.Sprintf(" AND date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		builder.WriteString(fmt.Sprintf(" AND date <= $%d", len(args)))
	}
	builder.WriteString(" ORDER BY date DESC")

	var records []models.ClassRecord
	if err := r.db.SelectContext(ctx, &records, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list class records: %w", err)
	}
	return records, nil
}

// Upsert inserts or updates one class record cell, keyed by its slot.
func (r *RecordRepository) Upsert(ctx context.Context, record *models.ClassRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO class_records (id, school_code, class_code, student_code, teacher_code, course_code,
        date, time_slot, note, presence_status, descriptive_status, grades, assessments, created_at, updated_at)
        VALUES (:id, :school_code, :class_code, :student_code, :teacher_code, :course_code,
        :date, :time_slot, :note, :presence_status, :descriptive_status, :grades, :assessments, :created_at, :updated_at)
        ON CONFLICT (school_code, class_code, student_code, course_code, date, time_slot)
        DO UPDATE SET note = EXCLUDED.note, presence_status = EXCLUDED.presence_status,
        descriptive_status = EXCLUDED.descriptive_status, grades = EXCLUDED.grades,
        assessments = EXCLUDED.assessments, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert class record: %w", err)
	}
	return nil
}
