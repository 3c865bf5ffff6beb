package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/parsamooz/school-api/internal/models"
)

// AssessmentOptionRepository manages custom assessment weight tables scoped
// to teacher+course pairs.
type AssessmentOptionRepository struct {
	db *sqlx.DB
}

// NewAssessmentOptionRepository constructs the repository.
func NewAssessmentOptionRepository(db *sqlx.DB) *AssessmentOptionRepository {
	return &AssessmentOptionRepository{db: db}
}

// ListByTeacherCourse returns custom options for a teacher+course pair.
func (r *AssessmentOptionRepository) ListByTeacherCourse(ctx context.Context, schoolCode, teacherCode, courseCode string) ([]models.AssessmentOption, error) {
	const query = `SELECT id, school_code, teacher_code, course_code, value, weight, created_at, updated_at
        FROM assessment_options
        WHERE school_code = $1 AND teacher_code = $2 AND course_code = $3
        ORDER BY value ASC`
	var options []models.AssessmentOption
	if err := r.db.SelectContext(ctx, &options, query, schoolCode, teacherCode, courseCode); err != nil {
		return nil, fmt.Errorf("list assessment options: %w", err)
	}
	return options, nil
}

// WeightMap resolves the custom weight table for a teacher+course pair as a
// label → delta map. An empty map is a valid result.
func (r *AssessmentOptionRepository) WeightMap(ctx context.Context, schoolCode, teacherCode, courseCode string) (map[string]int, error) {
	options, err := r.ListByTeacherCourse(ctx, schoolCode, teacherCode, courseCode)
	if err != nil {
		return nil, err
	}
	weights := make(map[string]int, len(options))
	for _, opt := range options {
		weights[opt.Value] = opt.Weight
	}
	return weights, nil
}

// Upsert saves a custom option keyed by its scope and label.
func (r *AssessmentOptionRepository) Upsert(ctx context.Context, option *models.AssessmentOption) error {
	if option.ID == "" {
		option.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if option.CreatedAt.IsZero() {
		option.CreatedAt = now
	}
	option.UpdatedAt = now
	const query = `INSERT INTO assessment_options (id, school_code, teacher_code, course_code, value, weight, created_at, updated_at)
        VALUES (:id, :school_code, :teacher_code, :course_code, :value, :weight, :created_at, :updated_at)
        ON CONFLICT (school_code, teacher_code, course_code, value)
        DO UPDATE SET weight = EXCLUDED.weight, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, option); err != nil {
		return fmt.Errorf("upsert assessment option: %w", err)
	}
	return nil
}
