package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/parsamooz/school-api/internal/models"
)

// ExamRepository manages exams and their participants.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// FindByID returns a single exam.
func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	const query = `SELECT id, school_code, title, class_code, course_code, question_count, choice_count, date, created_at, updated_at
        FROM exams WHERE id = $1`
	var exam models.Exam
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find exam: %w", err)
	}
	return &exam, nil
}

// ListByClass returns exams for a class, newest first.
func (r *ExamRepository) ListByClass(ctx context.Context, schoolCode, classCode string) ([]models.Exam, error) {
	const query = `SELECT id, school_code, title, class_code, course_code, question_count, choice_count, date, created_at, updated_at
        FROM exams WHERE school_code = $1 AND class_code = $2 ORDER BY date DESC`
	var exams []models.Exam
	if err := r.db.SelectContext(ctx, &exams, query, schoolCode, classCode); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// Create persists a new exam.
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	exam.CreatedAt = now
	exam.UpdatedAt = now
	const query = `INSERT INTO exams (id, school_code, title, class_code, course_code, question_count, choice_count, date, created_at, updated_at)
        VALUES (:id, :school_code, :title, :class_code, :course_code, :question_count, :choice_count, :date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// Participants returns all participants of an exam ordered by student code.
func (r *ExamRepository) Participants(ctx context.Context, examID string) ([]models.ExamParticipant, error) {
	const query = `SELECT p.id, p.exam_id, p.student_code, s.full_name AS student_name, p.score, p.answers, p.graded_at, p.created_at
        FROM exam_participants p
        JOIN students s ON s.student_code = p.student_code
        WHERE p.exam_id = $1 ORDER BY p.student_code ASC`
	var participants []models.ExamParticipant
	if err := r.db.SelectContext(ctx, &participants, query, examID); err != nil {
		return nil, fmt.Errorf("list exam participants: %w", err)
	}
	return participants, nil
}

// UpsertParticipant saves a participant result keyed by exam and student.
func (r *ExamRepository) UpsertParticipant(ctx context.Context, participant *models.ExamParticipant) error {
	if participant.ID == "" {
		participant.ID = uuid.NewString()
	}
	if participant.CreatedAt.IsZero() {
		participant.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO exam_participants (id, exam_id, student_code, score, answers, graded_at, created_at)
        VALUES (:id, :exam_id, :student_code, :score, :answers, :graded_at, :created_at)
        ON CONFLICT (exam_id, student_code)
        DO UPDATE SET score = EXCLUDED.score, answers = EXCLUDED.answers, graded_at = EXCLUDED.graded_at`
	if _, err := r.db.NamedExecContext(ctx, query, participant); err != nil {
		return fmt.Errorf("upsert exam participant: %w", err)
	}
	return nil
}
