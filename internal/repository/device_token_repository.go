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

// DeviceTokenRepository manages push tokens and dispatch summaries.
type DeviceTokenRepository struct {
	db *sqlx.DB
}

// NewDeviceTokenRepository constructs the repository.
func NewDeviceTokenRepository(db *sqlx.DB) *DeviceTokenRepository {
	return &DeviceTokenRepository{db: db}
}

// ActiveTokens resolves active push tokens for a school, optionally narrowed
// to a class roster or explicit student codes.
func (r *DeviceTokenRepository) ActiveTokens(ctx context.Context, schoolCode, classCode string, studentCodes []string) ([]string, error) {
	var builder strings.Builder
	builder.WriteString("SELECT dt.token FROM device_tokens dt")
	var args []interface{}
	args = append(args, schoolCode)
	conditions := []string{"dt.school_code = $1", "dt.active = TRUE"}
	if classCode != "" {
		builder.WriteString(" JOIN class_members cm ON cm.student_code = dt.student_code AND cm.school_code = dt.school_code")
		args = append(args, classCode)
		conditions = append(conditions, fmt.Sprintf("cm.class_code = $%d", len(args)))
	}
	if len(studentCodes) > 0 {
		placeholders := make([]string, len(studentCodes))
		for i, code := range studentCodes {
			args = append(args, code)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("dt.student_code IN (%s)", strings.Join(placeholders, ", ")))
	}
	builder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	builder.WriteString(" ORDER BY dt.token ASC")

	var tokens []string
	if err := r.db.SelectContext(ctx, &tokens, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	return tokens, nil
}

// CreateDispatch persists a new dispatch summary row.
func (r *DeviceTokenRepository) CreateDispatch(ctx context.Context, dispatch *models.Dispatch) error {
	if dispatch.ID == "" {
		dispatch.ID = uuid.NewString()
	}
	if dispatch.CreatedAt.IsZero() {
		dispatch.CreatedAt = time.Now().UTC()
	}
	if dispatch.Status == "" {
		dispatch.Status = models.DispatchStatusQueued
	}
	const query = `INSERT INTO push_dispatches (id, school_code, title, body, class_code, status, token_count, sent_count, failed_count, created_by, created_at)
        VALUES (:id, :school_code, :title, :body, :class_code, :status, :token_count, :sent_count, :failed_count, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, dispatch); err != nil {
		return fmt.Errorf("create dispatch: %w", err)
	}
	return nil
}

// UpdateDispatchProgress records batch outcomes for a dispatch.
func (r *DeviceTokenRepository) UpdateDispatchProgress(ctx context.Context, id string, sent, failed int, status models.DispatchStatus, finishedAt *time.Time) error {
	const query = `UPDATE push_dispatches SET sent_count = sent_count + $1, failed_count = failed_count + $2, status = $3, finished_at = COALESCE($4, finished_at)
        WHERE id = $5`
	if _, err := r.db.ExecContext(ctx, query, sent, failed, status, finishedAt, id); err != nil {
		return fmt.Errorf("update dispatch progress: %w", err)
	}
	return nil
}

// GetDispatch returns one dispatch summary.
func (r *DeviceTokenRepository) GetDispatch(ctx context.Context, id string) (*models.Dispatch, error) {
	const query = `SELECT id, school_code, title, body, class_code, status, token_count, sent_count, failed_count, created_by, created_at, finished_at
        FROM push_dispatches WHERE id = $1`
	var dispatch models.Dispatch
	if err := r.db.GetContext(ctx, &dispatch, query, id); err != nil {
		return nil, fmt.Errorf("get dispatch: %w", err)
	}
	return &dispatch, nil
}
