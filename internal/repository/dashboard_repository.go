package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/parsamooz/school-api/internal/models"
)

// DashboardRepository exposes read-optimised aggregates over class records
// for the statistics dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository instantiates the repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func dashboardConditions(filter models.DashboardFilter, args *[]interface{}) string {
	conditions := []string{"1=1"}
	if filter.SchoolCode != "" {
		*args = append(*args, filter.SchoolCode)
		conditions = append(conditions, fmt.Sprintf("cr.school_code = $%d", len(*args)))
	}
	if filter.ClassCode != "" {
		*args = append(*args, filter.ClassCode)
		conditions = append(conditions, fmt.Sprintf("cr.class_code = $%d", len(*args)))
	}
	if filter.DateFrom != nil {
		*args = append(*args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("cr.date >= $%d", len(*args)))
	}
	if filter.DateTo != nil {
		*args = append(*args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("cr.date <= $%d", len(*args)))
	}
	return strings.Join(conditions, " AND ")
}

// AttendanceSummary tallies presence statuses for the scope.
func (r *DashboardRepository) AttendanceSummary(ctx context.Context, filter models.DashboardFilter) (*models.AttendanceSummary, error) {
	var args []interface{}
	where := dashboardConditions(filter, &args)
	query := fmt.Sprintf(`SELECT COALESCE(cr.class_code, '') AS class_code,
        SUM(CASE WHEN cr.presence_status = 'present' THEN 1 ELSE 0 END) AS present_count,
        SUM(CASE WHEN cr.presence_status = 'absent' THEN 1 ELSE 0 END) AS absent_count,
        SUM(CASE WHEN cr.presence_status = 'late' THEN 1 ELSE 0 END) AS late_count
        FROM class_records cr WHERE %s AND cr.presence_status IS NOT NULL
        GROUP BY cr.class_code`, where)

	var summary models.AttendanceSummary
	if err := r.db.GetContext(ctx, &summary, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return &models.AttendanceSummary{ClassCode: filter.ClassCode}, nil
		}
		return nil, fmt.Errorf("query attendance summary: %w", err)
	}
	counted := summary.PresentCount + summary.AbsentCount + summary.LateCount
	if counted > 0 {
		summary.Rate = float64(summary.PresentCount+summary.LateCount) / float64(counted) * 100
	}
	return &summary, nil
}

// GradeSummaries averages raw grade values per course by expanding the
// JSONB grade payloads.
func (r *DashboardRepository) GradeSummaries(ctx context.Context, filter models.DashboardFilter) ([]models.CourseGradeSummary, error) {
	var args []interface{}
	where := dashboardConditions(filter, &args)
	query := fmt.Sprintf(`SELECT cr.course_code,
        COUNT(g.entry) AS grade_count,
        AVG((g.entry->>'value')::NUMERIC) AS average
        FROM class_records cr, LATERAL jsonb_array_elements(cr.grades) AS g(entry)
        WHERE %s GROUP BY cr.course_code ORDER BY cr.course_code ASC`, where)

	var summaries []models.CourseGradeSummary
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("query grade summaries: %w", err)
	}
	return summaries, nil
}

// AssessmentTallies counts qualitative labels per course.
func (r *DashboardRepository) AssessmentTallies(ctx context.Context, filter models.DashboardFilter) ([]models.AssessmentTally, error) {
	var args []interface{}
	where := dashboardConditions(filter, &args)
	query := fmt.Sprintf(`SELECT cr.course_code, a.entry->>'value' AS value, COUNT(*) AS count
        FROM class_records cr, LATERAL jsonb_array_elements(cr.assessments) AS a(entry)
        WHERE %s GROUP BY cr.course_code, a.entry->>'value'
        ORDER BY cr.course_code ASC, count DESC`, where)

	var tallies []models.AssessmentTally
	if err := r.db.SelectContext(ctx, &tallies, query, args...); err != nil {
		return nil, fmt.Errorf("query assessment tallies: %w", err)
	}
	return tallies, nil
}
