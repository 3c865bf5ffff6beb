package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/parsamooz/school-api/internal/models"
)

func newDashboardRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDashboardRepositoryAttendanceSummary(t *testing.T) {
	db, mock, cleanup := newDashboardRepoMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)

	rows := sqlmock.NewRows([]string{"class_code", "present_count", "absent_count", "late_count"}).
		AddRow("cls-1", 80, 15, 5)
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_records cr")).
		WithArgs("sch-1", "cls-1").
		WillReturnRows(rows)

	summary, err := repo.AttendanceSummary(context.Background(), models.DashboardFilter{SchoolCode: "sch-1", ClassCode: "cls-1"})
	require.NoError(t, err)
	require.Equal(t, 80, summary.PresentCount)
	require.InDelta(t, 85.0, summary.Rate, 0.0001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepositoryGradeSummaries(t *testing.T) {
	db, mock, cleanup := newDashboardRepoMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)

	rows := sqlmock.NewRows([]string{"course_code", "grade_count", "average"}).
		AddRow("crs-1", 42, 16.75).
		AddRow("crs-2", 10, nil)
	mock.ExpectQuery(regexp.QuoteMeta("jsonb_array_elements(cr.grades)")).
		WithArgs("sch-1").
		WillReturnRows(rows)

	summaries, err := repo.GradeSummaries(context.Background(), models.DashboardFilter{SchoolCode: "sch-1"})
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.NotNil(t, summaries[0].Average)
	require.InDelta(t, 16.75, *summaries[0].Average, 0.0001)
	require.Nil(t, summaries[1].Average)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepositoryAssessmentTallies(t *testing.T) {
	db, mock, cleanup := newDashboardRepoMock(t)
	defer cleanup()
	repo := NewDashboardRepository(db)

	rows := sqlmock.NewRows([]string{"course_code", "value", "count"}).
		AddRow("crs-1", "excellent", 12).
		AddRow("crs-1", "weak", 3)
	mock.ExpectQuery(regexp.QuoteMeta("jsonb_array_elements(cr.assessments)")).
		WithArgs("sch-1").
		WillReturnRows(rows)

	tallies, err := repo.AssessmentTallies(context.Background(), models.DashboardFilter{SchoolCode: "sch-1"})
	require.NoError(t, err)
	require.Len(t, tallies, 2)
	require.Equal(t, "excellent", tallies[0].Value)
	require.NoError(t, mock.ExpectationsWereMet())
}
