package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/parsamooz/school-api/internal/models"
)

func newRecordRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func recordRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "school_code", "class_code", "student_code", "teacher_code", "course_code",
		"date", "time_slot", "note", "presence_status", "descriptive_status",
		"grades", "assessments", "created_at", "updated_at",
	})
}

func TestRecordRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRecordRepoMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	from := time.Date(2024, 9, 22, 0, 0, 0, 0, time.UTC)
	rows := recordRows().AddRow(
		"rec-1", "sch-1", "cls-1", "stu-1", "tch-1", "crs-1",
		time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC), "2", "", "present", nil,
		`[{"value":18,"description":"quiz","date":"2024-10-05"}]`,
		`[{"title":"participation","value":"excellent","date":"2024-10-05"}]`,
		time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM class_records WHERE 1=1 AND school_code = \\$1 AND class_code = \\$2 AND teacher_code = \\$3 AND course_code = \\$4 AND date >= \\$5 ORDER BY date DESC").
		WithArgs("sch-1", "cls-1", "tch-1", "crs-1", from).
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), models.RecordFilter{
		SchoolCode:  "sch-1",
		ClassCode:   "cls-1",
		TeacherCode: "tch-1",
		CourseCode:  "crs-1",
		DateFrom:    &from,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "stu-1", records[0].StudentCode)
	require.Len(t, records[0].Grades, 1)
	require.Equal(t, 18.0, records[0].Grades[0].Value)
	require.Len(t, records[0].Assessments, 1)
	require.Equal(t, "excellent", records[0].Assessments[0].Value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRecordRepoMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO class_records")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	present := models.PresencePresent
	record := &models.ClassRecord{
		SchoolCode:     "sch-1",
		ClassCode:      "cls-1",
		StudentCode:    "stu-1",
		TeacherCode:    "tch-1",
		CourseCode:     "crs-1",
		Date:           time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC),
		TimeSlot:       "2",
		PresenceStatus: &present,
	}
	require.NoError(t, repo.Upsert(context.Background(), record))
	require.NotEmpty(t, record.ID)
	require.False(t, record.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
