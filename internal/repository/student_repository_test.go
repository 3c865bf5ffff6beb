package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsamooz/school-api/internal/models"
)

func newStudentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "school_code", "student_code", "full_name", "gender", "birth_date", "phone", "active", "created_at", "updated_at"})
}

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := studentRows().
		AddRow("1", "sch-1", "stu-1", "Sara Ahmadi", "F", time.Now(), "0912", true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM students s WHERE 1=1 AND s.school_code = \\$1 ORDER BY s.student_code ASC LIMIT 50 OFFSET 0").
		WithArgs("sch-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT s.id) FROM students s WHERE 1=1 AND s.school_code = $1")).
		WithArgs("sch-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{SchoolCode: "sch-1"})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListByClassFilter(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := studentRows().
		AddRow("1", "sch-1", "stu-1", "Sara Ahmadi", "F", time.Now(), "0912", true, time.Now(), time.Now()).
		AddRow("2", "sch-1", "stu-2", "Reza Karimi", "M", time.Now(), "0913", true, time.Now(), time.Now())
	mock.ExpectQuery("JOIN class_members cm (.+) WHERE 1=1 AND s.school_code = \\$1 AND cm.class_code = \\$2").
		WithArgs("sch-1", "cls-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT s.id)")).
		WithArgs("sch-1", "cls-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	students, total, err := repo.List(context.Background(), models.StudentFilter{SchoolCode: "sch-1", ClassCode: "cls-1"})
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.Equal(t, 2, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListByClassRoster(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := studentRows().
		AddRow("1", "sch-1", "stu-1", "Sara Ahmadi", "F", time.Now(), "0912", true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("s.active = TRUE")).
		WithArgs("sch-1", "cls-1").
		WillReturnRows(rows)

	students, err := repo.ListByClass(context.Background(), "sch-1", "cls-1")
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, "stu-1", students[0].StudentCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByCode(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := studentRows().
		AddRow("1", "sch-1", "stu-1", "Sara Ahmadi", "F", time.Now(), "0912", true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.school_code = $1 AND s.student_code = $2")).
		WithArgs("sch-1", "stu-1").
		WillReturnRows(rows)

	student, err := repo.FindByCode(context.Background(), "sch-1", "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "Sara Ahmadi", student.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
