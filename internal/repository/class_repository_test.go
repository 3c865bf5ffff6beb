package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newClassRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestClassRepositoryFindByCode(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	classRows := sqlmock.NewRows([]string{"id", "school_code", "class_code", "class_name", "grade", "created_at", "updated_at"}).
		AddRow("1", "sch-1", "cls-1", "7A", "7", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM classes WHERE school_code = $1 AND class_code = $2")).
		WithArgs("sch-1", "cls-1").
		WillReturnRows(classRows)

	teacherRows := sqlmock.NewRows([]string{"id", "class_code", "teacher_code", "course_code", "course_name", "credit"}).
		AddRow("tc-1", "cls-1", "tch-1", "crs-1", "Math", 4).
		AddRow("tc-2", "cls-1", "tch-2", "crs-2", "Science", 3)
	mock.ExpectQuery(regexp.QuoteMeta("FROM teacher_courses tc")).
		WithArgs("cls-1").
		WillReturnRows(teacherRows)

	class, err := repo.FindByCode(context.Background(), "sch-1", "cls-1")
	require.NoError(t, err)
	require.Equal(t, "7A", class.ClassName)
	require.Len(t, class.Teachers, 2)
	require.Equal(t, 4, class.Teachers[0].Credit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryList(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	rows := sqlmock.NewRows([]string{"id", "school_code", "class_code", "class_name", "grade", "created_at", "updated_at"}).
		AddRow("1", "sch-1", "cls-1", "7A", "7", time.Now(), time.Now()).
		AddRow("2", "sch-1", "cls-2", "7B", "7", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM classes WHERE school_code = $1 ORDER BY class_code ASC")).
		WithArgs("sch-1").
		WillReturnRows(rows)

	classes, err := repo.List(context.Background(), "sch-1")
	require.NoError(t, err)
	require.Len(t, classes, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
