package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newEnrollmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryListByUser(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "course_id", "enrolled_at"}).
		AddRow("enr-1", "user-1", "course-1", time.Now()).
		AddRow("enr-2", "user-1", "course-2", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, course_id, enrolled_at FROM enrollments WHERE user_id = $1 ORDER BY enrolled_at ASC, id ASC")).
		WithArgs("user-1").
		WillReturnRows(rows)

	enrollments, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	require.Equal(t, "course-1", enrollments[0].CourseID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExists(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2 LIMIT 1")).
		WithArgs("user-1", "course-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), "user-1", "course-1")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExistsNoRow(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2 LIMIT 1")).
		WithArgs("user-1", "course-9").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.Exists(context.Background(), "user-1", "course-9")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryFindByUserAndCourseNotFound(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, course_id, enrolled_at FROM enrollments WHERE user_id = $1 AND course_id = $2")).
		WithArgs("user-1", "course-9").
		WillReturnError(sql.ErrNoRows)

	enrollment, err := repo.FindByUserAndCourse(context.Background(), "user-1", "course-9")
	require.Error(t, err)
	require.True(t, errors.Is(err, sql.ErrNoRows))
	require.Nil(t, enrollment)
	require.NoError(t, mock.ExpectationsWereMet())
}
