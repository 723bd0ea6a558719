package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursehub-api/internal/models"
)

var courseRowColumns = []string{"id", "title", "description", "context", "active", "instructor_id", "created_at", "updated_at"}

func TestCreateCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{Title: "Go", Description: "Learn Go", Context: "Goroutines and channels", Active: true, InstructorID: "i1"}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.False(t, course.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindCourseByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + courseColumns + " FROM courses WHERE id = $1 LIMIT 1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func invalidUUIDError(id string) error {
	return &pq.Error{Code: invalidTextRepresentation, Message: `invalid input syntax for type uuid: "` + id + `"`}
}

func TestFindCourseByIDMalformedID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).
		WithArgs("42").
		WillReturnError(invalidUUIDError("42"))

	course, err := repo.FindByID(context.Background(), "42")
	assert.Nil(t, course)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindCourseByIDStorageFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).
		WithArgs("c1").
		WillReturnError(sql.ErrConnDone)

	_, err := repo.FindByID(context.Background(), "c1")
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NotErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleCourseActiveMalformedID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE courses SET active = NOT active")).
		WithArgs("42", sqlmock.AnyArg()).
		WillReturnError(invalidUUIDError("42"))

	_, err := repo.ToggleActive(context.Background(), "42")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleCourseActive(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE courses SET active = NOT active, updated_at = $2 WHERE id = $1 RETURNING " + courseColumns)).
		WithArgs("c1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(courseRowColumns).AddRow("c1", "Go", "Learn Go", "ctx", false, "i1", now, now))

	course, err := repo.ToggleActive(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, course.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCourseMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("UPDATE courses SET title").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Course{ID: "missing"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCourseMalformedID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("UPDATE courses SET title").WillReturnError(invalidUUIDError("42"))

	err := repo.Update(context.Background(), &models.Course{ID: "42"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCourses(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(append(courseRowColumns, "instructor_name")).
		AddRow("c1", "Algebra", "Numbers", "ctx", true, "i1", now, now, "Ada Lovelace")
	mock.ExpectQuery(regexp.QuoteMeta(courseSummarySelect + " WHERE c.active = TRUE AND c.instructor_id = $1 ORDER BY c.title ASC, c.id ASC LIMIT 10 OFFSET 10")).
		WithArgs("i1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses c WHERE c.active = TRUE AND c.instructor_id = $1")).
		WithArgs("i1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{InstructorID: "i1", Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Ada Lovelace", courses[0].InstructorName)
	assert.Equal(t, "Algebra", courses[0].Title)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCoursesSearch(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.active = TRUE AND (LOWER(c.title) LIKE $1 OR LOWER(c.description) LIKE $1) ORDER BY c.title ASC, c.id ASC LIMIT 20 OFFSET 0")).
		WithArgs("%go%").
		WillReturnRows(sqlmock.NewRows(append(courseRowColumns, "instructor_name")))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses c WHERE c.active = TRUE AND")).
		WithArgs("%go%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{Search: "Go", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Empty(t, courses)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
