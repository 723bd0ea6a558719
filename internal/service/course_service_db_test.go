package service

import (
	"context"
	"net/http"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/repository"
	appErrors "github.com/noah-isme/coursehub-api/pkg/errors"
	"github.com/noah-isme/coursehub-api/pkg/validation"
)

func newCourseServiceWithDB(t *testing.T) (*CourseService, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxdb := sqlx.NewDb(db, "sqlmock")
	users := repository.NewUserRepository(sqlxdb)
	svc := NewCourseService(repository.NewCourseRepository(sqlxdb), users, users, nil, validation.New(), nil)
	return svc, mock
}

func expectMalformedCourseID(mock sqlmock.Sqlmock, id string) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).
		WithArgs(id).
		WillReturnError(&pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "` + id + `"`})
}

func TestCourseServiceGetContextMalformedID(t *testing.T) {
	svc, mock := newCourseServiceWithDB(t)
	expectMalformedCourseID(mock, "42")

	text, err := svc.GetContext(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, models.NoCourseContext, text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseServiceGetMalformedIDIsNotFound(t *testing.T) {
	svc, mock := newCourseServiceWithDB(t)
	expectMalformedCourseID(mock, "42")

	_, err := svc.Get(context.Background(), "42")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
