package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursehub-api/internal/models"
	appErrors "github.com/noah-isme/coursehub-api/pkg/errors"
	"github.com/noah-isme/coursehub-api/pkg/validation"
)

func newFavoriteFixture() (*FavoriteService, *fakeFavoriteRepo) {
	courses := newFakeCourseRepo(
		&models.Course{ID: "c1", Title: "Go", Active: true, InstructorID: "i1"},
		&models.Course{ID: "c2", Title: "Retired", Active: false, InstructorID: "i1"},
	)
	repo := newFakeFavoriteRepo()
	return NewFavoriteService(repo, courses, validation.New(), nil), repo
}

func TestFavoriteServiceAddTwiceKeepsOneActiveEntry(t *testing.T) {
	svc, repo := newFavoriteFixture()
	req := models.FavoriteRequest{StudentID: "s1", CourseID: "c1"}

	first, err := svc.Add(context.Background(), req, studentClaims("s1"))
	require.NoError(t, err)
	second, err := svc.Add(context.Background(), req, studentClaims("s1"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Active)
	assert.Equal(t, 1, repo.count("s1", "c1"))
}

func TestFavoriteServiceAddRemoveAdd(t *testing.T) {
	svc, repo := newFavoriteFixture()
	req := models.FavoriteRequest{StudentID: "s1", CourseID: "c1"}
	ctx := context.Background()

	added, err := svc.Add(ctx, req, studentClaims("s1"))
	require.NoError(t, err)

	removed, err := svc.Remove(ctx, req, studentClaims("s1"))
	require.NoError(t, err)
	assert.False(t, removed.Active)

	list, err := svc.ListActive(ctx, studentClaims("s1"))
	require.NoError(t, err)
	assert.Empty(t, list)

	readded, err := svc.Add(ctx, req, studentClaims("s1"))
	require.NoError(t, err)
	assert.True(t, readded.Active)
	assert.Equal(t, added.ID, readded.ID)
	assert.Equal(t, 1, repo.count("s1", "c1"))

	list, err = svc.ListActive(ctx, studentClaims("s1"))
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFavoriteServiceRemoveWithoutEntry(t *testing.T) {
	svc, _ := newFavoriteFixture()

	_, err := svc.Remove(context.Background(), models.FavoriteRequest{StudentID: "s1", CourseID: "c1"}, studentClaims("s1"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "favorite course not found", appErr.Message)
}

func TestFavoriteServiceRemoveTwice(t *testing.T) {
	svc, _ := newFavoriteFixture()
	req := models.FavoriteRequest{StudentID: "s1", CourseID: "c1"}
	_, err := svc.Add(context.Background(), req, studentClaims("s1"))
	require.NoError(t, err)
	_, err = svc.Remove(context.Background(), req, studentClaims("s1"))
	require.NoError(t, err)

	_, err = svc.Remove(context.Background(), req, studentClaims("s1"))
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestFavoriteServiceAddInactiveCourse(t *testing.T) {
	svc, repo := newFavoriteFixture()

	_, err := svc.Add(context.Background(), models.FavoriteRequest{StudentID: "s1", CourseID: "c2"}, studentClaims("s1"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "course is not available", appErr.Message)
	assert.Zero(t, repo.count("s1", "c2"))

	_, err = svc.Add(context.Background(), models.FavoriteRequest{StudentID: "s1", CourseID: "missing"}, studentClaims("s1"))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestFavoriteServiceAddByInstructor(t *testing.T) {
	svc, _ := newFavoriteFixture()

	_, err := svc.Add(context.Background(), models.FavoriteRequest{StudentID: "i1", CourseID: "c1"}, instructorClaims("i1"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, "only students can add favorites", appErr.Message)
}

func TestFavoriteServiceForAnotherStudent(t *testing.T) {
	svc, repo := newFavoriteFixture()
	req := models.FavoriteRequest{StudentID: "s2", CourseID: "c1"}

	_, err := svc.Add(context.Background(), req, studentClaims("s1"))
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	assert.Zero(t, repo.count("s2", "c1"))

	_, err = svc.Remove(context.Background(), req, studentClaims("s1"))
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}
