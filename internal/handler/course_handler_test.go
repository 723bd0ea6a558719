package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursehub-api/internal/middleware"
	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/service"
	appErrors "github.com/noah-isme/coursehub-api/pkg/errors"
)

type courseServiceMock struct {
	lastFilter models.CourseFilter
	lastActor  *models.JWTClaims
	list       []models.CourseSummary
	course     *models.Course
	err        error
}

func (m *courseServiceMock) Create(ctx context.Context, req models.CreateCourseRequest, actor *models.JWTClaims) (*models.Course, error) {
	m.lastActor = actor
	return m.course, m.err
}

func (m *courseServiceMock) Get(ctx context.Context, id string) (*models.Course, error) {
	return m.course, m.err
}

func (m *courseServiceMock) Update(ctx context.Context, id string, req models.UpdateCourseRequest, actor *models.JWTClaims) (*models.Course, error) {
	m.lastActor = actor
	return m.course, m.err
}

func (m *courseServiceMock) ToggleActive(ctx context.Context, id string, actor *models.JWTClaims) (*models.Course, error) {
	m.lastActor = actor
	return m.course, m.err
}

func (m *courseServiceMock) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, *models.Pagination, error) {
	m.lastFilter = filter
	return m.list, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(m.list)}, m.err
}

func (m *courseServiceMock) ListOwn(ctx context.Context, actor *models.JWTClaims, filter models.CourseFilter) ([]models.CourseSummary, *models.Pagination, error) {
	m.lastActor = actor
	return m.List(ctx, filter)
}

type exporterMock struct {
	format string
	result *service.ExportResult
	err    error
}

func (m *exporterMock) ExportOwnCatalog(ctx context.Context, actor *models.JWTClaims, format string) (*service.ExportResult, error) {
	m.format = format
	return m.result, m.err
}

func TestCourseHandlerListParsesPagination(t *testing.T) {
	svc := &courseServiceMock{list: []models.CourseSummary{{Course: models.Course{ID: "c1", Title: "Go"}, InstructorName: "Ada Lovelace"}}}
	h := NewCourseHandler(svc, &exporterMock{})

	c, w := newGinContext(http.MethodGet, "/courses?page=2&page_size=5&search=go", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CourseFilter{Page: 2, PageSize: 5, Search: "go"}, svc.lastFilter)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.TotalCount)
	assert.Contains(t, string(env.Data), `"instructor_name":"Ada Lovelace"`)
}

func TestCourseHandlerCreatePassesActor(t *testing.T) {
	svc := &courseServiceMock{course: &models.Course{ID: "c1", Title: "Go", Active: true}}
	h := NewCourseHandler(svc, &exporterMock{})
	actor := &models.JWTClaims{UserID: "i1", Role: models.RoleInstructor}

	c, w := newGinContext(http.MethodPost, "/courses", mustJSON(t, models.CreateCourseRequest{Title: "Go", Description: "d", Context: "ctx", InstructorID: "i1"}))
	c.Set(middleware.ContextUserKey, actor)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Same(t, actor, svc.lastActor)
}

func TestCourseHandlerUpdateForbidden(t *testing.T) {
	svc := &courseServiceMock{err: appErrors.Clone(appErrors.ErrForbidden, "not your course")}
	h := NewCourseHandler(svc, &exporterMock{})

	c, w := newGinContext(http.MethodPut, "/courses/c1", []byte(`{"title":"New"}`))
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "i2", Role: models.RoleInstructor})
	h.Update(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decodeEnvelope(t, w).Error.Code)
}

func TestCourseHandlerToggleRequiresIdentity(t *testing.T) {
	h := NewCourseHandler(&courseServiceMock{}, &exporterMock{})

	c, w := newGinContext(http.MethodPost, "/courses/c1/toggle", nil)
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	h.Toggle(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCourseHandlerGetNotFound(t *testing.T) {
	h := NewCourseHandler(&courseServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "course not found")}, &exporterMock{})

	c, w := newGinContext(http.MethodGet, "/courses/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseHandlerExportDownload(t *testing.T) {
	exporter := &exporterMock{result: &service.ExportResult{
		Filename:    "courses-20240402.csv",
		ContentType: "text/csv; charset=utf-8",
		Payload:     []byte("Title\nGo\n"),
	}}
	h := NewCourseHandler(&courseServiceMock{}, exporter)

	c, w := newGinContext(http.MethodGet, "/courses/own/export?format=csv", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "i1", Role: models.RoleInstructor})
	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", exporter.format)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="courses-20240402.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Title\nGo\n", w.Body.String())
}
