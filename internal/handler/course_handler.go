package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/service"
	"github.com/noah-isme/coursehub-api/pkg/response"
)

type courseService interface {
	Create(ctx context.Context, req models.CreateCourseRequest, actor *models.JWTClaims) (*models.Course, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	Update(ctx context.Context, id string, req models.UpdateCourseRequest, actor *models.JWTClaims) (*models.Course, error)
	ToggleActive(ctx context.Context, id string, actor *models.JWTClaims) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, *models.Pagination, error)
	ListOwn(ctx context.Context, actor *models.JWTClaims, filter models.CourseFilter) ([]models.CourseSummary, *models.Pagination, error)
}

type catalogExporter interface {
	ExportOwnCatalog(ctx context.Context, actor *models.JWTClaims, format string) (*service.ExportResult, error)
}

// CourseHandler exposes the course catalog.
type CourseHandler struct {
	courses courseService
	export  catalogExporter
}

// NewCourseHandler constructs a CourseHandler.
func NewCourseHandler(courses courseService, export catalogExporter) *CourseHandler {
	return &CourseHandler{courses: courses, export: export}
}

// List godoc
// @Summary List courses
// @Description Active courses with their instructor's name, ordered by title
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Title search"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, pagination, err := h.courses.List(c.Request.Context(), courseFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination)
}

// ListOwn godoc
// @Summary List own courses
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /courses/own [get]
func (h *CourseHandler) ListOwn(c *gin.Context) {
	claims := currentUser(c)
	if claims == nil {
		return
	}
	courses, pagination, err := h.courses.ListOwn(c.Request.Context(), claims, courseFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination)
}

// Export godoc
// @Summary Export own catalog
// @Tags Courses
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /courses/own/export [get]
func (h *CourseHandler) Export(c *gin.Context) {
	claims := currentUser(c)
	if claims == nil {
		return
	}
	result, err := h.export.ExportOwnCatalog(c.Request.Context(), claims, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	claims := currentUser(c)
	if claims == nil {
		return
	}

	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid course payload"))
		return
	}

	course, err := h.courses.Create(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Get godoc
// @Summary Get course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Update godoc
// @Summary Update course
// @Description Applies only the provided fields. Owner only.
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body models.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	claims := currentUser(c)
	if claims == nil {
		return
	}

	var req models.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid course payload"))
		return
	}

	course, err := h.courses.Update(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Toggle godoc
// @Summary Toggle course visibility
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/toggle [post]
func (h *CourseHandler) Toggle(c *gin.Context) {
	claims := currentUser(c)
	if claims == nil {
		return
	}

	course, err := h.courses.ToggleActive(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}
