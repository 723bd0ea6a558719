package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/policy"
	appErrors "github.com/noah-isme/coursehub-api/pkg/errors"
	"github.com/noah-isme/coursehub-api/pkg/logger"
)

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	ToggleActive(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, int, error)
	ListAllActiveByInstructor(ctx context.Context, instructorID string) ([]models.CourseSummary, error)
}

type courseUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type courseAuditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

const (
	defaultCoursePageSize = 20
	maxCoursePageSize     = 100
)

var contextTooLongMessage = fmt.Sprintf("context must not exceed %d words", models.CourseContextMaxWords)

// CourseService implements the course store.
type CourseService struct {
	repo      courseRepository
	users     courseUserReader
	audit     courseAuditLogger
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService. cache and audit may be nil.
func NewCourseService(repo courseRepository, users courseUserReader, audit courseAuditLogger, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{repo: repo, users: users, audit: audit, cache: cache, validator: validate, logger: logger}
}

// Create publishes a course for the acting instructor. Nothing is stored when any check fails.
func (s *CourseService) Create(ctx context.Context, req models.CreateCourseRequest, actor *models.JWTClaims) (*models.Course, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Context = strings.TrimSpace(req.Context)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidator(err, "invalid course payload")
	}
	if WordCount(req.Context) > models.CourseContextMaxWords {
		return nil, appErrors.Validation("context", contextTooLongMessage)
	}
	if !policy.IsSelf(actor, req.InstructorID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "courses can only be created for yourself")
	}

	instructor, err := s.users.FindByID(ctx, req.InstructorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Validation("instructor_id", "user does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	if instructor.Role != models.RoleInstructor {
		return nil, appErrors.Validation("instructor_id", "only instructors can create courses")
	}

	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		Context:      req.Context,
		Active:       true,
		InstructorID: instructor.ID,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.record(ctx, actor, models.AuditActionCourseCreate, course, nil)
	return course, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// GetContext returns "{title}: {context}" for a course, or "Without context"
// when the course does not exist. Storage failures are returned as errors.
func (s *CourseService) GetContext(ctx context.Context, id string) (string, error) {
	key := CourseContextKey(id)
	var cached string
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NoCourseContext, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course context")
	}

	text := fmt.Sprintf("%s: %s", course.Title, course.Context)
	s.cache.Set(ctx, key, text, 0)
	return text, nil
}

// Update applies the provided fields. Only the owning instructor may update.
func (s *CourseService) Update(ctx context.Context, id string, req models.UpdateCourseRequest, actor *models.JWTClaims) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidator(err, "invalid course payload")
	}
	if req.Context != nil && WordCount(*req.Context) > models.CourseContextMaxWords {
		return nil, appErrors.Validation("context", contextTooLongMessage)
	}

	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.IsCourseOwner(actor, course) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the course instructor can modify this course")
	}
	before := *course

	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		course.Description = strings.TrimSpace(*req.Description)
	}
	if req.Context != nil {
		course.Context = strings.TrimSpace(*req.Context)
	}
	if req.Active != nil {
		course.Active = *req.Active
	}
	if course.Title == "" || course.Description == "" || course.Context == "" {
		return nil, appErrors.Validation("course", "title, description and context cannot be blank")
	}

	if err := s.repo.Update(ctx, course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.cache.Invalidate(ctx, CourseContextKey(id))
	s.record(ctx, actor, models.AuditActionCourseUpdate, course, &before)
	return course, nil
}

// ToggleActive flips the course's active flag. Only the owning instructor may toggle.
func (s *CourseService) ToggleActive(ctx context.Context, id string, actor *models.JWTClaims) (*models.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.IsCourseOwner(actor, course) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the course instructor can modify this course")
	}

	toggled, err := s.repo.ToggleActive(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle course")
	}

	s.cache.Invalidate(ctx, CourseContextKey(id))
	s.record(ctx, actor, models.AuditActionCourseToggle, toggled, course)
	return toggled, nil
}

// List returns active courses with pagination metadata.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, *models.Pagination, error) {
	filter = normalizeCourseFilter(filter)
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	if courses == nil {
		courses = []models.CourseSummary{}
	}

	return courses, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListOwn lists the acting instructor's active courses.
func (s *CourseService) ListOwn(ctx context.Context, actor *models.JWTClaims, filter models.CourseFilter) ([]models.CourseSummary, *models.Pagination, error) {
	if !policy.IsInstructor(actor) {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "only instructors have own courses")
	}
	filter.InstructorID = actor.UserID
	return s.List(ctx, filter)
}

func (s *CourseService) record(ctx context.Context, actor *models.JWTClaims, action string, after, before *models.Course) {
	if s.audit == nil || actor == nil {
		return
	}
	var oldValues []byte
	if before != nil {
		oldValues, _ = json.Marshal(before)
	}
	newValues, _ := json.Marshal(after)
	userID := actor.UserID
	courseID := after.ID
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "courses",
		ResourceID: &courseID,
		OldValues:  oldValues,
		NewValues:  newValues,
	}); err != nil {
		logger.FromContext(ctx, s.logger).Warn("failed to record course audit log", zap.String("action", action), zap.Error(err))
	}
}

func normalizeCourseFilter(filter models.CourseFilter) models.CourseFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > maxCoursePageSize {
		filter.PageSize = defaultCoursePageSize
	}
	return filter
}
