package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/policy"
	appErrors "github.com/noah-isme/coursehub-api/pkg/errors"
)

type favoriteRepository interface {
	Upsert(ctx context.Context, studentID, courseID string) (*models.Favorite, error)
	Deactivate(ctx context.Context, studentID, courseID string) (*models.Favorite, error)
	ListActiveByStudent(ctx context.Context, studentID string) ([]models.FavoriteDetail, error)
}

type favoriteCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// FavoriteService validates callers before touching the favorite index.
type FavoriteService struct {
	repo      favoriteRepository
	courses   favoriteCourseReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFavoriteService constructs a FavoriteService.
func NewFavoriteService(repo favoriteRepository, courses favoriteCourseReader, validate *validator.Validate, logger *zap.Logger) *FavoriteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FavoriteService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// Add marks an active course as the acting student's favorite. Adding an
// existing or previously removed favorite leaves exactly one active entry.
func (s *FavoriteService) Add(ctx context.Context, req models.FavoriteRequest, actor *models.JWTClaims) (*models.Favorite, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidator(err, "invalid favorite payload")
	}
	if !policy.IsSelf(actor, req.StudentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "favorites can only be managed for yourself")
	}
	if !policy.IsStudent(actor) {
		return nil, appErrors.Validation("student_id", "only students can add favorites")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course == nil || !course.Active {
		return nil, appErrors.Validation("course_id", "course is not available")
	}

	fav, err := s.repo.Upsert(ctx, req.StudentID, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add favorite")
	}
	return fav, nil
}

// Remove deactivates the acting student's favorite entry for a course.
func (s *FavoriteService) Remove(ctx context.Context, req models.FavoriteRequest, actor *models.JWTClaims) (*models.Favorite, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidator(err, "invalid favorite payload")
	}
	if !policy.IsSelf(actor, req.StudentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "favorites can only be managed for yourself")
	}

	fav, err := s.repo.Deactivate(ctx, req.StudentID, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "favorite course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove favorite")
	}
	return fav, nil
}

// ListActive returns the acting student's active favorites.
func (s *FavoriteService) ListActive(ctx context.Context, actor *models.JWTClaims) ([]models.FavoriteDetail, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing authentication")
	}
	favorites, err := s.repo.ListActiveByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list favorites")
	}
	if favorites == nil {
		favorites = []models.FavoriteDetail{}
	}
	return favorites, nil
}
