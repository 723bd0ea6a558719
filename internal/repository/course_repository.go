package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/coursehub-api/internal/models"
)

const courseColumns = `id, title, description, context, active, instructor_id, created_at, updated_at`

const courseSummarySelect = `SELECT c.id, c.title, c.description, c.context, c.active, c.instructor_id, c.created_at, c.updated_at, TRIM(u.first_name || ' ' || u.last_name) AS instructor_name FROM courses c JOIN users u ON u.id = c.instructor_id`

// CourseRepository persists courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, title, description, context, active, instructor_id, created_at, updated_at) VALUES (:id, :title, :description, :context, :active, :instructor_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID returns a course or sql.ErrNoRows when it does not exist.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return &course, nil
}

// Update writes the mutable fields. created_at and instructor_id never change.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET title = :title, description = :description, context = :context, active = :active, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		if isMalformedID(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("update course: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ToggleActive flips the active flag in one statement and returns the stored row.
func (r *CourseRepository) ToggleActive(ctx context.Context, id string) (*models.Course, error) {
	query := `UPDATE courses SET active = NOT active, updated_at = $2 WHERE id = $1 RETURNING ` + courseColumns
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("toggle course: %w", err)
	}
	return &course, nil
}

// List returns active courses with their instructor name, ordered by title.
// filter.Page and filter.PageSize must already be normalized by the caller.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, int, error) {
	where := ` WHERE c.active = TRUE`
	var args []interface{}

	if filter.InstructorID != "" {
		args = append(args, filter.InstructorID)
		where += fmt.Sprintf(" AND c.instructor_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		where += fmt.Sprintf(" AND (LOWER(c.title) LIKE $%d OR LOWER(c.description) LIKE $%d)", len(args), len(args))
	}

	offset := (filter.Page - 1) * filter.PageSize
	listQuery := fmt.Sprintf("%s%s ORDER BY c.title ASC, c.id ASC LIMIT %d OFFSET %d", courseSummarySelect, where, filter.PageSize, offset)
	var courses []models.CourseSummary
	if err := r.db.SelectContext(ctx, &courses, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM courses c" + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	return courses, total, nil
}

// ListAllActiveByInstructor returns every active course of an instructor, unpaginated.
func (r *CourseRepository) ListAllActiveByInstructor(ctx context.Context, instructorID string) ([]models.CourseSummary, error) {
	query := courseSummarySelect + ` WHERE c.active = TRUE AND c.instructor_id = $1 ORDER BY c.title ASC, c.id ASC`
	var courses []models.CourseSummary
	if err := r.db.SelectContext(ctx, &courses, query, instructorID); err != nil {
		return nil, fmt.Errorf("list instructor courses: %w", err)
	}
	return courses, nil
}
