package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/coursehub-api/internal/models"
)

const favoriteColumns = `id, student_id, course_id, active, created_at, updated_at`

// FavoriteRepository is the (student, course) favorite index. It performs no
// role or course-state checks; callers validate before writing.
type FavoriteRepository struct {
	db *sqlx.DB
}

// NewFavoriteRepository creates a new instance of FavoriteRepository.
func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Upsert creates the entry or reactivates the existing one for the pair.
func (r *FavoriteRepository) Upsert(ctx context.Context, studentID, courseID string) (*models.Favorite, error) {
	query := `INSERT INTO favorite_courses (id, student_id, course_id, active, created_at, updated_at) VALUES ($1, $2, $3, TRUE, $4, $4)
ON CONFLICT (student_id, course_id) DO UPDATE SET active = TRUE, updated_at = EXCLUDED.updated_at
RETURNING ` + favoriteColumns
	var fav models.Favorite
	if err := r.db.GetContext(ctx, &fav, query, uuid.NewString(), studentID, courseID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("upsert favorite: %w", err)
	}
	return &fav, nil
}

// Deactivate marks an active entry inactive. It returns sql.ErrNoRows when the
// pair has no entry or the entry is already inactive.
func (r *FavoriteRepository) Deactivate(ctx context.Context, studentID, courseID string) (*models.Favorite, error) {
	query := `UPDATE favorite_courses SET active = FALSE, updated_at = $3 WHERE student_id = $1 AND course_id = $2 AND active = TRUE RETURNING ` + favoriteColumns
	var fav models.Favorite
	if err := r.db.GetContext(ctx, &fav, query, studentID, courseID, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("deactivate favorite: %w", err)
	}
	return &fav, nil
}

// ListActiveByStudent returns a student's active favorites with course details.
func (r *FavoriteRepository) ListActiveByStudent(ctx context.Context, studentID string) ([]models.FavoriteDetail, error) {
	const query = `SELECT f.id, f.student_id, f.course_id, f.active, f.created_at, f.updated_at,
c.title AS course_title, c.description AS course_description, TRIM(u.first_name || ' ' || u.last_name) AS instructor_name
FROM favorite_courses f
JOIN courses c ON c.id = f.course_id
JOIN users u ON u.id = c.instructor_id
WHERE f.student_id = $1 AND f.active = TRUE
ORDER BY c.title ASC`
	var favorites []models.FavoriteDetail
	if err := r.db.SelectContext(ctx, &favorites, query, studentID); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}
