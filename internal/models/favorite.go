package models

import "time"

// Favorite marks a course as a student's favorite. Rows are deactivated, never deleted.
type Favorite struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FavoriteDetail is an active favorite joined with its course.
type FavoriteDetail struct {
	Favorite
	CourseTitle       string `db:"course_title" json:"course_title"`
	CourseDescription string `db:"course_description" json:"course_description"`
	InstructorName    string `db:"instructor_name" json:"instructor_name"`
}

// FavoriteRequest identifies a (student, course) pair.
type FavoriteRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	CourseID  string `json:"course_id" validate:"required"`
}
