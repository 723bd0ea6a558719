package models

import "time"

// Course limits.
const (
	CourseTitleMaxLen       = 100
	CourseDescriptionMaxLen = 200
	CourseContextMaxWords   = 130
)

// NoCourseContext is the chat context used when a course cannot be found.
const NoCourseContext = "Without context"

// Course is an instructor-owned unit of study.
type Course struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Context      string    `db:"context" json:"context"`
	Active       bool      `db:"active" json:"active"`
	InstructorID string    `db:"instructor_id" json:"instructor_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CourseSummary is a listed course enriched with its instructor's name.
type CourseSummary struct {
	Course
	InstructorName string `db:"instructor_name" json:"instructor_name"`
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	InstructorID string
	Search       string
	Page         int
	PageSize     int
}

// CreateCourseRequest publishes a course for an instructor.
type CreateCourseRequest struct {
	Title        string `json:"title" validate:"required,max=100"`
	Description  string `json:"description" validate:"required,max=200"`
	Context      string `json:"context" validate:"required"`
	InstructorID string `json:"instructor_id" validate:"required"`
}

// UpdateCourseRequest applies the provided fields only.
type UpdateCourseRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	Context     *string `json:"context" validate:"omitempty,min=1"`
	Active      *bool   `json:"active"`
}
