// Package policy holds the access rules shared by services. Every predicate
// is pure and returns false for a nil actor or resource.
package policy

import "github.com/noah-isme/coursehub-api/internal/models"

// IsCourseOwner reports whether actor is the instructor of course.
func IsCourseOwner(actor *models.JWTClaims, course *models.Course) bool {
	if actor == nil || course == nil || actor.UserID == "" {
		return false
	}
	return actor.UserID == course.InstructorID
}

// IsSelf reports whether actor is the account identified by targetID.
func IsSelf(actor *models.JWTClaims, targetID string) bool {
	if actor == nil || actor.UserID == "" {
		return false
	}
	return actor.UserID == targetID
}

// IsInstructor reports whether actor holds the instructor role.
func IsInstructor(actor *models.JWTClaims) bool {
	return HasRole(actor, models.RoleInstructor)
}

// IsStudent reports whether actor holds the student role.
func IsStudent(actor *models.JWTClaims) bool {
	return HasRole(actor, models.RoleStudent)
}

// HasRole reports whether actor holds any of roles.
func HasRole(actor *models.JWTClaims, roles ...models.UserRole) bool {
	if actor == nil {
		return false
	}
	for _, r := range roles {
		if actor.Role == r {
			return true
		}
	}
	return false
}
