package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/coursehub-api/internal/models"
)

func TestIsCourseOwner(t *testing.T) {
	course := &models.Course{ID: "c1", InstructorID: "i1"}

	assert.True(t, IsCourseOwner(&models.JWTClaims{UserID: "i1", Role: models.RoleInstructor}, course))
	assert.False(t, IsCourseOwner(&models.JWTClaims{UserID: "i2", Role: models.RoleInstructor}, course))
	assert.False(t, IsCourseOwner(nil, course))
	assert.False(t, IsCourseOwner(&models.JWTClaims{UserID: "i1"}, nil))
	assert.False(t, IsCourseOwner(&models.JWTClaims{}, &models.Course{}))
}

func TestIsSelf(t *testing.T) {
	actor := &models.JWTClaims{UserID: "u1"}

	assert.True(t, IsSelf(actor, "u1"))
	assert.False(t, IsSelf(actor, "u2"))
	assert.False(t, IsSelf(nil, "u1"))
	assert.False(t, IsSelf(&models.JWTClaims{}, ""))
}

func TestRoleHelpers(t *testing.T) {
	instructor := &models.JWTClaims{UserID: "i1", Role: models.RoleInstructor}
	student := &models.JWTClaims{UserID: "s1", Role: models.RoleStudent}

	assert.True(t, IsInstructor(instructor))
	assert.False(t, IsInstructor(student))
	assert.True(t, IsStudent(student))
	assert.False(t, IsStudent(nil))
	assert.True(t, HasRole(student, models.RoleInstructor, models.RoleStudent))
	assert.False(t, HasRole(student))
}
