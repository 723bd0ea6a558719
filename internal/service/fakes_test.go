package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/coursehub-api/internal/models"
	appErrors "github.com/noah-isme/coursehub-api/pkg/errors"
	"github.com/noah-isme/coursehub-api/pkg/llm"
)

type fakeUserRepo struct {
	users       map[string]*models.User
	auditLogs   []*models.AuditLog
	revoked     []string
	createErr   error
	findByIDErr error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if f.findByIDErr != nil {
		return nil, f.findByIDErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	f.revoked = append(f.revoked, userID)
	return nil
}

func (f *fakeUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	f.auditLogs = append(f.auditLogs, log)
	return nil
}

type fakeCourseRepo struct {
	courses     map[string]*models.Course
	seq         int
	createCalls int
	findErr     error
	lastFilter  models.CourseFilter
}

func newFakeCourseRepo(courses ...*models.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{courses: make(map[string]*models.Course)}
	for _, c := range courses {
		repo.courses[c.ID] = c
	}
	return repo
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	f.createCalls++
	f.seq++
	if course.ID == "" {
		course.ID = fmt.Sprintf("course-%d", f.seq)
	}
	course.CreatedAt = time.Now().UTC()
	course.UpdatedAt = course.CreatedAt
	clone := *course
	f.courses[course.ID] = &clone
	return nil
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	c, ok := f.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := f.courses[course.ID]; !ok {
		return sql.ErrNoRows
	}
	clone := *course
	f.courses[course.ID] = &clone
	return nil
}

func (f *fakeCourseRepo) ToggleActive(ctx context.Context, id string) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c.Active = !c.Active
	clone := *c
	return &clone, nil
}

func (f *fakeCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, int, error) {
	f.lastFilter = filter
	var out []models.CourseSummary
	for _, c := range f.courses {
		if !c.Active {
			continue
		}
		if filter.InstructorID != "" && c.InstructorID != filter.InstructorID {
			continue
		}
		out = append(out, models.CourseSummary{Course: *c})
	}
	return out, len(out), nil
}

func (f *fakeCourseRepo) ListAllActiveByInstructor(ctx context.Context, instructorID string) ([]models.CourseSummary, error) {
	out, _, err := f.List(ctx, models.CourseFilter{InstructorID: instructorID})
	return out, err
}

type favoriteKey struct{ student, course string }

// fakeFavoriteRepo mirrors the single-row-per-pair semantics of the SQL index.
type fakeFavoriteRepo struct {
	mu      sync.Mutex
	entries map[favoriteKey]*models.Favorite
	seq     int
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{entries: make(map[favoriteKey]*models.Favorite)}
}

func (f *fakeFavoriteRepo) Upsert(ctx context.Context, studentID, courseID string) (*models.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := favoriteKey{studentID, courseID}
	fav, ok := f.entries[key]
	if !ok {
		f.seq++
		fav = &models.Favorite{ID: fmt.Sprintf("fav-%d", f.seq), StudentID: studentID, CourseID: courseID}
		f.entries[key] = fav
	}
	fav.Active = true
	clone := *fav
	return &clone, nil
}

func (f *fakeFavoriteRepo) Deactivate(ctx context.Context, studentID, courseID string) (*models.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fav, ok := f.entries[favoriteKey{studentID, courseID}]
	if !ok || !fav.Active {
		return nil, sql.ErrNoRows
	}
	fav.Active = false
	clone := *fav
	return &clone, nil
}

func (f *fakeFavoriteRepo) ListActiveByStudent(ctx context.Context, studentID string) ([]models.FavoriteDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FavoriteDetail
	for key, fav := range f.entries {
		if key.student == studentID && fav.Active {
			out = append(out, models.FavoriteDetail{Favorite: *fav})
		}
	}
	return out, nil
}

func (f *fakeFavoriteRepo) count(studentID, courseID string) int {
	if _, ok := f.entries[favoriteKey{studentID, courseID}]; ok {
		return 1
	}
	return 0
}

type fakeCacheRepo struct {
	data    map[string][]byte
	getErr  error
	deleted []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{data: make(map[string][]byte)}
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if f.getErr != nil {
		return f.getErr
	}
	raw, ok := f.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	ptr, ok := dest.(*string)
	if !ok {
		return errors.New("unsupported cache destination")
	}
	*ptr = string(raw)
	return nil
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.data[key] = []byte(fmt.Sprint(value))
	return nil
}

func (f *fakeCacheRepo) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

type fakeProvider struct {
	answer   string
	err      error
	calls    int
	requests []llm.CompletionRequest
	deadline bool
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	f.calls++
	f.requests = append(f.requests, req)
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeContextReader struct {
	text string
	err  error
}

func (f fakeContextReader) GetContext(ctx context.Context, id string) (string, error) {
	return f.text, f.err
}

func instructorClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleInstructor, FullName: "Ada Lovelace"}
}

func studentClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleStudent}
}
