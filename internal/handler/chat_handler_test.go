package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/service"
	"github.com/noah-isme/coursehub-api/pkg/llm"
)

type stubCourseRepo struct {
	courses map[string]*models.Course
}

func (s *stubCourseRepo) Create(ctx context.Context, course *models.Course) error {
	s.courses[course.ID] = course
	return nil
}

func (s *stubCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (s *stubCourseRepo) Update(ctx context.Context, course *models.Course) error {
	s.courses[course.ID] = course
	return nil
}

func (s *stubCourseRepo) ToggleActive(ctx context.Context, id string) (*models.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c.Active = !c.Active
	return c, nil
}

func (s *stubCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, int, error) {
	return nil, 0, nil
}

func (s *stubCourseRepo) ListAllActiveByInstructor(ctx context.Context, instructorID string) ([]models.CourseSummary, error) {
	return nil, nil
}

type recordingProvider struct {
	answer  string
	err     error
	prompts []string
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	p.prompts = append(p.prompts, req.Prompt)
	return p.answer, p.err
}

func newChatFixture(provider llm.Provider) *ChatHandler {
	repo := &stubCourseRepo{courses: map[string]*models.Course{
		"c1": {ID: "c1", Title: "Test Course", Description: "d", Context: "Test context", Active: true, InstructorID: "i1"},
	}}
	courses := service.NewCourseService(repo, nil, nil, nil, nil, nil)
	chat := service.NewChatService(courses, provider, nil, nil, nil, nil, service.ChatConfig{})
	return NewChatHandler(chat)
}

func askCourse(t *testing.T, h *ChatHandler, courseID, question string) testEnvelope {
	t.Helper()
	c, w := newGinContext(http.MethodPost, "/courses/"+courseID+"/chat", mustJSON(t, models.AskQuestionRequest{Content: question}))
	c.Params = gin.Params{{Key: "id", Value: courseID}}
	h.Ask(c)
	env := decodeEnvelope(t, w)
	if env.Error == nil {
		require.Equal(t, http.StatusOK, w.Code)
	}
	return env
}

func TestChatHandlerRejectsLongQuestion(t *testing.T) {
	provider := &recordingProvider{answer: "unused"}
	h := newChatFixture(provider)

	c, w := newGinContext(http.MethodPost, "/courses/c1/chat", mustJSON(t, models.AskQuestionRequest{
		Content: strings.TrimSpace(strings.Repeat("go ", 41)),
	}))
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	h.Ask(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Invalid question", env.Error.Message)
	assert.Empty(t, provider.prompts)
}

func TestChatHandlerForwardsCourseContext(t *testing.T) {
	provider := &recordingProvider{answer: "It is about testing."}
	h := newChatFixture(provider)

	env := askCourse(t, h, "c1", "What is the context?")

	assert.JSONEq(t, `{"answer":"It is about testing."}`, string(env.Data))
	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "Test Course: Test context")
	assert.Contains(t, provider.prompts[0], "What is the context?")
}

func TestChatHandlerProviderFailureAnswersNoResponse(t *testing.T) {
	h := newChatFixture(&recordingProvider{err: errors.New("connection reset")})

	env := askCourse(t, h, "c1", "What is the context?")

	assert.JSONEq(t, `{"answer":"No response"}`, string(env.Data))
}

func TestChatHandlerUnknownCourseUsesFallbackContext(t *testing.T) {
	provider := &recordingProvider{answer: "The question is not related to the course"}
	h := newChatFixture(provider)

	askCourse(t, h, "missing", "What is Go?")

	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "using the context: Without context\n")
}

func TestChatHandlerMalformedBody(t *testing.T) {
	h := newChatFixture(&recordingProvider{})

	c, w := newGinContext(http.MethodPost, "/courses/c1/chat", []byte(`{"content":`))
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	h.Ask(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
