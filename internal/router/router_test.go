package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/coursehub-api/internal/handler"
	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/pkg/config"
	appErrors "github.com/noah-isme/coursehub-api/pkg/errors"
)

type staticTokens map[string]*models.JWTClaims

func (s staticTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	claims, ok := s[token]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return claims, nil
}

func newTestRouter(env string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: env, APIPrefix: "/api/v1"}
	return New(cfg, Dependencies{
		Tokens: staticTokens{
			"instructor": {UserID: "i1", Role: models.RoleInstructor},
			"student":    {UserID: "s1", Role: models.RoleStudent},
		},
		Auth:      handler.NewAuthHandler(nil),
		Users:     handler.NewUserHandler(nil),
		Courses:   handler.NewCourseHandler(nil, nil),
		Chat:      handler.NewChatHandler(nil),
		Favorites: handler.NewFavoriteHandler(nil),
		Ops:       handler.NewMetricsHandler(nil, nil),
	})
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouterHealthIsPublic(t *testing.T) {
	r := newTestRouter(config.EnvDevelopment)

	w := serve(r, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouterRequiresToken(t *testing.T) {
	r := newTestRouter(config.EnvDevelopment)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/v1/courses", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/v1/courses", "forged").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodPost, "/api/v1/courses/c1/chat", "").Code)
}

func TestRouterRoleGates(t *testing.T) {
	r := newTestRouter(config.EnvDevelopment)

	cases := []struct {
		method, path, token string
	}{
		{http.MethodPost, "/api/v1/courses", "student"},
		{http.MethodGet, "/api/v1/courses/own", "student"},
		{http.MethodGet, "/api/v1/courses/own/export", "student"},
		{http.MethodPut, "/api/v1/courses/c1", "student"},
		{http.MethodPost, "/api/v1/courses/c1/toggle", "student"},
		{http.MethodGet, "/api/v1/favorites", "instructor"},
		{http.MethodPost, "/api/v1/favorites", "instructor"},
		{http.MethodPost, "/api/v1/favorites/remove", "instructor"},
		{http.MethodGet, "/api/v1/users/someone-else", "student"},
		{http.MethodPut, "/api/v1/users/someone-else/password", "instructor"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			assert.Equal(t, http.StatusForbidden, serve(r, tc.method, tc.path, tc.token).Code)
		})
	}
}

func TestRouterDocsDisabledInProduction(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, serve(newTestRouter(config.EnvProduction), http.MethodGet, "/docs/index.html", "").Code)
}
