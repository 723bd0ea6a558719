package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/pkg/response"
)

type favoriteService interface {
	Add(ctx context.Context, req models.FavoriteRequest, actor *models.JWTClaims) (*models.Favorite, error)
	Remove(ctx context.Context, req models.FavoriteRequest, actor *models.JWTClaims) (*models.Favorite, error)
	ListActive(ctx context.Context, actor *models.JWTClaims) ([]models.FavoriteDetail, error)
}

// FavoriteHandler manages a student's favorite courses.
type FavoriteHandler struct {
	service favoriteService
}

// NewFavoriteHandler constructs a FavoriteHandler.
func NewFavoriteHandler(svc favoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: svc}
}

// List godoc
// @Summary List favorites
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /favorites [get]
func (h *FavoriteHandler) List(c *gin.Context) {
	claims := currentUser(c)
	if claims == nil {
		return
	}
	favorites, err := h.service.ListActive(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, favorites)
}

// Add godoc
// @Summary Add favorite
// @Tags Favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.FavoriteRequest true "Student and course"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /favorites [post]
func (h *FavoriteHandler) Add(c *gin.Context) {
	h.mutate(c, h.service.Add)
}

// Remove godoc
// @Summary Remove favorite
// @Tags Favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.FavoriteRequest true "Student and course"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /favorites/remove [post]
func (h *FavoriteHandler) Remove(c *gin.Context) {
	h.mutate(c, h.service.Remove)
}

func (h *FavoriteHandler) mutate(c *gin.Context, op func(context.Context, models.FavoriteRequest, *models.JWTClaims) (*models.Favorite, error)) {
	claims := currentUser(c)
	if claims == nil {
		return
	}

	var req models.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid favorite payload"))
		return
	}

	favorite, err := op(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, favorite)
}
