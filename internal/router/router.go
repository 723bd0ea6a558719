// Package router assembles the HTTP surface.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/coursehub-api/internal/handler"
	"github.com/noah-isme/coursehub-api/internal/middleware"
	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/service"
	"github.com/noah-isme/coursehub-api/pkg/config"
	"github.com/noah-isme/coursehub-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/coursehub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/coursehub-api/pkg/middleware/requestid"
)

// Dependencies are the handlers and cross-cutting collaborators served by the router.
type Dependencies struct {
	Logger    *zap.Logger
	Metrics   *service.MetricsService
	Tokens    middleware.TokenValidator
	Audit     middleware.AuditRecorder
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Courses   *handler.CourseHandler
	Chat      *handler.ChatHandler
	Favorites *handler.FavoriteHandler
	Ops       *handler.MetricsHandler
}

// New builds the gin engine with every route registered.
func New(cfg *config.Config, deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", deps.Ops.Health)
	r.GET("/ready", deps.Ops.Ready)
	r.GET("/metrics", deps.Ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	authenticated := middleware.JWT(deps.Tokens)
	instructor := middleware.RequireRoles(models.RoleInstructor)
	student := middleware.RequireRoles(models.RoleStudent)

	auth := api.Group("/auth")
	{
		auth.POST("/register", deps.Users.Register)
		auth.POST("/login", deps.Auth.Login)
		auth.POST("/refresh", deps.Auth.Refresh)
		auth.POST("/logout", authenticated, deps.Auth.Logout)
		auth.GET("/me", authenticated, deps.Auth.Me)
	}

	users := api.Group("/users/:id", authenticated, middleware.RBAC(middleware.Self))
	{
		users.GET("", deps.Users.Get)
		users.PUT("", deps.Users.Update)
		users.PUT("/password", deps.Users.ChangePassword)
	}

	courses := api.Group("/courses", authenticated)
	{
		courses.GET("", deps.Courses.List)
		courses.GET("/own", instructor, deps.Courses.ListOwn)
		courses.GET("/own/export", instructor, deps.Courses.Export)
		courses.POST("", instructor, deps.Courses.Create)
		courses.GET("/:id", deps.Courses.Get)
		courses.PUT("/:id", instructor, deps.Courses.Update)
		courses.POST("/:id/toggle", instructor, deps.Courses.Toggle)
		courses.POST("/:id/chat", deps.Chat.Ask)
	}

	favorites := api.Group("/favorites", authenticated, student)
	{
		favorites.GET("", deps.Favorites.List)
		favorites.POST("", middleware.Audit(deps.Audit, deps.Logger, models.AuditActionFavoriteAdd, "favorites"), deps.Favorites.Add)
		favorites.POST("/remove", middleware.Audit(deps.Audit, deps.Logger, models.AuditActionFavoriteRemove, "favorites"), deps.Favorites.Remove)
	}

	return r
}
