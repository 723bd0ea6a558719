package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/coursehub-api/api/swagger"
	"github.com/noah-isme/coursehub-api/internal/handler"
	"github.com/noah-isme/coursehub-api/internal/repository"
	"github.com/noah-isme/coursehub-api/internal/router"
	"github.com/noah-isme/coursehub-api/internal/service"
	"github.com/noah-isme/coursehub-api/pkg/cache"
	"github.com/noah-isme/coursehub-api/pkg/config"
	"github.com/noah-isme/coursehub-api/pkg/database"
	"github.com/noah-isme/coursehub-api/pkg/llm"
	"github.com/noah-isme/coursehub-api/pkg/logger"
	"github.com/noah-isme/coursehub-api/pkg/markdown"
	"github.com/noah-isme/coursehub-api/pkg/validation"
)

// @title CourseHub API
// @version 1.0.0
// @description Course catalog with favorites and a course-scoped question relay.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	validate := validation.New()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.MigrateUp(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logr.Info("database migrations applied")
	}

	checks := map[string]handler.Pinger{"postgres": db}

	var redisClient redis.UniversalClient
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, course cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			redisClient = client
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient)
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(cacheRepo.Ping)
	}

	provider, err := llm.New(ctx, cfg.LLM.Provider, llm.Config{APIKey: cfg.LLM.APIKey})
	if err != nil {
		logr.Warn("completion provider unavailable, chat will answer with the fallback", zap.Error(err))
	}
	if closer, ok := provider.(io.Closer); ok {
		defer closer.Close()
	}

	var renderer service.AnswerRenderer
	if cfg.Chat.RenderMarkdown {
		renderer = markdown.NewRenderer()
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.CourseTTL, logr, redisClient != nil)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		SingleSession:      cfg.JWT.SingleSession,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, userRepo, userRepo, cacheSvc, validate, logr)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, courseRepo, validate, logr)
	chatSvc := service.NewChatService(courseSvc, provider, renderer, metrics, validate, logr, service.ChatConfig{
		Timeout:   cfg.LLM.Timeout,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	exportSvc := service.NewExportService(courseRepo, logr)

	engine := router.New(cfg, router.Dependencies{
		Logger:    logr,
		Metrics:   metrics,
		Tokens:    authSvc,
		Audit:     userRepo,
		Auth:      handler.NewAuthHandler(authSvc),
		Users:     handler.NewUserHandler(userSvc),
		Courses:   handler.NewCourseHandler(courseSvc, exportSvc),
		Chat:      handler.NewChatHandler(chatSvc),
		Favorites: handler.NewFavoriteHandler(favoriteSvc),
		Ops:       handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("llm_provider", provider.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
