package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Gaurav220900/Social/internal/cache"
	"github.com/Gaurav220900/Social/internal/config"
	"github.com/Gaurav220900/Social/internal/domain"
	"github.com/Gaurav220900/Social/internal/handler"
	"github.com/Gaurav220900/Social/internal/realtime"
	"github.com/Gaurav220900/Social/internal/repository"
	"github.com/Gaurav220900/Social/internal/service"
	"github.com/Gaurav220900/Social/pkg/database"
	"github.com/Gaurav220900/Social/pkg/log"
	"github.com/Gaurav220900/Social/pkg/middleware"
	"github.com/Gaurav220900/Social/pkg/response"
	"github.com/Gaurav220900/Social/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	log.Init(cfg.Log)
	logger := log.L()

	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.FollowModel{},
		&domain.MessageModel{},
		&domain.ConversationModel{},
		&domain.NotificationModel{},
		&domain.PostModel{},
		&domain.CommentModel{},
		&domain.LikeModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database ready")

	var userCache cache.UserCache = cache.Noop{}
	if cfg.Redis.Address != "" {
		redisCache, err := cache.NewRedisUserCache(cfg.Redis, "social")
		if err != nil {
			logger.Fatal().Err(err).Str("address", cfg.Redis.Address).Msg("failed to connect to redis")
		}
		defer redisCache.Close()
		userCache = redisCache
		logger.Info().Str("address", cfg.Redis.Address).Msg("redis cache enabled")
	}

	tokens := token.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	authMiddleware := middleware.NewAuthMiddleware(tokens)

	registry := realtime.NewRegistry()
	router := realtime.NewRouter(registry)

	userRepo := repository.NewGormUserRepository(db)
	followRepo := repository.NewGormFollowRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)
	notificationRepo := repository.NewGormNotificationRepository(db)
	postRepo := repository.NewGormPostRepository(db)

	unread := service.NewUnreadAccountant(messageRepo, router)
	notifications := service.NewNotificationService(notificationRepo, userRepo, postRepo, router)
	chat := service.NewChatService(messageRepo, userRepo, registry, router, unread)
	social := service.NewSocialService(followRepo, userRepo, userCache, notifications)
	posts := service.NewPostService(postRepo, userRepo, router, notifications)
	users := service.NewUserService(userRepo, followRepo, userCache, cfg.Redis.CacheTTL, tokens)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(log.GinMiddleware(logger))

	engine.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	handler.NewUserHandler(users, social, posts, authMiddleware).RegisterRoutes(engine)
	handler.NewMessageHandler(chat, unread, authMiddleware).RegisterRoutes(engine)
	handler.NewNotificationHandler(notifications, authMiddleware).RegisterRoutes(engine)
	handler.NewPostHandler(posts, authMiddleware).RegisterRoutes(engine)
	handler.NewWSHandler(registry, unread, tokens, cfg.WebSocket).RegisterRoutes(engine)

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     engine,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("address", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("server stopped")
}
