package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/thereayou/anonchat/internal/cache"
	"github.com/thereayou/anonchat/internal/config"
	"github.com/thereayou/anonchat/internal/database"
	"github.com/thereayou/anonchat/internal/handlers"
	"github.com/thereayou/anonchat/internal/middleware"
	"github.com/thereayou/anonchat/internal/services"
	"github.com/thereayou/anonchat/pkg/auth"
	"gorm.io/gorm/logger"
)

type Server struct {
	Router   *gin.Engine
	DB       *database.Database
	Redis    *redis.Client
	Sessions *services.SessionService
	log      *slog.Logger
}

func NewServer(ctx context.Context, cfg config.Config, log *slog.Logger) (*Server, error) {
	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, logger.Warn)
	if err != nil {
		return nil, fmt.Errorf("database connect failed: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connect failed: %w", err)
	}

	sessions := services.NewSessionService(db, cache.NewSessionCache(rdb), auth.NewJWTManager(cfg.JWTSecret), log, services.SessionConfig{
		TTL:         cfg.SessionTTL,
		ReadThrough: cfg.SessionReadThrough,
	})
	messages := services.NewMessageService(db, log, services.MessageConfig{
		MaxContentLength: cfg.MaxContentLength,
		ListMaxLimit:     cfg.ListMaxLimit,
	})
	rooms := services.NewRoomService(db, log)

	gin.SetMode(cfg.GinMode)
	router := NewRouter(log, cfg.CORSOrigin, sessions, Handlers{
		Auth:   handlers.NewAuthHandler(sessions),
		Chat:   handlers.NewChatHandler(messages),
		Room:   handlers.NewRoomHandler(rooms),
		User:   handlers.NewUserHandler(sessions),
		Health: handlers.NewHealthHandler(map[string]handlers.Check{
			"database": db.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
	})

	return &Server{
		Router:   router,
		DB:       db,
		Redis:    rdb,
		Sessions: sessions,
		log:      log,
	}, nil
}

func NewRouter(log *slog.Logger, corsOrigin string, verifier middleware.TokenVerifier, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS(corsOrigin))
	APIEndpoints(router, h, verifier)
	return router
}

// Run слушает addr до отмены ctx, затем даёт запросам завершиться
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("Server starting", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server run error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) Close() {
	if err := s.Redis.Close(); err != nil {
		s.log.Warn("redis close failed", "error", err)
	}
	if err := s.DB.Close(); err != nil {
		s.log.Warn("database close failed", "error", err)
	}
}
