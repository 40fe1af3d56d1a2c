package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goaltracker/api/internal/config"
	"github.com/goaltracker/api/internal/db"
	"github.com/goaltracker/api/internal/middleware"
	"github.com/goaltracker/api/internal/repository"
	"github.com/goaltracker/api/internal/service"
	"github.com/goaltracker/api/internal/storage"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Cfg         *config.Config
	DB          *db.DB
	Redis       *redis.Client
	AuthLimiter middleware.Limiter
	AuthService *service.AuthService
	UserService *service.UserService
	FileService *service.FileService
	GoalService *service.GoalService
}

// Deps are the backends an App is assembled from. Storage and Redis are
// optional; DB may be nil when the repositories are not Mongo-backed.
type Deps struct {
	DB      *db.DB
	Redis   *redis.Client
	Users   repository.UserRepository
	Goals   repository.GoalRepository
	Storage storage.Storage
}

// New connects every configured backend and assembles the App.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = database.EnsureIndexes(ctx)
	if err != nil {
		_ = database.Close(context.Background())
		return nil, err
	}

	deps := Deps{
		DB:    database,
		Users: repository.NewUserRepository(database),
		Goals: repository.NewGoalRepository(database),
	}

	// Storage
	if cfg.StorageEnabled() {
		fileStorage, err := storage.New(ctx, cfg)
		if err != nil {
			_ = database.Close(context.Background())
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		deps.Storage = fileStorage
	} else {
		slog.Info("picture uploads disabled", "hint", "set S3_BUCKET to enable")
	}

	// Shared rate limiting
	if cfg.RedisURL != "" {
		client, err := connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			_ = database.Close(context.Background())
			return nil, err
		}
		deps.Redis = client
	}

	return Build(cfg, deps), nil
}

// Build wires repositories and backends into services.
func Build(cfg *config.Config, deps Deps) *App {
	var limiter middleware.Limiter
	if deps.Redis != nil {
		limiter = middleware.NewRedisRateLimiter(deps.Redis, cfg.AuthRateLimit, cfg.AuthRateWindow)
	} else {
		limiter = middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	}

	var fileService *service.FileService
	if deps.Storage != nil {
		fileService = service.NewFileService(deps.Storage)
	}

	userService := service.NewUserService(deps.Users)
	authService := service.NewAuthService(deps.Users, cfg.JWTSecret, cfg.JWTExpiry)
	goalService := service.NewGoalService(deps.Goals, userService, fileService)

	return &App{
		Cfg:         cfg,
		DB:          deps.DB,
		Redis:       deps.Redis,
		AuthLimiter: limiter,
		AuthService: authService,
		UserService: userService,
		FileService: fileService,
		GoalService: goalService,
	}
}

func connectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	slog.Info("redis connected", "addr", opts.Addr)
	return client, nil
}

// Close releases every backend connection.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close(ctx))
	}
	return errors.Join(errs...)
}
