package app

import (
	"context"
	"fmt"
	"time"

	"timebridge_backend/database"
	"timebridge_backend/internal/aiclient"
	"timebridge_backend/internal/config"
	"timebridge_backend/internal/email"
	"timebridge_backend/internal/handlers"
	"timebridge_backend/internal/imageprocessor"
	"timebridge_backend/internal/imagestore"
	"timebridge_backend/internal/logger"
	"timebridge_backend/internal/middleware"
	"timebridge_backend/internal/repositories"
	"timebridge_backend/internal/routes"
	"timebridge_backend/internal/services"
	"timebridge_backend/internal/session"
	"timebridge_backend/internal/storage"
	"timebridge_backend/internal/validator"
	"timebridge_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("Redis unavailable", "error", err)
	}
	logger.Info("Redis connected", "addr", cfg.Redis.Addr)

	ginRouter := SetupRouter(cfg, gormDB, redisClient)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, redisClient *redis.Client) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	sessions := session.NewManager(redisClient, time.Duration(cfg.Redis.SessionTTL)*time.Second)

	// Репозитории
	userRepo := repositories.NewUserRepository()
	postRepo := repositories.NewPostRepository()
	auditRepo := repositories.NewSyncAuditRepository()

	// AI-клиенты
	timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	agingClient := aiclient.NewAgingClient(cfg.AI.AgingURL, timeout)
	similarityClient := aiclient.NewSimilarityClient(cfg.AI.SimilarityURL, cfg.AI.AttrSimilarityURL, timeout)
	indexClient := aiclient.NewIndexClient(indexEndpoints(cfg), timeout)

	// Фоновая рассылка по индексам
	notifier := workers.NewIndexNotifier(gormDB, indexClient, auditRepo, cfg.AI.NotifyQueueSize)
	notifier.Start(context.Background(), cfg.AI.NotifyWorkers)

	// Сервисы
	images := imagestore.New(storageInstance)
	processor := imageprocessor.New(cfg.Upload.MaxImageDim)
	mailer := email.NewSender(cfg)

	postService := services.NewPostService(postRepo, auditRepo, images, processor, agingClient, notifier)
	similarityService := services.NewSimilarityService(postRepo, similarityClient, postService)
	userService := services.NewUserService(userRepo, postRepo, sessions, mailer, postService)

	serviceContainer := services.NewServiceContainer(postService, similarityService, userService)

	// Хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer)

	ginRouter := initializeGinRouter(cfg, gormDB)

	staticDir := ""
	if cfg.Storage.Type == "local" {
		staticDir = cfg.Storage.BasePath
	}
	routes.RegisterRoutes(ginRouter, appHandlers, sessions, userRepo, staticDir)

	return ginRouter
}

func initializeHandlers(cfg *config.Config, sc *services.ServiceContainer) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		UserHandler:       handlers.NewUserHandler(base, sc.UserService),
		PostHandler:       handlers.NewPostHandler(base, sc.PostService, cfg.Upload.MaxSize),
		SimilarityHandler: handlers.NewSimilarityHandler(base, sc.SimilarityService),
		AdminHandler:      handlers.NewAdminHandler(base, sc.PostService),
	}
}

func initializeGinRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.CORSMiddleware())
	ginRouter.Use(middleware.DBMiddleware(gormDB))

	return ginRouter
}

func indexEndpoints(cfg *config.Config) []aiclient.Endpoint {
	endpoints := make([]aiclient.Endpoint, 0, len(cfg.AI.IndexEndpoints))
	for _, e := range cfg.AI.IndexEndpoints {
		endpoints = append(endpoints, aiclient.Endpoint{
			Name:         e.Name,
			InsertURL:    e.InsertURL,
			UpdateURL:    e.UpdateURL,
			DeleteURL:    e.DeleteURL,
			UpdateMethod: e.UpdateMethod,
		})
	}
	return endpoints
}
