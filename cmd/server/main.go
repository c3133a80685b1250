package main

import (
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/charity-task-api/internal/cache"
	"github.com/yukikurage/charity-task-api/internal/config"
	"github.com/yukikurage/charity-task-api/internal/constants"
	"github.com/yukikurage/charity-task-api/internal/database"
	"github.com/yukikurage/charity-task-api/internal/handlers"
	"github.com/yukikurage/charity-task-api/internal/middleware"
	"github.com/yukikurage/charity-task-api/internal/repository"
	"github.com/yukikurage/charity-task-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	logger := logrus.StandardLogger()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(database.GetDB()); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,    // Redis pool size
		"tcp", // network type
		cfg.RedisAddr(),
		cfg.RedisPassword,
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create Redis store")
	}
	isProduction := cfg.GinMode == gin.ReleaseMode
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	benefactorRepo := repository.NewBenefactorRepository(db)
	charityRepo := repository.NewCharityRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, services.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.TokenTTL,
	}, cache.NewTokenDenylist(rdb))
	profileService := services.NewProfileService(benefactorRepo, charityRepo, logger)
	taskService := services.NewTaskService(taskRepo, benefactorRepo, charityRepo, logger)
	relevanceService := services.NewRelevanceService(taskRepo, benefactorRepo, charityRepo)

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		Profile: handlers.NewProfileHandler(profileService),
		Task:    handlers.NewTaskHandler(taskService, relevanceService),
	}, authService)

	// Start server
	logger.WithField("addr", cfg.HTTPAddr).Info("Server starting")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.WithError(err).Fatal("Failed to start server")
	}
}
