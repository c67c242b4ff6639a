package main

import (
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/cache"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/common/logger"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/controllers"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/database"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/kafka"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/middleware"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/models"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/repository"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/routes"
	"github.com/AbdelrahmanBadr7422/plot-twist-backend/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Initialize("development")
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	logger.Initialize(cfg.Environment)
	defer func() { _ = logger.Log.Sync() }()

	db, err := database.Connect(cfg.Postgres)
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := models.Migrate(db); err != nil {
		zap.L().Fatal("Migration failed", zap.Error(err))
	}
	if cfg.SeedData {
		if err := database.Seed(db); err != nil {
			zap.L().Warn("Seeding failed", zap.Error(err))
		}
	}

	// Redis is optional; without it the catalog simply serves uncached.
	var bookCache *cache.BookCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		bookCache = cache.NewBookCache(rdb)
	}

	// Kafka is optional; order events are best-effort.
	var producer kafka.ProducerAPI
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer p.Close()
		producer = p
	}

	userRepo := repository.NewGormUserRepository(db)
	bookRepo := repository.NewGormBookRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	txManager := repository.NewGormTxManager(db)

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	authService := services.NewAuthService(userRepo, tokenService)
	bookService := services.NewBookService(bookRepo)
	orderService := services.NewOrderService(orderRepo, txManager, producer)

	authController := controllers.NewAuthController(authService)
	bookController := controllers.NewBookController(bookService, bookCache)
	orderController := controllers.NewOrderController(orderService, bookCache)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger(logger.Log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst))

	routes.Setup(router, authController, bookController, orderController, tokenService)

	zap.L().Info("Starting server", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		zap.L().Fatal("Server failed", zap.Error(err))
	}
}
