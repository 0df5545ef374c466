// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"clipstream/internal/cache"
	"clipstream/internal/config"
	"clipstream/internal/database"
	"clipstream/internal/middleware"
	"clipstream/internal/models"
	"clipstream/internal/repository"
	"clipstream/internal/service"
	"clipstream/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config           *config.Config
	db               *gorm.DB
	redis            *redis.Client
	app              *fiber.App
	promMiddleware   *fiberprometheus.FiberPrometheus
	userRepo         repository.UserRepository
	videoRepo        repository.VideoRepository
	likeRepo         repository.LikeRepository
	store            *storage.LocalStore
	likeService      *service.LikeService
	feedService      *service.FeedService
	videoService     *service.VideoService
	thumbnailService *service.ThumbnailService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	store, err := storage.NewLocalStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("media store init failed: %w", err)
	}

	return newServer(cfg, db, redisClient, store), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	store, err := storage.NewLocalStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("media store init failed: %w", err)
	}
	return newServer(cfg, db, redisClient, store), nil
}

func newServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store *storage.LocalStore) *Server {
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	prom := middleware.InitMetrics("clipstream-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		videoRepo:      videoRepo,
		likeRepo:       likeRepo,
		store:          store,
	}
	server.likeService = service.NewLikeService(likeRepo)
	server.feedService = service.NewFeedService(videoRepo, likeRepo)
	server.videoService = service.NewVideoService(videoRepo, likeRepo)
	server.thumbnailService = service.NewThumbnailService(store, cfg.MaxThumbnailUploadMB)

	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Distributed tracing spans
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Clipstream Metrics Dashboard",
	}))

	// Stored media is served directly from disk.
	app.Static("/media", s.store.Dir())

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", s.Refresh)
	auth.Post("/logout", s.Logout)

	// Public feed and video browsing. Like state is resolved when the caller
	// presents a valid token, so these go through optionalUserID rather than
	// AuthRequired.
	api.Get("/feed", s.GetFeed)
	videos := api.Group("/videos")
	videos.Get("/:id", s.GetVideo)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	protectedVideos := protected.Group("/videos")
	protectedVideos.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_video"), s.CreateVideo)
	protectedVideos.Post("/:id/like", s.LikeVideo)
	protectedVideos.Delete("/:id/like", s.UnlikeVideo)

	// Binary uploads
	uploads := protected.Group("/uploads")
	uploads.Post("/video", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "upload_video"), s.UploadVideo)
	uploads.Post("/thumbnail", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "upload_thumbnail"), s.UploadThumbnail)

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/me/likes", s.GetMyLikes)

	// Public user routes; specific /:id/:resource routes BEFORE generic /:id
	publicUsers := api.Group("/users")
	publicUsers.Get("/:id/videos", s.GetUserVideos)
	publicUsers.Get("/:id", s.GetUserProfile)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is considered required for full readiness in this app
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, jti, err := s.parseToken(c, tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		// Check JTI for revocation
		if jti != "" && s.redis != nil {
			isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
			if err == nil && isBlacklisted > 0 {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Token has been revoked"))
			}
		}

		// Store user ID in context
		c.Locals("userID", userID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// parseToken validates the JWT and returns the subject user ID and jti.
func (s *Server) parseToken(_ *fiber.Ctx, tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", models.NewUnauthorizedError("Invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "clipstream-api" {
		return 0, "", models.NewUnauthorizedError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "clipstream-client" {
		return 0, "", models.NewUnauthorizedError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, "", models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, "", models.NewUnauthorizedError("Invalid user ID in token")
	}

	jti, _ := claims["jti"].(string)
	return uint(userID), jti, nil
}

// optionalUserID attempts to extract userID from the Authorization header but
// does not enforce it. Anonymous callers get zero.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	userID, _, err := s.parseToken(c, parts[1])
	if err != nil {
		return 0, false
	}
	return userID, true
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Clipstream API",
		BodyLimit: (s.config.MaxVideoUploadMB + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
