package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/emre-dev/blog-platform/internal/config"     // Internal config loader
	"github.com/emre-dev/blog-platform/internal/database"   // MySQL connection setup
	"github.com/emre-dev/blog-platform/internal/handler"    // HTTP handlers
	"github.com/emre-dev/blog-platform/internal/middleware" // Rate limiting and caching
	"github.com/emre-dev/blog-platform/internal/queue"      // Moderation event consumer
	"github.com/emre-dev/blog-platform/internal/repository" // Data access layer
	"github.com/emre-dev/blog-platform/internal/router"     // Route registration
)

func main() {
	// Load a local .env when present.  In production the environment is
	// provided by the platform, so a missing file is not an error.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load() // Load environment config; fatal on missing values

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	// Redis backs the rate limiter and the response cache.  A nil client
	// disables both without taking the service down.
	rdb := config.NewRedisClient()

	// Repositories share the single database handle.
	users := repository.NewUserRepo(db)
	posts := repository.NewPostRepo(db)
	categories := repository.NewCategoryRepo(db)
	comments := repository.NewCommentRepo(db)
	likes := repository.NewLikeRepo(db)
	views := repository.NewViewRepo(db)

	// Handlers receive their dependencies explicitly; nothing reaches for
	// globals at request time.
	authH := handler.NewAuthHandler(cfg, users)
	blogH := handler.NewBlogHandler(posts, users, categories, likes, views)
	commentH := handler.NewCommentHandler(comments, posts, users)
	categoryH := handler.NewCategoryHandler(categories, posts)
	profileH := handler.NewProfileHandler(users, posts)
	adminBlogH := handler.NewAdminBlogHandler(posts, users)
	adminUserH := handler.NewAdminUserHandler(users)
	adminCategoryH := handler.NewAdminCategoryHandler(categories)

	e := echo.New()
	e.HideBanner = true

	// Global token-bucket rate limit keyed by ip, user and route.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// Shared response cache for the public listing endpoints.
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, authH)
	router.RegisterPublic(e, blogH, commentH, categoryH, profileH, cfg.JWTSecret, cacheMW)
	router.RegisterUser(e, blogH, commentH, profileH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminBlogH, adminUserH, adminCategoryH, cfg.JWTSecret)

	// The consumer runs for the life of the process and reconnects on its
	// own; a broker outage only pauses the audit log.
	go func() {
		if err := queue.StartModerationConsumer(); err != nil {
			log.Printf("moderation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
