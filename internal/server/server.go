// Package server contains the HTTP handlers for the application's endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "warbler/docs" // swagger docs
	"warbler/internal/cache"
	"warbler/internal/config"
	"warbler/internal/database"
	"warbler/internal/featureflags"
	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/service"
	"warbler/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *session.Store
	featureFlags   *featureflags.Manager

	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	followRepo  repository.FollowRepository
	likeRepo    repository.LikeRepository

	authService         *service.AuthService
	userService         *service.UserService
	messageService      *service.MessageService
	relationshipService *service.RelationshipService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	prom := middleware.InitMetrics("warbler-api")

	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
	flags := featureflags.NewManager(cfg.FeatureFlags)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		sessions:       session.NewStore(cfg.SessionSecret, ttl, redisClient),
		featureFlags:   flags,
		userRepo:       userRepo,
		messageRepo:    messageRepo,
		followRepo:     followRepo,
		likeRepo:       likeRepo,
	}
	server.authService = service.NewAuthService(userRepo)
	server.userService = service.NewUserService(userRepo, messageRepo, followRepo, likeRepo)
	server.messageService = service.NewMessageService(messageRepo)
	server.relationshipService = service.NewRelationshipService(followRepo, likeRepo, userRepo, messageRepo, flags)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// CORS middleware runs before middlewares that can short-circuit (e.g.
	// limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// CSRF protection for cookie-carried sessions. Tests and automation run
	// with the flag off.
	if s.config.CSRFProtection {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "header:X-CSRF-Token",
			CookieName:     "warbler_csrf",
			CookieSameSite: "Lax",
			Expiration:     1 * time.Hour,
		}))
	}

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
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
	// Landing page; consumes the one-shot flash notice
	app.Get("/", s.Landing)

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	app.Get("/api/swagger/*", swagger.HandlerDefault)

	// Auth routes
	app.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	app.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Post("/logout", s.Logout)

	// User routes. Specific /users/<action> routes are registered BEFORE the
	// generic /users/:id routes so "profile", "delete", "follow" etc. are
	// never parsed as IDs.
	users := app.Group("/users")
	users.Get("/", s.ListUsers)
	users.Patch("/profile", s.SessionRequired(), s.UpdateProfile)
	users.Post("/delete", s.SessionRequired(), s.DeleteAccount)
	users.Post("/follow/:id", s.SessionRequired(), s.FollowUser)
	users.Post("/stop-following/:id", s.SessionRequired(), s.StopFollowing)
	users.Post("/add_like/:id", s.SessionRequired(), s.AddLike)
	users.Post("/remove_like/:id", s.SessionRequired(), s.RemoveLike)
	users.Get("/:id/following", s.SessionRequired(), s.GetFollowing)
	users.Get("/:id/followers", s.SessionRequired(), s.GetFollowers)
	users.Get("/:id/likes", s.SessionRequired(), s.GetLikedMessages)
	users.Get("/:id", s.GetUserProfile)

	// Message routes
	messages := app.Group("/messages")
	messages.Post("/new", s.SessionRequired(), s.CreateMessage)
	messages.Post("/:id/delete", s.SessionRequired(), s.DeleteMessage)
	messages.Get("/:id", s.GetMessage)
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
		// The service runs degraded without Redis (in-memory sessions, no
		// cache), so absence is reported but does not fail readiness.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
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

// SessionRequired returns the session-gate middleware. Anonymous callers are
// redirected to the landing page with the "Access unauthorized." notice
// before any handler or store access runs.
func (s *Server) SessionRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := s.sessions.Resolve(c.Context(), sessionToken(c))
		if !ok {
			setFlash(c, accessUnauthorized)
			return c.Redirect("/", fiber.StatusFound)
		}

		c.Locals("userID", userID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// optionalUserID resolves the session if a token is present but does not
// enforce it.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	token := sessionToken(c)
	if token == "" {
		return 0, false
	}
	return s.sessions.Resolve(c.Context(), token)
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Warbler API",
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
