package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mAXxtor/api-yamdb/internal/api/handler"
	"github.com/mAXxtor/api-yamdb/internal/api/middleware"
	"github.com/mAXxtor/api-yamdb/internal/core/domain"
	"github.com/mAXxtor/api-yamdb/internal/core/ports"
	"github.com/mAXxtor/api-yamdb/internal/core/service"
	mongodb "github.com/mAXxtor/api-yamdb/internal/infrastructure/db/mongo"
	redisdb "github.com/mAXxtor/api-yamdb/internal/infrastructure/db/redis"
)

// RouterConfig carries everything the HTTP layer needs.
type RouterConfig struct {
	DB         *mongo.Database
	Redis      *redis.Client
	JWTSecret  string
	CodeSecret string
	TokenTTL   time.Duration
	Sender     ports.CodeSender
	Activity   ports.ActivitySink
	Log        zerolog.Logger

	// Signup throttle tunables; zero values fall back to the defaults.
	SignupLimit  int
	SignupWindow time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Dependencies ---
	accountRepo := mongodb.NewAccountRepository(cfg.DB)
	categoryRepo := mongodb.NewCategoryRepository(cfg.DB)
	genreRepo := mongodb.NewGenreRepository(cfg.DB)
	titleRepo := mongodb.NewTitleRepository(cfg.DB)
	reviewRepo := mongodb.NewReviewRepository(cfg.DB)
	commentRepo := mongodb.NewCommentRepository(cfg.DB)

	var throttle ports.SignupThrottle
	if cfg.Redis != nil {
		throttle = redisdb.NewSignupThrottle(cfg.Redis, cfg.SignupLimit, cfg.SignupWindow)
	}

	authService := service.NewAuthService(accountRepo, cfg.Sender, service.AuthConfig{
		JWTSecret:  cfg.JWTSecret,
		CodeSecret: cfg.CodeSecret,
		TokenTTL:   cfg.TokenTTL,
		Throttle:   throttle,
		Activity:   cfg.Activity,
	}, cfg.Log)
	accountService := service.NewAccountService(accountRepo, cfg.Log)
	catalogService := service.NewCatalogService(categoryRepo, genreRepo, titleRepo, cfg.Activity, cfg.Log)
	reviewService := service.NewReviewService(titleRepo, reviewRepo, commentRepo, cfg.Activity, cfg.Log)

	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(accountService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	authRequired := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	// --- Auth routes ---
	v1 := e.Group("/v1")
	v1.POST("/auth/signup", authHandler.Signup)
	v1.POST("/auth/token", authHandler.Token)

	// --- Account administration (admin only, except /me) ---
	users := v1.Group("/users", authRequired)
	users.GET("/me", accountHandler.Me)
	users.PATCH("/me", accountHandler.UpdateMe)
	users.GET("", accountHandler.List, adminOnly)
	users.POST("", accountHandler.Create, adminOnly)
	users.GET("/:username", accountHandler.Get, adminOnly)
	users.PATCH("/:username", accountHandler.Update, adminOnly)
	users.DELETE("/:username", accountHandler.Delete, adminOnly)

	// --- Catalog: reads are public, writes require an elevated token ---
	v1.GET("/categories", catalogHandler.ListCategories)
	v1.POST("/categories", catalogHandler.CreateCategory, authRequired)
	v1.DELETE("/categories/:slug", catalogHandler.DeleteCategory, authRequired)

	v1.GET("/genres", catalogHandler.ListGenres)
	v1.POST("/genres", catalogHandler.CreateGenre, authRequired)
	v1.DELETE("/genres/:slug", catalogHandler.DeleteGenre, authRequired)

	v1.GET("/titles", catalogHandler.ListTitles)
	v1.POST("/titles", catalogHandler.CreateTitle, authRequired)
	v1.GET("/titles/:title_id", catalogHandler.GetTitle)
	v1.PATCH("/titles/:title_id", catalogHandler.UpdateTitle, authRequired)
	v1.DELETE("/titles/:title_id", catalogHandler.DeleteTitle, authRequired)

	// --- Reviews and comments, nested under titles ---
	reviews := v1.Group("/titles/:title_id/reviews")
	reviews.GET("", reviewHandler.ListReviews)
	reviews.POST("", reviewHandler.CreateReview, authRequired)
	reviews.GET("/:review_id", reviewHandler.GetReview)
	reviews.PATCH("/:review_id", reviewHandler.UpdateReview, authRequired)
	reviews.DELETE("/:review_id", reviewHandler.DeleteReview, authRequired)

	comments := reviews.Group("/:review_id/comments")
	comments.GET("", reviewHandler.ListComments)
	comments.POST("", reviewHandler.CreateComment, authRequired)
	comments.GET("/:comment_id", reviewHandler.GetComment)
	comments.PATCH("/:comment_id", reviewHandler.UpdateComment, authRequired)
	comments.DELETE("/:comment_id", reviewHandler.DeleteComment, authRequired)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.DB, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
