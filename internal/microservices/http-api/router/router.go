// Package router assembles the HTTP surface: global middleware, the
// operational endpoints and the /api/v1 resource tree.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"yamdb/internal/config"
	"yamdb/internal/metrics"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/handler"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Pinger reports database reachability for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Config *config.Config
	Log    *slog.Logger
	DB     Pinger

	// Limiter throttles the sign-up and token endpoints.
	Limiter middleware.Limiter

	Auth       service.AuthService
	Users      service.UserService
	Categories service.CategoryService
	Genres     service.GenreService
	Titles     service.TitleService
	Reviews    service.ReviewService
	Comments   service.CommentService
}

func New(d Deps) *gin.Engine {
	if !d.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	dto.RegisterValidators()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.RequestLogger(d.Log),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:  d.Config.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}),
		middleware.Metrics(),
	)

	r.GET("/health", health(d.DB))
	if d.Config.PrometheusEnabled {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	paging := handler.Paging{Default: d.Config.PageSize, Max: d.Config.Limits.MaxPageSize}

	api := r.Group("/api/v1", middleware.Authenticate(d.Auth))
	{
		var throttle []gin.HandlerFunc
		if d.Limiter != nil {
			throttle = append(throttle, middleware.RateLimit(d.Limiter, d.Log))
		}
		handler.NewAuthHandler(d.Auth).RegisterRoutes(api.Group("/auth"), throttle...)

		handler.NewUserHandler(d.Users, paging).RegisterRoutes(api.Group("/users"))
		handler.NewCategoryHandler(d.Categories, paging).RegisterRoutes(api.Group("/categories"))
		handler.NewGenreHandler(d.Genres, paging).RegisterRoutes(api.Group("/genres"))
		handler.NewTitleHandler(d.Titles, paging).RegisterRoutes(api.Group("/titles"))
		handler.NewReviewHandler(d.Reviews, paging).
			RegisterRoutes(api.Group("/titles/:title_id/reviews"))
		handler.NewCommentHandler(d.Comments, paging).
			RegisterRoutes(api.Group("/titles/:title_id/reviews/:review_id/comments"))
	}

	return r
}

func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
