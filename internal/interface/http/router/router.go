package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/bookreview/docs" // swagger文档
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/interface/http/handler"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/response"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	Auth   *handler.AuthHandler
	Book   *handler.BookHandler
	Review *handler.ReviewHandler
}

// New 创建Gin引擎并注册路由
// 中间件顺序：Recovery → Tracing → Logger → Metrics → CORS → 业务Handler
func New(cfg *config.Config, logger *zap.Logger, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}
	r.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		metrics.InitMetrics()
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
	r.Use(middleware.CORS(cfg.CORS))

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})

	// Swagger文档（release模式关闭）
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/signup", h.Auth.Signup)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.Refresh)
			authGroup.POST("/logout", auth.RequireAuth(), h.Auth.Logout)
			authGroup.GET("/me", auth.RequireAuth(), h.Auth.Me)
		}

		books := v1.Group("/books")
		{
			// 公开接口
			books.GET("", h.Book.ListBooks)
			books.GET("/search", h.Book.SearchBooks)
			books.GET("/:id", h.Book.GetBook)
			books.GET("/:id/reviews", h.Review.ListReviews)

			// 需要登录
			books.POST("", auth.RequireAuth(), h.Book.CreateBook)
			books.PUT("/:id", auth.RequireAuth(), h.Book.UpdateBook)
			books.DELETE("/:id", auth.RequireAuth(), h.Book.DeleteBook)
			books.POST("/:id/reviews", auth.RequireAuth(), h.Review.AddReview)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("/:id", h.Review.GetReview)
			reviews.PUT("/:id", auth.RequireAuth(), h.Review.UpdateReview)
			reviews.DELETE("/:id", auth.RequireAuth(), h.Review.DeleteReview)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrNotFound)
	})

	return r
}
