package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/user"
	"github.com/boipara/bookstore/internal/infrastructure/config"
	"github.com/boipara/bookstore/internal/interface/http/handler"
	"github.com/boipara/bookstore/internal/interface/http/middleware"
	apperrors "github.com/boipara/bookstore/pkg/errors"
	"github.com/boipara/bookstore/pkg/response"

	_ "github.com/boipara/bookstore/docs"
)

type handlers struct {
	user         *handler.UserHandler
	book         *handler.BookHandler
	order        *handler.OrderHandler
	returns      *handler.ReturnHandler
	buyback      *handler.BuybackHandler
	notification *handler.NotificationHandler
	search       *handler.SearchHandler
	realtime     *handler.RealtimeHandler
}

// newRouter builds the engine. Middleware order: request id + access log,
// recovery, CORS, metrics, tracing, then per-group auth.
func newRouter(
	cfg *config.Config,
	logger *zap.Logger,
	auth *middleware.AuthMiddleware,
	h handlers,
	ping func(context.Context) error,
) *gin.Engine {
	if cfg.Server.Mode == gin.ReleaseMode || cfg.Server.Mode == gin.TestMode {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}

	r.GET("/ping", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, response.Response{Code: apperrors.ErrCodeUnavailable, Message: "database unavailable"})
			return
		}
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r.Group("/api/v1"), auth, h)
	return r
}

func registerRoutes(v1 *gin.RouterGroup, auth *middleware.AuthMiddleware, h handlers) {
	requireAuth := auth.RequireAuth()
	customer := middleware.RequireRole(user.RoleCustomer)
	seller := middleware.RequireRole(user.RoleSeller)
	admin := middleware.RequireRole(user.RoleAdmin)

	users := v1.Group("/users")
	{
		users.POST("/register", h.user.Register)
		users.POST("/login", h.user.Login)
		users.POST("/logout", requireAuth, h.user.Logout)
		users.GET("/profile", requireAuth, h.user.GetProfile)
		users.PUT("/profile", requireAuth, h.user.UpdateProfile)
	}

	books := v1.Group("/books")
	{
		books.GET("", h.book.ListBooks)
		books.GET("/featured/list", h.book.Featured)
		books.GET("/bestsellers/list", h.book.Bestsellers)
		books.GET("/seller/mine", requireAuth, seller, h.book.ListMine)
		books.GET("/:id", h.book.GetBook)
		books.POST("", requireAuth, seller, h.book.PublishBook)
		books.POST("/bulk", requireAuth, seller, h.book.PublishBulk)
		books.PUT("/:id", requireAuth, seller, h.book.UpdateBook)
		books.DELETE("/:id", requireAuth, seller, h.book.DeleteBook)
	}

	orders := v1.Group("/orders", requireAuth)
	{
		orders.POST("", customer, h.order.CreateOrder)
		orders.GET("/my-orders", customer, h.order.MyOrders)
		orders.GET("/seller/my-orders", seller, h.order.SellerOrders)
		orders.GET("/admin/all-orders", admin, h.order.AllOrders)
		orders.GET("/admin/seller-orders", admin, h.order.OrdersOfSeller)
		orders.GET("/:id", h.order.GetOrder)
		orders.PATCH("/:id/cancel", customer, h.order.CancelOrder)
		orders.PATCH("/:id/status", middleware.RequireRole(user.RoleSeller, user.RoleAdmin), h.order.UpdateStatus)
	}

	buyback := v1.Group("/buyback", requireAuth)
	{
		buyback.POST("", customer, h.buyback.Submit)
		buyback.GET("/my", customer, h.buyback.Mine)
		buyback.GET("/available", seller, h.buyback.Available)
		buyback.POST("/:id/acquire", seller, h.buyback.Acquire)
		buyback.GET("", admin, h.buyback.All)
		buyback.PATCH("/:id/approve", admin, h.buyback.Approve)
		buyback.PATCH("/:id/reject", admin, h.buyback.Reject)
		buyback.PATCH("/:id/complete", admin, h.buyback.Complete)
	}

	returns := v1.Group("/returns", requireAuth)
	{
		returns.POST("", customer, h.returns.CreateReturn)
		returns.GET("", h.returns.ListReturns)
		returns.PATCH("/:id/status", admin, h.returns.UpdateStatus)
		returns.PATCH("/:id/process", seller, h.returns.ProcessReturn)
	}

	notifications := v1.Group("/notifications", requireAuth)
	{
		notifications.GET("", h.notification.List)
		notifications.GET("/unread-count", h.notification.UnreadCount)
		notifications.PATCH("/mark-all-read", h.notification.MarkAllRead)
		notifications.PATCH("/:id/read", h.notification.MarkRead)
		notifications.DELETE("/:id", h.notification.Delete)
	}

	search := v1.Group("/search", auth.OptionalAuth())
	{
		search.GET("/suggestions", h.search.Suggestions)
		search.GET("/popular", h.search.Popular)
		search.GET("/history/:userId", h.search.History)
		search.POST("/history", h.search.RecordHistory)
		search.DELETE("/history/:userId", h.search.ClearHistory)
	}

	rt := v1.Group("/realtime", requireAuth)
	{
		rt.GET("/stream", h.realtime.Stream)
		rt.POST("/join", h.realtime.Join)
	}
}
