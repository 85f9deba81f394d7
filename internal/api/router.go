package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/api/handlers"
	"github.com/PB4aCe/4aceDE-SHOP/internal/api/middleware"
	"github.com/PB4aCe/4aceDE-SHOP/internal/config"
	"github.com/PB4aCe/4aceDE-SHOP/internal/coupon"
	"github.com/PB4aCe/4aceDE-SHOP/internal/repository"
	"github.com/PB4aCe/4aceDE-SHOP/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(
	cfg *config.Config,
	repos *repository.Repositories,
	checkout *service.CheckoutService,
	reconciler *service.WebhookReconciler,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "4aCe Shop API",
			"endpoints": []string{
				"GET /health",
				"GET /api/products",
				"GET /api/products/:id",
				"POST /api/coupon/apply",
				"POST /api/checkout/vorkasse",
				"POST /api/checkout/mollie",
				"GET /api/mollie/return",
				"POST /api/mollie/webhook",
				"POST /api/paypal/capture-order",
				"GET /api/admin/orders",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/products", handlers.HandleListProducts())
		api.GET("/products/:id", handlers.HandleGetProduct())

		api.POST("/coupon/apply", handlers.HandleApplyCoupon(coupon.Default()))

		api.POST("/checkout/vorkasse", handlers.HandleVorkasseCheckout(checkout, logger))
		api.POST("/checkout/mollie", handlers.HandleMollieCheckout(checkout, logger))

		// Both reconciliation paths: the browser coming back, and the
		// processor calling in independently.
		api.GET("/mollie/return", handlers.HandleMollieReturn(cfg, checkout, logger))
		api.POST("/mollie/webhook", handlers.HandleMollieWebhook(reconciler, logger))

		api.POST("/paypal/capture-order", handlers.HandlePayPalCapture(checkout, logger))

		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.AdminKeyMiddleware(cfg, logger))
		{
			adminRoutes.GET("/orders", handlers.HandleListOrders(repos, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
