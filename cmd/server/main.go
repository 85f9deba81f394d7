package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/api"
	"github.com/PB4aCe/4aceDE-SHOP/internal/config"
	"github.com/PB4aCe/4aceDE-SHOP/internal/mail"
	"github.com/PB4aCe/4aceDE-SHOP/internal/payment/mollie"
	"github.com/PB4aCe/4aceDE-SHOP/internal/payment/paypal"
	"github.com/PB4aCe/4aceDE-SHOP/internal/repository/postgres"
	"github.com/PB4aCe/4aceDE-SHOP/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting shop API server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	repos := postgres.NewRepositories(db, logger)

	// Payment gateways and mail transport
	mollieClient := mollie.NewClient(cfg.Mollie, logger)
	paypalClient := paypal.NewClient(cfg.PayPal, logger)
	mailer := mail.NewSMTPSender(cfg.SMTP, logger)

	// Settlement pipeline and webhook reconciler
	checkout := service.NewCheckoutService(cfg, repos.Order, mollieClient, paypalClient, mailer, logger)
	reconciler := service.NewWebhookReconciler(repos.Order, mollieClient, logger)

	// Initialize router
	router := api.NewRouter(cfg, repos, checkout, reconciler, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
