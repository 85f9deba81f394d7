package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/config"
	"github.com/PB4aCe/4aceDE-SHOP/internal/repository/postgres"
)

// Operator tool: confirm a Vorkasse order after the bank transfer arrived.
// The status update is idempotent, so re-running it is safe.
//
// Usage: go run ./cmd/mark-paid 4ACE-VK-2026-123456
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: mark-paid <order-number>")
	}
	orderNumber := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	logger := zap.NewNop()
	repos := postgres.NewRepositories(db, logger)
	ctx := context.Background()

	order, err := repos.Order.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		log.Fatalf("Order lookup failed: %v", err)
	}

	if err := repos.Order.MarkPaid(ctx, orderNumber); err != nil {
		log.Fatalf("Failed to mark order paid: %v", err)
	}

	fmt.Printf("order %s (%s, %s %s) marked paid\n",
		order.OrderNumber, order.PaymentMethod, order.TotalAmount.StringFixed(2), order.Currency)
}
