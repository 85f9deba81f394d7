package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/config"
	"github.com/PB4aCe/4aceDE-SHOP/internal/repository/postgres"
)

// Operator tool: print the most recent orders.
//
// Usage: go run ./cmd/list-orders -limit 20
func main() {
	limit := flag.Int("limit", 50, "number of orders to list")
	flag.Parse()

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

	orders, err := repos.Order.ListRecent(context.Background(), *limit)
	if err != nil {
		log.Fatalf("Failed to list orders: %v", err)
	}

	fmt.Printf("%-22s %-10s %-8s %10s %-5s %s\n", "ORDER", "METHOD", "STATUS", "TOTAL", "CUR", "CREATED")
	for _, o := range orders {
		fmt.Printf("%-22s %-10s %-8s %10s %-5s %s\n",
			o.OrderNumber,
			o.PaymentMethod,
			o.Status,
			o.TotalAmount.StringFixed(2),
			o.Currency,
			o.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	fmt.Printf("\n%d order(s)\n", len(orders))
}
