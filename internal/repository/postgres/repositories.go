package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/repository"
)

// NewRepositories creates all repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Order: NewOrderRepository(db, logger),
	}
}
