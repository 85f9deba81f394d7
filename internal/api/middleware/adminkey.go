package middleware

import (
	"crypto/hmac"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/config"
)

// AdminKeyHeader carries the shared admin secret.
const AdminKeyHeader = "X-Admin-Key"

// AdminKeyMiddleware guards administrative endpoints with a static shared
// secret. An unset key on the server side rejects every request rather than
// opening the endpoint.
func AdminKeyMiddleware(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(AdminKeyHeader)
		if cfg.AdminKey == "" || !hmac.Equal([]byte(provided), []byte(cfg.AdminKey)) {
			logger.Warn("Admin auth failed", zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
