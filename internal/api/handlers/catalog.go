package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PB4aCe/4aceDE-SHOP/internal/catalog"
)

// HandleListProducts handles GET /api/products.
func HandleListProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"products": catalog.All()})
	}
}

// HandleGetProduct handles GET /api/products/:id.
func HandleGetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		product := catalog.ByID(c.Param("id"))
		if product == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"product":           product,
			"availabilityLabel": product.Availability.Label(),
		})
	}
}
