package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/domain"
	"github.com/PB4aCe/4aceDE-SHOP/internal/repository"
)

const (
	defaultOrderLimit = 50
	maxOrderLimit     = 200
)

type adminOrderResponse struct {
	ID               string  `json:"id"`
	OrderNumber      string  `json:"orderNumber"`
	PaymentMethod    string  `json:"paymentMethod"`
	Status           string  `json:"status"`
	TotalAmount      string  `json:"totalAmount"`
	Currency         string  `json:"currency"`
	BillingFirstName *string `json:"billingFirstName"`
	BillingLastName  *string `json:"billingLastName"`
	BillingEmail     *string `json:"billingEmail"`
	CouponCode       *string `json:"couponCode,omitempty"`
	CreatedAt        string  `json:"createdAt"`
}

// HandleListOrders handles GET /api/admin/orders: the newest orders, limit
// default 50 and capped at 200. Authorization happens in the admin-key
// middleware.
func HandleListOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultOrderLimit
		if raw := c.Query("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				limit = parsed
			}
		}
		if limit > maxOrderLimit {
			limit = maxOrderLimit
		}

		orders, err := repos.Order.ListRecent(c.Request.Context(), limit)
		if err != nil {
			logger.Error("Admin orders listing failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		out := make([]adminOrderResponse, 0, len(orders))
		for _, o := range orders {
			out = append(out, toAdminOrderResponse(o))
		}
		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

func toAdminOrderResponse(o *domain.Order) adminOrderResponse {
	return adminOrderResponse{
		ID:               o.ID.String(),
		OrderNumber:      o.OrderNumber,
		PaymentMethod:    string(o.PaymentMethod),
		Status:           string(o.Status),
		TotalAmount:      o.TotalAmount.StringFixed(2),
		Currency:         o.Currency,
		BillingFirstName: o.BillingFirstName,
		BillingLastName:  o.BillingLastName,
		BillingEmail:     o.BillingEmail,
		CouponCode:       o.CouponCode,
		CreatedAt:        o.CreatedAt.Format(time.RFC3339),
	}
}
