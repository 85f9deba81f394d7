package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/domain"
	"github.com/PB4aCe/4aceDE-SHOP/internal/service"
)

// CheckoutPayload is the shared checkout body for the Vorkasse and Mollie
// endpoints. The total is the client's already-coupon-adjusted amount.
type CheckoutPayload struct {
	Customer   domain.Customer `json:"customer"`
	Items      []CheckoutItem  `json:"items"`
	Total      float64         `json:"total"`
	CouponCode string          `json:"couponCode"`
}

type CheckoutItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (p CheckoutPayload) toServiceRequest() service.CheckoutRequest {
	items := make([]domain.CartLine, 0, len(p.Items))
	for _, i := range p.Items {
		items = append(items, domain.CartLine{
			ProductID: i.ID,
			Name:      i.Name,
			UnitPrice: decimal.NewFromFloat(i.Price).Round(2),
			Quantity:  i.Quantity,
		})
	}
	return service.CheckoutRequest{
		Customer:   p.Customer,
		Items:      items,
		Total:      decimal.NewFromFloat(p.Total).Round(2),
		CouponCode: p.CouponCode,
	}
}

// HandleVorkasseCheckout handles POST /api/checkout/vorkasse. Internal
// persistence or mail failures still yield a success response with the
// minted order number; only a malformed body is an error.
func HandleVorkasseCheckout(checkout *service.CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload CheckoutPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}

		orderNumber := checkout.ManualTransferCheckout(c.Request.Context(), payload.toServiceRequest())

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"orderNumber": orderNumber,
		})
	}
}

// HandleMollieCheckout handles POST /api/checkout/mollie: validates the
// payload and creates a payment at the hosted checkout.
func HandleMollieCheckout(checkout *service.CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload CheckoutPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}

		if payload.Customer.Email == "" || len(payload.Items) == 0 ||
			payload.Total <= 0 || math.IsInf(payload.Total, 0) || math.IsNaN(payload.Total) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing or invalid checkout data"})
			return
		}

		result, err := checkout.CreateHostedPayment(c.Request.Context(), payload.toServiceRequest())
		if err != nil {
			logger.Error("Mollie checkout failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "mollie checkout failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"checkoutUrl": result.CheckoutURL,
			"orderNumber": result.OrderNumber,
			"paymentId":   result.PaymentID,
		})
	}
}
