package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PB4aCe/4aceDE-SHOP/internal/coupon"
)

type couponApplyPayload struct {
	Items []CheckoutItem `json:"items"`
	Code  string         `json:"code"`
}

// HandleApplyCoupon handles POST /api/coupon/apply: the storefront calls it
// on every cart or code change. An unknown or expired code is a normal
// zero-discount outcome, not an error.
func HandleApplyCoupon(engine *coupon.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload couponApplyPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		items := CheckoutPayload{Items: payload.Items}.toServiceRequest().Items
		result := engine.Apply(items, payload.Code)

		resp := gin.H{
			"subtotal":       result.Subtotal.StringFixed(2),
			"discountAmount": result.DiscountAmount.StringFixed(2),
			"finalTotal":     result.FinalTotal.StringFixed(2),
		}
		if result.AppliedCoupon != nil {
			resp["appliedCoupon"] = gin.H{
				"code":       result.AppliedCoupon.Code,
				"percentage": result.AppliedCoupon.Percentage,
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}
