package handlers

import (
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/config"
	"github.com/PB4aCe/4aceDE-SHOP/internal/service"
	"github.com/PB4aCe/4aceDE-SHOP/pkg/errors"
)

// HandleMollieReturn handles GET /api/mollie/return - the browser coming back
// from the hosted payment page. Whatever happens, the customer ends up on the
// thank-you page; a not-yet-paid payment just means a degraded arrival there.
func HandleMollieReturn(cfg *config.Config, checkout *service.CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentID := c.Query("payment")

		if paymentID == "" {
			c.Redirect(http.StatusFound, cfg.SiteURL+"/thank-you?method=mollie")
			return
		}

		result := checkout.FinalizeHostedPayment(c.Request.Context(), paymentID)

		target := cfg.SiteURL + "/thank-you?method=mollie"
		if result.OrderNumber != "" {
			target = cfg.SiteURL + "/thank-you?order=" + url.QueryEscape(result.OrderNumber) + "&method=mollie"
		}
		c.Redirect(http.StatusFound, target)
	}
}

// HandleMollieWebhook handles POST /api/mollie/webhook. The processor's
// delivery contract requires a 200 acknowledgment regardless of business
// outcome, otherwise it keeps retrying.
func HandleMollieWebhook(reconciler *service.WebhookReconciler, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.Warn("Webhook: failed to read body", zap.Error(err))
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}

		result := reconciler.Reconcile(c.Request.Context(), c.ContentType(), body)

		logger.Info("Webhook handled", zap.String("result", string(result)))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// CapturePayload is the body of POST /api/paypal/capture-order.
type CapturePayload struct {
	OrderID string `json:"orderID"`
	CheckoutPayload
}

// HandlePayPalCapture handles the in-page button flow: capture the approved
// PayPal order server-side and, only on success, record and confirm it.
func HandlePayPalCapture(checkout *service.CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload CapturePayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}
		if payload.OrderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing orderID"})
			return
		}

		orderNumber, err := checkout.CaptureCheckout(c.Request.Context(), payload.OrderID, payload.toServiceRequest())
		if err != nil {
			if _, ok := err.(*errors.ErrCapture); ok {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "capture failed"})
				return
			}
			if _, ok := err.(*errors.ErrValidation); ok {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			logger.Error("PayPal capture failed", zap.String("external_order_id", payload.OrderID), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "capture failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"orderNumber": orderNumber,
		})
	}
}
