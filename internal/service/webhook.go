package service

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/payment/mollie"
	"github.com/PB4aCe/4aceDE-SHOP/internal/repository"
)

// ReconcileResult tells how a webhook delivery was handled. The HTTP answer
// is 200 in every case (the processor's delivery contract); the result is for
// logging and tests.
type ReconcileResult string

const (
	ReconcileNoPaymentID   ReconcileResult = "no_payment_id"
	ReconcileFetchFailed   ReconcileResult = "fetch_failed"
	ReconcileNotPaid       ReconcileResult = "not_paid"
	ReconcileNoOrderNumber ReconcileResult = "no_order_number"
	ReconcileUpdated       ReconcileResult = "updated"
)

// WebhookReconciler is the asynchronous half of payment reconciliation. It is
// invoked by the processor independently of the customer's browser. It only
// flips existing order rows to paid; it never creates a row and never sends
// mail, both of which are owned by the callback path.
type WebhookReconciler struct {
	orders  repository.OrderRepository
	gateway HostedGateway
	logger  *zap.Logger
}

// NewWebhookReconciler wires the reconciler.
func NewWebhookReconciler(orders repository.OrderRepository, gateway HostedGateway, logger *zap.Logger) *WebhookReconciler {
	return &WebhookReconciler{
		orders:  orders,
		gateway: gateway,
		logger:  logger,
	}
}

// Reconcile extracts a payment id from whatever body encoding the processor
// delivered, fetches the authoritative payment state and syncs the order row.
// It must stay safe to invoke any number of times for the same payment.
func (r *WebhookReconciler) Reconcile(ctx context.Context, contentType string, body []byte) ReconcileResult {
	paymentID := ExtractPaymentID(contentType, body)
	if paymentID == "" {
		r.logger.Warn("Webhook: no payment id extractable from body",
			zap.String("content_type", contentType),
			zap.Int("body_bytes", len(body)),
		)
		return ReconcileNoPaymentID
	}

	payment, err := r.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		r.logger.Error("Webhook: payment fetch failed", zap.String("payment_id", paymentID), zap.Error(err))
		return ReconcileFetchFailed
	}

	r.logger.Info("Webhook received",
		zap.String("payment_id", payment.ID),
		zap.String("status", payment.Status),
	)

	if payment.Status != mollie.StatusPaid {
		return ReconcileNotPaid
	}

	meta := payment.Metadata
	if meta == nil || meta.OrderNumber == "" {
		// Paid but unattributable; nothing to reconcile against.
		r.logger.Warn("Webhook: paid payment without metadata order number",
			zap.String("payment_id", payment.ID))
		return ReconcileNoOrderNumber
	}

	if err := r.orders.MarkPaid(ctx, meta.OrderNumber); err != nil {
		r.logger.Warn("Webhook: order status update failed (ignored)",
			zap.String("order_number", meta.OrderNumber), zap.Error(err))
	}
	return ReconcileUpdated
}

// The processor delivers webhook bodies in several encodings. Extraction is
// an ordered strategy chain, short-circuiting on the first hit.
type idExtractor func(contentType string, body []byte) string

var idExtractors = []idExtractor{
	extractJSONID,
	extractFormID,
	extractLabeledID,
	extractBareID,
}

var (
	labeledIDPattern = regexp.MustCompile(`(?i)id\s*[:=]\s*(tr_[A-Za-z0-9_-]+)`)
	bareIDPattern    = regexp.MustCompile(`(tr_[A-Za-z0-9_-]+)`)
)

// ExtractPaymentID runs the extractor chain over a webhook body and returns
// the first payment id found, or "".
func ExtractPaymentID(contentType string, body []byte) string {
	for _, extract := range idExtractors {
		if id := extract(contentType, body); id != "" {
			return id
		}
	}
	return ""
}

func extractJSONID(contentType string, body []byte) string {
	if !strings.Contains(contentType, "application/json") {
		return ""
	}
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.ID
}

func extractFormID(contentType string, body []byte) string {
	if !strings.Contains(contentType, "application/x-www-form-urlencoded") {
		return ""
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return ""
	}
	return values.Get("id")
}

func extractLabeledID(_ string, body []byte) string {
	if m := labeledIDPattern.FindSubmatch(body); m != nil {
		return string(m[1])
	}
	return ""
}

func extractBareID(_ string, body []byte) string {
	if m := bareIDPattern.FindSubmatch(body); m != nil {
		return string(m[1])
	}
	return ""
}
