package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/config"
	"github.com/PB4aCe/4aceDE-SHOP/internal/domain"
	"github.com/PB4aCe/4aceDE-SHOP/internal/mail"
	"github.com/PB4aCe/4aceDE-SHOP/internal/payment/mollie"
	"github.com/PB4aCe/4aceDE-SHOP/internal/repository"
	"github.com/PB4aCe/4aceDE-SHOP/pkg/errors"
)

// CheckoutService is the settlement pipeline: it turns checkout attempts and
// confirmed payments into persisted orders plus notifications, per payment
// rail. Its contract once a payment is confirmed: the caller always gets a
// success with the minted order number, regardless of how the downstream
// persist/notify steps went — those are collected in a FinalizeOutcome and
// logged.
type CheckoutService struct {
	cfg     *config.Config
	orders  repository.OrderRepository
	hosted  HostedGateway
	capture CaptureGateway
	mailer  mail.Sender
	logger  *zap.Logger
	now     func() time.Time
}

// NewCheckoutService wires the settlement pipeline.
func NewCheckoutService(
	cfg *config.Config,
	orders repository.OrderRepository,
	hosted HostedGateway,
	capture CaptureGateway,
	mailer mail.Sender,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		cfg:     cfg,
		orders:  orders,
		hosted:  hosted,
		capture: capture,
		mailer:  mailer,
		logger:  logger,
		now:     time.Now,
	}
}

// ManualTransferCheckout records a Vorkasse order as pending and sends the
// bank transfer instructions. The order number has been promised to the
// customer the moment it is minted, so persistence and mail failures are
// logged but never fail the checkout.
func (s *CheckoutService) ManualTransferCheckout(ctx context.Context, req CheckoutRequest) string {
	orderNumber := manualOrderNumber(s.now())

	order := s.buildOrder(orderNumber, domain.PaymentMethodVorkasse, domain.OrderStatusPending, req, req.Total, "EUR", nil)

	outcome := FinalizeOutcome{OrderNumber: orderNumber}
	outcome.Persisted, outcome.PersistErr = s.orders.InsertIfAbsent(ctx, order)

	mailData := mail.OrderMailData{
		OrderNumber:   orderNumber,
		PaymentMethod: domain.PaymentMethodVorkasse,
		Customer:      req.Customer,
		Items:         req.Items,
		Total:         req.Total,
		Currency:      "EUR",
		CouponCode:    req.couponCodePtr(),
	}

	if req.Customer.Email != "" {
		outcome.CustomerMailErr = s.mailer.Send(ctx, req.Customer.Email,
			"Deine Vorkasse-Bestellung "+orderNumber+" bei 4aCe",
			mail.CustomerVorkasseText(mailData, s.cfg.Bank))
	}
	if s.cfg.AdminEmail != "" {
		outcome.InternalMailErr = s.mailer.Send(ctx, s.cfg.AdminEmail,
			"Neue Vorkasse-Bestellung "+orderNumber,
			mail.InternalOrderText(mailData))
	}

	s.logOutcome("vorkasse checkout", outcome)
	return orderNumber
}

// CreateHostedPayment mints an order number and creates a payment at the
// hosted-redirect processor. Nothing is persisted locally at this point; the
// cart snapshot, coupon code and totals ride along as payment metadata and
// come back on reconciliation.
func (s *CheckoutService) CreateHostedPayment(ctx context.Context, req CheckoutRequest) (*HostedPaymentResult, error) {
	orderNumber := hostedOrderNumber(s.now())

	payment, err := s.hosted.CreatePayment(ctx, mollie.CreatePaymentRequest{
		Amount:      req.Total,
		Currency:    "EUR",
		Description: "4aCe Bestellung " + orderNumber,
		RedirectURL: s.cfg.SiteURL + "/api/mollie/return?payment={paymentId}",
		WebhookURL:  s.cfg.SiteURL + "/api/mollie/webhook",
		Metadata: mollie.Metadata{
			OrderNumber: orderNumber,
			CouponCode:  req.couponCodePtr(),
			Customer:    req.Customer,
			Items:       metadataItems(req.Items),
			Totals: mollie.MetadataTotals{
				TotalAmount: req.Total,
				Currency:    "EUR",
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return &HostedPaymentResult{
		OrderNumber: orderNumber,
		PaymentID:   payment.ID,
		CheckoutURL: payment.CheckoutURL(),
	}, nil
}

// FinalizeHostedPayment is the callback half of hosted-redirect
// reconciliation: fetch the authoritative payment state and, only when it is
// paid, persist the order and send both mails. The caller redirects the
// browser to the thank-you page in every case, so this never returns an
// error — a fetch failure just yields an unpaid result.
func (s *CheckoutService) FinalizeHostedPayment(ctx context.Context, paymentID string) *FinalizeResult {
	result := &FinalizeResult{}

	payment, err := s.hosted.GetPayment(ctx, paymentID)
	if err != nil {
		s.logger.Error("Mollie finalize: payment fetch failed", zap.String("payment_id", paymentID), zap.Error(err))
		return result
	}
	result.PaymentStatus = payment.Status

	if payment.Status != mollie.StatusPaid {
		s.logger.Info("Mollie finalize: payment not paid, nothing recorded",
			zap.String("payment_id", paymentID),
			zap.String("status", payment.Status),
		)
		return result
	}
	result.Paid = true

	meta := payment.Metadata
	if meta == nil || meta.OrderNumber == "" {
		s.logger.Warn("Mollie finalize: paid payment without order number in metadata",
			zap.String("payment_id", paymentID))
		return result
	}
	result.OrderNumber = meta.OrderNumber

	items := cartLinesFromMetadata(meta.Items)
	total := meta.Totals.TotalAmount
	currency := meta.Totals.Currency
	if total.IsZero() {
		if parsed, perr := decimal.NewFromString(payment.Amount.Value); perr == nil {
			total = parsed
			currency = payment.Amount.Currency
		}
	}
	s.auditTotals(meta.OrderNumber, items, total)

	req := CheckoutRequest{Customer: meta.Customer, Items: items, Total: total, CouponCode: strValue(meta.CouponCode)}
	ref := payment.ID
	order := s.buildOrder(meta.OrderNumber, domain.PaymentMethodMollie, domain.OrderStatusPaid, req, total, currency, &ref)

	outcome := FinalizeOutcome{OrderNumber: meta.OrderNumber}
	outcome.Persisted, outcome.PersistErr = s.orders.InsertIfAbsent(ctx, order)

	// A row that already exists means an earlier callback finalized this
	// payment and already sent the mails. Only skip on a clean "absent"
	// signal; when the insert errored we don't know, so send anyway.
	if !outcome.Persisted && outcome.PersistErr == nil {
		s.logger.Info("Mollie finalize: order already recorded, mails skipped",
			zap.String("order_number", meta.OrderNumber))
		s.logOutcome("mollie finalize", outcome)
		return result
	}

	mailData := mail.OrderMailData{
		OrderNumber:      meta.OrderNumber,
		PaymentMethod:    domain.PaymentMethodMollie,
		Customer:         meta.Customer,
		Items:            items,
		Total:            total,
		Currency:         currency,
		CouponCode:       meta.CouponCode,
		PaymentReference: payment.ID,
	}
	if meta.Customer.Email != "" {
		outcome.CustomerMailErr = s.mailer.Send(ctx, meta.Customer.Email,
			"Deine 4aCe Bestellung "+meta.OrderNumber,
			mail.CustomerPaidText(mailData))
	}
	if s.cfg.AdminEmail != "" {
		outcome.InternalMailErr = s.mailer.Send(ctx, s.cfg.AdminEmail,
			"Neue Mollie-Bestellung "+meta.OrderNumber,
			mail.InternalOrderText(mailData))
	}

	s.logOutcome("mollie finalize", outcome)
	return result
}

// CaptureCheckout finalizes an in-page PayPal approval synchronously. On
// capture failure nothing is persisted, the customer gets an error, and an
// alert goes to operations: at that point the payment may have been approved
// at the processor without a matching order on our side. On success the
// authoritative amount comes from the capture response when the processor
// echoes it.
func (s *CheckoutService) CaptureCheckout(ctx context.Context, externalOrderID string, req CheckoutRequest) (string, error) {
	if externalOrderID == "" {
		return "", &errors.ErrValidation{Message: "missing orderID"}
	}

	capture, err := s.capture.CaptureOrder(ctx, externalOrderID)
	if err != nil {
		s.alertCaptureFailure(ctx, externalOrderID, err)
		return "", err
	}

	total := req.Total
	currency := "EUR"
	if capture.AmountEchoed {
		total = capture.Amount
		currency = capture.Currency
	}

	orderNumber := paypalOrderNumber(s.now())
	ref := externalOrderID
	order := s.buildOrder(orderNumber, domain.PaymentMethodPayPal, domain.OrderStatusPaid, req, total, currency, &ref)

	outcome := FinalizeOutcome{OrderNumber: orderNumber}
	outcome.Persisted, outcome.PersistErr = s.orders.InsertIfAbsent(ctx, order)

	mailData := mail.OrderMailData{
		OrderNumber:      orderNumber,
		PaymentMethod:    domain.PaymentMethodPayPal,
		Customer:         req.Customer,
		Items:            req.Items,
		Total:            total,
		Currency:         currency,
		CouponCode:       req.couponCodePtr(),
		PaymentReference: externalOrderID,
	}
	if req.Customer.Email != "" {
		outcome.CustomerMailErr = s.mailer.Send(ctx, req.Customer.Email,
			"Deine Bestellung "+orderNumber+" bei 4aCe (PayPal)",
			mail.CustomerPaidText(mailData))
	}
	if s.cfg.AdminEmail != "" {
		outcome.InternalMailErr = s.mailer.Send(ctx, s.cfg.AdminEmail,
			"Neue PayPal-Bestellung "+orderNumber,
			mail.InternalOrderText(mailData))
	}

	s.logOutcome("paypal capture", outcome)
	return orderNumber, nil
}

func (s *CheckoutService) alertCaptureFailure(ctx context.Context, externalOrderID string, err error) {
	if s.cfg.AdminEmail == "" {
		return
	}
	status, detail := "", err.Error()
	if capErr, ok := err.(*errors.ErrCapture); ok {
		status, detail = capErr.Status, capErr.Detail
	}
	if mailErr := s.mailer.Send(ctx, s.cfg.AdminEmail,
		"CRITICAL ERROR / Zahlungsfehler",
		mail.CaptureFailureText(externalOrderID, status, detail)); mailErr != nil {
		s.logger.Error("Failed to send capture failure alert",
			zap.String("external_order_id", externalOrderID), zap.Error(mailErr))
	}
}

// auditTotals recomputes the item subtotal out of the metadata snapshot and
// logs when it differs from the recorded total. The difference is the
// discount applied at creation time; coupon eligibility is not re-validated
// here.
func (s *CheckoutService) auditTotals(orderNumber string, items []domain.CartLine, total decimal.Decimal) {
	subtotal := decimal.Zero
	for _, i := range items {
		subtotal = subtotal.Add(i.LineTotal())
	}
	if !subtotal.Equal(total) {
		s.logger.Info("Order total differs from item subtotal (discount applied)",
			zap.String("order_number", orderNumber),
			zap.String("subtotal", subtotal.StringFixed(2)),
			zap.String("total", total.StringFixed(2)),
		)
	}
}

func (s *CheckoutService) buildOrder(
	orderNumber string,
	method domain.PaymentMethod,
	status domain.OrderStatus,
	req CheckoutRequest,
	total decimal.Decimal,
	currency string,
	paymentReference *string,
) *domain.Order {
	return &domain.Order{
		OrderNumber:      orderNumber,
		PaymentMethod:    method,
		Status:           status,
		BillingFirstName: strPtr(req.Customer.FirstName),
		BillingLastName:  strPtr(req.Customer.LastName),
		BillingEmail:     strPtr(req.Customer.Email),
		BillingStreet:    strPtr(req.Customer.Street),
		BillingZip:       strPtr(req.Customer.Zip),
		BillingCity:      strPtr(req.Customer.City),
		BillingCountry:   strPtr(req.Customer.Country),
		TotalAmount:      total,
		Currency:         currency,
		CouponCode:       req.couponCodePtr(),
		PaymentReference: paymentReference,
		CreatedAt:        s.now(),
	}
}

func (s *CheckoutService) logOutcome(step string, o FinalizeOutcome) {
	if o.PersistErr != nil {
		s.logger.Error(step+": order persistence failed (ignored)",
			zap.String("order_number", o.OrderNumber), zap.Error(o.PersistErr))
	}
	if o.CustomerMailErr != nil {
		s.logger.Error(step+": customer mail failed (ignored)",
			zap.String("order_number", o.OrderNumber), zap.Error(o.CustomerMailErr))
	}
	if o.InternalMailErr != nil {
		s.logger.Error(step+": internal mail failed (ignored)",
			zap.String("order_number", o.OrderNumber), zap.Error(o.InternalMailErr))
	}
	s.logger.Info(step+" completed",
		zap.String("order_number", o.OrderNumber),
		zap.Bool("persisted", o.Persisted),
	)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
