package mollie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/config"
	"github.com/PB4aCe/4aceDE-SHOP/internal/domain"
	"github.com/PB4aCe/4aceDE-SHOP/pkg/errors"
)

// Payment statuses as reported by Mollie.
const (
	StatusOpen     = "open"
	StatusPaid     = "paid"
	StatusFailed   = "failed"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Mollie v2 API client
func NewClient(cfg config.MollieConfig, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Amount is Mollie's money representation: a currency code plus the value as
// a string with exactly two decimals.
type Amount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

// MetadataItem is one cart line carried through the payment round trip.
type MetadataItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// MetadataTotals carries the server-held total through the round trip.
type MetadataTotals struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Currency    string          `json:"currency"`
}

// Metadata is the opaque bag attached to a payment at creation time. It is
// the only session state this system keeps across the redirect to the hosted
// checkout page and back.
type Metadata struct {
	OrderNumber string          `json:"orderNumber"`
	CouponCode  *string         `json:"couponCode"`
	Customer    domain.Customer `json:"customer"`
	Items       []MetadataItem  `json:"items"`
	Totals      MetadataTotals  `json:"totals"`
}

// Payment is Mollie's record of a single payment attempt.
type Payment struct {
	ID       string    `json:"id"`
	Status   string    `json:"status"`
	Amount   Amount    `json:"amount"`
	Metadata *Metadata `json:"metadata"`
	Links    struct {
		Checkout struct {
			Href string `json:"href"`
		} `json:"checkout"`
	} `json:"_links"`
}

// CheckoutURL returns the hosted payment page the customer must be
// redirected to.
func (p *Payment) CheckoutURL() string {
	return p.Links.Checkout.Href
}

type CreatePaymentRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	RedirectURL string
	WebhookURL  string
	Metadata    Metadata
}

type createPaymentBody struct {
	Amount      Amount   `json:"amount"`
	Description string   `json:"description"`
	RedirectURL string   `json:"redirectUrl"`
	WebhookURL  string   `json:"webhookUrl,omitempty"`
	Metadata    Metadata `json:"metadata"`
}

// CreatePayment creates a payment at Mollie. A returned error means no
// payment was created as far as the caller is concerned.
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error) {
	body := createPaymentBody{
		Amount: Amount{
			Currency: req.Currency,
			Value:    req.Amount.StringFixed(2),
		},
		Description: req.Description,
		RedirectURL: req.RedirectURL,
		WebhookURL:  req.WebhookURL,
		Metadata:    req.Metadata,
	}

	var payment Payment
	if err := c.do(ctx, http.MethodPost, "/v2/payments", body, &payment); err != nil {
		return nil, &errors.ErrGateway{Provider: "mollie", Op: "create payment", Message: err.Error(), Err: err}
	}
	if payment.CheckoutURL() == "" {
		return nil, &errors.ErrGateway{Provider: "mollie", Op: "create payment", Message: "empty checkout url"}
	}

	c.logger.Info("Mollie payment created",
		zap.String("payment_id", payment.ID),
		zap.String("order_number", req.Metadata.OrderNumber),
	)
	return &payment, nil
}

// GetPayment fetches the authoritative payment state. Read-only and safe to
// call repeatedly; both the return callback and the webhook use it.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodGet, "/v2/payments/"+paymentID, nil, &payment); err != nil {
		return nil, &errors.ErrGateway{Provider: "mollie", Op: "fetch payment", Message: err.Error(), Err: err}
	}
	return &payment, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mollie API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
