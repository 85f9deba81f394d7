package paypal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/PB4aCe/4aceDE-SHOP/internal/config"
	"github.com/PB4aCe/4aceDE-SHOP/pkg/errors"
)

// StatusCompleted is the only PayPal order status we accept as a
// successful capture.
const StatusCompleted = "COMPLETED"

type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewClient creates a new PayPal REST client
func NewClient(cfg config.PayPalConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// CaptureResult is the processor's answer to a synchronous capture. When
// AmountEchoed is true, Amount/Currency were read back from the capture
// response and are authoritative for order recording.
type CaptureResult struct {
	Status       string
	CaptureID    string
	Amount       decimal.Decimal
	Currency     string
	AmountEchoed bool
}

type captureResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
				Amount struct {
					Value        string `json:"value"`
					CurrencyCode string `json:"currency_code"`
				} `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CaptureOrder finalizes an already-approved PayPal order. A non-COMPLETED
// outcome comes back as *errors.ErrCapture; the caller must not record an
// order in that case.
func (c *Client) CaptureOrder(ctx context.Context, externalOrderID string) (*CaptureResult, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", c.baseURL, externalOrderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, &errors.ErrGateway{Provider: "paypal", Op: "capture", Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errors.ErrGateway{Provider: "paypal", Op: "capture", Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errors.ErrGateway{Provider: "paypal", Op: "capture", Message: err.Error(), Err: err}
	}

	var data captureResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &errors.ErrGateway{Provider: "paypal", Op: "capture",
			Message: fmt.Sprintf("unparseable response: status %d, body: %s", resp.StatusCode, string(body)), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || data.Status != StatusCompleted {
		c.logger.Error("PayPal capture failed",
			zap.String("external_order_id", externalOrderID),
			zap.Int("http_status", resp.StatusCode),
			zap.String("paypal_status", data.Status),
		)
		return nil, &errors.ErrCapture{
			Provider:        "paypal",
			ExternalOrderID: externalOrderID,
			Status:          data.Status,
			Detail:          string(body),
		}
	}

	result := &CaptureResult{Status: data.Status}
	if len(data.PurchaseUnits) > 0 && len(data.PurchaseUnits[0].Payments.Captures) > 0 {
		capture := data.PurchaseUnits[0].Payments.Captures[0]
		result.CaptureID = capture.ID
		result.Currency = capture.Amount.CurrencyCode
		if amount, err := decimal.NewFromString(capture.Amount.Value); err == nil {
			result.Amount = amount
			result.AmountEchoed = true
		}
	}

	c.logger.Info("PayPal capture completed",
		zap.String("external_order_id", externalOrderID),
		zap.String("capture_id", result.CaptureID),
	)
	return result, nil
}

// accessToken fetches a client-credentials OAuth token.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", &errors.ErrGateway{Provider: "paypal", Op: "oauth token", Message: err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &errors.ErrGateway{Provider: "paypal", Op: "oauth token", Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &errors.ErrGateway{Provider: "paypal", Op: "oauth token", Message: err.Error(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &errors.ErrGateway{Provider: "paypal", Op: "oauth token",
			Message: fmt.Sprintf("status %d, body: %s", resp.StatusCode, string(body))}
	}

	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", &errors.ErrGateway{Provider: "paypal", Op: "oauth token", Message: err.Error(), Err: err}
	}
	if data.AccessToken == "" {
		return "", &errors.ErrGateway{Provider: "paypal", Op: "oauth token", Message: "empty access token"}
	}
	return data.AccessToken, nil
}
