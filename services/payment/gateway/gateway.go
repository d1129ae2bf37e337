package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nagarseva/kiosk/internal/pkg/models"
)

// PaymentGW talks to the external payment gateway over HTTP
type PaymentGW struct {
	cfg        models.PaymentConfig
	httpClient *http.Client
}

// NewPaymentGW creates a new payment gateway client with a bounded timeout
func NewPaymentGW(cfg models.PaymentConfig) *PaymentGW {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &PaymentGW{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type createSessionRequest struct {
	MerchantID    string  `json:"merchant_id"`
	OrderID       string  `json:"order_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	Error     string `json:"error,omitempty"`
}

// CreateSession opens a payment session for the order. The order ID is the
// idempotency key: re-sending the same order yields the same session.
func (g *PaymentGW) CreateSession(ctx context.Context, order *models.PaymentOrder, customerName, customerPhone string) (*models.GatewaySession, error) {
	payload, err := json.Marshal(createSessionRequest{
		MerchantID:    g.cfg.MerchantID,
		OrderID:       order.OrderID,
		Amount:        order.Amount,
		Currency:      order.Currency,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.GatewayURL+"/v1/sessions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var result createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}
	if result.SessionID == "" {
		return nil, fmt.Errorf("payment gateway rejected session: %s", result.Error)
	}

	return &models.GatewaySession{SessionID: result.SessionID}, nil
}

type queryStatusResponse struct {
	Records []models.GatewayStatusRecord `json:"records"`
}

// QueryStatus fetches the gateway's settlement records for the order
func (g *PaymentGW) QueryStatus(ctx context.Context, orderID string) ([]models.GatewayStatusRecord, error) {
	url := fmt.Sprintf("%s/v1/orders/%s/status", g.cfg.GatewayURL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var result queryStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}

	return result.Records, nil
}
