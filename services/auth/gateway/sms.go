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

// SMSGW sends messages through the carrier SMS gateway
type SMSGW struct {
	cfg        models.SMSConfig
	httpClient *http.Client
}

// NewSMSGW creates a new SMS gateway client with a bounded request timeout
func NewSMSGW(cfg models.SMSConfig) *SMSGW {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &SMSGW{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type smsSendRequest struct {
	To       string `json:"to"`
	Message  string `json:"message"`
	SenderID string `json:"sender_id"`
}

type smsSendResponse struct {
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

// SendSMS delivers one message to the given mobile number
func (g *SMSGW) SendSMS(ctx context.Context, mobileNumber, message string) error {
	payload, err := json.Marshal(smsSendRequest{
		To:       mobileNumber,
		Message:  message,
		SenderID: g.cfg.SenderID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal SMS request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/v1/sms/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("SMS gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SMS gateway returned status %d", resp.StatusCode)
	}

	var result smsSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode SMS gateway response: %w", err)
	}
	if !result.Delivered {
		return fmt.Errorf("SMS gateway rejected message: %s", result.Error)
	}

	return nil
}
