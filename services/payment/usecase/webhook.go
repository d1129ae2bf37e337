package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nagarseva/kiosk/internal/pkg/logger"
	"github.com/nagarseva/kiosk/internal/pkg/models"
)

// HandleWebhook processes a raw gateway callback. The payload is durably
// recorded before processing, so a failure further down never silently drops
// data; the HTTP handler acks the gateway regardless of the outcome here.
func (uc *PaymentUC) HandleWebhook(ctx context.Context, payload []byte) error {
	if uc.events != nil {
		if err := uc.events.PublishWebhookReceived(payload); err != nil {
			logger.Warn("Failed to record webhook payload", logger.Err(err))
		}
	}

	notification, err := SanitizeWebhookPayload(payload)
	if err != nil {
		logger.Error("Rejected malformed webhook payload", logger.Err(err))
		return err
	}
	if !notification.Actionable {
		logger.Debug("Ignoring non-settlement webhook",
			logger.String("order_id", notification.OrderID))
		return nil
	}

	if _, err := uc.ApplyStatus(ctx, notification.OrderID, notification.Status, notification.Details); err != nil {
		logger.Error("Failed to apply webhook status",
			logger.String("order_id", notification.OrderID),
			logger.Err(err))
		return err
	}

	return nil
}

// SanitizeWebhookPayload reduces an untrusted gateway callback to its expected
// primitive fields. Unknown keys and non-primitive values are dropped so a
// crafted object graph never reaches the state machine.
func SanitizeWebhookPayload(payload []byte) (*models.WebhookNotification, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	orderID := coerceString(raw["order_id"])
	if orderID == "" {
		return nil, fmt.Errorf("webhook payload missing order_id")
	}

	notification := &models.WebhookNotification{
		OrderID: orderID,
		Details: models.StatusDetails{
			TransactionID:    coerceString(raw["transaction_id"]),
			GatewayPaymentID: coerceString(raw["gateway_payment_id"]),
			PaymentMethod:    coerceString(raw["payment_method"]),
			FailureReason:    coerceString(raw["failure_reason"]),
		},
	}

	if status, ok := mapGatewayStatus(coerceString(raw["status"])); ok {
		notification.Status = status
		notification.Actionable = true
	}

	return notification, nil
}

// mapGatewayStatus translates a gateway status string into an order status.
// Pending-like and unknown statuses report not-ok: they decide nothing.
func mapGatewayStatus(status string) (models.OrderStatus, bool) {
	switch status {
	case "SUCCESS", "PAID", "CAPTURED":
		return models.OrderStatusSuccess, true
	case "FAILED", "FAILURE", "EXPIRED", "CANCELLED":
		return models.OrderStatusFailed, true
	default:
		return "", false
	}
}

// coerceString accepts only JSON primitives and renders them as a string;
// objects, arrays and null all become empty
func coerceString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
