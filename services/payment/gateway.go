package payment

import (
	"context"

	"github.com/nagarseva/kiosk/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/nagarseva/kiosk/services/payment PaymentGW,PaymentEvents

// PaymentGW is the external payment gateway contract
type PaymentGW interface {
	// CreateSession opens a gateway payment session for the order.
	// The order ID doubles as the idempotency key toward the gateway.
	CreateSession(ctx context.Context, order *models.PaymentOrder, customerName, customerPhone string) (*models.GatewaySession, error)

	// QueryStatus fetches the gateway's status records for the order
	QueryStatus(ctx context.Context, orderID string) ([]models.GatewayStatusRecord, error)
}

// PaymentEvents publishes payment lifecycle events for audit and follow-up
type PaymentEvents interface {
	// PublishWebhookReceived durably records a raw gateway callback before it
	// is processed, so an internal failure never silently drops data.
	PublishWebhookReceived(payload []byte) error

	// PublishOrderSettled announces a transition into a terminal state
	PublishOrderSettled(event *models.OrderSettledEvent) error
}
