package payment

import (
	"context"

	"github.com/nagarseva/kiosk/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/nagarseva/kiosk/services/payment PaymentUC

// PaymentUC is the payment order manager
type PaymentUC interface {
	CreateOrder(ctx context.Context, userID string, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error)

	// ApplyStatus is the single idempotent entry point for settlement updates
	// from both the webhook and the verification poll.
	ApplyStatus(ctx context.Context, orderID string, status models.OrderStatus, details models.StatusDetails) (*models.PaymentOrder, error)

	// HandleWebhook records, sanitizes and applies a raw gateway callback
	HandleWebhook(ctx context.Context, payload []byte) error

	// VerifyPayment polls the gateway and reconciles the order
	VerifyPayment(ctx context.Context, orderID string) (*models.PaymentOrder, error)

	GetOrderHistory(ctx context.Context, userID string) ([]models.PaymentOrder, error)
}
