package payment

import (
	"context"
	"errors"
	"time"

	"github.com/nagarseva/kiosk/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/nagarseva/kiosk/services/payment OrderRepo

// ErrDuplicateOrderID is returned when the store's unique constraint rejects
// an order ID. Callers regenerate and retry.
var ErrDuplicateOrderID = errors.New("order id already exists")

// OrderRepo is the durable store for payment orders
type OrderRepo interface {
	// CreateOrder persists a new order. Returns ErrDuplicateOrderID on an
	// order-ID collision.
	CreateOrder(ctx context.Context, order *models.PaymentOrder) error

	// GetByOrderID returns apperrors.ErrNotFound when the order does not exist
	GetByOrderID(ctx context.Context, orderID string) (*models.PaymentOrder, error)

	// SetSessionIssued stores the gateway session and moves the order to
	// SESSION_ISSUED, conditional on the order still being in CREATED.
	SetSessionIssued(ctx context.Context, orderID, sessionID string) error

	// TransitionStatus applies a terminal status conditional on the order not
	// already being terminal. Returns false when the condition did not hold;
	// the caller re-reads and applies the terminal-state rules.
	TransitionStatus(ctx context.Context, orderID string, status models.OrderStatus, details models.StatusDetails, paymentTime *time.Time) (bool, error)

	// ListByUser returns the user's orders, newest first
	ListByUser(ctx context.Context, userID string) ([]models.PaymentOrder, error)
}
