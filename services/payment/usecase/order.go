package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/nagarseva/kiosk/internal/pkg/apperrors"
	"github.com/nagarseva/kiosk/internal/pkg/logger"
	"github.com/nagarseva/kiosk/internal/pkg/models"
	"github.com/nagarseva/kiosk/internal/utils"
	"github.com/nagarseva/kiosk/services/payment"
)

// Attempts at a fresh order ID before giving up on unique-constraint rejects
const maxOrderIDAttempts = 3

// CreateOrder validates the request, persists the order and opens a gateway
// payment session. A gateway failure leaves the order in CREATED rather than
// rolling it back, so creating a session can be retried; the manager itself
// does not auto-retry.
func (uc *PaymentUC) CreateOrder(ctx context.Context, userID string, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	order := &models.PaymentOrder{
		UserID:   userID,
		BillID:   req.BillID,
		Amount:   req.Amount,
		Currency: uc.cfg.Payment.Currency,
		Status:   models.OrderStatusCreated,
	}

	// Timestamp+random IDs are only advisory-unique; the store's unique
	// constraint is the backstop, and a reject means regenerate and retry.
	var created bool
	for attempt := 0; attempt < maxOrderIDAttempts; attempt++ {
		order.OrderID = generateOrderID()

		err := uc.orderRepo.CreateOrder(ctx, order)
		if err == nil {
			created = true
			break
		}
		if errors.Is(err, payment.ErrDuplicateOrderID) {
			logger.Warn("Order ID collision, regenerating",
				logger.String("order_id", order.OrderID))
			continue
		}
		return nil, apperrors.NewDependencyError("order store", err)
	}
	if !created {
		return nil, apperrors.NewDependencyError("order store",
			fmt.Errorf("could not allocate a unique order id after %d attempts", maxOrderIDAttempts))
	}

	session, err := uc.paymentGW.CreateSession(ctx, order, req.CustomerName, req.CustomerPhone)
	if err != nil {
		logger.Error("Gateway session creation failed, order remains created",
			logger.String("order_id", order.OrderID),
			logger.Err(err))
		return nil, apperrors.NewDependencyError("payment gateway", err)
	}

	if err := uc.orderRepo.SetSessionIssued(ctx, order.OrderID, session.SessionID); err != nil {
		return nil, apperrors.NewDependencyError("order store", err)
	}

	return &models.CreateOrderResponse{
		OrderID:          order.OrderID,
		GatewaySessionID: session.SessionID,
		Status:           models.OrderStatusSessionIssued,
	}, nil
}

// GetOrderHistory lists the user's orders, newest first
func (uc *PaymentUC) GetOrderHistory(ctx context.Context, userID string) ([]models.PaymentOrder, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	orders, err := uc.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDependencyError("order store", err)
	}

	return orders, nil
}

// validateOrderRequest collects every violation rather than stopping at the first
func validateOrderRequest(req *models.CreateOrderRequest) error {
	var violations []string

	if req.Amount <= 0 || math.IsInf(req.Amount, 0) || math.IsNaN(req.Amount) {
		violations = append(violations, "amount must be a positive finite number")
	}
	if req.CustomerName == "" {
		violations = append(violations, "customer_name is required")
	}
	if isValid, _, err := utils.ValidateMobileNumber(req.CustomerPhone); err != nil || !isValid {
		violations = append(violations, "customer_phone must be a valid 10-digit mobile number")
	}

	if len(violations) > 0 {
		return apperrors.NewValidationError(violations...)
	}
	return nil
}

func generateOrderID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back to the
		// clock-only component and let the unique constraint catch collisions
		n = big.NewInt(time.Now().UnixNano() % 1000000)
	}

	return fmt.Sprintf("ORD%d%06d", time.Now().UnixMilli(), n.Int64())
}
