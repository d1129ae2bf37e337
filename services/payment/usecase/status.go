package usecase

import (
	"context"
	"time"

	"github.com/nagarseva/kiosk/internal/pkg/apperrors"
	"github.com/nagarseva/kiosk/internal/pkg/logger"
	"github.com/nagarseva/kiosk/internal/pkg/models"
)

// ApplyStatus is the single entry point for settlement updates from both the
// webhook push and the verification pull. Whichever source arrives first wins;
// a replay of the same terminal status is a no-op and a conflicting terminal
// status is rejected, never silently applied.
func (uc *PaymentUC) ApplyStatus(ctx context.Context, orderID string, status models.OrderStatus, details models.StatusDetails) (*models.PaymentOrder, error) {
	order, err := uc.orderRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status.IsTerminal() {
		if order.Status == status {
			// Idempotent replay, common with webhook retries
			return order, nil
		}
		if status.IsTerminal() {
			conflict := &apperrors.ConflictError{
				OrderID: orderID,
				Stored:  string(order.Status),
				Applied: string(status),
			}
			logger.Error("Refusing terminal status regression",
				logger.String("order_id", orderID),
				logger.String("stored", string(order.Status)),
				logger.String("applied", string(status)))
			return nil, conflict
		}
		// Stale non-terminal report after settlement
		return order, nil
	}

	if !status.IsTerminal() {
		// Pending reports carry no new state
		return order, nil
	}

	var paymentTime *time.Time
	if status == models.OrderStatusSuccess {
		now := time.Now()
		paymentTime = &now
	}

	applied, err := uc.orderRepo.TransitionStatus(ctx, orderID, status, details, paymentTime)
	if err != nil {
		return nil, apperrors.NewDependencyError("order store", err)
	}
	if !applied {
		// Lost the race against the other status source; re-read and apply
		// the terminal-state rules to the winner.
		settled, err := uc.orderRepo.GetByOrderID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if settled.Status == status {
			return settled, nil
		}
		return nil, &apperrors.ConflictError{
			OrderID: orderID,
			Stored:  string(settled.Status),
			Applied: string(status),
		}
	}

	updated, err := uc.orderRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	uc.publishSettled(updated)

	logger.Info("Order settled",
		logger.String("order_id", orderID),
		logger.String("status", string(status)))

	return updated, nil
}

// VerifyPayment polls the gateway for the order's settlement records and
// reconciles them through ApplyStatus. This is the manual-refresh fallback
// for missed webhooks.
func (uc *PaymentUC) VerifyPayment(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	order, err := uc.orderRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	records, err := uc.paymentGW.QueryStatus(ctx, orderID)
	if err != nil {
		return nil, apperrors.NewDependencyError("payment gateway", err)
	}

	status, details, actionable := reduceStatusRecords(records)
	if !actionable {
		return order, nil
	}

	return uc.ApplyStatus(ctx, orderID, status, details)
}

// reduceStatusRecords picks the decisive record from the gateway's history:
// any success outranks any failure, and pending records decide nothing.
func reduceStatusRecords(records []models.GatewayStatusRecord) (models.OrderStatus, models.StatusDetails, bool) {
	var failed *models.GatewayStatusRecord

	for i := range records {
		rec := &records[i]
		status, ok := mapGatewayStatus(rec.Status)
		if !ok {
			continue
		}
		if status == models.OrderStatusSuccess {
			return models.OrderStatusSuccess, detailsFromRecord(rec), true
		}
		if failed == nil {
			failed = rec
		}
	}

	if failed != nil {
		return models.OrderStatusFailed, detailsFromRecord(failed), true
	}

	return "", models.StatusDetails{}, false
}

func detailsFromRecord(rec *models.GatewayStatusRecord) models.StatusDetails {
	return models.StatusDetails{
		TransactionID:    rec.TransactionID,
		GatewayPaymentID: rec.GatewayPaymentID,
		PaymentMethod:    rec.PaymentMethod,
		FailureReason:    rec.FailureReason,
	}
}

// publishSettled is best-effort: event delivery failures are logged, never
// allowed to fail the settlement itself
func (uc *PaymentUC) publishSettled(order *models.PaymentOrder) {
	if uc.events == nil {
		return
	}

	event := &models.OrderSettledEvent{
		OrderID:     order.OrderID,
		UserID:      order.UserID,
		Status:      order.Status,
		Amount:      order.Amount,
		Currency:    order.Currency,
		PaymentTime: order.PaymentTime,
		OccurredAt:  time.Now(),
	}

	if err := uc.events.PublishOrderSettled(event); err != nil {
		logger.Warn("Failed to publish settlement event",
			logger.String("order_id", order.OrderID),
			logger.Err(err))
	}
}
