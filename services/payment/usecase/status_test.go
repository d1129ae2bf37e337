package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nagarseva/kiosk/internal/pkg/apperrors"
	"github.com/nagarseva/kiosk/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOrder(orderID string) *models.PaymentOrder {
	sessionID := "sess-123"
	return &models.PaymentOrder{
		OrderID:          orderID,
		UserID:           "user-1",
		Amount:           450.50,
		Currency:         "INR",
		GatewaySessionID: &sessionID,
		Status:           models.OrderStatusSessionIssued,
		CreatedAt:        time.Now().Add(-time.Minute),
	}
}

func settledOrder(orderID string, status models.OrderStatus) *models.PaymentOrder {
	order := pendingOrder(orderID)
	order.Status = status
	if status == models.OrderStatusSuccess {
		now := time.Now()
		order.PaymentTime = &now
		txn := "TXN-1"
		order.TransactionID = &txn
	}
	return order
}

func TestApplyStatus_SettlesPendingOrder(t *testing.T) {
	// Arrange
	uc, mockRepo, _, mockEvents := setupPaymentUC(t)

	details := models.StatusDetails{TransactionID: "TXN-1", PaymentMethod: "UPI"}
	settled := settledOrder("ORD1", models.OrderStatusSuccess)

	gomock.InOrder(
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(pendingOrder("ORD1"), nil),
		mockRepo.EXPECT().
			TransitionStatus(gomock.Any(), "ORD1", models.OrderStatusSuccess, details, gomock.Not(gomock.Nil())).
			Return(true, nil),
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(settled, nil),
	)
	mockEvents.EXPECT().
		PublishOrderSettled(gomock.Any()).
		DoAndReturn(func(event *models.OrderSettledEvent) error {
			assert.Equal(t, "ORD1", event.OrderID)
			assert.Equal(t, models.OrderStatusSuccess, event.Status)
			return nil
		})

	// Act
	order, err := uc.ApplyStatus(context.Background(), "ORD1", models.OrderStatusSuccess, details)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSuccess, order.Status)
}

func TestApplyStatus_FailureCarriesNoPaymentTime(t *testing.T) {
	uc, mockRepo, _, mockEvents := setupPaymentUC(t)

	details := models.StatusDetails{FailureReason: "insufficient funds"}

	gomock.InOrder(
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(pendingOrder("ORD1"), nil),
		mockRepo.EXPECT().
			TransitionStatus(gomock.Any(), "ORD1", models.OrderStatusFailed, details, gomock.Nil()).
			Return(true, nil),
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(settledOrder("ORD1", models.OrderStatusFailed), nil),
	)
	mockEvents.EXPECT().PublishOrderSettled(gomock.Any()).Return(nil)

	order, err := uc.ApplyStatus(context.Background(), "ORD1", models.OrderStatusFailed, details)

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusFailed, order.Status)
}

func TestApplyStatus_ReplaySameTerminalStatusIsNoOp(t *testing.T) {
	// Arrange: the order is already SUCCESS; a webhook retry reports SUCCESS
	// again. No transition, no event.
	uc, mockRepo, _, _ := setupPaymentUC(t)

	settled := settledOrder("ORD1", models.OrderStatusSuccess)
	mockRepo.EXPECT().
		GetByOrderID(gomock.Any(), "ORD1").
		Return(settled, nil)

	// Act
	order, err := uc.ApplyStatus(context.Background(), "ORD1", models.OrderStatusSuccess, models.StatusDetails{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, settled, order)
}

func TestApplyStatus_ConflictingTerminalStatusRejected(t *testing.T) {
	uc, mockRepo, _, _ := setupPaymentUC(t)

	mockRepo.EXPECT().
		GetByOrderID(gomock.Any(), "ORD1").
		Return(settledOrder("ORD1", models.OrderStatusSuccess), nil)

	order, err := uc.ApplyStatus(context.Background(), "ORD1", models.OrderStatusFailed, models.StatusDetails{})

	assert.Nil(t, order)
	var conflict *apperrors.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, string(models.OrderStatusSuccess), conflict.Stored)
	assert.Equal(t, string(models.OrderStatusFailed), conflict.Applied)
}

func TestApplyStatus_StaleNonTerminalAfterSettlementIsNoOp(t *testing.T) {
	uc, mockRepo, _, _ := setupPaymentUC(t)

	settled := settledOrder("ORD1", models.OrderStatusSuccess)
	mockRepo.EXPECT().
		GetByOrderID(gomock.Any(), "ORD1").
		Return(settled, nil)

	order, err := uc.ApplyStatus(context.Background(), "ORD1", models.OrderStatusSessionIssued, models.StatusDetails{})

	require.NoError(t, err)
	assert.Equal(t, settled, order)
}

func TestApplyStatus_PendingIncomingDecidesNothing(t *testing.T) {
	uc, mockRepo, _, _ := setupPaymentUC(t)

	pending := pendingOrder("ORD1")
	mockRepo.EXPECT().
		GetByOrderID(gomock.Any(), "ORD1").
		Return(pending, nil)

	order, err := uc.ApplyStatus(context.Background(), "ORD1", models.OrderStatusSessionIssued, models.StatusDetails{})

	require.NoError(t, err)
	assert.Equal(t, pending, order)
}

func TestApplyStatus_LostRaceSameWinnerIsNoOp(t *testing.T) {
	// Arrange: the conditional update loses to a concurrent writer that
	// applied the same terminal status
	uc, mockRepo, _, _ := setupPaymentUC(t)

	gomock.InOrder(
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(pendingOrder("ORD1"), nil),
		mockRepo.EXPECT().
			TransitionStatus(gomock.Any(), "ORD1", models.OrderStatusSuccess, gomock.Any(), gomock.Any()).
			Return(false, nil),
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(settledOrder("ORD1", models.OrderStatusSuccess), nil),
	)

	// Act
	order, err := uc.ApplyStatus(context.Background(), "ORD1", models.OrderStatusSuccess, models.StatusDetails{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSuccess, order.Status)
}

func TestApplyStatus_LostRaceDifferentWinnerConflicts(t *testing.T) {
	uc, mockRepo, _, _ := setupPaymentUC(t)

	gomock.InOrder(
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(pendingOrder("ORD1"), nil),
		mockRepo.EXPECT().
			TransitionStatus(gomock.Any(), "ORD1", models.OrderStatusFailed, gomock.Any(), gomock.Any()).
			Return(false, nil),
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(settledOrder("ORD1", models.OrderStatusSuccess), nil),
	)

	order, err := uc.ApplyStatus(context.Background(), "ORD1", models.OrderStatusFailed, models.StatusDetails{})

	assert.Nil(t, order)
	var conflict *apperrors.ConflictError
	assert.True(t, errors.As(err, &conflict))
}

func TestApplyStatus_UnknownOrder(t *testing.T) {
	uc, mockRepo, _, _ := setupPaymentUC(t)

	mockRepo.EXPECT().
		GetByOrderID(gomock.Any(), "ORD404").
		Return(nil, apperrors.ErrNotFound)

	order, err := uc.ApplyStatus(context.Background(), "ORD404", models.OrderStatusSuccess, models.StatusDetails{})

	assert.Nil(t, order)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestApplyStatus_EventFailureDoesNotFailSettlement(t *testing.T) {
	uc, mockRepo, _, mockEvents := setupPaymentUC(t)

	gomock.InOrder(
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(pendingOrder("ORD1"), nil),
		mockRepo.EXPECT().
			TransitionStatus(gomock.Any(), "ORD1", models.OrderStatusSuccess, gomock.Any(), gomock.Any()).
			Return(true, nil),
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(settledOrder("ORD1", models.OrderStatusSuccess), nil),
	)
	mockEvents.EXPECT().
		PublishOrderSettled(gomock.Any()).
		Return(errors.New("broker unavailable"))

	order, err := uc.ApplyStatus(context.Background(), "ORD1", models.OrderStatusSuccess, models.StatusDetails{})

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSuccess, order.Status)
}

func TestVerifyPayment_SuccessOutranksFailure(t *testing.T) {
	// Arrange: the gateway history holds a failed attempt followed by a
	// successful one; success must win regardless of order
	uc, mockRepo, mockGW, mockEvents := setupPaymentUC(t)

	records := []models.GatewayStatusRecord{
		{Status: "FAILED", FailureReason: "first attempt declined"},
		{Status: "PAID", TransactionID: "TXN-2", PaymentMethod: "UPI"},
	}

	gomock.InOrder(
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(pendingOrder("ORD1"), nil),
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(pendingOrder("ORD1"), nil),
		mockRepo.EXPECT().
			TransitionStatus(gomock.Any(), "ORD1", models.OrderStatusSuccess,
				models.StatusDetails{TransactionID: "TXN-2", PaymentMethod: "UPI"}, gomock.Any()).
			Return(true, nil),
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(settledOrder("ORD1", models.OrderStatusSuccess), nil),
	)
	mockGW.EXPECT().
		QueryStatus(gomock.Any(), "ORD1").
		Return(records, nil)
	mockEvents.EXPECT().PublishOrderSettled(gomock.Any()).Return(nil)

	// Act
	order, err := uc.VerifyPayment(context.Background(), "ORD1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSuccess, order.Status)
}

func TestVerifyPayment_PendingRecordsLeaveOrderUntouched(t *testing.T) {
	uc, mockRepo, mockGW, _ := setupPaymentUC(t)

	pending := pendingOrder("ORD1")
	mockRepo.EXPECT().
		GetByOrderID(gomock.Any(), "ORD1").
		Return(pending, nil)
	mockGW.EXPECT().
		QueryStatus(gomock.Any(), "ORD1").
		Return([]models.GatewayStatusRecord{{Status: "PENDING"}, {Status: "INITIATED"}}, nil)

	order, err := uc.VerifyPayment(context.Background(), "ORD1")

	require.NoError(t, err)
	assert.Equal(t, pending, order)
}

func TestVerifyPayment_AfterWebhookSettledIsNoOp(t *testing.T) {
	// The webhook settled the order first; a later manual verify reporting
	// the same outcome must change nothing
	uc, mockRepo, mockGW, _ := setupPaymentUC(t)

	settled := settledOrder("ORD1", models.OrderStatusSuccess)
	gomock.InOrder(
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(settled, nil),
		mockRepo.EXPECT().
			GetByOrderID(gomock.Any(), "ORD1").
			Return(settled, nil),
	)
	mockGW.EXPECT().
		QueryStatus(gomock.Any(), "ORD1").
		Return([]models.GatewayStatusRecord{{Status: "SUCCESS", TransactionID: "TXN-1"}}, nil)

	order, err := uc.VerifyPayment(context.Background(), "ORD1")

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSuccess, order.Status)
}

func TestVerifyPayment_GatewayUnavailable(t *testing.T) {
	uc, mockRepo, mockGW, _ := setupPaymentUC(t)

	mockRepo.EXPECT().
		GetByOrderID(gomock.Any(), "ORD1").
		Return(pendingOrder("ORD1"), nil)
	mockGW.EXPECT().
		QueryStatus(gomock.Any(), "ORD1").
		Return(nil, errors.New("gateway timeout"))

	order, err := uc.VerifyPayment(context.Background(), "ORD1")

	assert.Nil(t, order)
	var depErr *apperrors.DependencyError
	assert.True(t, errors.As(err, &depErr))
}

func TestReduceStatusRecords(t *testing.T) {
	tests := []struct {
		name       string
		records    []models.GatewayStatusRecord
		status     models.OrderStatus
		actionable bool
	}{
		{
			name:       "empty history",
			records:    nil,
			actionable: false,
		},
		{
			name:       "only pending",
			records:    []models.GatewayStatusRecord{{Status: "PENDING"}},
			actionable: false,
		},
		{
			name:       "single success",
			records:    []models.GatewayStatusRecord{{Status: "CAPTURED"}},
			status:     models.OrderStatusSuccess,
			actionable: true,
		},
		{
			name:       "failure only",
			records:    []models.GatewayStatusRecord{{Status: "EXPIRED"}},
			status:     models.OrderStatusFailed,
			actionable: true,
		},
		{
			name: "success after failures",
			records: []models.GatewayStatusRecord{
				{Status: "FAILED"},
				{Status: "CANCELLED"},
				{Status: "SUCCESS"},
			},
			status:     models.OrderStatusSuccess,
			actionable: true,
		},
		{
			name: "unknown statuses are skipped",
			records: []models.GatewayStatusRecord{
				{Status: "SOMETHING_NEW"},
				{Status: "FAILURE"},
			},
			status:     models.OrderStatusFailed,
			actionable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, actionable := reduceStatusRecords(tt.records)
			assert.Equal(t, tt.actionable, actionable)
			if tt.actionable {
				assert.Equal(t, tt.status, status)
			}
		})
	}
}
