package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/nagarseva/kiosk/internal/pkg/apperrors"
	"github.com/nagarseva/kiosk/internal/pkg/models"
	"github.com/nagarseva/kiosk/services/payment"
)

// uniqueViolation is the PostgreSQL error code for a unique-constraint breach
const uniqueViolation = "23505"

// OrderRepo persists payment orders in PostgreSQL. Status transitions use
// conditional updates so concurrent writers for the same order serialize at
// the store without explicit locks.
type OrderRepo struct {
	db *sqlx.DB
}

// NewOrderRepo creates a new payment order repository
func NewOrderRepo(db *sqlx.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// CreateOrder persists a new order in CREATED state
func (r *OrderRepo) CreateOrder(ctx context.Context, order *models.PaymentOrder) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	query := `
		INSERT INTO payment_orders (
			order_id, user_id, bill_id, amount, currency, status, created_at, updated_at
		) VALUES (
			:order_id, :user_id, :bill_id, :amount, :currency, :status, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, order)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return payment.ErrDuplicateOrderID
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

// GetByOrderID retrieves an order by its ID
func (r *OrderRepo) GetByOrderID(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	query := `
		SELECT order_id, user_id, bill_id, amount, currency, gateway_session_id,
			status, transaction_id, gateway_payment_id, payment_method,
			failure_reason, payment_time, created_at, updated_at
		FROM payment_orders
		WHERE order_id = $1
	`

	var order models.PaymentOrder
	err := r.db.GetContext(ctx, &order, query, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

// SetSessionIssued stores the gateway session handle and advances the order,
// conditional on the order still being freshly created
func (r *OrderRepo) SetSessionIssued(ctx context.Context, orderID, sessionID string) error {
	query := `
		UPDATE payment_orders
		SET gateway_session_id = $2, status = $3, updated_at = now()
		WHERE order_id = $1 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query, orderID, sessionID,
		models.OrderStatusSessionIssued, models.OrderStatusCreated)
	if err != nil {
		return fmt.Errorf("failed to store gateway session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("order %s is not in %s state", orderID, models.OrderStatusCreated)
	}

	return nil
}

// TransitionStatus applies a terminal status unless the order already settled.
// Exactly one of several racing callers sees true.
func (r *OrderRepo) TransitionStatus(ctx context.Context, orderID string, status models.OrderStatus, details models.StatusDetails, paymentTime *time.Time) (bool, error) {
	query := `
		UPDATE payment_orders
		SET status = $2,
			transaction_id = COALESCE(NULLIF($3, ''), transaction_id),
			gateway_payment_id = COALESCE(NULLIF($4, ''), gateway_payment_id),
			payment_method = COALESCE(NULLIF($5, ''), payment_method),
			failure_reason = COALESCE(NULLIF($6, ''), failure_reason),
			payment_time = COALESCE($7, payment_time),
			updated_at = now()
		WHERE order_id = $1 AND status NOT IN ($8, $9)
	`

	result, err := r.db.ExecContext(ctx, query, orderID, status,
		details.TransactionID, details.GatewayPaymentID, details.PaymentMethod,
		details.FailureReason, paymentTime,
		models.OrderStatusSuccess, models.OrderStatusFailed)
	if err != nil {
		return false, fmt.Errorf("failed to transition order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rows > 0, nil
}

// ListByUser returns the user's orders, newest first
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]models.PaymentOrder, error) {
	query := `
		SELECT order_id, user_id, bill_id, amount, currency, gateway_session_id,
			status, transaction_id, gateway_payment_id, payment_method,
			failure_reason, payment_time, created_at, updated_at
		FROM payment_orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	orders := []models.PaymentOrder{}
	if err := r.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}
