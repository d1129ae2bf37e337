package models

import (
	"time"
)

// OrderStatus is the payment order state. SUCCESS and FAILED are terminal:
// once reached, no further transition is permitted.
type OrderStatus string

const (
	OrderStatusCreated       OrderStatus = "CREATED"
	OrderStatusSessionIssued OrderStatus = "SESSION_ISSUED"
	OrderStatusSuccess       OrderStatus = "SUCCESS"
	OrderStatusFailed        OrderStatus = "FAILED"
)

// IsTerminal reports whether the status is a sink state
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusSuccess || s == OrderStatusFailed
}

// PaymentOrder represents a payment order reconciled against the gateway
type PaymentOrder struct {
	OrderID          string      `json:"order_id" db:"order_id"`
	UserID           string      `json:"user_id" db:"user_id"`
	BillID           *string     `json:"bill_id,omitempty" db:"bill_id"`
	Amount           float64     `json:"amount" db:"amount"`
	Currency         string      `json:"currency" db:"currency"`
	GatewaySessionID *string     `json:"gateway_session_id,omitempty" db:"gateway_session_id"`
	Status           OrderStatus `json:"status" db:"status"`
	TransactionID    *string     `json:"transaction_id,omitempty" db:"transaction_id"`
	GatewayPaymentID *string     `json:"gateway_payment_id,omitempty" db:"gateway_payment_id"`
	PaymentMethod    *string     `json:"payment_method,omitempty" db:"payment_method"`
	FailureReason    *string     `json:"failure_reason,omitempty" db:"failure_reason"`
	PaymentTime      *time.Time  `json:"payment_time,omitempty" db:"payment_time"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`
}

// CreateOrderRequest represents a request to create a payment order
type CreateOrderRequest struct {
	Amount        float64 `json:"amount"`
	BillID        *string `json:"bill_id,omitempty"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
}

// CreateOrderResponse is the projection returned after order creation
type CreateOrderResponse struct {
	OrderID          string      `json:"order_id"`
	GatewaySessionID string      `json:"gateway_session_id"`
	Status           OrderStatus `json:"status"`
}

// StatusDetails carries the settlement fields that accompany a status update
type StatusDetails struct {
	TransactionID    string `json:"transaction_id,omitempty"`
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`
	PaymentMethod    string `json:"payment_method,omitempty"`
	FailureReason    string `json:"failure_reason,omitempty"`
}

// GatewaySession is the session handle returned by the payment gateway
type GatewaySession struct {
	SessionID string `json:"session_id"`
}

// GatewayStatusRecord is one status entry from the gateway's order query
type GatewayStatusRecord struct {
	Status           string `json:"status"`
	TransactionID    string `json:"transaction_id,omitempty"`
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`
	PaymentMethod    string `json:"payment_method,omitempty"`
	FailureReason    string `json:"failure_reason,omitempty"`
}

// WebhookNotification is a gateway callback reduced to its expected primitive
// fields. Actionable is false for pending or unrecognized statuses.
type WebhookNotification struct {
	OrderID    string
	Status     OrderStatus
	Details    StatusDetails
	Actionable bool
}

// OrderSettledEvent is published when an order reaches a terminal state
type OrderSettledEvent struct {
	OrderID     string      `json:"order_id"`
	UserID      string      `json:"user_id"`
	Status      OrderStatus `json:"status"`
	Amount      float64     `json:"amount"`
	Currency    string      `json:"currency"`
	PaymentTime *time.Time  `json:"payment_time,omitempty"`
	OccurredAt  time.Time   `json:"occurred_at"`
}
