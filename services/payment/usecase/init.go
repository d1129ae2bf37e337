package usecase

import (
	"github.com/nagarseva/kiosk/internal/pkg/models"
	"github.com/nagarseva/kiosk/services/payment"
)

// PaymentUC reconciles payment orders against the external gateway
type PaymentUC struct {
	orderRepo payment.OrderRepo
	paymentGW payment.PaymentGW
	events    payment.PaymentEvents
	cfg       *models.Config
}

// NewPaymentUC creates a new payment usecase instance
func NewPaymentUC(
	orderRepo payment.OrderRepo,
	paymentGW payment.PaymentGW,
	events payment.PaymentEvents,
	cfg *models.Config,
) *PaymentUC {
	return &PaymentUC{
		orderRepo: orderRepo,
		paymentGW: paymentGW,
		events:    events,
		cfg:       cfg,
	}
}
