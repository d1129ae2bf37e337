package gateway

import (
	natspkg "github.com/nagarseva/kiosk/internal/pkg/nats"
	"github.com/nagarseva/kiosk/internal/pkg/models"
)

// NATS subjects for payment lifecycle events
const (
	SubjectWebhookReceived = "payment.webhook.received"
	SubjectOrderSettled    = "payment.order.settled"
)

// PaymentEventsGW publishes payment lifecycle events over NATS
type PaymentEventsGW struct {
	natsClient *natspkg.Client
}

// NewPaymentEventsGW creates a new payment events publisher
func NewPaymentEventsGW(natsClient *natspkg.Client) *PaymentEventsGW {
	return &PaymentEventsGW{natsClient: natsClient}
}

// PublishWebhookReceived records a raw gateway callback before processing
func (g *PaymentEventsGW) PublishWebhookReceived(payload []byte) error {
	return g.natsClient.Publish(SubjectWebhookReceived, payload)
}

// PublishOrderSettled announces a transition into a terminal state
func (g *PaymentEventsGW) PublishOrderSettled(event *models.OrderSettledEvent) error {
	return g.natsClient.PublishJSON(SubjectOrderSettled, event)
}
