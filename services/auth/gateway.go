package auth

import "context"

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/nagarseva/kiosk/services/auth SMSGateway

// SMSGateway delivers one-time codes to citizens over SMS
type SMSGateway interface {
	SendSMS(ctx context.Context, mobileNumber, message string) error
}
