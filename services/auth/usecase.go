package auth

import (
	"context"

	"github.com/nagarseva/kiosk/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/nagarseva/kiosk/services/auth AuthUC

// AuthUC is the OTP lifecycle manager. clientID is the caller's network
// identity, used as the rate-limit key when the mobile number is unusable.
type AuthUC interface {
	RequestOTP(ctx context.Context, mobileNumber, clientID string) (*models.OTPResult, error)
	VerifyOTP(ctx context.Context, mobileNumber, otp, clientID string) (*models.AuthResponse, error)
	ResendOTP(ctx context.Context, mobileNumber, clientID string) (*models.OTPResult, error)
	Logout(ctx context.Context, mobileNumber string) error
}
