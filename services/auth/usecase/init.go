package usecase

import (
	"github.com/nagarseva/kiosk/internal/pkg/crypto"
	"github.com/nagarseva/kiosk/internal/pkg/models"
	"github.com/nagarseva/kiosk/internal/pkg/ratelimit"
	"github.com/nagarseva/kiosk/services/auth"
)

// Rate limiter actions for the OTP lifecycle
const (
	ActionOTPRequest = "otp:request"
	ActionOTPVerify  = "otp:verify"
	ActionOTPResend  = "otp:resend"
)

// AuthUC orchestrates the one-time code lifecycle
type AuthUC struct {
	principalRepo auth.PrincipalRepo
	smsGW         auth.SMSGateway
	limiter       ratelimit.Limiter
	cipher        *crypto.Cipher
	cfg           *models.Config
}

// NewAuthUC creates a new auth usecase instance
func NewAuthUC(
	principalRepo auth.PrincipalRepo,
	smsGW auth.SMSGateway,
	limiter ratelimit.Limiter,
	cipher *crypto.Cipher,
	cfg *models.Config,
) *AuthUC {
	return &AuthUC{
		principalRepo: principalRepo,
		smsGW:         smsGW,
		limiter:       limiter,
		cipher:        cipher,
		cfg:           cfg,
	}
}
