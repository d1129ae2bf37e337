package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/nagarseva/kiosk/internal/pkg/apperrors"
	"github.com/nagarseva/kiosk/internal/pkg/crypto"
	jwtpkg "github.com/nagarseva/kiosk/internal/pkg/jwt"
	"github.com/nagarseva/kiosk/internal/pkg/logger"
	"github.com/nagarseva/kiosk/internal/pkg/models"
	"github.com/nagarseva/kiosk/internal/utils"
)

// RequestOTP generates, stores and delivers a fresh one-time code for the
// given mobile number. A delivery failure does not roll back the stored
// challenge; resend is the recovery path.
func (uc *AuthUC) RequestOTP(ctx context.Context, mobileNumber, clientID string) (*models.OTPResult, error) {
	formatted, err := uc.checkMobileAndLimit(ctx, ActionOTPRequest, mobileNumber, clientID)
	if err != nil {
		return nil, err
	}

	code, err := crypto.GenerateNumericCode(uc.cfg.OTP.CodeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	ciphertext, err := uc.cipher.Encrypt([]byte(code))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt code: %w", err)
	}

	expiresAt := time.Now().Add(time.Duration(uc.cfg.OTP.TTLMinutes) * time.Minute)

	if _, err := uc.principalRepo.UpsertChallenge(ctx, formatted, ciphertext, expiresAt); err != nil {
		return nil, apperrors.NewDependencyError("secret store", err)
	}

	message := fmt.Sprintf("Your Nagarseva verification code is %s. It is valid for %d minutes.",
		code, uc.cfg.OTP.TTLMinutes)

	if err := uc.smsGW.SendSMS(ctx, formatted, message); err != nil {
		logger.Warn("OTP delivery failed, stored challenge remains valid",
			logger.String("mobile_number", formatted),
			logger.Err(err))

		if uc.exposeCodeAllowed() {
			return &models.OTPResult{Delivered: false, DebugCode: code}, nil
		}
		return nil, apperrors.NewDependencyError("sms gateway", err)
	}

	return &models.OTPResult{Delivered: true}, nil
}

// VerifyOTP checks a submitted code against the outstanding challenge.
// The code comparison runs in constant time before the expiry check, and the
// clear is conditional on the loaded ciphertext so a code is consumed at most
// once even under concurrent verifies.
func (uc *AuthUC) VerifyOTP(ctx context.Context, mobileNumber, otp, clientID string) (*models.AuthResponse, error) {
	formatted, err := uc.checkMobileAndLimit(ctx, ActionOTPVerify, mobileNumber, clientID)
	if err != nil {
		return nil, err
	}
	if otp == "" {
		return nil, apperrors.NewValidationError("otp is required")
	}

	principal, err := uc.principalRepo.GetByMobile(ctx, formatted)
	if err != nil {
		return nil, err
	}
	if !principal.HasChallenge() {
		return nil, apperrors.ErrNoChallenge
	}

	plaintext, err := uc.cipher.Decrypt(principal.OTPCiphertext)
	if err != nil {
		logger.Error("Failed to decrypt stored challenge",
			logger.String("mobile_number", formatted))
		return nil, err
	}

	// Compare first, expire second: the expiry check must not short-circuit
	// the constant-time comparison.
	if !crypto.SecureCompare(string(plaintext), otp) {
		return nil, apperrors.ErrInvalidOTP
	}
	if principal.OTPExpiresAt.Before(time.Now()) {
		return nil, apperrors.ErrExpiredOTP
	}

	cleared, err := uc.principalRepo.ClearChallenge(ctx, formatted, principal.OTPCiphertext)
	if err != nil {
		return nil, apperrors.NewDependencyError("secret store", err)
	}
	if !cleared {
		// Another verify consumed this code first
		return nil, apperrors.ErrInvalidOTP
	}

	token, expiresAt, err := jwtpkg.GenerateToken(principal.ID, formatted, uc.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	view := principal.View()
	view.LastLoginAt = &now

	logger.Info("Principal verified",
		logger.String("mobile_number", formatted),
		logger.String("principal_id", principal.ID.String()))

	return &models.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Principal: view,
	}, nil
}

// ResendOTP re-delivers the existing outstanding code. It never regenerates,
// so a resend cannot race a fresh request that is already in flight.
func (uc *AuthUC) ResendOTP(ctx context.Context, mobileNumber, clientID string) (*models.OTPResult, error) {
	formatted, err := uc.checkMobileAndLimit(ctx, ActionOTPResend, mobileNumber, clientID)
	if err != nil {
		return nil, err
	}

	principal, err := uc.principalRepo.GetByMobile(ctx, formatted)
	if err != nil {
		return nil, err
	}
	if !principal.HasChallenge() {
		return nil, apperrors.ErrNoChallenge
	}

	plaintext, err := uc.cipher.Decrypt(principal.OTPCiphertext)
	if err != nil {
		logger.Error("Failed to decrypt stored challenge",
			logger.String("mobile_number", formatted))
		return nil, err
	}

	message := fmt.Sprintf("Your Nagarseva verification code is %s. It is valid for %d minutes.",
		string(plaintext), uc.cfg.OTP.TTLMinutes)

	if err := uc.smsGW.SendSMS(ctx, formatted, message); err != nil {
		logger.Warn("OTP redelivery failed",
			logger.String("mobile_number", formatted),
			logger.Err(err))

		if uc.exposeCodeAllowed() {
			return &models.OTPResult{Delivered: false, DebugCode: string(plaintext)}, nil
		}
		return nil, apperrors.NewDependencyError("sms gateway", err)
	}

	return &models.OTPResult{Delivered: true}, nil
}

// Logout drops any outstanding challenge for the mobile number. It cannot
// revoke an already-issued session credential; without an external revocation
// list those remain valid until expiry.
func (uc *AuthUC) Logout(ctx context.Context, mobileNumber string) error {
	isValid, formatted, err := utils.ValidateMobileNumber(mobileNumber)
	if err != nil || !isValid {
		return apperrors.NewValidationError("a valid 10-digit mobile number is required")
	}

	if err := uc.principalRepo.ClearAnyChallenge(ctx, formatted); err != nil {
		return apperrors.NewDependencyError("secret store", err)
	}

	return nil
}

// checkMobileAndLimit normalizes the mobile number and applies the per-action
// rate limit. The limit is keyed by the mobile number, falling back to the
// caller's network identity when the number is unusable — the limiter is
// consulted before the validation verdict is surfaced.
func (uc *AuthUC) checkMobileAndLimit(ctx context.Context, action, mobileNumber, clientID string) (string, error) {
	isValid, formatted, vErr := utils.ValidateMobileNumber(mobileNumber)

	limitKey := formatted
	if !isValid {
		limitKey = clientID
	}

	res, err := uc.limiter.Allow(ctx, action, limitKey)
	if err != nil {
		return "", apperrors.NewDependencyError("rate limiter", err)
	}
	if !res.Allowed {
		return "", &apperrors.RateLimitError{
			Action:     action,
			Limit:      res.Limit,
			RetryAfter: res.RetryAfter,
		}
	}

	if vErr != nil || !isValid {
		return "", apperrors.NewValidationError("a valid 10-digit mobile number is required")
	}

	return formatted, nil
}

func (uc *AuthUC) exposeCodeAllowed() bool {
	return uc.cfg.OTP.ExposeCodeOnDeliveryFailure && uc.cfg.App.Environment != "production"
}
