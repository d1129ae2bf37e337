package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/nagarseva/kiosk/internal/pkg/apperrors"
	"github.com/nagarseva/kiosk/internal/pkg/crypto"
	jwtpkg "github.com/nagarseva/kiosk/internal/pkg/jwt"
	"github.com/nagarseva/kiosk/internal/pkg/models"
	"github.com/nagarseva/kiosk/internal/pkg/ratelimit"
	"github.com/nagarseva/kiosk/services/auth/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *models.Config {
	return &models.Config{
		App: models.AppConfig{Environment: "development"},
		JWT: models.JWTConfig{
			Secret:     "test-secret",
			Expiration: 60,
			Issuer:     "kiosk-test",
		},
		OTP: models.OTPConfig{
			CodeLength: 4,
			TTLMinutes: 10,
		},
	}
}

func testLimiter(limit int) ratelimit.Limiter {
	rules := ratelimit.Rules{
		ActionOTPRequest: {Limit: limit, Window: 5 * time.Minute},
		ActionOTPVerify:  {Limit: limit, Window: 5 * time.Minute},
		ActionOTPResend:  {Limit: limit, Window: 5 * time.Minute},
	}
	return ratelimit.NewMemoryLimiter(rules, ratelimit.Rule{Limit: 100, Window: time.Minute})
}

func setupAuthUC(t *testing.T, cfg *models.Config, limit int) (*AuthUC, *mocks.MockPrincipalRepo, *mocks.MockSMSGateway, *crypto.Cipher) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := mocks.NewMockPrincipalRepo(ctrl)
	mockSMS := mocks.NewMockSMSGateway(ctrl)

	cipher, err := crypto.NewCipher("test-secret", "test-salt")
	require.NoError(t, err)

	uc := NewAuthUC(mockRepo, mockSMS, testLimiter(limit), cipher, cfg)
	return uc, mockRepo, mockSMS, cipher
}

func seedPrincipal(t *testing.T, cipher *crypto.Cipher, code string, expiresAt time.Time) *models.Principal {
	ciphertext, err := cipher.Encrypt([]byte(code))
	require.NoError(t, err)

	return &models.Principal{
		ID:            uuid.New(),
		MobileNumber:  "9876543210",
		OTPCiphertext: ciphertext,
		OTPExpiresAt:  &expiresAt,
		CreatedAt:     time.Now().Add(-time.Hour),
	}
}

func TestRequestOTP_Success(t *testing.T) {
	// Arrange
	cfg := testAuthConfig()
	uc, mockRepo, mockSMS, cipher := setupAuthUC(t, cfg, 5)

	var storedCode string
	mockRepo.EXPECT().
		UpsertChallenge(gomock.Any(), "9876543210", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, mobile string, ciphertext []byte, expiresAt time.Time) (*models.Principal, error) {
			plaintext, err := cipher.Decrypt(ciphertext)
			require.NoError(t, err, "stored challenge must be decryptable")
			storedCode = string(plaintext)
			assert.Len(t, storedCode, 4)
			assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)
			return &models.Principal{ID: uuid.New(), MobileNumber: mobile}, nil
		})

	mockSMS.EXPECT().
		SendSMS(gomock.Any(), "9876543210", gomock.Any()).
		DoAndReturn(func(ctx context.Context, mobile, message string) error {
			assert.Contains(t, message, storedCode)
			return nil
		})

	// Act
	result, err := uc.RequestOTP(context.Background(), "+919876543210", "10.0.0.1")

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Delivered)
	assert.Empty(t, result.DebugCode)
}

func TestRequestOTP_InvalidMobile(t *testing.T) {
	cfg := testAuthConfig()
	uc, _, _, _ := setupAuthUC(t, cfg, 5)

	result, err := uc.RequestOTP(context.Background(), "12345", "10.0.0.1")

	assert.Nil(t, result)
	var vErr *apperrors.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestRequestOTP_RateLimited(t *testing.T) {
	// Arrange
	cfg := testAuthConfig()
	uc, mockRepo, mockSMS, _ := setupAuthUC(t, cfg, 1)

	mockRepo.EXPECT().
		UpsertChallenge(gomock.Any(), "9876543210", gomock.Any(), gomock.Any()).
		Return(&models.Principal{ID: uuid.New(), MobileNumber: "9876543210"}, nil)
	mockSMS.EXPECT().
		SendSMS(gomock.Any(), "9876543210", gomock.Any()).
		Return(nil)

	_, err := uc.RequestOTP(context.Background(), "9876543210", "10.0.0.1")
	require.NoError(t, err)

	// Act: second request inside the same window
	result, err := uc.RequestOTP(context.Background(), "9876543210", "10.0.0.1")

	// Assert
	assert.Nil(t, result)
	var rlErr *apperrors.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, ActionOTPRequest, rlErr.Action)
	assert.True(t, rlErr.RetryAfter > 0)
}

func TestRequestOTP_LimitFallsBackToClientID(t *testing.T) {
	// An invalid mobile number still consumes rate-limit budget, keyed by the
	// caller's network identity, so garbage input cannot probe for free.
	cfg := testAuthConfig()
	uc, _, _, _ := setupAuthUC(t, cfg, 1)

	_, err := uc.RequestOTP(context.Background(), "garbage", "10.0.0.1")
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))

	_, err = uc.RequestOTP(context.Background(), "garbage", "10.0.0.1")
	var rlErr *apperrors.RateLimitError
	assert.True(t, errors.As(err, &rlErr))
}

func TestRequestOTP_SMSFailureWithoutDiagnosticPolicy(t *testing.T) {
	// Arrange
	cfg := testAuthConfig()
	uc, mockRepo, mockSMS, _ := setupAuthUC(t, cfg, 5)

	mockRepo.EXPECT().
		UpsertChallenge(gomock.Any(), "9876543210", gomock.Any(), gomock.Any()).
		Return(&models.Principal{ID: uuid.New(), MobileNumber: "9876543210"}, nil)
	mockSMS.EXPECT().
		SendSMS(gomock.Any(), "9876543210", gomock.Any()).
		Return(errors.New("provider timeout"))

	// Act
	result, err := uc.RequestOTP(context.Background(), "9876543210", "10.0.0.1")

	// Assert: without the diagnostic flag the code is never surfaced
	assert.Nil(t, result)
	var depErr *apperrors.DependencyError
	require.True(t, errors.As(err, &depErr))
	assert.Equal(t, "sms gateway", depErr.Dependency)
}

func TestRequestOTP_SMSFailureExposesCodeOutsideProduction(t *testing.T) {
	// Arrange
	cfg := testAuthConfig()
	cfg.OTP.ExposeCodeOnDeliveryFailure = true
	uc, mockRepo, mockSMS, cipher := setupAuthUC(t, cfg, 5)

	var storedCode string
	mockRepo.EXPECT().
		UpsertChallenge(gomock.Any(), "9876543210", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, mobile string, ciphertext []byte, expiresAt time.Time) (*models.Principal, error) {
			plaintext, err := cipher.Decrypt(ciphertext)
			require.NoError(t, err)
			storedCode = string(plaintext)
			return &models.Principal{ID: uuid.New(), MobileNumber: mobile}, nil
		})
	mockSMS.EXPECT().
		SendSMS(gomock.Any(), "9876543210", gomock.Any()).
		Return(errors.New("provider timeout"))

	// Act
	result, err := uc.RequestOTP(context.Background(), "9876543210", "10.0.0.1")

	// Assert: the challenge stays valid and the code is surfaced for kiosks
	// in development environments
	require.NoError(t, err)
	assert.False(t, result.Delivered)
	assert.Equal(t, storedCode, result.DebugCode)
}

func TestRequestOTP_SMSFailureNeverExposesInProduction(t *testing.T) {
	cfg := testAuthConfig()
	cfg.OTP.ExposeCodeOnDeliveryFailure = true
	cfg.App.Environment = "production"
	uc, mockRepo, mockSMS, _ := setupAuthUC(t, cfg, 5)

	mockRepo.EXPECT().
		UpsertChallenge(gomock.Any(), "9876543210", gomock.Any(), gomock.Any()).
		Return(&models.Principal{ID: uuid.New(), MobileNumber: "9876543210"}, nil)
	mockSMS.EXPECT().
		SendSMS(gomock.Any(), "9876543210", gomock.Any()).
		Return(errors.New("provider timeout"))

	result, err := uc.RequestOTP(context.Background(), "9876543210", "10.0.0.1")

	assert.Nil(t, result)
	var depErr *apperrors.DependencyError
	assert.True(t, errors.As(err, &depErr))
}

func TestVerifyOTP_Success(t *testing.T) {
	// Arrange
	cfg := testAuthConfig()
	uc, mockRepo, _, cipher := setupAuthUC(t, cfg, 5)

	principal := seedPrincipal(t, cipher, "4829", time.Now().Add(5*time.Minute))

	mockRepo.EXPECT().
		GetByMobile(gomock.Any(), "9876543210").
		Return(principal, nil)
	mockRepo.EXPECT().
		ClearChallenge(gomock.Any(), "9876543210", principal.OTPCiphertext).
		Return(true, nil)

	// Act
	resp, err := uc.VerifyOTP(context.Background(), "9876543210", "4829", "10.0.0.1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, principal.ID, resp.Principal.ID)
	assert.NotNil(t, resp.Principal.LastLoginAt)

	claims, err := jwtpkg.ValidateToken(resp.Token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, principal.ID.String(), claims["principal_id"])
	assert.Equal(t, "9876543210", claims["mobile"])
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	// Arrange
	cfg := testAuthConfig()
	uc, mockRepo, _, cipher := setupAuthUC(t, cfg, 5)

	principal := seedPrincipal(t, cipher, "4829", time.Now().Add(5*time.Minute))
	mockRepo.EXPECT().
		GetByMobile(gomock.Any(), "9876543210").
		Return(principal, nil)

	// Act: wrong code; the challenge must not be consumed
	resp, err := uc.VerifyOTP(context.Background(), "9876543210", "0000", "10.0.0.1")

	// Assert
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidOTP))
}

func TestVerifyOTP_ExpiredCode(t *testing.T) {
	cfg := testAuthConfig()
	uc, mockRepo, _, cipher := setupAuthUC(t, cfg, 5)

	// Right code, but the challenge expired a minute ago
	principal := seedPrincipal(t, cipher, "4829", time.Now().Add(-time.Minute))
	mockRepo.EXPECT().
		GetByMobile(gomock.Any(), "9876543210").
		Return(principal, nil)

	resp, err := uc.VerifyOTP(context.Background(), "9876543210", "4829", "10.0.0.1")

	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, apperrors.ErrExpiredOTP))
}

func TestVerifyOTP_NoChallenge(t *testing.T) {
	cfg := testAuthConfig()
	uc, mockRepo, _, _ := setupAuthUC(t, cfg, 5)

	mockRepo.EXPECT().
		GetByMobile(gomock.Any(), "9876543210").
		Return(&models.Principal{ID: uuid.New(), MobileNumber: "9876543210"}, nil)

	resp, err := uc.VerifyOTP(context.Background(), "9876543210", "4829", "10.0.0.1")

	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, apperrors.ErrNoChallenge))
}

func TestVerifyOTP_UnknownPrincipal(t *testing.T) {
	cfg := testAuthConfig()
	uc, mockRepo, _, _ := setupAuthUC(t, cfg, 5)

	mockRepo.EXPECT().
		GetByMobile(gomock.Any(), "9876543210").
		Return(nil, apperrors.ErrNotFound)

	resp, err := uc.VerifyOTP(context.Background(), "9876543210", "4829", "10.0.0.1")

	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestVerifyOTP_EmptyCode(t *testing.T) {
	cfg := testAuthConfig()
	uc, _, _, _ := setupAuthUC(t, cfg, 5)

	resp, err := uc.VerifyOTP(context.Background(), "9876543210", "", "10.0.0.1")

	assert.Nil(t, resp)
	var vErr *apperrors.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestVerifyOTP_ConsumedByConcurrentVerify(t *testing.T) {
	// Arrange: the code matches but another verify cleared the challenge
	// between our read and our clear
	cfg := testAuthConfig()
	uc, mockRepo, _, cipher := setupAuthUC(t, cfg, 5)

	principal := seedPrincipal(t, cipher, "4829", time.Now().Add(5*time.Minute))
	mockRepo.EXPECT().
		GetByMobile(gomock.Any(), "9876543210").
		Return(principal, nil)
	mockRepo.EXPECT().
		ClearChallenge(gomock.Any(), "9876543210", principal.OTPCiphertext).
		Return(false, nil)

	// Act
	resp, err := uc.VerifyOTP(context.Background(), "9876543210", "4829", "10.0.0.1")

	// Assert: no session is issued for a code consumed elsewhere
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidOTP))
}

func TestResendOTP_RedeliversSameCode(t *testing.T) {
	// Arrange
	cfg := testAuthConfig()
	uc, mockRepo, mockSMS, cipher := setupAuthUC(t, cfg, 5)

	principal := seedPrincipal(t, cipher, "4829", time.Now().Add(5*time.Minute))
	mockRepo.EXPECT().
		GetByMobile(gomock.Any(), "9876543210").
		Return(principal, nil)
	mockSMS.EXPECT().
		SendSMS(gomock.Any(), "9876543210", gomock.Any()).
		DoAndReturn(func(ctx context.Context, mobile, message string) error {
			assert.Contains(t, message, "4829", "resend must deliver the original code")
			return nil
		})

	// Act
	result, err := uc.ResendOTP(context.Background(), "9876543210", "10.0.0.1")

	// Assert: no UpsertChallenge expectation set, so a regeneration would
	// fail the controller
	require.NoError(t, err)
	assert.True(t, result.Delivered)
}

func TestResendOTP_NoChallenge(t *testing.T) {
	cfg := testAuthConfig()
	uc, mockRepo, _, _ := setupAuthUC(t, cfg, 5)

	mockRepo.EXPECT().
		GetByMobile(gomock.Any(), "9876543210").
		Return(&models.Principal{ID: uuid.New(), MobileNumber: "9876543210"}, nil)

	result, err := uc.ResendOTP(context.Background(), "9876543210", "10.0.0.1")

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, apperrors.ErrNoChallenge))
}

func TestLogout_ClearsChallenge(t *testing.T) {
	cfg := testAuthConfig()
	uc, mockRepo, _, _ := setupAuthUC(t, cfg, 5)

	mockRepo.EXPECT().
		ClearAnyChallenge(gomock.Any(), "9876543210").
		Return(nil)

	err := uc.Logout(context.Background(), "9876543210")
	assert.NoError(t, err)
}

func TestLogout_InvalidMobile(t *testing.T) {
	cfg := testAuthConfig()
	uc, _, _, _ := setupAuthUC(t, cfg, 5)

	err := uc.Logout(context.Background(), "garbage")

	var vErr *apperrors.ValidationError
	assert.True(t, errors.As(err, &vErr))
}
