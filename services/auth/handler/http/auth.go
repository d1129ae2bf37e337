package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nagarseva/kiosk/internal/pkg/apperrors"
	"github.com/nagarseva/kiosk/internal/pkg/logger"
	"github.com/nagarseva/kiosk/internal/pkg/models"
	"github.com/nagarseva/kiosk/internal/utils"
	"github.com/nagarseva/kiosk/services/auth"
)

// AuthHandler handles HTTP requests for the OTP lifecycle
type AuthHandler struct {
	authUC auth.AuthUC
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUC auth.AuthUC) *AuthHandler {
	return &AuthHandler{
		authUC: authUC,
	}
}

// RequestOTP handles one-time code requests
func (h *AuthHandler) RequestOTP(c echo.Context) error {
	var req models.OTPRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	result, err := h.authUC.RequestOTP(c.Request().Context(), req.MobileNumber, c.RealIP())
	if err != nil {
		return h.respondError(c, err, "Failed to send verification code")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Verification code sent", result)
}

// VerifyOTP handles one-time code verification and issues a session credential
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req models.OTPVerifyRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	resp, err := h.authUC.VerifyOTP(c.Request().Context(), req.MobileNumber, req.OTP, c.RealIP())
	if err != nil {
		return h.respondError(c, err, "Verification failed")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Verification successful", resp)
}

// ResendOTP re-delivers the outstanding code
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req models.OTPRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	result, err := h.authUC.ResendOTP(c.Request().Context(), req.MobileNumber, c.RealIP())
	if err != nil {
		return h.respondError(c, err, "Failed to resend verification code")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Verification code resent", result)
}

// Logout clears any outstanding challenge for the authenticated principal
func (h *AuthHandler) Logout(c echo.Context) error {
	mobile, _ := c.Get("mobile").(string)
	if mobile == "" {
		return utils.UnauthorizedResponse(c, "")
	}

	if err := h.authUC.Logout(c.Request().Context(), mobile); err != nil {
		return h.respondError(c, err, "Logout failed")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

// respondError maps core errors onto HTTP responses. Internal details stay in
// the logs; callers get the taxonomy status and a short message.
func (h *AuthHandler) respondError(c echo.Context, err error, fallback string) error {
	var vErr *apperrors.ValidationError
	var rlErr *apperrors.RateLimitError
	var depErr *apperrors.DependencyError

	switch {
	case errors.As(err, &vErr):
		return utils.BadRequestResponse(c, vErr.Error())
	case errors.As(err, &rlErr):
		retryAfter := int64(rlErr.RetryAfter / time.Second)
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Response().Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
		return utils.TooManyRequestsResponse(c, rlErr.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		return utils.NotFoundResponse(c, "No account found for this number")
	case errors.Is(err, apperrors.ErrNoChallenge),
		errors.Is(err, apperrors.ErrInvalidOTP),
		errors.Is(err, apperrors.ErrExpiredOTP):
		return utils.UnauthorizedResponse(c, err.Error())
	case errors.As(err, &depErr):
		logger.Error("Dependency failure",
			logger.String("dependency", depErr.Dependency),
			logger.Err(depErr.Err))
		return utils.ServiceUnavailableResponse(c, "")
	default:
		logger.Error(fallback, logger.Err(err))
		return utils.InternalServerErrorResponse(c, fallback)
	}
}
