package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nagarseva/kiosk/internal/pkg/apperrors"
	"github.com/nagarseva/kiosk/internal/pkg/logger"
	"github.com/nagarseva/kiosk/internal/pkg/models"
	"github.com/nagarseva/kiosk/internal/utils"
	"github.com/nagarseva/kiosk/services/payment"
)

// PaymentHandler handles HTTP requests for payment orders
type PaymentHandler struct {
	paymentUC payment.PaymentUC
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentUC payment.PaymentUC) *PaymentHandler {
	return &PaymentHandler{
		paymentUC: paymentUC,
	}
}

// CreateOrder handles order creation for the authenticated principal
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	userID := principalID(c)
	if userID == "" {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	resp, err := h.paymentUC.CreateOrder(c.Request().Context(), userID, &req)
	if err != nil {
		return h.respondError(c, err, "Failed to create payment order")
	}

	return utils.SuccessResponse(c, http.StatusCreated, "Payment order created", resp)
}

// Webhook receives settlement callbacks from the payment gateway. The payload
// is recorded and processed, and the gateway always gets a success ack so an
// internal failure cannot trigger a retry storm; failures stay in the logs.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		logger.Error("Failed to read webhook body", logger.Err(err))
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}

	if err := h.paymentUC.HandleWebhook(c.Request().Context(), payload); err != nil {
		logger.Error("Webhook processing failed, payload recorded for follow-up",
			logger.Err(err))
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// VerifyPayment polls the gateway and returns the reconciled order
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	orderID := c.Param("order_id")
	if orderID == "" {
		return utils.BadRequestResponse(c, "Invalid order ID")
	}

	order, err := h.paymentUC.VerifyPayment(c.Request().Context(), orderID)
	if err != nil {
		return h.respondError(c, err, "Failed to verify payment")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Payment verified", order)
}

// GetOrderHistory lists the authenticated principal's orders
func (h *PaymentHandler) GetOrderHistory(c echo.Context) error {
	userID := principalID(c)
	if userID == "" {
		return utils.UnauthorizedResponse(c, "")
	}

	orders, err := h.paymentUC.GetOrderHistory(c.Request().Context(), userID)
	if err != nil {
		return h.respondError(c, err, "Failed to load order history")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Order history retrieved", orders)
}

func principalID(c echo.Context) string {
	if v := c.Get("principal_id"); v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// respondError maps core errors onto HTTP responses
func (h *PaymentHandler) respondError(c echo.Context, err error, fallback string) error {
	var vErr *apperrors.ValidationError
	var conflictErr *apperrors.ConflictError
	var depErr *apperrors.DependencyError

	switch {
	case errors.As(err, &vErr):
		return utils.BadRequestResponse(c, vErr.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		return utils.NotFoundResponse(c, "Order not found")
	case errors.As(err, &conflictErr):
		return utils.ConflictResponse(c, conflictErr.Error())
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
