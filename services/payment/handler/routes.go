package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/nagarseva/kiosk/internal/pkg/models"
	authhandler "github.com/nagarseva/kiosk/services/auth/handler"
	"github.com/nagarseva/kiosk/services/payment/handler/http"
)

// Handler registers the payment routes
type Handler struct {
	paymentHandler *http.PaymentHandler
	cfg            *models.Config
}

// NewHandler creates the payment route handler
func NewHandler(paymentHandler *http.PaymentHandler, cfg *models.Config) *Handler {
	return &Handler{
		paymentHandler: paymentHandler,
		cfg:            cfg,
	}
}

// RegisterRoutes registers the payment endpoints. The webhook is public by
// contract with the gateway; everything else requires a session credential.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/payments/webhook", h.paymentHandler.Webhook)

	protected := e.Group("/payments", authhandler.JWTMiddleware(h.cfg))
	protected.POST("", h.paymentHandler.CreateOrder)
	protected.GET("/history", h.paymentHandler.GetOrderHistory)
	protected.GET("/:order_id/verify", h.paymentHandler.VerifyPayment)
}
