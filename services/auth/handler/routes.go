package handler

import (
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/nagarseva/kiosk/internal/pkg/jwt"
	"github.com/nagarseva/kiosk/internal/pkg/middleware"
	"github.com/nagarseva/kiosk/internal/pkg/models"
	"github.com/nagarseva/kiosk/internal/pkg/ratelimit"
	"github.com/nagarseva/kiosk/services/auth/handler/http"
)

// Handler registers the auth routes
type Handler struct {
	authHandler *http.AuthHandler
	cfg         *models.Config
}

// NewHandler creates the auth route handler
func NewHandler(authHandler *http.AuthHandler, cfg *models.Config) *Handler {
	return &Handler{
		authHandler: authHandler,
		cfg:         cfg,
	}
}

// JWTMiddleware returns the configured JWT middleware and copies the session
// claims into the echo context for downstream handlers. Tokens are verified
// through ValidateToken so the same jwt version signs and parses them.
func JWTMiddleware(cfg *models.Config) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return jwtpkg.ValidateToken(auth, cfg.JWT.Secret)
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get("user").(jwt.MapClaims)
			if !ok {
				return
			}
			if principalID, exists := claims["principal_id"]; exists {
				c.Set("principal_id", principalID)
			}
			if mobile, exists := claims["mobile"]; exists {
				c.Set("mobile", mobile)
			}
		},
	})
}

// RegisterRoutes registers the public OTP endpoints and the protected logout.
// The IP-level limiter guards the whole group; per-mobile limits are enforced
// inside the usecase.
func (h *Handler) RegisterRoutes(e *echo.Echo, limiter ratelimit.Limiter) {
	authGroup := e.Group("/auth", middleware.RateLimiterMiddleware(limiter, "http:auth"))
	authGroup.POST("/otp/request", h.authHandler.RequestOTP)
	authGroup.POST("/otp/verify", h.authHandler.VerifyOTP)
	authGroup.POST("/otp/resend", h.authHandler.ResendOTP)

	protected := e.Group("/auth", JWTMiddleware(h.cfg))
	protected.POST("/logout", h.authHandler.Logout)
}
