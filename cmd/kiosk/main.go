package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nagarseva/kiosk/internal/pkg/config"
	"github.com/nagarseva/kiosk/internal/pkg/crypto"
	"github.com/nagarseva/kiosk/internal/pkg/database"
	"github.com/nagarseva/kiosk/internal/pkg/health"
	"github.com/nagarseva/kiosk/internal/pkg/logger"
	"github.com/nagarseva/kiosk/internal/pkg/models"
	natspkg "github.com/nagarseva/kiosk/internal/pkg/nats"
	nrpkg "github.com/nagarseva/kiosk/internal/pkg/newrelic"
	"github.com/nagarseva/kiosk/internal/pkg/ratelimit"
	"github.com/nagarseva/kiosk/internal/pkg/server"
	authHandler "github.com/nagarseva/kiosk/services/auth/handler"
	authHTTP "github.com/nagarseva/kiosk/services/auth/handler/http"
	authRepo "github.com/nagarseva/kiosk/services/auth/repository"
	authUsecase "github.com/nagarseva/kiosk/services/auth/usecase"
	"github.com/nagarseva/kiosk/services/payment"
	paymentHandler "github.com/nagarseva/kiosk/services/payment/handler"
	paymentHTTP "github.com/nagarseva/kiosk/services/payment/handler/http"
	paymentGateway "github.com/nagarseva/kiosk/services/payment/gateway"
	paymentRepo "github.com/nagarseva/kiosk/services/payment/repository"
	paymentUsecase "github.com/nagarseva/kiosk/services/payment/usecase"
	smsGateway "github.com/nagarseva/kiosk/services/auth/gateway"
	nrecho "github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
)

const appName = "kiosk-service"

func main() {
	configPath := config.GetEnv("KIOSK_CONFIG_PATH", "config/kiosk.env")
	configs := config.InitConfig(configPath)

	nrApp := nrpkg.InitNewRelic(configs)
	if nrApp != nil {
		if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Printf("Warning: New Relic connection timeout: %v", err)
		}
	}

	zapLogger, err := logger.InitZapLogger(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	zapLogger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment))

	// Key material absence is a configuration error, not a runtime fallback
	if configs.JWT.Secret == "" {
		zapLogger.Fatal("JWT secret is not configured")
	}
	cipher, err := crypto.NewCipher(configs.Crypto.Secret, configs.Crypto.Salt)
	if err != nil {
		zapLogger.Fatal("Failed to initialize encryption", logger.Err(err))
	}

	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	defer postgresClient.Close()

	if err := postgresClient.RunMigrations(context.Background()); err != nil {
		zapLogger.Fatal("Failed to run migrations", logger.Err(err))
	}

	// The cache is an optional acceleration layer; without Redis the
	// repositories read straight from the store
	var redisClient *database.RedisClient
	if configs.Redis.Host != "" {
		redisClient, err = database.NewRedisClient(configs.Redis)
		if err != nil {
			zapLogger.Warn("Redis unavailable, continuing without cache", logger.Err(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var natsClient *natspkg.Client
	if configs.NATS.URL != "" {
		natsClient, err = natspkg.NewClient(configs.NATS.URL)
		if err != nil {
			zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
		}
		defer natsClient.Close()
	}

	limiter := buildLimiter(configs, redisClient)

	// Auth wiring
	principalRepo := authRepo.NewPrincipalRepo(configs, postgresClient.GetDB(), redisClient)
	smsGW := smsGateway.NewSMSGW(configs.SMS)
	authUC := authUsecase.NewAuthUC(principalRepo, smsGW, limiter, cipher, configs)
	authH := authHandler.NewHandler(authHTTP.NewAuthHandler(authUC), configs)

	// Payment wiring
	orderRepo := paymentRepo.NewOrderRepo(postgresClient.GetDB())
	paymentGW := paymentGateway.NewPaymentGW(configs.Payment)
	var events payment.PaymentEvents
	if natsClient != nil {
		events = paymentGateway.NewPaymentEventsGW(natsClient)
	}
	paymentUC := paymentUsecase.NewPaymentUC(orderRepo, paymentGW, events, configs)
	paymentH := paymentHandler.NewHandler(paymentHTTP.NewPaymentHandler(paymentUC), configs)

	e := echo.New()
	e.HideBanner = true

	if nrApp != nil {
		e.Use(nrecho.Middleware(nrApp))
	}
	e.Use(echomw.RequestID())
	e.Use(logger.ZapEchoMiddleware(zapLogger))
	e.Use(echomw.Recover())

	health.RegisterHealthEndpoints(e, appName, configs.App.Version)
	authH.RegisterRoutes(e, limiter)
	paymentH.RegisterRoutes(e)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port,
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server error", logger.Err(err))
	}
}

func buildLimiter(configs *models.Config, redisClient *database.RedisClient) ratelimit.Limiter {
	window := time.Duration(configs.RateLimit.WindowSeconds) * time.Second
	rules := ratelimit.Rules{
		authUsecase.ActionOTPRequest: {Limit: configs.RateLimit.RequestLimit, Window: window},
		authUsecase.ActionOTPVerify:  {Limit: configs.RateLimit.VerifyLimit, Window: window},
		authUsecase.ActionOTPResend:  {Limit: configs.RateLimit.ResendLimit, Window: window},
	}
	defaultRule := ratelimit.Rule{Limit: 60, Window: time.Minute}

	if configs.RateLimit.Backend == "redis" && redisClient != nil {
		return ratelimit.NewRedisLimiter(redisClient.GetClient(), rules, defaultRule)
	}

	limiter := ratelimit.NewMemoryLimiter(rules, defaultRule)
	limiter.StartSweeper(context.Background(), 5*time.Minute)
	return limiter
}
