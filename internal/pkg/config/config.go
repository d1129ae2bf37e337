package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/nagarseva/kiosk/internal/pkg/models"
)

func InitConfig(configPath string) *models.Config {
	env := GetEnv("APP_ENV", "local")
	if env == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	// Create config from environment variables
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "kiosk")
	configs.App.Environment = GetEnv("APP_ENV", "local")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", true)
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 8080)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 15)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 15)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30)

	// Database config
	configs.Database.Driver = GetEnv("DB_DRIVER", "pgx")
	configs.Database.Host = GetEnv("DB_HOST", "localhost")
	configs.Database.Port = GetEnvAsInt("DB_PORT", 5432)
	configs.Database.Username = GetEnv("DB_USERNAME", "")
	configs.Database.Password = GetEnv("DB_PASSWORD", "")
	configs.Database.Database = GetEnv("DB_DATABASE", "kiosk")
	configs.Database.SSLMode = GetEnv("DB_SSL_MODE", "disable")
	configs.Database.MaxConns = GetEnvAsInt("DB_MAX_CONNS", 10)
	configs.Database.IdleConns = GetEnvAsInt("DB_IDLE_CONNS", 2)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "localhost")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 6379)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 10)

	// NATS config
	configs.NATS.URL = GetEnv("NATS_URL", "")

	// JWT config
	configs.JWT.Secret = GetEnv("JWT_SECRET", "")
	configs.JWT.Expiration = GetEnvAsInt("JWT_EXPIRATION", 1440)
	configs.JWT.Issuer = GetEnv("JWT_ISSUER", "nagarseva-kiosk")

	// OTP config
	configs.OTP.CodeLength = GetEnvAsInt("OTP_CODE_LENGTH", 4)
	configs.OTP.TTLMinutes = GetEnvAsInt("OTP_TTL_MINUTES", 10)
	configs.OTP.ExposeCodeOnDeliveryFailure = GetEnvAsBool("OTP_EXPOSE_CODE_ON_DELIVERY_FAILURE", false)
	configs.OTP.CacheTTLMinutes = GetEnvAsInt("OTP_CACHE_TTL_MINUTES", 5)

	// SMS gateway config
	configs.SMS.BaseURL = GetEnv("SMS_BASE_URL", "")
	configs.SMS.APIKey = GetEnv("SMS_API_KEY", "")
	configs.SMS.SenderID = GetEnv("SMS_SENDER_ID", "NAGSEV")
	configs.SMS.TimeoutSeconds = GetEnvAsInt("SMS_TIMEOUT_SECONDS", 10)

	// Payment gateway config
	configs.Payment.GatewayURL = GetEnv("PAYMENT_GATEWAY_URL", "")
	configs.Payment.MerchantID = GetEnv("PAYMENT_MERCHANT_ID", "")
	configs.Payment.APIKey = GetEnv("PAYMENT_API_KEY", "")
	configs.Payment.Currency = GetEnv("PAYMENT_CURRENCY", "INR")
	configs.Payment.TimeoutSeconds = GetEnvAsInt("PAYMENT_TIMEOUT_SECONDS", 15)

	// Crypto config
	configs.Crypto.Secret = GetEnv("CRYPTO_SECRET", "")
	configs.Crypto.Salt = GetEnv("CRYPTO_SALT", "")

	// Rate limit config
	configs.RateLimit.Backend = GetEnv("RATE_LIMIT_BACKEND", "memory")
	configs.RateLimit.WindowSeconds = GetEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 300)
	configs.RateLimit.RequestLimit = GetEnvAsInt("RATE_LIMIT_OTP_REQUEST", 3)
	configs.RateLimit.VerifyLimit = GetEnvAsInt("RATE_LIMIT_OTP_VERIFY", 5)
	configs.RateLimit.ResendLimit = GetEnvAsInt("RATE_LIMIT_OTP_RESEND", 3)

	// NewRelic config
	configs.NewRelic.LicenseKey = GetEnv("NEW_RELIC_LICENSE_KEY", "")
	configs.NewRelic.AppName = GetEnv("NEW_RELIC_APP_NAME", "")
	configs.NewRelic.Enabled = GetEnvAsBool("NEW_RELIC_ENABLED", false)
	configs.NewRelic.ForwardLogs = GetEnvAsBool("NEW_RELIC_FORWARD_LOGS", false)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "")

	return configs
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}
