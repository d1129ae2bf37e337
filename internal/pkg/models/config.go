package models

// Config represents application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
	JWT       JWTConfig
	OTP       OTPConfig
	SMS       SMSConfig
	Payment   PaymentConfig
	Crypto    CryptoConfig
	RateLimit RateLimitConfig
	NewRelic  NewRelicConfig
	Logger    LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// JWTConfig contains JWT session configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in minutes
	Issuer     string
}

// OTPConfig contains one-time code policy configuration
type OTPConfig struct {
	CodeLength int
	TTLMinutes int
	// ExposeCodeOnDeliveryFailure keeps the request successful and returns the
	// plaintext code when the SMS gateway is down. Never honored in production.
	ExposeCodeOnDeliveryFailure bool
	CacheTTLMinutes             int
}

// SMSConfig contains SMS gateway configuration
type SMSConfig struct {
	BaseURL        string
	APIKey         string
	SenderID       string
	TimeoutSeconds int
}

// PaymentConfig contains payment gateway configuration
type PaymentConfig struct {
	GatewayURL     string
	MerchantID     string
	APIKey         string
	Currency       string
	TimeoutSeconds int
}

// CryptoConfig contains at-rest encryption configuration
type CryptoConfig struct {
	Secret string
	Salt   string
}

// RateLimitConfig contains per-action fixed-window limits
type RateLimitConfig struct {
	Backend       string // "memory" or "redis"
	WindowSeconds int
	RequestLimit  int
	VerifyLimit   int
	ResendLimit   int
}

// NewRelicConfig contains New Relic APM configuration
type NewRelicConfig struct {
	LicenseKey  string
	AppName     string
	Enabled     bool
	ForwardLogs bool
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}
