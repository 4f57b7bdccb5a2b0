package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup and shared read-only afterwards.
type Config struct {
	Port string
	Env  string

	PostgresURL string

	GatewayBaseURL            string
	GatewaySecretKey          string // gateway_secret_key
	WebhookSecret             string
	GatewayTimeout            time.Duration
	CallbackVerifyWithGateway bool

	PublicBaseURL string
	AppName       string

	DefaultFromEmail string // default_from_email
	SMTP             SMTPSettings

	JWTSecret string
	JWTTTL    time.Duration

	RedisURL              string
	NotificationWorkers   int
	NotificationQueueSize int

	KafkaBrokers      []string
	KafkaPaymentTopic string

	CallbackRatePerMinute int
	CallbackRateBurst     int

	// TrustedProxies lists proxy IPs/CIDRs whose X-Forwarded-For is honoured.
	// Empty means the peer address is the client IP.
	TrustedProxies []string
}

type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	UseSSL   bool
}

// Load reads .env (if present) and the process environment. Values already
// present in the environment win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	var errs []string

	cfg := &Config{
		Port:                      getEnv("PORT", "8080"),
		Env:                       getEnv("APP_ENV", "development"),
		PostgresURL:               os.Getenv("POSTGRES_URL"),
		GatewayBaseURL:            strings.TrimRight(getEnv("CHAPA_BASE_URL", "https://api.chapa.co/v1"), "/"),
		GatewaySecretKey:          os.Getenv("CHAPA_SECRET_KEY"),
		WebhookSecret:             os.Getenv("CHAPA_WEBHOOK_SECRET"),
		GatewayTimeout:            getDuration("GATEWAY_TIMEOUT", 30*time.Second, &errs),
		CallbackVerifyWithGateway: getBool("CALLBACK_VERIFY_WITH_GATEWAY", false, &errs),
		PublicBaseURL:             strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		AppName:                   getEnv("APP_NAME", "ALX Travel App"),
		DefaultFromEmail:          getEnv("DEFAULT_FROM_EMAIL", "noreply@alxtravel.app"),
		SMTP: SMTPSettings{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getInt("SMTP_PORT", 587, &errs),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			UseSSL:   getBool("SMTP_USE_SSL", false, &errs),
		},
		JWTSecret:             os.Getenv("JWT_SECRET"),
		JWTTTL:                getDuration("JWT_TTL", time.Hour, &errs),
		RedisURL:              os.Getenv("REDIS_URL"),
		NotificationWorkers:   getInt("NOTIFICATION_WORKERS", 4, &errs),
		NotificationQueueSize: getInt("NOTIFICATION_QUEUE_SIZE", 256, &errs),
		KafkaBrokers:          splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaPaymentTopic:     getEnv("KAFKA_PAYMENT_TOPIC", "payment-events"),
		CallbackRatePerMinute: getInt("CALLBACK_RATE_LIMIT", 60, &errs),
		CallbackRateBurst:     getInt("CALLBACK_RATE_BURST", 20, &errs),
		TrustedProxies:        splitList(os.Getenv("TRUSTED_PROXIES")),
	}

	required := map[string]string{
		"POSTGRES_URL":         cfg.PostgresURL,
		"CHAPA_SECRET_KEY":     cfg.GatewaySecretKey,
		"CHAPA_WEBHOOK_SECRET": cfg.WebhookSecret,
		"JWT_SECRET":           cfg.JWTSecret,
	}
	for _, key := range []string{"POSTGRES_URL", "CHAPA_SECRET_KEY", "CHAPA_WEBHOOK_SECRET", "JWT_SECRET"} {
		if required[key] == "" {
			errs = append(errs, key+" is required")
		}
	}
	if cfg.NotificationWorkers < 1 {
		errs = append(errs, "NOTIFICATION_WORKERS must be at least 1")
	}
	if cfg.GatewayTimeout <= 0 {
		errs = append(errs, "GATEWAY_TIMEOUT must be positive")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: %q is not an integer", key, raw))
		return fallback
	}
	return v
}

func getBool(key string, fallback bool, errs *[]string) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: %q is not a boolean", key, raw))
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration, errs *[]string) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: %q is not a duration", key, raw))
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
