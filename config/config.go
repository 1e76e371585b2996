package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	aws_pkg "github.com/yashrajoria/sneakershop/pkg/aws"
)

// Session cart backends
const (
	SessionCartMemory   = "memory"
	SessionCartRedis    = "redis"
	SessionCartDynamoDB = "dynamodb"
)

// Event bus backends
const (
	EventBusNone  = "none"
	EventBusKafka = "kafka"
	EventBusSNS   = "sns"
)

type Config struct {
	Port string
	Env  string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	SessionCartBackend string
	SessionCartTTL     time.Duration
	SessionCartTable   string
	RedisURL           string

	JWTSecret    string
	TokenTTL     time.Duration
	CookieName   string
	CookieSecure bool

	AllowedOrigins []string

	EventBus          string
	KafkaBrokers      []string
	OrderEventsTopic  string
	OrderSNSTopicARN  string
	CloudWatchEnabled bool
	CloudWatchGroup   string
	MetricsNamespace  string
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone)
}

// Load reads configuration from the environment (and an optional .env file), with an
// optional Secrets Manager override for credentials when AWS_USE_SECRETS=true.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Port: getEnv("PORT", "4000"),
		Env:  getEnv("APP_ENV", "development"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),

		SessionCartBackend: strings.ToLower(getEnv("SESSION_CART_BACKEND", SessionCartMemory)),
		SessionCartTTL:     getDuration("SESSION_CART_TTL", 0),
		SessionCartTable:   getEnv("SESSION_CART_TABLE", "session_carts"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret:    strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:     getDuration("JWT_TTL", 24*time.Hour),
		CookieName:   getEnv("COOKIE_NAME", "sneakershop_jwt"),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		EventBus:          strings.ToLower(getEnv("EVENT_BUS", EventBusNone)),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		OrderEventsTopic:  getEnv("ORDER_EVENTS_TOPIC", "order.confirmed"),
		OrderSNSTopicARN:  os.Getenv("ORDER_SNS_TOPIC_ARN"),
		CloudWatchEnabled: os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchGroup:   os.Getenv("CLOUDWATCH_LOG_GROUP"),
		MetricsNamespace:  os.Getenv("CLOUDWATCH_NAMESPACE"),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		applySecrets(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySecrets overrides DB credentials and the JWT secret from Secrets Manager.
// Missing secrets keep the environment values.
func applySecrets(cfg *Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := aws_pkg.LoadAWSConfig(ctx)
	if err != nil {
		log.Printf("Secrets Manager unavailable: %v", err)
		return
	}
	sm := aws_pkg.NewSecretsClient(awsCfg)

	if m, err := sm.GetSecretMap(ctx, "sneakershop/DB_CREDENTIALS"); err == nil {
		overrideFrom(m, "POSTGRES_USER", &cfg.PostgresUser)
		overrideFrom(m, "POSTGRES_PASSWORD", &cfg.PostgresPassword)
		overrideFrom(m, "POSTGRES_DB", &cfg.PostgresDB)
		overrideFrom(m, "POSTGRES_HOST", &cfg.PostgresHost)
		overrideFrom(m, "POSTGRES_PORT", &cfg.PostgresPort)
	}
	if v, err := sm.GetSecret(ctx, "sneakershop/JWT_SECRET"); err == nil && v != "" {
		cfg.JWTSecret = strings.TrimSpace(v)
	}
}

func overrideFrom(m map[string]string, key string, dst *string) {
	if v, ok := m[key]; ok && v != "" {
		*dst = v
	}
}

func (c *Config) validate() error {
	if c.PostgresUser == "" || c.PostgresPassword == "" || c.PostgresDB == "" {
		return fmt.Errorf("database config incomplete")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.SessionCartBackend {
	case SessionCartMemory, SessionCartRedis, SessionCartDynamoDB:
	default:
		return fmt.Errorf("unknown SESSION_CART_BACKEND %q", c.SessionCartBackend)
	}
	switch c.EventBus {
	case EventBusNone, EventBusSNS:
	case EventBusKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when EVENT_BUS=kafka")
		}
	default:
		return fmt.Errorf("unknown EVENT_BUS %q", c.EventBus)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	// plain integers are seconds
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Invalid duration for %s=%q, using %s", key, val, fallback)
	return fallback
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "/")); p != "" {
			out = append(out, p)
		}
	}
	return out
}
