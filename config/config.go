package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Observ      ObservabilityConfig
	Reservation ReservationConfig
	Reclaimer   ReclaimerConfig
	RateLimit   RateLimitConfig
	Payment     PaymentConfig
	Auth        AuthConfig
	Queue       QueueConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type ObservabilityConfig struct {
	TracingEnabled bool
	JaegerEndpoint string
	ServiceName    string
}

// ReservationConfig 保留引擎參數：TTL 與每筆訂單數量上下限由設定注入
type ReservationConfig struct {
	TTL                time.Duration
	DefaultMinPerOrder int
	DefaultMaxPerOrder int
	LockTimeout        time.Duration
	ContentionRetries  int
	ContentionBackoff  time.Duration
}

type ReclaimerConfig struct {
	Interval  time.Duration
	BatchSize int
}

// RateLimitConfig MaxAttempts 套用在結帳，ReserveMaxAttempts 套用在建立保留單
type RateLimitConfig struct {
	Window             time.Duration
	MaxAttempts        int
	ReserveMaxAttempts int
}

type PaymentConfig struct {
	StripeSecretKey string
	WebhookSecret   string
	Currency        string
}

type AuthConfig struct {
	JWTSecret string
}

type QueueConfig struct {
	ConsumerID   string
	ClaimMinIdle time.Duration
	MaxRetries   int
}

var AppConfig *Config

func LoadConfig() *Config {
	_ = godotenv.Load()

	AppConfig = &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database:    GetDatabaseConfig(),
		Redis:       GetRedisConfig(),
		Kafka:       GetKafkaConfig(),
		Observ:      GetObservabilityConfig(),
		Reservation: GetReservationConfig(),
		Reclaimer: ReclaimerConfig{
			Interval:  getDuration("RECLAIM_INTERVAL", 30*time.Second),
			BatchSize: getInt("RECLAIM_BATCH_SIZE", 100),
		},
		RateLimit: RateLimitConfig{
			Window:             getDuration("RATE_LIMIT_WINDOW", time.Minute),
			MaxAttempts:        getInt("RATE_LIMIT_MAX_ATTEMPTS", 10),
			ReserveMaxAttempts: getInt("RATE_LIMIT_RESERVE_MAX_ATTEMPTS", 20),
		},
		Payment: PaymentConfig{
			StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:   getEnv("STRIPE_WEBHOOK_SECRET", ""),
			Currency:        getEnv("PAYMENT_CURRENCY", "ars"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
		},
		Queue: QueueConfig{
			ConsumerID:   getEnv("QUEUE_CONSUMER_ID", ""),
			ClaimMinIdle: getDuration("QUEUE_CLAIM_MIN_IDLE", 5*time.Second),
			MaxRetries:   getInt("QUEUE_MAX_RETRIES", 5),
		},
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
		MaxConns: 50,
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Database: *testConfig,
		Redis:    testRedisConfig,
		Reservation: ReservationConfig{
			TTL:                5 * time.Minute,
			DefaultMinPerOrder: 1,
			DefaultMaxPerOrder: 10,
			LockTimeout:        3 * time.Second,
			ContentionRetries:  3,
			ContentionBackoff:  10 * time.Millisecond,
		},
		Reclaimer: ReclaimerConfig{
			Interval:  time.Second,
			BatchSize: 100,
		},
		RateLimit: RateLimitConfig{
			Window:             time.Minute,
			MaxAttempts:        5,
			ReserveMaxAttempts: 5,
		},
		Payment: PaymentConfig{
			Currency: "ars",
		},
		Auth: AuthConfig{
			JWTSecret: "test-secret",
		},
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(getInt("DB_MAX_CONNS", 25)),
		Schema:   getEnv("DB_SCHEMA", ""),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Enabled: getBool("KAFKA_ENABLED", false),
		Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		Topic:   getEnv("KAFKA_TOPIC_RESERVATION_EVENTS", "reservation-events"),
	}
}

func GetObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		TracingEnabled: getBool("TRACING_ENABLED", false),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		ServiceName:    getEnv("SERVICE_NAME", "ticket-reservation"),
	}
}

func GetReservationConfig() ReservationConfig {
	return ReservationConfig{
		TTL:                getDuration("RESERVATION_TTL", 5*time.Minute),
		DefaultMinPerOrder: getInt("RESERVATION_MIN_PER_ORDER", 1),
		DefaultMaxPerOrder: getInt("RESERVATION_MAX_PER_ORDER", 10),
		LockTimeout:        getDuration("RESERVATION_LOCK_TIMEOUT", 3*time.Second),
		ContentionRetries:  getInt("RESERVATION_CONTENTION_RETRIES", 3),
		ContentionBackoff:  getDuration("RESERVATION_CONTENTION_BACKOFF", 50*time.Millisecond),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		panic(err)
	}
	return value
}

func getBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		panic(err)
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		panic(err)
	}
	return value
}
