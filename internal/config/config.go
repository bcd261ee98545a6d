package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Stripe   StripeConfig
	Shipping ShippingConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

func (d DatabaseConfig) ConnectionString() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Host       string
	Port       int
	Password   string
	DB         int
	SessionTTL time.Duration
	CatalogTTL time.Duration
}

type KafkaConfig struct {
	Brokers       []string
	CheckoutTopic string
	PaymentsTopic string
	ConsumerGroup string
}

type StripeConfig struct {
	APIKey  string
	Timeout time.Duration
}

// ShippingConfig is the single flat-rate shipping line item added to every
// session. The name feeds the shipping classification fallback, so it should
// keep its carrier wording.
type ShippingConfig struct {
	Name             string
	AmountMinorUnits int64
	Currency         string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8082),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:         getEnvString("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnvString("DB_USER", "dumbco"),
			Password:     getEnvString("DB_PASSWORD", "dumbco"),
			Name:         getEnvString("DB_NAME", "dumbco_checkout"),
			SSLMode:      getEnvString("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Redis: RedisConfig{
			Host:       getEnvString("REDIS_HOST", "localhost"),
			Port:       getEnvInt("REDIS_PORT", 6379),
			Password:   getEnvString("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			SessionTTL: time.Duration(getEnvInt("SESSION_TTL", 86400)) * time.Second,
			CatalogTTL: time.Duration(getEnvInt("CATALOG_CACHE_TTL", 300)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       getEnvStringSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			CheckoutTopic: getEnvString("KAFKA_CHECKOUT_TOPIC", "checkout-events"),
			PaymentsTopic: getEnvString("KAFKA_PAYMENTS_TOPIC", "payment-events"),
			ConsumerGroup: getEnvString("KAFKA_CONSUMER_GROUP", "checkout-service"),
		},
		Stripe: StripeConfig{
			APIKey:  getEnvString("STRIPE_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("STRIPE_TIMEOUT", 30)) * time.Second,
		},
		Shipping: ShippingConfig{
			Name:             getEnvString("SHIPPING_NAME", "USPS Ground Advantage Shipping"),
			AmountMinorUnits: int64(getEnvInt("SHIPPING_AMOUNT", 800)),
			Currency:         getEnvString("SHIPPING_CURRENCY", "usd"),
		},
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
