package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Service names one of the three binaries; it picks the per-service defaults.
type Service string

const (
	Customers Service = "customers"
	Inventory Service = "inventory"
	Sales     Service = "sales"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Service  Service
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Services ServicesConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

type ServerConfig struct {
	AppEnv          string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level       string
	Encoding    string
	Development bool
}

type DatabaseConfig struct {
	Driver          string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ServicesConfig holds the downstream endpoints used by the sales service.
type ServicesConfig struct {
	InventoryURL string
	CustomerURL  string
	Timeout      time.Duration
}

type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether at least one broker was configured.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

var defaultPorts = map[Service]string{
	Customers: "5001",
	Inventory: "5002",
	Sales:     "5003",
}

// Load reads a .env file if one exists and builds the configuration for svc
// from the environment.
func Load(svc Service) *Config {
	_ = godotenv.Load()

	appEnv := getEnv("APP_ENV", "production")
	dev := appEnv == "development"

	encoding, level := "json", "info"
	if dev {
		encoding, level = "console", "debug"
	}

	return &Config{
		Service: svc,
		Server: ServerConfig{
			AppEnv:          appEnv,
			Port:            getEnv("APP_PORT", defaultPorts[svc]),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOGGER_LEVEL", level),
			Encoding:    getEnv("LOGGER_ENCODING", encoding),
			Development: getEnvBool("LOGGER_DEVELOPMENT", dev),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("STORAGE_DRIVER", DriverPostgres)),
			URL:             getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Services: ServicesConfig{
			InventoryURL: strings.TrimRight(getEnv("INVENTORY_SERVICE_URL", "http://localhost:5002"), "/"),
			CustomerURL:  strings.TrimRight(getEnv("CUSTOMER_SERVICE_URL", "http://localhost:5001"), "/"),
			Timeout:      getEnvDuration("SERVICE_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", ""),
			Password:       getEnv("REDIS_PASSWORD", ""),
			DB:             getEnvInt("REDIS_DB", 0),
			IdempotencyTTL: getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "sales.events"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("5s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
