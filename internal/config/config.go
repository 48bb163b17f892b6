package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/yukikurage/task-manager-api/internal/constants"
)

// Supported storage backends
const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

const devJWTSecret = "dev-secret-change-me"

var (
	ErrMissingJWTSecret  = errors.New("JWT_SECRET is required outside dev")
	ErrUnsupportedDriver = errors.New("unsupported DB_DRIVER")
	ErrMissingDSN        = errors.New("DATABASE_URL is required for SQL drivers")
)

type Config struct {
	Env            string
	Port           int
	GinMode        string
	DBDriver       string
	MongoURL       string
	MongoDatabase  string
	DatabaseURL    string
	JWTSecret      string
	JWTTTL         time.Duration
	OTLPEndpoint   string
	MaxAvatarBytes int64
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: ignoring .env: %v", err)
	}

	return &Config{
		Env:            getEnv("APP_ENV", "dev"),
		Port:           getEnvInt("PORT", 8080),
		GinMode:        getEnv("GIN_MODE", "debug"),
		DBDriver:       getEnv("DB_DRIVER", DriverMongo),
		MongoURL:       getEnv("MONGODB_URL", "mongodb://127.0.0.1:27017"),
		MongoDatabase:  getEnv("MONGODB_DATABASE", "task-manager-api"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTTTL:         getEnvDuration("JWT_TTL", 0),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		MaxAvatarBytes: int64(getEnvInt("MAX_AVATAR_BYTES", constants.DefaultMaxAvatarBytes)),
	}
}

// Validate checks the settings that cannot fall back to a default.
// In dev an empty JWT secret is replaced with a fixed development value.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		if c.Env != "dev" {
			return ErrMissingJWTSecret
		}
		c.JWTSecret = devJWTSecret
	}

	switch c.DBDriver {
	case DriverMongo:
	case DriverPostgres, DriverMySQL:
		if c.DatabaseURL == "" {
			return ErrMissingDSN
		}
	case DriverSQLite:
		if c.DatabaseURL == "" {
			c.DatabaseURL = "task-manager.db"
		}
	default:
		return ErrUnsupportedDriver
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	num, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return num
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
