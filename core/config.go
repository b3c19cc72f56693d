package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const devJWTSecret = "dev_jwt_secret"

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")
	ErrUnknownStore     = errors.New("STORE_DRIVER must be postgres or memory")
)

// Config holds every setting the API and its commands read from the
// environment.
type Config struct {
	Environment string
	Port        string

	// StoreDriver selects the backing store: "postgres" or "memory".
	StoreDriver string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret   string
	TokenExpiry time.Duration

	CORSOrigin string
	// Number of rows fetched per page when a search has to walk the whole
	// ESG table.
	ScanPageSize int
	// Path prefix removed from API Gateway events before routing, e.g. "/auth".
	LambdaStripPrefix string
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadConfig reads a .env file when one exists and then resolves settings
// from the process environment.
func LoadConfig() (*Config, error) {
	godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	return configFromViper(v)
}

func configFromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("STORE_DRIVER", StorePostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("TOKEN_EXPIRY", "24h")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("SCAN_PAGE_SIZE", 100)

	cfg := &Config{
		Environment:       v.GetString("ENVIRONMENT"),
		Port:              v.GetString("PORT"),
		StoreDriver:       v.GetString("STORE_DRIVER"),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		DBSSLMode:         v.GetString("DB_SSLMODE"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		CORSOrigin:        v.GetString("CORS_ORIGIN"),
		ScanPageSize:      v.GetInt("SCAN_PAGE_SIZE"),
		LambdaStripPrefix: v.GetString("LAMBDA_STRIP_PREFIX"),
	}

	expiry, err := time.ParseDuration(v.GetString("TOKEN_EXPIRY"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_EXPIRY: %w", err)
	}
	cfg.TokenExpiry = expiry

	if cfg.ScanPageSize <= 0 {
		return nil, fmt.Errorf("invalid SCAN_PAGE_SIZE: %d", cfg.ScanPageSize)
	}

	if cfg.StoreDriver != StorePostgres && cfg.StoreDriver != StoreMemory {
		return nil, ErrUnknownStore
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingJWTSecret
		}
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}
