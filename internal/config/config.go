// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Image storage backends
const (
	StorageS3    = "s3"
	StorageLocal = "local"
)

// Cart date modes
const (
	CartDateModeFirst = "first"
	CartDateModeAll   = "all"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Cart     CartConfig
	APIKey   string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret      string
	TokenExpiry time.Duration
}

// StorageConfig holds image host settings
type StorageConfig struct {
	Backend       string
	MediaBasePath string
	MediaBaseURL  string
	S3Region      string
	S3Endpoint    string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3PublicURL   string
}

// CartConfig holds cart date normalization settings
type CartConfig struct {
	DateMode      string
	DateUTCOffset time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return nil, fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	// Server configuration
	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "4000" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	// Session token expiry (default: 7 days)
	expiryStr := os.Getenv("JWT_TOKEN_EXPIRY")
	if expiryStr == "" {
		expiryStr = "168h"
	}
	expiry, err := time.ParseDuration(expiryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TOKEN_EXPIRY: %w", err)
	}
	cfg.JWT.TokenExpiry = expiry

	// API Key configuration (optional, protects maintenance endpoints)
	cfg.APIKey = os.Getenv("API_KEY")

	if err := loadStorage(cfg); err != nil {
		return nil, err
	}

	if err := loadCart(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadStorage reads image host settings; S3 credentials are required only for the s3 backend
func loadStorage(cfg *Config) error {
	backend := strings.ToLower(os.Getenv("IMAGE_STORAGE"))
	if backend == "" {
		backend = StorageLocal
	}

	switch backend {
	case StorageLocal:
		cfg.Storage.MediaBasePath = os.Getenv("MEDIA_BASE_PATH")
		if cfg.Storage.MediaBasePath == "" {
			cfg.Storage.MediaBasePath = "./media"
		}
		cfg.Storage.MediaBaseURL = strings.TrimRight(os.Getenv("MEDIA_BASE_URL"), "/")
		if cfg.Storage.MediaBaseURL == "" {
			cfg.Storage.MediaBaseURL = fmt.Sprintf("http://localhost:%d/media", cfg.Server.Port)
		}
	case StorageS3:
		cfg.Storage.S3Bucket = os.Getenv("S3_BUCKET")
		if cfg.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for s3 image storage")
		}
		cfg.Storage.S3Region = os.Getenv("S3_REGION")
		if cfg.Storage.S3Region == "" {
			cfg.Storage.S3Region = "us-east-1"
		}
		cfg.Storage.S3Endpoint = os.Getenv("S3_ENDPOINT")     // optional, for MinIO
		cfg.Storage.S3AccessKey = os.Getenv("S3_ACCESS_KEY") // optional, default credential chain otherwise
		cfg.Storage.S3SecretKey = os.Getenv("S3_SECRET_KEY")
		cfg.Storage.S3PublicURL = strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/")
	default:
		return fmt.Errorf("invalid IMAGE_STORAGE: %s", backend)
	}
	cfg.Storage.Backend = backend

	return nil
}

// loadCart reads the cart date normalization policy
func loadCart(cfg *Config) error {
	mode := strings.ToLower(os.Getenv("CART_DATE_MODE"))
	if mode == "" {
		mode = CartDateModeFirst
	}
	if mode != CartDateModeFirst && mode != CartDateModeAll {
		return fmt.Errorf("invalid CART_DATE_MODE: %s", mode)
	}
	cfg.Cart.DateMode = mode

	offsetStr := os.Getenv("CART_DATE_UTC_OFFSET")
	if offsetStr == "" {
		offsetStr = "8h"
	}
	offset, err := time.ParseDuration(offsetStr)
	if err != nil {
		return fmt.Errorf("invalid CART_DATE_UTC_OFFSET: %w", err)
	}
	cfg.Cart.DateUTCOffset = offset

	return nil
}

// parseOrigins splits a comma-separated origin list, allowing all origins when empty
func parseOrigins(raw string) []string {
	if raw == "" {
		// Default to allow all origins if not specified (for development)
		return []string{"*"}
	}

	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// DSN returns the database connection string.
// clientFoundRows makes UPDATE report matched rather than changed rows.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&clientFoundRows=true",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}
