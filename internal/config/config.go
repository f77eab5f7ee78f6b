package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shaibs3/recipebook/internal/catalog/shared"
	"go.uber.org/zap"
)

// MediaConfig selects where uploaded files are kept
type MediaConfig struct {
	Backend   string
	UploadDir string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
}

// Config holds the application configuration
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	RPSLimit    float64
	RPSBurst    int
	CORSOrigin  string

	// CatalogDBConfig is a JSON encoded shared.StoreConfig. Empty means
	// the in-memory store.
	CatalogDBConfig string

	Media        MediaConfig
	BrowseAPIURL string
}

// Load reads an optional .env file and then the process environment
func Load(logger *zap.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("no .env file found, using environment only")
		} else {
			logger.Warn("failed to load .env file", zap.Error(err))
		}
	}
	return FromEnv(logger)
}

// LoadFile reads the given env file before the environment
func LoadFile(logger *zap.Logger, path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, err
	}
	return FromEnv(logger), nil
}

// FromEnv builds the configuration from environment variables only
func FromEnv(logger *zap.Logger) *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "5000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		RPSLimit:    getEnvFloat(logger, "RPS_LIMIT", 50),
		RPSBurst:    getEnvInt(logger, "RPS_BURST", 100),
		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:3000"),
		Media: MediaConfig{
			Backend:        getEnv("MEDIA_BACKEND", "local"),
			UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
			MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
			MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
			MinioBucket:    os.Getenv("MINIO_BUCKET"),
		},
	}
	cfg.BrowseAPIURL = getEnv("BROWSE_API_URL", "http://localhost:"+cfg.Port)
	cfg.CatalogDBConfig = catalogDBConfig(logger)
	return cfg
}

// catalogDBConfig prefers an explicit CATALOG_DB_CONFIG and otherwise
// derives a postgres config from the DB_* variables.
func catalogDBConfig(logger *zap.Logger) string {
	if raw := os.Getenv("CATALOG_DB_CONFIG"); raw != "" {
		return raw
	}
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	connURL := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD")),
		Host:     net.JoinHostPort(host, getEnv("DB_PORT", "5432")),
		Path:     "/" + os.Getenv("DB_NAME"),
		RawQuery: "sslmode=" + getEnv("DB_SSLMODE", "disable"),
	}
	b, err := json.Marshal(shared.StoreConfig{
		DbType:       shared.DbTypePostgres,
		ExtraDetails: map[string]interface{}{"conn_str": connURL.String()},
	})
	if err != nil {
		logger.Error("failed to encode database configuration", zap.Error(err))
		return ""
	}
	return string(b)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(logger *zap.Logger, key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn("invalid integer in environment, using default",
			zap.String("key", key), zap.String("value", raw), zap.Int("default", defaultValue))
		return defaultValue
	}
	return v
}

func getEnvFloat(logger *zap.Logger, key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.Warn("invalid number in environment, using default",
			zap.String("key", key), zap.String("value", raw), zap.Float64("default", defaultValue))
		return defaultValue
	}
	return v
}
