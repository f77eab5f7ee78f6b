package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/shaibs3/recipebook/internal/catalog/shared"
	"github.com/shaibs3/recipebook/internal/db"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func gormConfig(logger *zap.Logger) *gorm.Config {
	return &gorm.Config{
		Logger:         newGormLogger(logger),
		TranslateError: true,
	}
}

var dsnPassword = regexp.MustCompile(`(?i)(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|\S*)`)

// redact hides the password of a connection string for logging. It
// accepts URLs and keyword/value DSNs.
func redact(connStr string) string {
	u, err := url.Parse(connStr)
	if err == nil && u.Scheme != "" && u.Host != "" {
		return u.Redacted()
	}
	if strings.Contains(connStr, "://") {
		return "<unparseable>"
	}
	return dsnPassword.ReplaceAllString(connStr, "${1}xxxxx")
}

// NewPostgresStore applies the schema migrations and opens a pooled
// GORM handle. extra_details.conn_str is required.
func NewPostgresStore(config shared.StoreConfig, logger *zap.Logger, metrics *shared.Metrics) (*Store, error) {
	pgLogger := logger.Named("postgres")

	connStr, ok := config.StringDetail("conn_str")
	if !ok {
		return nil, fmt.Errorf("conn_str is required for Postgres store")
	}
	pgLogger.Info("initializing Postgres store", zap.String("conn_str", redact(connStr)))

	if err := db.Migrate(connStr, pgLogger); err != nil {
		pgLogger.Error("failed to migrate schema", zap.Error(err))
		return nil, err
	}

	gormDB, err := gorm.Open(postgres.Open(connStr), gormConfig(pgLogger))
	if err != nil {
		return nil, fmt.Errorf("failed to open GORM connection: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	db.ConfigurePool(sqlDB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	pgLogger.Info("Postgres store initialized successfully")
	return newStore(gormDB, pgLogger, metrics), nil
}

// NewSQLiteStore opens a SQLite database and creates the schema with
// AutoMigrate. extra_details.dsn defaults to an in-memory database.
func NewSQLiteStore(config shared.StoreConfig, logger *zap.Logger, metrics *shared.Metrics) (*Store, error) {
	liteLogger := logger.Named("sqlite")

	dsn, ok := config.StringDetail("dsn")
	if !ok {
		dsn = "file::memory:"
	}
	liteLogger.Info("initializing SQLite store", zap.String("dsn", dsn))

	gormDB, err := gorm.Open(sqlite.Open(dsn), gormConfig(liteLogger))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	// a single connection serializes writers and keeps in-memory data alive
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := gormDB.AutoMigrate(allModels()...); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to auto-migrate: %w", err)
	}

	liteLogger.Info("SQLite store initialized successfully")
	return newStore(gormDB, liteLogger, metrics), nil
}
