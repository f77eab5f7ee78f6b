package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/shaibs3/recipebook/internal/catalog/shared"
	"github.com/shaibs3/recipebook/internal/catalog/sqlstore"
	"github.com/shaibs3/recipebook/internal/telemetry"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Factory creates catalog stores from a JSON configuration
type Factory interface {
	CreateStore(configJSON string) (Store, error)
}

// StoreFactory implements Factory
type StoreFactory struct {
	logger    *zap.Logger
	telemetry *telemetry.Telemetry
}

func NewStoreFactory(logger *zap.Logger, tel *telemetry.Telemetry) *StoreFactory {
	return &StoreFactory{
		logger:    logger.Named("factory"),
		telemetry: tel,
	}
}

// CreateStore parses configJSON and opens the selected store. An empty
// configuration selects the in-memory store.
func (f *StoreFactory) CreateStore(configJSON string) (Store, error) {
	config := shared.StoreConfig{DbType: shared.DbTypeMemory}
	if configJSON != "" {
		if err := json.Unmarshal([]byte(configJSON), &config); err != nil {
			return nil, fmt.Errorf("failed to parse catalog store configuration JSON: %w", err)
		}
	}

	f.logger.Info("creating catalog store", zap.String("db_type", config.DbType.String()))

	if !config.DbType.IsValid() {
		return nil, fmt.Errorf("unsupported database type: %s", config.DbType)
	}

	var meter metric.Meter
	if f.telemetry != nil {
		meter = f.telemetry.Meter
	}
	metrics, err := shared.NewMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog metrics: %w", err)
	}

	switch config.DbType {
	case shared.DbTypePostgres:
		return sqlstore.NewPostgresStore(config, f.logger, metrics)
	case shared.DbTypeSQLite:
		return sqlstore.NewSQLiteStore(config, f.logger, metrics)
	case shared.DbTypeMemory:
		f.logger.Info("using in-memory catalog store")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.DbType)
	}
}
