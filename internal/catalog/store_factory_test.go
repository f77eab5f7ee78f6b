package catalog

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/shaibs3/recipebook/internal/catalog/sqlstore"
	"github.com/shaibs3/recipebook/internal/telemetry"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFactory(t *testing.T) *StoreFactory {
	t.Helper()
	logger := zap.NewNop()
	tel, err := telemetry.NewTelemetry(logger)
	require.NoError(t, err)
	return NewStoreFactory(logger, tel)
}

func TestStoreFactory_CreateStore_Memory(t *testing.T) {
	factory := newFactory(t)

	config := StoreConfig{DbType: DbTypeMemory, ExtraDetails: map[string]interface{}{}}
	configJSON, _ := json.Marshal(config)

	store, err := factory.CreateStore(string(configJSON))
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, store)

	store, err = factory.CreateStore("")
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, store)
}

func TestStoreFactory_CreateStore_SQLite(t *testing.T) {
	factory := newFactory(t)

	config := StoreConfig{
		DbType:       DbTypeSQLite,
		ExtraDetails: map[string]interface{}{"dsn": filepath.Join(t.TempDir(), "catalog.db")},
	}
	configJSON, _ := json.Marshal(config)

	store, err := factory.CreateStore(string(configJSON))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.IsType(t, &sqlstore.Store{}, store)
}

func TestStoreFactory_CreateStore_Errors(t *testing.T) {
	factory := newFactory(t)

	_, err := factory.CreateStore(`{"dbtype":"csv"}`)
	require.Error(t, err)

	_, err = factory.CreateStore(`{not json`)
	require.Error(t, err)

	_, err = factory.CreateStore(`{"dbtype":"postgres","extra_details":{}}`)
	require.Error(t, err)
}
