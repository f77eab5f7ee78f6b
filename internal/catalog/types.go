package catalog

import "github.com/shaibs3/recipebook/internal/catalog/shared"

// Re-export shared types for convenience
type DbType = shared.DbType
type StoreConfig = shared.StoreConfig

const (
	DbTypePostgres = shared.DbTypePostgres
	DbTypeSQLite   = shared.DbTypeSQLite
	DbTypeMemory   = shared.DbTypeMemory
)
