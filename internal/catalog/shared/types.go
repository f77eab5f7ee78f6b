package shared

// DbType names a catalog store implementation
type DbType string

const (
	DbTypePostgres DbType = "postgres"
	DbTypeSQLite   DbType = "sqlite"
	DbTypeMemory   DbType = "memory"
)

// String returns the string representation of DbType
func (d DbType) String() string {
	return string(d)
}

// IsValid checks if the DbType is supported
func (d DbType) IsValid() bool {
	switch d {
	case DbTypePostgres, DbTypeSQLite, DbTypeMemory:
		return true
	default:
		return false
	}
}

// StoreConfig is the JSON document that selects and configures a store.
// Postgres expects extra_details.conn_str, sqlite extra_details.dsn.
type StoreConfig struct {
	DbType       DbType                 `json:"dbtype"`
	ExtraDetails map[string]interface{} `json:"extra_details"`
}

// StringDetail returns a string entry of ExtraDetails
func (c StoreConfig) StringDetail(key string) (string, bool) {
	v, ok := c.ExtraDetails[key].(string)
	return v, ok && v != ""
}
