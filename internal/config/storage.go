package config

import "strings"

// StorageConfig selects and locates the durable store.
type StorageConfig struct {
	Driver      string
	DataDir     string
	SQLitePath  string
	DatabaseURL string
}

func loadStorage() StorageConfig {
	driver := strings.ToLower(envOrDefault(envStorageDriver, defaultStorageDriver))
	switch driver {
	case DriverMemory, DriverFS, DriverSQLite, DriverPostgres:
	default:
		driver = defaultStorageDriver
	}
	return StorageConfig{
		Driver:      driver,
		DataDir:     envOrDefault(envDataDir, defaultDataDir),
		SQLitePath:  envOrDefault(envSQLitePath, defaultSQLitePath),
		DatabaseURL: envOrDefault(envDatabaseURL, ""),
	}
}
