package config

import "time"

// Config holds runtime configuration for the server.
type Config struct {
	Port              string
	LogLevel          string
	LogFormat         string
	AdminToken        string
	AllowedOrigins    []string
	SportDefaultsFile string
	ShutdownTimeout   time.Duration
	Storage           StorageConfig
	Broadcast         BroadcastConfig
	Metrics           MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:              envOrDefault(envPort, defaultPort),
		LogLevel:          envOrDefault(envLogLevel, defaultLogLevel),
		LogFormat:         envOrDefault(envLogFormat, defaultLogFormat),
		AdminToken:        envOrDefault(envAdminToken, ""),
		AllowedOrigins:    listEnvOrDefault(envCorsOrigins, []string{"*"}),
		SportDefaultsFile: envOrDefault(envSportDefaultsFile, ""),
		ShutdownTimeout:   durationEnvOrDefault(envShutdownTimeout, defaultShutdownTimeout),
		Storage:           loadStorage(),
		Broadcast:         loadBroadcast(),
		Metrics:           loadMetrics(),
	}
}
