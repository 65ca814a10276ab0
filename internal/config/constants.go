package config

import "time"

const (
	envPort              = "PORT"
	envLogLevel          = "LOG_LEVEL"
	envLogFormat         = "LOG_FORMAT"
	envStorageDriver     = "STORAGE_DRIVER"
	envDataDir           = "DATA_DIR"
	envSQLitePath        = "SQLITE_PATH"
	envDatabaseURL       = "DATABASE_URL"
	envNatsURL           = "NATS_URL"
	envBroadcastSubject  = "BROADCAST_SUBJECT"
	envNatsMaxReconnects = "NATS_MAX_RECONNECTS"
	envNatsReconnectWait = "NATS_RECONNECT_WAIT"
	envCorsOrigins       = "CORS_ALLOWED_ORIGINS"
	envAdminToken        = "ADMIN_TOKEN"
	envSportDefaultsFile = "SPORT_DEFAULTS_FILE"
	envShutdownTimeout   = "SHUTDOWN_TIMEOUT"
	envMetricsPort       = "METRICS_PORT"
	envMetricsOn         = "METRICS_ENABLED"
	envOtelEndpoint      = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService       = "OTEL_SERVICE_NAME"
	envOtelInsecure      = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort              = "4000"
	defaultLogLevel          = "info"
	defaultLogFormat         = "json"
	defaultStorageDriver     = DriverMemory
	defaultDataDir           = "data/matches"
	defaultSQLitePath        = "data/scoreboard.db"
	defaultBroadcastSubject  = "scoreboard-pro-updates"
	defaultNatsMaxReconnects = 10
	defaultNatsReconnectWait = 2 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultMetricsPort       = "9090"
	defaultServiceName       = "scoreboard-service"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverFS       = "fs"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)
