package config

import "time"

// Application constants
const (
	AppName    = "Stock Data Dashboard"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. STOCKDASH_SERVER_PORT
	EnvPrefix = "STOCKDASH"

	// ConfigFileEnv names an explicit config file
	ConfigFileEnv = "STOCKDASH_CONFIG_FILE"

	// Rate Limiting
	DefaultRateLimit = 20 // requests per second per client
	DefaultBurstSize = 40

	// Timeouts
	DefaultRequestTimeout = 60 * time.Second

	// Uploads
	DefaultMaxUploadBytes = 32 << 20

	// Dataset store
	DefaultDatasetTTL    = 30 * time.Minute
	DefaultMaxDatasets   = 64
	DefaultSweepInterval = time.Minute

	// Dashboard
	DefaultMaxTableRows = 5000

	// Log Settings
	DefaultLogLevel = "info"
	DefaultLogFile  = "logs/app.log"
)

// API routes
const (
	APIBasePath     = "/api"
	DatasetsPath    = APIBasePath + "/datasets"
	DashboardPath   = APIBasePath + "/dashboard"
	HealthEndpoint  = APIBasePath + "/health"
	VersionEndpoint = APIBasePath + "/version"
	MetricsEndpoint = "/metrics"
	RuntimePath     = APIBasePath + "/metrics/runtime"
	ClientLogsPath  = APIBasePath + "/logs"
)
