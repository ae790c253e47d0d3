package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Upload    UploadConfig    `yaml:"upload" envconfig:"UPLOAD"`
	Datasets  DatasetsConfig  `yaml:"datasets" envconfig:"DATASETS"`
	Dashboard DashboardConfig `yaml:"dashboard" envconfig:"DASHBOARD"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// Addr returns the listen address for the HTTP server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// UploadConfig bounds what a client may upload
type UploadConfig struct {
	MaxBytes   int64    `yaml:"max_bytes" envconfig:"MAX_BYTES"`
	Extensions []string `yaml:"extensions" envconfig:"EXTENSIONS"`
}

// DatasetsConfig controls the in-memory dataset store
type DatasetsConfig struct {
	TTL           time.Duration `yaml:"ttl" envconfig:"TTL"`
	MaxEntries    int           `yaml:"max_entries" envconfig:"MAX_ENTRIES"`
	SweepInterval time.Duration `yaml:"sweep_interval" envconfig:"SWEEP_INTERVAL"`
}

// DashboardConfig holds the defaults applied when a request leaves a
// dashboard parameter unset.
type DashboardConfig struct {
	Currency                 string  `yaml:"currency" envconfig:"CURRENCY"`
	AverageVolumeDays        int     `yaml:"average_volume_days" envconfig:"AVERAGE_VOLUME_DAYS"`
	MovingAverageWindows     []int   `yaml:"moving_average_windows" envconfig:"MOVING_AVERAGE_WINDOWS"`
	ChartMovingAverageWindow int     `yaml:"chart_moving_average_window" envconfig:"CHART_MOVING_AVERAGE_WINDOW"`
	BollingerWindow          int     `yaml:"bollinger_window" envconfig:"BOLLINGER_WINDOW"`
	BollingerStdDev          float64 `yaml:"bollinger_std_dev" envconfig:"BOLLINGER_STD_DEV"`
	MaxTableRows             int     `yaml:"max_table_rows" envconfig:"MAX_TABLE_ROWS"`
}

// TelemetryConfig selects the OpenTelemetry exporters
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
	RuntimeMetrics bool    `yaml:"runtime_metrics" envconfig:"RUNTIME_METRICS"`
}

// Load builds the configuration from defaults, the optional config file and
// STOCKDASH_* environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFile(FindConfigFile())
}

// LoadFile is Load with an explicit config file. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration and normalises a few fields
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}
	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max bytes must be positive")
	}
	if len(c.Upload.Extensions) == 0 {
		return fmt.Errorf("at least one upload extension must be allowed")
	}
	for i, ext := range c.Upload.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Upload.Extensions[i] = ext
	}

	if c.Datasets.TTL <= 0 {
		return fmt.Errorf("dataset ttl must be positive")
	}
	if c.Datasets.MaxEntries <= 0 {
		return fmt.Errorf("dataset max entries must be positive")
	}
	if c.Datasets.SweepInterval <= 0 {
		return fmt.Errorf("dataset sweep interval must be positive")
	}

	if err := c.Dashboard.validate(); err != nil {
		return err
	}

	// Logs are always structured JSON
	c.Logging.Format = "json"
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry sample ratio must be within [0, 1]: %v", c.Telemetry.SampleRatio)
	}

	return nil
}

func (d *DashboardConfig) validate() error {
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))
	if money.GetCurrency(d.Currency) == nil {
		return fmt.Errorf("unknown dashboard currency: %q", d.Currency)
	}
	if d.AverageVolumeDays <= 0 {
		return fmt.Errorf("average volume days must be positive")
	}
	for _, w := range d.MovingAverageWindows {
		if w <= 0 {
			return fmt.Errorf("moving average windows must be positive: %d", w)
		}
	}
	if d.ChartMovingAverageWindow <= 0 {
		return fmt.Errorf("chart moving average window must be positive")
	}
	if d.BollingerWindow < 2 {
		return fmt.Errorf("bollinger window must be at least 2")
	}
	if d.BollingerStdDev <= 0 {
		return fmt.Errorf("bollinger standard deviation multiplier must be positive")
	}
	if d.MaxTableRows < 0 {
		return fmt.Errorf("max table rows must not be negative")
	}
	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  DefaultRequestTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Upload: UploadConfig{
			MaxBytes:   DefaultMaxUploadBytes,
			Extensions: []string{".csv", ".txt", ".xlsx"},
		},
		Datasets: DatasetsConfig{
			TTL:           DefaultDatasetTTL,
			MaxEntries:    DefaultMaxDatasets,
			SweepInterval: DefaultSweepInterval,
		},
		Dashboard: DashboardConfig{
			Currency:                 money.USD,
			AverageVolumeDays:        30,
			MovingAverageWindows:     []int{50, 200},
			ChartMovingAverageWindow: 14,
			BollingerWindow:          20,
			BollingerStdDev:          2,
			MaxTableRows:             DefaultMaxTableRows,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
			RuntimeMetrics: true,
		},
	}
}
