package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHTTPPort          = 8080
	DefaultLogLevel          = "info"
	DefaultCSVPath           = "students.csv"
	DefaultWorkers           = 4
	DefaultQueueSize         = 64
	DefaultBroadcastInterval = 5 * time.Second
)

// Config is the top-level gradebook configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Store   StoreConfig   `yaml:"store"`
	Compute ComputeConfig `yaml:"compute"`
	WS      WSConfig      `yaml:"ws"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// HTTPPort is the port the JSON API, WebSocket hub, and /metrics
	// endpoint listen on (default 8080).
	HTTPPort int `yaml:"http_port"`
}

// LogConfig controls log output.
type LogConfig struct {
	// Path is an optional log file. When set, JSON log lines are appended
	// there in addition to stdout.
	Path string `yaml:"path"`

	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`
}

// StoreConfig locates the durable record set.
type StoreConfig struct {
	// CSVPath is the backing CSV file. Created with a header row on first
	// run if it does not exist.
	CSVPath string `yaml:"csv_path"`
}

// ComputeConfig sizes the average-computation worker pool.
type ComputeConfig struct {
	// Workers is the number of worker goroutines spawned per computation.
	Workers int `yaml:"workers"`

	// QueueSize is the work queue capacity. It must be at least the number
	// of records in the store; a larger snapshot fails the computation.
	QueueSize int `yaml:"queue_size"`
}

// WSConfig controls the WebSocket averages stream.
type WSConfig struct {
	// BroadcastInterval is how often fresh averages are pushed to
	// connected clients.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
}

// Load reads and parses the YAML config file at path. Missing optional
// fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{HTTPPort: DefaultHTTPPort},
		Log:    LogConfig{Level: DefaultLogLevel},
		Store:  StoreConfig{CSVPath: DefaultCSVPath},
		Compute: ComputeConfig{
			Workers:   DefaultWorkers,
			QueueSize: DefaultQueueSize,
		},
		WS: WSConfig{BroadcastInterval: DefaultBroadcastInterval},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q unknown: want debug|info|warn|error", cfg.Log.Level)
	}
	if cfg.Store.CSVPath == "" {
		return fmt.Errorf("store.csv_path is required")
	}
	if cfg.Compute.Workers <= 0 {
		return fmt.Errorf("compute.workers must be positive, got %d", cfg.Compute.Workers)
	}
	if cfg.Compute.QueueSize <= 0 {
		return fmt.Errorf("compute.queue_size must be positive, got %d", cfg.Compute.QueueSize)
	}
	if cfg.WS.BroadcastInterval <= 0 {
		return fmt.Errorf("ws.broadcast_interval must be positive")
	}
	return nil
}
