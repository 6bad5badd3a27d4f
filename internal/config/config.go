package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Defaults applied wherever the file is absent or carries invalid values.
const (
	DefaultPollingIntervalMs = 500
	DefaultGestureWindowMs   = 300
	DefaultCaptureWidth      = 720
	DefaultCaptureHeight     = 480
	DefaultFetchTimeoutMs    = 5000
)

// Config holds all daemon configuration. It is loaded from a yaml file and
// may be re-read at any time; see Watcher.
type Config struct {
	// DeviceID identifies this installation in logs and the seed cache.
	DeviceID string `yaml:"device_id"`

	// Log holds logging configuration.
	Log LogConfig `yaml:"log"`

	// PollingIntervalMs is the clipboard poll interval in milliseconds.
	PollingIntervalMs int64 `yaml:"polling_interval_ms"`

	// Gesture holds double-press capture options.
	Gesture GestureConfig `yaml:"gesture"`

	// Capture holds screen-capture options.
	Capture CaptureConfig `yaml:"capture"`

	// Fetch holds remote-image download options.
	Fetch FetchConfig `yaml:"fetch"`

	// Storage holds seed-cache options.
	Storage StorageConfig `yaml:"storage"`
}

// LogConfig holds logging-related configuration.
type LogConfig struct {
	Level             string `yaml:"level"`
	Format            string `yaml:"format"` // "json" or "console"
	EnableFileLogging bool   `yaml:"enable_file_logging"`
}

// GestureConfig holds double-press detection options.
type GestureConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Key      string `yaml:"key"` // designated modifier, e.g. "shift"
	WindowMs int64  `yaml:"window_ms"`
}

// CaptureConfig holds the requested capture size around the cursor.
type CaptureConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// FetchConfig bounds remote image downloads.
type FetchConfig struct {
	TimeoutMs int64 `yaml:"timeout_ms"`
}

// StorageConfig holds seed-cache options.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// Function seams overridable in tests.
var (
	getConfigPath = func() (string, error) {
		paths, err := GetPaths()
		if err != nil {
			return "", err
		}
		return paths.ConfigFile, nil
	}
	generateDeviceID = func() string {
		return uuid.New().String()
	}
)

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		DeviceID: generateDeviceID(),
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		PollingIntervalMs: DefaultPollingIntervalMs,
		Gesture: GestureConfig{
			Enabled:  true,
			Key:      "shift",
			WindowMs: DefaultGestureWindowMs,
		},
		Capture: CaptureConfig{
			Width:  DefaultCaptureWidth,
			Height: DefaultCaptureHeight,
		},
		Fetch: FetchConfig{
			TimeoutMs: DefaultFetchTimeoutMs,
		},
	}
}

// Load reads the config file at path, or the platform default path when path
// is empty. A missing file yields DefaultConfig, which is written back so the
// user has something to edit. Invalid values are replaced with defaults; the
// substitutions are reported through Validate by the caller's logger.
func Load(path string) (*Config, error) {
	var err error
	if path == "" {
		path, err = getConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := DefaultConfig()
		if saveErr := cfg.Save(path); saveErr != nil {
			return nil, fmt.Errorf("failed to write default config: %w", saveErr)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.DeviceID == "" {
		cfg.DeviceID = generateDeviceID()
	}
	return cfg, nil
}

// Save writes the config as yaml, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate replaces invalid values with defaults, logging each substitution.
// The daemon never refuses to start over a bad setting.
func (c *Config) Validate(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c.PollingIntervalMs <= 0 {
		logger.Warn("invalid polling interval, using default",
			zap.Int64("value", c.PollingIntervalMs),
			zap.Int64("default", DefaultPollingIntervalMs))
		c.PollingIntervalMs = DefaultPollingIntervalMs
	}
	if c.Gesture.WindowMs <= 0 {
		logger.Warn("invalid gesture window, using default",
			zap.Int64("value", c.Gesture.WindowMs),
			zap.Int64("default", DefaultGestureWindowMs))
		c.Gesture.WindowMs = DefaultGestureWindowMs
	}
	if c.Gesture.Key == "" {
		c.Gesture.Key = "shift"
	}
	if c.Capture.Width <= 0 {
		logger.Warn("invalid capture width, using default",
			zap.Int("value", c.Capture.Width),
			zap.Int("default", DefaultCaptureWidth))
		c.Capture.Width = DefaultCaptureWidth
	}
	if c.Capture.Height <= 0 {
		logger.Warn("invalid capture height, using default",
			zap.Int("value", c.Capture.Height),
			zap.Int("default", DefaultCaptureHeight))
		c.Capture.Height = DefaultCaptureHeight
	}
	if c.Fetch.TimeoutMs <= 0 || c.Fetch.TimeoutMs > DefaultFetchTimeoutMs {
		logger.Warn("invalid fetch timeout, using default",
			zap.Int64("value", c.Fetch.TimeoutMs),
			zap.Int64("default", DefaultFetchTimeoutMs))
		c.Fetch.TimeoutMs = DefaultFetchTimeoutMs
	}
}

// PollingInterval returns the poll interval as a duration.
func (c *Config) PollingInterval() time.Duration {
	return time.Duration(c.PollingIntervalMs) * time.Millisecond
}

// GestureWindow returns the detection window as a duration.
func (c *Config) GestureWindow() time.Duration {
	return time.Duration(c.Gesture.WindowMs) * time.Millisecond
}

// FetchTimeout returns the remote download bound as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutMs) * time.Millisecond
}
