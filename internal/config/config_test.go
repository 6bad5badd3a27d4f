package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestLoad(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "snapwatch-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	origGetConfigPath := getConfigPath
	origGenerateDeviceID := generateDeviceID
	defer func() {
		getConfigPath = origGetConfigPath
		generateDeviceID = origGenerateDeviceID
	}()

	getConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "config.yaml"), nil
	}
	generateDeviceID = func() string {
		return "mock-device-id"
	}

	// Loading with no file on disk yields defaults and writes the file back.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	defaultCfg := DefaultConfig()
	if cfg.Log.Level != defaultCfg.Log.Level {
		t.Errorf("Expected Log.Level %s, got %s", defaultCfg.Log.Level, cfg.Log.Level)
	}
	if cfg.PollingIntervalMs != DefaultPollingIntervalMs {
		t.Errorf("Expected PollingIntervalMs %d, got %d", int64(DefaultPollingIntervalMs), cfg.PollingIntervalMs)
	}
	if cfg.DeviceID != "mock-device-id" {
		t.Errorf("Expected DeviceID mock-device-id, got %s", cfg.DeviceID)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "config.yaml")); err != nil {
		t.Errorf("Expected default config to be written back: %v", err)
	}

	// Loading an existing file overrides defaults.
	custom := &Config{
		DeviceID:          "custom-id",
		PollingIntervalMs: 1000,
		Gesture:           GestureConfig{Enabled: false, Key: "ctrl", WindowMs: 250},
		Capture:           CaptureConfig{Width: 1280, Height: 720},
		Fetch:             FetchConfig{TimeoutMs: 3000},
	}
	data, err := yaml.Marshal(custom)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	customPath := filepath.Join(tempDir, "custom.yaml")
	if err := os.WriteFile(customPath, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err = Load(customPath)
	if err != nil {
		t.Fatalf("Load(custom) failed: %v", err)
	}
	if cfg.DeviceID != "custom-id" {
		t.Errorf("Expected DeviceID custom-id, got %s", cfg.DeviceID)
	}
	if cfg.PollingIntervalMs != 1000 {
		t.Errorf("Expected PollingIntervalMs 1000, got %d", cfg.PollingIntervalMs)
	}
	if cfg.Gesture.Key != "ctrl" {
		t.Errorf("Expected gesture key ctrl, got %s", cfg.Gesture.Key)
	}
}

func TestValidateReplacesInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
		get  func(*Config) int64
		want int64
	}{
		{
			name: "negative polling interval",
			mut:  func(c *Config) { c.PollingIntervalMs = -5 },
			get:  func(c *Config) int64 { return c.PollingIntervalMs },
			want: DefaultPollingIntervalMs,
		},
		{
			name: "zero gesture window",
			mut:  func(c *Config) { c.Gesture.WindowMs = 0 },
			get:  func(c *Config) int64 { return c.Gesture.WindowMs },
			want: DefaultGestureWindowMs,
		},
		{
			name: "negative capture width",
			mut:  func(c *Config) { c.Capture.Width = -1 },
			get:  func(c *Config) int64 { return int64(c.Capture.Width) },
			want: DefaultCaptureWidth,
		},
		{
			name: "zero capture height",
			mut:  func(c *Config) { c.Capture.Height = 0 },
			get:  func(c *Config) int64 { return int64(c.Capture.Height) },
			want: DefaultCaptureHeight,
		},
		{
			name: "fetch timeout above bound",
			mut:  func(c *Config) { c.Fetch.TimeoutMs = 60000 },
			get:  func(c *Config) int64 { return c.Fetch.TimeoutMs },
			want: DefaultFetchTimeoutMs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(cfg)
			cfg.Validate(nil)
			if got := tt.get(cfg); got != tt.want {
				t.Errorf("Validate() left %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDurationAccessors(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.PollingInterval() != 500*time.Millisecond {
		t.Errorf("PollingInterval() = %v, want 500ms", cfg.PollingInterval())
	}
	if cfg.GestureWindow() != 300*time.Millisecond {
		t.Errorf("GestureWindow() = %v, want 300ms", cfg.GestureWindow())
	}
	if cfg.FetchTimeout() != 5*time.Second {
		t.Errorf("FetchTimeout() = %v, want 5s", cfg.FetchTimeout())
	}
}

func TestWatcherReload(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "snapwatch-watch")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "config.yaml")
	cfg := DefaultConfig()
	cfg.PollingIntervalMs = 200
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Close()

	if got := w.Current().PollingIntervalMs; got != 200 {
		t.Fatalf("Current().PollingIntervalMs = %d, want 200", got)
	}

	cfg.PollingIntervalMs = 750
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	// The reload is asynchronous; poll briefly for the new snapshot.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if w.Current().PollingIntervalMs == 750 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("watcher did not pick up new polling interval, still %d", w.Current().PollingIntervalMs)
}
