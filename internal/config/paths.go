package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds the platform-specific locations used by the daemon.
type Paths struct {
	BaseDir    string // base directory for configuration
	ConfigFile string // path to the active config file
	DataDir    string // directory for application data
	DBFile     string // path to the seed-cache database
	LogDir     string // directory for log files
}

// GetPaths returns the platform-specific paths, honouring the
// SNAPWATCH_CONFIG_DIR and SNAPWATCH_DATA_DIR environment overrides.
func GetPaths() (*Paths, error) {
	baseDir := os.Getenv("SNAPWATCH_CONFIG_DIR")
	if baseDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		switch runtime.GOOS {
		case "windows":
			baseDir = filepath.Join(configDir, "Snapwatch")
		case "darwin":
			baseDir = filepath.Join(configDir, "com.snapwatch.daemon")
		default:
			baseDir = filepath.Join(configDir, "snapwatch")
		}
	}

	dataDir := os.Getenv("SNAPWATCH_DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		switch runtime.GOOS {
		case "windows":
			appData, err := os.UserConfigDir()
			if err == nil {
				dataDir = filepath.Join(appData, "Snapwatch", "Data")
			} else {
				dataDir = filepath.Join(homeDir, "AppData", "Local", "Snapwatch")
			}
		case "darwin":
			dataDir = filepath.Join(homeDir, "Library", "Application Support", "Snapwatch")
		default:
			if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
				dataDir = filepath.Join(xdgDataHome, "snapwatch")
			} else {
				dataDir = filepath.Join(homeDir, ".snapwatch")
			}
		}
	}

	return &Paths{
		BaseDir:    baseDir,
		ConfigFile: filepath.Join(baseDir, "config.yaml"),
		DataDir:    dataDir,
		DBFile:     filepath.Join(dataDir, "snapwatch.db"),
		LogDir:     filepath.Join(dataDir, "logs"),
	}, nil
}
