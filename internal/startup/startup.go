// Package startup loads configuration from the environment and
// validates the directories the player needs.
package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"media-player/internal/logging"
)

// Build-time variables (injected via -ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildInfo contains version and build information.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration.
type Config struct {
	Port      string
	DataDir   string
	CacheDir  string
	ImportDir string

	LogStaticFiles bool
	MetricsEnabled bool

	// Derived paths
	DatabasePath string
	MediaDir     string

	// Feature flags based on directory availability
	OfflineCacheEnabled bool
	ImporterEnabled     bool
}

// LoadConfig loads and validates configuration from environment
// variables.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	dataDir := getEnv("DATA_DIR", "./data")
	// CACHE_DIR defaults under the data directory; setting it to the
	// empty string disables offline caching.
	cacheDir, cacheDirSet := os.LookupEnv("CACHE_DIR")
	if !cacheDirSet {
		cacheDir = filepath.Join(dataDir, "offline")
	}
	importDir := os.Getenv("IMPORT_DIR")
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)

	logging.Info("configuration:")
	logging.Info("  PORT:            %s", port)
	logging.Info("  DATA_DIR:        %s", dataDir)
	logging.Info("  CACHE_DIR:       %s", orUnset(cacheDir))
	logging.Info("  IMPORT_DIR:      %s", orUnset(importDir))
	logging.Info("  METRICS_ENABLED: %v", metricsEnabled)
	logging.Info("  LOG_LEVEL:       %s", logging.GetLevel())

	dataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}

	cfg := &Config{
		Port:           port,
		DataDir:        dataDir,
		LogStaticFiles: logStaticFiles,
		MetricsEnabled: metricsEnabled,
		DatabasePath:   filepath.Join(dataDir, "catalog.db"),
		MediaDir:       filepath.Join(dataDir, "media"),
	}

	// Data and media directories are required.
	for _, dir := range []string{cfg.DataDir, cfg.MediaDir} {
		if err := ensureDirectory(dir); err != nil {
			return nil, err
		}
	}

	// The offline cache and the import directory are optional
	// capabilities; losing them degrades, never fails.
	if cacheDir != "" {
		if cacheDir, err = filepath.Abs(cacheDir); err == nil {
			err = ensureDirectory(cacheDir)
		}
		if err != nil {
			logging.Warn("offline cache unavailable: %v", err)
		} else {
			cfg.CacheDir = cacheDir
			cfg.OfflineCacheEnabled = true
		}
	}

	if importDir != "" {
		if importDir, err = filepath.Abs(importDir); err == nil {
			err = ensureDirectory(importDir)
		}
		if err != nil {
			logging.Warn("import directory unavailable: %v", err)
		} else {
			cfg.ImportDir = importDir
			cfg.ImporterEnabled = true
		}
	}

	return cfg, nil
}

// ensureDirectory creates dir if missing and verifies it is writable.
func ensureDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".perm-test")
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	_ = os.Remove(probe)
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(os.Getenv(key))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
