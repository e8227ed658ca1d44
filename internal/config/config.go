// Package config provides configuration for the Cutform engine.
// Values come from environment variables with sensible defaults, with an
// optional YAML file (CUTFORM_CONFIG_PATH) applied before the env
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = 8472
	DefaultLogLevel     = "info"
	DefaultDataDir      = ".cutform"
	DefaultTickMs       = 33
	DefaultProbeTimeout = 30 // seconds

	EnvConfigPath   = "CUTFORM_CONFIG_PATH"
	EnvPort         = "CUTFORM_PORT"
	EnvLogLevel     = "CUTFORM_LOG_LEVEL"
	EnvDataDir      = "CUTFORM_DATA_DIR"
	EnvFFprobe      = "CUTFORM_FFPROBE"
	EnvHeadless     = "CUTFORM_HEADLESS"
	EnvTickMs       = "CUTFORM_TICK_MS"
	EnvProbeTimeout = "CUTFORM_PROBE_TIMEOUT"

	DBFilename = "cutform.db"
)

// Config defines the application configuration interface.
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	FFprobePath() string
	Headless() bool
	TickInterval() time.Duration
	ProbeTimeout() time.Duration
}

// fileConfig is the YAML shape of the optional config file.
type fileConfig struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	DataDir  string `yaml:"data_dir"`
	FFprobe  string `yaml:"ffprobe"`
	Headless bool   `yaml:"headless"`
	TickMs   int    `yaml:"tick_ms"`
}

// EnvConfig reads configuration from an optional YAML file plus
// environment variable overrides.
type EnvConfig struct {
	port         int
	logLevel     string
	dataDir      string
	ffprobe      string
	headless     bool
	tickMs       int
	probeTimeout int
}

// New creates an EnvConfig with defaults, file values and env overrides,
// in that order.
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:         DefaultPort,
		logLevel:     DefaultLogLevel,
		dataDir:      defaultDataDir(),
		tickMs:       DefaultTickMs,
		probeTimeout: DefaultProbeTimeout,
	}

	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if fp := os.Getenv(EnvFFprobe); fp != "" {
		cfg.ffprobe = fp
	}

	if h := os.Getenv(EnvHeadless); h == "1" || h == "true" {
		cfg.headless = true
	}

	if tm := os.Getenv(EnvTickMs); tm != "" {
		ms, err := strconv.Atoi(tm)
		if err != nil || ms < 1 {
			return nil, fmt.Errorf("invalid %s: must be a positive integer", EnvTickMs)
		}
		cfg.tickMs = ms
	}

	if pt := os.Getenv(EnvProbeTimeout); pt != "" {
		sec, err := strconv.Atoi(pt)
		if err != nil || sec < 1 {
			return nil, fmt.Errorf("invalid %s: must be a positive integer", EnvProbeTimeout)
		}
		cfg.probeTimeout = sec
	}

	return cfg, nil
}

func (c *EnvConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if fc.Port != 0 {
		c.port = fc.Port
	}
	if fc.LogLevel != "" {
		c.logLevel = fc.LogLevel
	}
	if fc.DataDir != "" {
		c.dataDir = fc.DataDir
	}
	if fc.FFprobe != "" {
		c.ffprobe = fc.FFprobe
	}
	if fc.Headless {
		c.headless = true
	}
	if fc.TickMs > 0 {
		c.tickMs = fc.TickMs
	}
	return nil
}

func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error).
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file.
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// FFprobePath returns the ffprobe binary to use, empty for $PATH lookup.
func (c *EnvConfig) FFprobePath() string {
	return c.ffprobe
}

func (c *EnvConfig) Headless() bool {
	return c.headless
}

// TickInterval is the frame-loop period.
func (c *EnvConfig) TickInterval() time.Duration {
	return time.Duration(c.tickMs) * time.Millisecond
}

func (c *EnvConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.probeTimeout) * time.Second
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
