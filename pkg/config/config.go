package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything an Engine, its flush worker, and the debug HTTP
// surface need at startup. It is grounded on freyjadb's pkg/config.Config:
// a flat YAML-tagged struct with defaulting, load, and save helpers.
type Config struct {
	// TmpDir is the directory output files are written into. Matches
	// cacheable.hpp's tmp_directory default of "/tmp".
	TmpDir string `yaml:"tmp_dir"`
	// BufferSize is the arena's total capacity in bytes.
	BufferSize int `yaml:"buffer_size"`
	// FlushThreshold is the used-byte count at or above which a periodic
	// drain actually writes to the file.
	FlushThreshold int `yaml:"flush_threshold"`
	// FlushIntervalMS is how often, in milliseconds, the flush worker
	// wakes up to attempt a drain.
	FlushIntervalMS int `yaml:"flush_interval_ms"`
	// HTTP configures the debug/metrics HTTP surface.
	HTTP HTTP `yaml:"http"`
	// Logging configures the structured logger.
	Logging Logging `yaml:"logging"`
}

// HTTP configures the debug and metrics server.
type HTTP struct {
	Bind    string `yaml:"bind"`
	Enabled bool   `yaml:"enabled"`
}

// Logging configures the structured logger shared by the engine, flush
// worker, and parser.
type Logging struct {
	Level string `yaml:"level"`
}

// FlushInterval returns FlushIntervalMS as a time.Duration.
func (c Config) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalMS) * time.Millisecond
}

// OutputPath builds the arena's output file path from parent and child
// PIDs, matching get_buffered_storage_filename's convention of embedding
// both so that processes sharing TmpDir never collide.
func (c Config) OutputPath(ppid, pid int) string {
	return filepath.Join(c.TmpDir, fmt.Sprintf("tracecache_%d_%d.bin", ppid, pid))
}

// DefaultConfig returns a default configuration, matching the constants in
// cacheable.hpp: a 100MB buffer, an 80MB flush threshold, and a 10ms flush
// interval.
func DefaultConfig() *Config {
	return &Config{
		TmpDir:          "/tmp",
		BufferSize:      100 * 1024 * 1024,
		FlushThreshold:  80 * 1024 * 1024,
		FlushIntervalMS: 10,
		HTTP: HTTP{
			Bind:    "127.0.0.1:9090",
			Enabled: true,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified path.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure
// permissions.
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ConfigExists checks if a configuration file exists.
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
