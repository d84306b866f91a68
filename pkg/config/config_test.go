package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "/tmp", config.TmpDir)
	assert.Equal(t, 100*1024*1024, config.BufferSize)
	assert.Equal(t, 80*1024*1024, config.FlushThreshold)
	assert.Equal(t, 10, config.FlushIntervalMS)
	assert.Equal(t, 10*time.Millisecond, config.FlushInterval())
	assert.Equal(t, "info", config.Logging.Level)
	assert.True(t, config.HTTP.Enabled)
}

func TestOutputPathEmbedsBothPIDs(t *testing.T) {
	config := DefaultConfig()
	config.TmpDir = "/var/trace"

	path := config.OutputPath(100, 200)
	assert.Equal(t, filepath.Join("/var/trace", "tracecache_100_200.bin"), path)
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")

		expectedConfig := &Config{
			TmpDir:          "/custom/tmp",
			BufferSize:      4096,
			FlushThreshold:  2048,
			FlushIntervalMS: 500,
			HTTP:            HTTP{Bind: "0.0.0.0:9999", Enabled: true},
			Logging:         Logging{Level: "debug"},
		}

		require.NoError(t, SaveConfig(expectedConfig, configPath))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644))

		_, err := LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	config := DefaultConfig()

	require.NoError(t, SaveConfig(config, configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingPath := filepath.Join(tmpDir, "exists.yaml")
	nonExistentPath := filepath.Join(tmpDir, "does-not-exist.yaml")

	require.NoError(t, os.WriteFile(existingPath, []byte("test"), 0644))

	assert.True(t, ConfigExists(existingPath))
	assert.False(t, ConfigExists(nonExistentPath))
}

func TestConfigYAMLMarshalling(t *testing.T) {
	config := &Config{
		TmpDir:          "/test/data",
		BufferSize:      9999,
		FlushThreshold:  1234,
		FlushIntervalMS: 100,
		HTTP:            HTTP{Bind: "localhost:9090", Enabled: false},
		Logging:         Logging{Level: "warn"},
	}

	data, err := yaml.Marshal(config)
	require.NoError(t, err)

	var unmarshalled Config
	require.NoError(t, yaml.Unmarshal(data, &unmarshalled))
	assert.Equal(t, config, &unmarshalled)
}

func TestSaveConfigErrorHandling(t *testing.T) {
	config := DefaultConfig()
	// A directory cannot be created beneath a regular file, whatever the
	// caller's privileges.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))
	invalidPath := filepath.Join(blocker, "cannot", "be", "created", "config.yaml")

	err := SaveConfig(config, invalidPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}
