package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "Motorola Nexus 6 shamu", cfg.IPC.TargetDevice)
	assert.Equal(t, []uint32{1000, 1001}, cfg.IPC.AllowedUIDs)
	assert.Equal(t, uint32(16384), cfg.IPC.PageSize)
	assert.Equal(t, uint32(64), cfg.IPC.PagesMapped)
	assert.True(t, cfg.IPC.Enforced)

	assert.Equal(t, time.Second, cfg.Monitor.SamplePeriod)
	assert.False(t, cfg.Monitor.ResetAll)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.RateLimit.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("IPC_ALLOWED_UIDS", "0,1000")
	t.Setenv("IPC_PAGE_SIZE", "4096")
	t.Setenv("MONITOR_RESET_ALL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 1000}, cfg.IPC.AllowedUIDs)
	assert.Equal(t, uint32(4096), cfg.IPC.PageSize)
	assert.True(t, cfg.Monitor.ResetAll)
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	require.NotNil(t, cfg)
	assert.Equal(t, "8090", cfg.Server.Port)
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipcmond.yaml")
	data := []byte(`
server:
  port: "9000"
ipc:
  target_device: "Motorola Nexus 6 shamu"
  pages_mapped: 128
monitor:
  reset_all: true
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, uint32(128), cfg.IPC.PagesMapped)
	assert.True(t, cfg.Monitor.ResetAll)
	// Fields absent from the file keep their environment defaults.
	assert.Equal(t, uint32(16384), cfg.IPC.PageSize)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("/nonexistent/ipcmond.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"page_size_not_power_of_two", func(c *Config) { c.IPC.PageSize = 1000 }},
		{"page_size_zero", func(c *Config) { c.IPC.PageSize = 0 }},
		{"no_pages", func(c *Config) { c.IPC.PagesMapped = 0 }},
		{"empty_allow_list", func(c *Config) { c.IPC.AllowedUIDs = nil }},
		{"oversized_allow_list", func(c *Config) { c.IPC.AllowedUIDs = make([]uint32, 9) }},
		{"bad_sample_period", func(c *Config) { c.Monitor.SamplePeriod = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
