package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edgar.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "feed", config.Monitor.Source)
	assert.Equal(t, "60m", config.Monitor.Window)
	assert.Equal(t, 60*time.Minute, config.Monitor.WindowDuration())
	assert.Equal(t, "*/1 * * * *", config.Monitor.Schedule)
	assert.Equal(t, 8360, config.Server.Port)
	assert.NotEmpty(t, config.Monitor.FeedURL)
	assert.NotEmpty(t, config.Monitor.UserAgent)

	require.NoError(t, config.Validate())
}

func TestLoadFromFiles(t *testing.T) {
	path := writeConfigFile(t, `
environment = "production"

[server]
port = 9000

[monitor]
window = "30m"
`)

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 9000, config.Server.Port)
	assert.Equal(t, 30*time.Minute, config.Monitor.WindowDuration())
	// Untouched fields keep their defaults.
	assert.Equal(t, "feed", config.Monitor.Source)
}

func TestLoadFromFilesLaterOverridesEarlier(t *testing.T) {
	first := writeConfigFile(t, `
[server]
port = 9000

[monitor]
window = "30m"
`)
	second := writeConfigFile(t, `
[server]
port = 9001
`)

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)

	assert.Equal(t, 9001, config.Server.Port)
	assert.Equal(t, "30m", config.Monitor.Window, "first file's window should survive")
}

func TestLoadFromFilesMissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("EDGAR_MONITOR_WINDOW", "15m")
	t.Setenv("EDGAR_SERVER_PORT", "9100")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, config.Monitor.WindowDuration())
	assert.Equal(t, 9100, config.Server.Port)
}

func TestValidateRejectsBadWindow(t *testing.T) {
	config := NewDefaultConfig()
	config.Monitor.Window = "soon"

	assert.Error(t, config.Validate())
}

func TestValidateRejectsUnknownSource(t *testing.T) {
	config := NewDefaultConfig()
	config.Monitor.Source = "carrier-pigeon"

	assert.Error(t, config.Validate())
}

func TestValidateScrapeRequiresURL(t *testing.T) {
	config := NewDefaultConfig()
	config.Monitor.Source = "scrape"
	config.Monitor.ScrapeURL = ""

	assert.Error(t, config.Validate())
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 9200, "0.0.0.0")
	assert.Equal(t, 9200, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)

	// Zero values leave config untouched.
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 9200, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}

func TestWindowDurationFallback(t *testing.T) {
	c := MonitorConfig{Window: "garbage"}
	assert.Equal(t, 60*time.Minute, c.WindowDuration())
}
