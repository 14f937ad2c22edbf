package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "https://api.kraken.com", cfg.Kraken.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Kraken.Timeout)
	assert.Equal(t, uint8(1), cfg.Kraken.Tier)
	assert.True(t, cfg.Kraken.RateLimit)
	assert.Equal(t, uint(3), cfg.Kraken.Retry.Attempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Kraken.Retry.Delay)
	assert.Equal(t, 30*time.Second, cfg.Poll.Interval)
	assert.Equal(t, []string{"XBTUSD", "ETHUSD"}, cfg.Poll.Pairs)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "krakenpoll.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
kraken:
  tier: 3
  retry:
    attempts: 5
poll:
  interval: 5s
  pairs: [XBTEUR]
logging:
  level: debug
  format: console
`), 0o600))

	cfg, err := Load(file)

	require.NoError(t, err)
	assert.Equal(t, uint8(3), cfg.Kraken.Tier)
	assert.Equal(t, uint(5), cfg.Kraken.Retry.Attempts)
	assert.Equal(t, 5*time.Second, cfg.Poll.Interval)
	assert.Equal(t, []string{"XBTEUR"}, cfg.Poll.Pairs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_SearchesConfigsDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "krakenpoll.yaml"), []byte("metrics:\n  addr: \":9999\"\n"), 0o600))
	chdir(t, dir)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Metrics.Addr)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("KRAKEN_API_KEY", "key-from-env")
	t.Setenv("KRAKEN_API_SECRET", "c2VjcmV0")
	t.Setenv("KRAKENPOLL_POLL_PRIVATE", "true")
	t.Setenv("KRAKENPOLL_KRAKEN_TIER", "2")
	t.Setenv("KRAKENPOLL_POLL_INTERVAL", "1m")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "key-from-env", cfg.Kraken.APIKey)
	assert.Equal(t, "c2VjcmV0", cfg.Kraken.APISecret)
	assert.True(t, cfg.Poll.Private)
	assert.Equal(t, uint8(2), cfg.Kraken.Tier)
	assert.Equal(t, time.Minute, cfg.Poll.Interval)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Kraken:  KrakenConfig{BaseURL: "https://api.kraken.com", Timeout: time.Second, Tier: 1},
			Poll:    PollConfig{Interval: time.Second, Pairs: []string{"XBTUSD"}},
			Logging: LoggingConfig{Level: "info", Format: "json"},
		}
	}
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"tier", func(c *Config) { c.Kraken.Tier = 4 }},
		{"timeout", func(c *Config) { c.Kraken.Timeout = 0 }},
		{"key without secret", func(c *Config) { c.Kraken.APIKey = "k" }},
		{"private without credentials", func(c *Config) { c.Poll.Private = true }},
		{"interval", func(c *Config) { c.Poll.Interval = 0 }},
		{"no pairs", func(c *Config) { c.Poll.Pairs = nil }},
		{"format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
