package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "KRAKENPOLL"

// Config holds all configuration for krakenpoll
type Config struct {
	Kraken  KrakenConfig  `mapstructure:"kraken"`
	Poll    PollConfig    `mapstructure:"poll"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// KrakenConfig holds REST client configuration
type KrakenConfig struct {
	APIKey    string          `mapstructure:"api_key"`
	APISecret string          `mapstructure:"api_secret"`
	BaseURL   string          `mapstructure:"base_url"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	Tier      uint8           `mapstructure:"tier"`
	RateLimit bool            `mapstructure:"rate_limit"`
	Retry     RetryConfig     `mapstructure:"retry"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

// RetryConfig applies to public endpoints only
type RetryConfig struct {
	Attempts uint          `mapstructure:"attempts"`
	Delay    time.Duration `mapstructure:"delay"`
}

// WebSocketConfig enables the ticker feed. Pairs use the feed's naming,
// e.g. XBT/USD.
type WebSocketConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	URL     string   `mapstructure:"url"`
	Pairs   []string `mapstructure:"pairs"`
}

// PollConfig controls what the daemon polls and how often
type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Pairs    []string      `mapstructure:"pairs"`
	Private  bool          `mapstructure:"private"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty 'file' searches
// for krakenpoll.yaml in ./configs, . and /etc/krakenpoll.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// conventional names used by the other Kraken tooling
	if err := v.BindEnv("kraken.api_key", envPrefix+"_KRAKEN_API_KEY", "KRAKEN_API_KEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("kraken.api_secret", envPrefix+"_KRAKEN_API_SECRET", "KRAKEN_API_SECRET"); err != nil {
		return nil, err
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("krakenpoll")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/krakenpoll")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file | %w", err)
		}
		// continue with environment variables and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config | %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("kraken.api_key", "")
	v.SetDefault("kraken.api_secret", "")
	v.SetDefault("kraken.base_url", "https://api.kraken.com")
	v.SetDefault("kraken.timeout", "10s")
	v.SetDefault("kraken.tier", 1)
	v.SetDefault("kraken.rate_limit", true)
	v.SetDefault("kraken.retry.attempts", 3)
	v.SetDefault("kraken.retry.delay", "500ms")
	v.SetDefault("kraken.websocket.enabled", false)
	v.SetDefault("kraken.websocket.url", "wss://ws.kraken.com")
	v.SetDefault("kraken.websocket.pairs", []string{"XBT/USD"})

	v.SetDefault("poll.interval", "30s")
	v.SetDefault("poll.pairs", []string{"XBTUSD", "ETHUSD"})
	v.SetDefault("poll.private", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("metrics.addr", ":9090")
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.Kraken.BaseURL == "":
		return errors.New("kraken.base_url must not be empty")
	case c.Kraken.Timeout <= 0:
		return errors.New("kraken.timeout must be positive")
	case c.Kraken.Tier < 1 || c.Kraken.Tier > 3:
		return fmt.Errorf("kraken.tier must be 1, 2 or 3, got %d", c.Kraken.Tier)
	case (c.Kraken.APIKey == "") != (c.Kraken.APISecret == ""):
		return errors.New("kraken.api_key and kraken.api_secret must be set together")
	case c.Poll.Private && c.Kraken.APIKey == "":
		return errors.New("poll.private requires kraken.api_key and kraken.api_secret")
	case c.Poll.Interval <= 0:
		return errors.New("poll.interval must be positive")
	case len(c.Poll.Pairs) == 0:
		return errors.New("poll.pairs must list at least one pair")
	case c.Logging.Format != "json" && c.Logging.Format != "console":
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
