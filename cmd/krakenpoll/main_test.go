package main

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/readysetliqd/kraken-rest-go/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggingConfig
		want zerolog.Level
	}{
		{"zero value", config.LoggingConfig{}, zerolog.InfoLevel},
		{"debug", config.LoggingConfig{Level: "debug", Format: "json"}, zerolog.DebugLevel},
		{"console warn", config.LoggingConfig{Level: "warn", Format: "console"}, zerolog.WarnLevel},
		{"unknown level", config.LoggingConfig{Level: "loud"}, zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newLogger(tt.cfg).GetLevel())
		})
	}
}

func TestNewClient(t *testing.T) {
	cfg := config.KrakenConfig{
		BaseURL:   "https://api.kraken.com",
		Timeout:   time.Second,
		Tier:      2,
		RateLimit: true,
		Retry:     config.RetryConfig{Attempts: 2, Delay: time.Millisecond},
	}

	kc, err := newClient(cfg, prometheus.NewRegistry(), zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, kc)

	cfg.Tier = 9
	_, err = newClient(cfg, prometheus.NewRegistry(), zerolog.Nop())
	assert.Error(t, err)
}
