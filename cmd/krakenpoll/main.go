// Command krakenpoll polls Kraken's REST API for tickers, and balances when
// credentials are configured, logs the results and exposes Prometheus metrics
// for the requests it sends.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/readysetliqd/kraken-rest-go/internal/config"
	"github.com/readysetliqd/kraken-rest-go/internal/poller"
	"github.com/readysetliqd/kraken-rest-go/pkg/krakenspot"
	"github.com/readysetliqd/kraken-rest-go/pkg/krakenspot/transport"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configFile := flag.String("config", "", "path to krakenpoll.yaml")
	flag.Parse()

	logger := newLogger(config.LoggingConfig{})
	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger = newLogger(cfg.Logging)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("krakenpoll stopped")
	}
	logger.Info().Msg("shutdown completed")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	kc, err := newClient(cfg.Kraken, reg, logger)
	if err != nil {
		return err
	}

	health := poller.NewHealth()
	server := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           poller.NewRouter(health, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", cfg.Metrics.Addr).Msg("serving /metrics and /healthz")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()

	if cfg.Kraken.WebSocket.Enabled {
		go func() {
			err := poller.StreamTickers(ctx, cfg.Kraken.WebSocket.URL, cfg.Kraken.WebSocket.Pairs, logger.With().Str("component", "krakenws").Logger())
			if err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("ticker feed stopped")
			}
		}()
	}

	p := poller.New(kc, cfg.Poll.Pairs, cfg.Poll.Private, cfg.Poll.Interval, health, logger.With().Str("component", "poller").Logger())
	runErr := p.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("metrics server forced to shutdown")
	}
	return runErr
}

// newClient builds the REST client. Transport order, outermost first:
// metrics, retries, rate limiter, HTTP.
func newClient(cfg config.KrakenConfig, reg prometheus.Registerer, logger zerolog.Logger) (*krakenspot.KrakenClient, error) {
	decorators := []transport.Decorator{
		transport.WithMetrics(transport.NewMetrics(reg)),
		transport.WithRetry(cfg.Retry.Attempts, cfg.Retry.Delay, logger),
	}
	if cfg.RateLimit {
		limiter, err := transport.NewLimiter(cfg.Tier, logger)
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, transport.WithRateLimit(limiter))
	}
	base := krakenspot.NewHTTPTransport(&http.Client{Timeout: cfg.Timeout})

	return krakenspot.NewKrakenClient(cfg.APIKey, cfg.APISecret,
		krakenspot.WithBaseURL(cfg.BaseURL),
		krakenspot.WithTransport(transport.Chain(base, decorators...)),
		krakenspot.WithLogger(logger.With().Str("component", "krakenspot").Logger()),
	)
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
