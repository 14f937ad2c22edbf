// Package poller drives the krakenpoll daemon: it periodically fetches
// tickers, and balances when configured, through the REST client and keeps
// the health state served on /healthz.
package poller

import (
	"context"
	"strings"
	"time"

	"github.com/readysetliqd/kraken-rest-go/pkg/krakenspot"
	"github.com/readysetliqd/kraken-rest-go/pkg/krakenws"
	"github.com/rs/zerolog"
)

type Poller struct {
	client   *krakenspot.KrakenClient
	pairs    []string
	private  bool
	interval time.Duration
	logger   zerolog.Logger
	health   *Health
}

func New(client *krakenspot.KrakenClient, pairs []string, private bool, interval time.Duration, health *Health, logger zerolog.Logger) *Poller {
	return &Poller{
		client:   client,
		pairs:    pairs,
		private:  private,
		interval: interval,
		logger:   logger,
		health:   health,
	}
}

// Run polls once immediately and then every interval until 'ctx' ends.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info().Dur("interval", p.interval).Strs("pairs", p.pairs).Bool("private", p.private).Msg("starting poller")
	p.PollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("poller stopped")
			return ctx.Err()
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce runs one round and records the outcome in the health state.
func (p *Poller) PollOnce(ctx context.Context) {
	err := p.pollTickers(ctx)
	if err == nil && p.private {
		err = p.pollBalances(ctx)
	}
	p.health.record(err)
	if err != nil {
		p.logger.Error().Err(err).Msg("poll failed")
	}
}

func (p *Poller) pollTickers(ctx context.Context) error {
	tickers, err := p.client.Tickers(ctx, strings.Join(p.pairs, ","))
	if err != nil {
		return err
	}
	for name, t := range tickers {
		p.logger.Info().
			Str("pair", name).
			Str("ask", t.Ask.Price.String()).
			Str("bid", t.Bid.Price.String()).
			Str("last", t.LastTradeClosed.Price.String()).
			Str("volume_24h", t.Volume.Last24Hours.String()).
			Msg("ticker")
	}
	return nil
}

func (p *Poller) pollBalances(ctx context.Context) error {
	balances, err := p.client.Balances(ctx)
	if err != nil {
		return err
	}
	for asset, amount := range balances {
		if amount.IsZero() {
			continue
		}
		p.logger.Info().Str("asset", asset).Str("amount", amount.String()).Msg("balance")
	}
	return nil
}

// StreamTickers logs ticker updates from the WebSocket feed until 'ctx' ends
// or the connection fails.
func StreamTickers(ctx context.Context, url string, pairs []string, logger zerolog.Logger) error {
	conn, err := krakenws.Dial(ctx, url, krakenws.WithLogger(logger))
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Subscribe(ctx, krakenws.Subscription{Name: krakenws.ChannelTicker, Pairs: pairs}); err != nil {
		return err
	}
	return conn.Listen(ctx, func(msg krakenws.Message) error {
		if msg.Event != nil {
			logger.Debug().Str("event", msg.Event.Event).Str("status", msg.Event.Status).Msg("feed event")
			return nil
		}
		if msg.Channel.ChannelName != krakenws.ChannelTicker {
			return nil
		}
		update, err := krakenws.ParseTicker(msg.Channel)
		if err != nil {
			logger.Warn().Err(err).Msg("error parsing ticker update")
			return nil
		}
		logger.Info().
			Str("pair", update.Pair).
			Str("mid", update.Mid().String()).
			Str("spread", update.Spread().String()).
			Msg("ticker update")
		return nil
	})
}
