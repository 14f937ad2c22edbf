// Package transport holds krakenspot.Transport decorators: rate limiting
// against the exchange's REST call counter, retries for unsigned requests and
// Prometheus instrumentation. Compose them with Chain.
package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/readysetliqd/kraken-rest-go/pkg/krakenspot"
	"github.com/rs/zerolog"
)

const (
	tier1DecayRate = 3 * time.Second // per 1 counter decay
	tier2DecayRate = 2 * time.Second
	tier3DecayRate = 1 * time.Second
)

var decayRateMap = map[uint8]time.Duration{
	1: tier1DecayRate,
	2: tier2DecayRate,
	3: tier3DecayRate,
}

var maxCounterMap = map[uint8]uint8{
	1: 15,
	2: 20,
	3: 20,
}

// Limiter keeps a local copy of the account's REST call counter. The counter
// decays by one point per tier decay period. A Limiter may be shared by every
// client using the same API key.
type Limiter struct {
	logger zerolog.Logger

	mu         sync.Mutex
	counter    uint8
	maxCounter uint8
	decay      time.Duration
	lastDecay  time.Time
	now        func() time.Time
}

// NewLimiter creates the counter for verification 'tier' (1 Starter,
// 2 Intermediate, 3 Pro).
func NewLimiter(tier uint8, logger zerolog.Logger) (*Limiter, error) {
	decay, ok := decayRateMap[tier]
	if !ok {
		return nil, fmt.Errorf("invalid verification tier %d, expected 1, 2 or 3", tier)
	}
	return &Limiter{
		logger:     logger,
		maxCounter: maxCounterMap[tier],
		decay:      decay,
		now:        time.Now,
	}, nil
}

// Counter returns the current local counter value.
func (l *Limiter) Counter() uint8 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.decayLocked()
	return l.counter
}

// Wait blocks until 'cost' points fit under the maximum, then adds them. It
// returns ctx.Err() if 'ctx' ends first.
func (l *Limiter) Wait(ctx context.Context, endpoint string, cost uint8) error {
	if cost > l.maxCounter {
		return fmt.Errorf("request cost %d exceeds max counter %d", cost, l.maxCounter)
	}
	for {
		l.mu.Lock()
		l.decayLocked()
		if l.counter+cost <= l.maxCounter {
			if l.counter == 0 {
				l.lastDecay = l.now()
			}
			l.counter += cost
			l.mu.Unlock()
			return nil
		}
		wait := l.decay - l.now().Sub(l.lastDecay)
		l.mu.Unlock()

		l.logger.Debug().Str("endpoint", endpoint).Dur("wait", wait).Msg("counter will exceed rate limit, waiting")
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// decayLocked applies every whole decay period elapsed since lastDecay.
func (l *Limiter) decayLocked() {
	if l.counter == 0 {
		return
	}
	steps := l.now().Sub(l.lastDecay) / l.decay
	if steps <= 0 {
		return
	}
	if steps >= time.Duration(l.counter) {
		l.counter = 0
	} else {
		l.counter -= uint8(steps)
	}
	l.lastDecay = l.lastDecay.Add(steps * l.decay)
}

// RateLimited holds envelopes back until the Limiter has room for their cost.
// Envelopes with zero cost (public endpoints) pass straight through.
type RateLimited struct {
	next    krakenspot.Transport
	limiter *Limiter
}

func NewRateLimited(next krakenspot.Transport, limiter *Limiter) *RateLimited {
	return &RateLimited{next: next, limiter: limiter}
}

func (rl *RateLimited) Do(ctx context.Context, req *krakenspot.RequestEnvelope) ([]byte, error) {
	if req.Cost > 0 {
		if err := rl.limiter.Wait(ctx, req.Endpoint, req.Cost); err != nil {
			return nil, err
		}
	}
	return rl.next.Do(ctx, req)
}
