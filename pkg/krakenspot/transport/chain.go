package transport

import (
	"time"

	"github.com/readysetliqd/kraken-rest-go/pkg/krakenspot"
	"github.com/rs/zerolog"
)

// Decorator wraps a transport with another behavior.
type Decorator func(next krakenspot.Transport) krakenspot.Transport

// Chain wraps 'base' with 'decorators'. The first decorator is the outermost
// one and sees each envelope first.
//
// # Example Usage:
//
//	t := transport.Chain(krakenspot.NewHTTPTransport(nil),
//		transport.WithMetrics(metrics),
//		transport.WithRetry(3, time.Second, logger),
//	)
func Chain(base krakenspot.Transport, decorators ...Decorator) krakenspot.Transport {
	t := base
	for i := len(decorators) - 1; i >= 0; i-- {
		t = decorators[i](t)
	}
	return t
}

func WithMetrics(metrics *Metrics) Decorator {
	return func(next krakenspot.Transport) krakenspot.Transport {
		return NewInstrumented(next, metrics)
	}
}

func WithRetry(attempts uint, delay time.Duration, logger zerolog.Logger) Decorator {
	return func(next krakenspot.Transport) krakenspot.Transport {
		return NewRetrying(next, attempts, delay, logger)
	}
}

func WithRateLimit(limiter *Limiter) Decorator {
	return func(next krakenspot.Transport) krakenspot.Transport {
		return NewRateLimited(next, limiter)
	}
}
