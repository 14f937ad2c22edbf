package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/readysetliqd/kraken-rest-go/pkg/krakenspot"
	"github.com/rs/zerolog"
)

const (
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 500 * time.Millisecond
	maxRetryDelay        = 5 * time.Second
)

// Retrying resends unsigned envelopes on retryable failures with exponential
// backoff. Private envelopes are sent exactly once: their nonce is spent on
// the first attempt and a resend would be rejected, or worse, accepted twice.
type Retrying struct {
	next     krakenspot.Transport
	attempts uint
	delay    time.Duration
	logger   zerolog.Logger
}

// NewRetrying wraps 'next'. Zero 'attempts' or 'delay' fall back to the
// package defaults.
func NewRetrying(next krakenspot.Transport, attempts uint, delay time.Duration, logger zerolog.Logger) *Retrying {
	if attempts == 0 {
		attempts = DefaultRetryAttempts
	}
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	return &Retrying{next: next, attempts: attempts, delay: delay, logger: logger}
}

func (r *Retrying) Do(ctx context.Context, req *krakenspot.RequestEnvelope) ([]byte, error) {
	if req.Private {
		return r.next.Do(ctx, req)
	}

	var body []byte
	err := retry.Do(
		func() error {
			b, err := r.next.Do(ctx, req)
			if err != nil {
				return err
			}
			body = b
			return nil
		},
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.MaxDelay(maxRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isRetryable),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Warn().
				Str("endpoint", req.Endpoint).
				Uint("attempt", n+1).
				Uint("max_attempts", r.attempts).
				Err(err).
				Msg("retrying request")
		}),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// isRetryable reports whether a failed send is worth repeating: server side
// errors, 429 and network failures. Cancellation and client errors are final.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *krakenspot.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
