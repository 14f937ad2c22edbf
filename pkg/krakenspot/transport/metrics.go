package transport

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/readysetliqd/kraken-rest-go/pkg/krakenspot"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics are the collectors used by Instrumented.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on 'reg'. A nil 'reg'
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kraken_rest_requests_total",
				Help: "The total number of Kraken REST requests sent",
			},
			[]string{"endpoint", "outcome"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kraken_rest_request_duration_seconds",
				Help:    "The Kraken REST request latencies in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}
}

// Instrumented records a count and a latency observation for every send.
// The outcome label is "success", "error", or "status_<code>" for non-200
// responses.
type Instrumented struct {
	next    krakenspot.Transport
	metrics *Metrics
}

func NewInstrumented(next krakenspot.Transport, metrics *Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: metrics}
}

func (in *Instrumented) Do(ctx context.Context, req *krakenspot.RequestEnvelope) ([]byte, error) {
	start := time.Now()
	body, err := in.next.Do(ctx, req)
	in.metrics.RequestDuration.WithLabelValues(req.Endpoint).Observe(time.Since(start).Seconds())
	in.metrics.RequestsTotal.WithLabelValues(req.Endpoint, outcome(err)).Inc()
	return body, err
}

func outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	var statusErr *krakenspot.StatusError
	if errors.As(err, &statusErr) {
		return "status_" + strconv.Itoa(statusErr.StatusCode)
	}
	return OutcomeError
}
