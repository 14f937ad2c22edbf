package poller

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Health is the outcome of the most recent poll.
type Health struct {
	mu          sync.RWMutex
	lastPoll    time.Time
	lastSuccess time.Time
	lastError   string
	now         func() time.Time
}

func NewHealth() *Health {
	return &Health{now: time.Now}
}

type healthResponse struct {
	Status      string     `json:"status"`
	LastPoll    *time.Time `json:"last_poll,omitempty"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

func (h *Health) record(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastPoll = h.now()
	if err != nil {
		h.lastError = err.Error()
		return
	}
	h.lastSuccess = h.lastPoll
	h.lastError = ""
}

// ServeHTTP answers 200 once a poll has succeeded and the latest poll did not
// fail, 503 otherwise.
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	resp := healthResponse{Status: "ok", LastError: h.lastError}
	if !h.lastPoll.IsZero() {
		t := h.lastPoll
		resp.LastPoll = &t
	}
	if !h.lastSuccess.IsZero() {
		t := h.lastSuccess
		resp.LastSuccess = &t
	}
	h.mu.RUnlock()

	status := http.StatusOK
	if resp.LastSuccess == nil || resp.LastError != "" {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// NewRouter serves /healthz from 'health' and /metrics from 'gatherer'.
func NewRouter(health *Health, gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/healthz", health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}
