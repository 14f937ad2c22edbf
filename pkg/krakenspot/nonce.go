package krakenspot

import (
	"sync"
	"time"
)

// NonceGenerator issues the nonce sent with every private request. Values
// must strictly increase for a given API key, including across goroutines.
type NonceGenerator interface {
	Next() uint64
}

// ClockNonce derives nonces from the wall clock in microseconds. When two
// calls land on the same tick, or the clock steps backwards, the previous
// value plus one is issued instead. The zero value is ready to use.
type ClockNonce struct {
	now  func() time.Time
	last uint64
	mu   sync.Mutex
}

func NewClockNonce() *ClockNonce {
	return &ClockNonce{now: time.Now}
}

func (n *ClockNonce) Next() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now
	if now == nil {
		now = time.Now
	}
	next := uint64(now().UnixMicro())
	if next <= n.last {
		next = n.last + 1
	}
	n.last = next
	return next
}
