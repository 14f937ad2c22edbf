// Package krakenws is a small client for Kraken's v1 WebSocket feed. It dials,
// subscribes and hands decoded frames to a handler; reconnect policy and book
// keeping are left to the caller. Private channels authenticate with a token
// fetched through the REST client's GetWebSocketsToken endpoint.
package krakenws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	PublicURL  = "wss://ws.kraken.com"
	PrivateURL = "wss://ws-auth.kraken.com"

	defaultReadTimeout = 10 * time.Second
)

const (
	ChannelTicker     = "ticker"
	ChannelOHLC       = "ohlc"
	ChannelTrade      = "trade"
	ChannelSpread     = "spread"
	ChannelBook       = "book"
	ChannelOwnTrades  = "ownTrades"
	ChannelOpenOrders = "openOrders"
)

var privateChannels = map[string]bool{
	ChannelOwnTrades:  true,
	ChannelOpenOrders: true,
}

var (
	ErrNoTokenSource = errors.New("private channel requires a token source")
	ErrClosed        = errors.New("connection closed")
)

// TokenSource hands out WebSocket authentication tokens.
// *krakenspot.KrakenClient implements it.
type TokenSource interface {
	WebSocketToken(ctx context.Context) (string, error)
}

// Subscription describes one subscribe or unsubscribe request. Pairs is
// ignored for private channels.
type Subscription struct {
	Name     string
	Pairs    []string
	Interval int
	Depth    int
	ReqID    int
}

type SubscriptionOpt struct {
	Name     string `json:"name"`
	Interval int    `json:"interval,omitempty"`
	Depth    int    `json:"depth,omitempty"`
	Token    string `json:"token,omitempty"`
}

type subscribeRequest struct {
	Event        string          `json:"event"`
	ReqID        int             `json:"reqid,omitempty"`
	Pair         []string        `json:"pair,omitempty"`
	Subscription SubscriptionOpt `json:"subscription"`
}

type Option func(c *Conn)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Conn) {
		c.logger = logger
	}
}

// WithTokenSource enables private channels. The token is fetched once in
// Dial.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Conn) {
		c.tokens = ts
	}
}

// WithReadTimeout sets how long Listen waits for any frame, heartbeats
// included, before failing.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Conn) {
		c.readTimeout = d
	}
}

type Conn struct {
	ws          *websocket.Conn
	logger      zerolog.Logger
	tokens      TokenSource
	token       string
	readTimeout time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

// Dial opens a connection to 'url' (PublicURL or PrivateURL).
func Dial(ctx context.Context, url string, opts ...Option) (*Conn, error) {
	c := &Conn{
		logger:      zerolog.Nop(),
		readTimeout: defaultReadTimeout,
		closed:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tokens != nil {
		token, err := c.tokens.WebSocketToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("error getting websocket token | %w", err)
		}
		c.token = token
	}

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, http.Header{})
	if err != nil {
		return nil, fmt.Errorf("error dialing kraken | %w", err)
	}
	c.ws = ws
	// initialize read deadline to prevent blocking
	if err := c.ws.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		c.ws.Close()
		return nil, fmt.Errorf("error setting read deadline | %w", err)
	}
	c.logger.Debug().Str("url", url).Msg("websocket connected")
	return c, nil
}

func (c *Conn) Subscribe(ctx context.Context, sub Subscription) error {
	return c.send(ctx, "subscribe", sub)
}

func (c *Conn) Unsubscribe(ctx context.Context, sub Subscription) error {
	return c.send(ctx, "unsubscribe", sub)
}

func (c *Conn) send(ctx context.Context, event string, sub Subscription) error {
	req := subscribeRequest{
		Event: event,
		ReqID: sub.ReqID,
		Subscription: SubscriptionOpt{
			Name:     sub.Name,
			Interval: sub.Interval,
			Depth:    sub.Depth,
		},
	}
	if privateChannels[sub.Name] {
		if c.token == "" {
			return ErrNoTokenSource
		}
		req.Subscription.Token = c.token
	} else {
		req.Pair = sub.Pairs
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("error marshalling %s request | %w", event, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.readTimeout)
	}
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("error setting write deadline | %w", err)
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("error writing %s message | %w", event, err)
	}
	c.logger.Debug().Str("event", event).Str("channel", sub.Name).Strs("pairs", req.Pair).Msg("request sent")
	return nil
}

// Listen reads frames until 'ctx' ends, the connection fails or 'handler'
// returns an error, and returns that cause. Heartbeats extend the read
// deadline and are not passed to 'handler'. Frames that cannot be decoded are
// logged and skipped.
func (c *Conn) Listen(ctx context.Context, handler func(Message) error) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			select {
			case <-c.closed:
				return ErrClosed
			default:
			}
			return fmt.Errorf("error reading message | %w", err)
		}
		if err := c.ws.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
			return fmt.Errorf("error setting read deadline | %w", err)
		}

		msg, err := decodeMessage(frame)
		if err != nil {
			c.logger.Warn().Err(err).Msg("error decoding message")
			continue
		}
		if msg.Event != nil {
			switch msg.Event.Event {
			case "heartbeat":
				continue
			case "subscriptionStatus":
				if msg.Event.Status == "error" {
					c.logger.Error().Str("channel", msg.Event.ChannelName).Str("pair", msg.Event.Pair).Msg(msg.Event.ErrorMessage)
				}
			}
		}
		if err := handler(msg); err != nil {
			return err
		}
	}
}

// Close sends a close frame and closes the connection. Safe to call more than
// once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}
