package krakenws

import (
	"encoding/json"
	"fmt"

	"github.com/readysetliqd/kraken-rest-go/pkg/krakenspot"
	"github.com/shopspring/decimal"
)

// Event is any object frame: heartbeat, systemStatus, subscriptionStatus,
// pong and error replies.
type Event struct {
	Event        string           `json:"event"`
	Status       string           `json:"status,omitempty"`
	ConnectionID uint64           `json:"connectionID,omitempty"`
	Version      string           `json:"version,omitempty"`
	ChannelName  string           `json:"channelName,omitempty"`
	Pair         string           `json:"pair,omitempty"`
	ReqID        int              `json:"reqid,omitempty"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
	Subscription *SubscriptionOpt `json:"subscription,omitempty"`
}

// ChannelMessage is an array frame. Public channels look like
// [channelID, data..., channelName, pair]; private channels like
// [data, channelName, {"sequence": n}].
type ChannelMessage struct {
	ChannelID   int
	ChannelName string
	Pair        string
	Sequence    int
	Data        []json.RawMessage
}

func (cm *ChannelMessage) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("error unmarshalling json | %w", err)
	}
	if len(raw) < 3 {
		return fmt.Errorf("unexpected data length encountered | %d", len(raw))
	}
	if err := json.Unmarshal(raw[len(raw)-2], &cm.ChannelName); err != nil {
		return fmt.Errorf("error unmarshalling channel name | %w", err)
	}
	if err := json.Unmarshal(raw[0], &cm.ChannelID); err == nil {
		if err := json.Unmarshal(raw[len(raw)-1], &cm.Pair); err != nil {
			return fmt.Errorf("error unmarshalling pair | %w", err)
		}
		cm.Data = raw[1 : len(raw)-2]
		return nil
	}
	var seq struct {
		Sequence int `json:"sequence"`
	}
	if err := json.Unmarshal(raw[len(raw)-1], &seq); err != nil {
		return fmt.Errorf("error unmarshalling sequence | %w", err)
	}
	cm.Sequence = seq.Sequence
	cm.Data = raw[:len(raw)-2]
	return nil
}

// Message is one decoded frame; exactly one of Event and Channel is set.
type Message struct {
	Event   *Event
	Channel *ChannelMessage
}

func decodeMessage(frame []byte) (Message, error) {
	if len(frame) == 0 {
		return Message{}, fmt.Errorf("empty frame")
	}
	switch frame[0] {
	case '{':
		var ev Event
		if err := json.Unmarshal(frame, &ev); err != nil {
			return Message{}, fmt.Errorf("error unmarshalling event | %w", err)
		}
		return Message{Event: &ev}, nil
	case '[':
		var cm ChannelMessage
		if err := json.Unmarshal(frame, &cm); err != nil {
			return Message{}, err
		}
		return Message{Channel: &cm}, nil
	}
	return Message{}, fmt.Errorf("unknown frame | %.32s", frame)
}

// TickerUpdate is a decoded "ticker" channel payload. Unlike the REST ticker,
// Open carries both today's and the rolling 24 hour value.
type TickerUpdate struct {
	Pair           string
	Ask            krakenspot.TickerBookInfo      `json:"a"`
	Bid            krakenspot.TickerBookInfo      `json:"b"`
	Close          krakenspot.TickerLastTradeInfo `json:"c"`
	Volume         krakenspot.TickerDailyInfo     `json:"v"`
	VWAP           krakenspot.TickerDailyInfo     `json:"p"`
	NumberOfTrades krakenspot.TickerDailyInfoInt  `json:"t"`
	Low            krakenspot.TickerDailyInfo     `json:"l"`
	High           krakenspot.TickerDailyInfo     `json:"h"`
	Open           krakenspot.TickerDailyInfo     `json:"o"`
}

// Spread returns best ask minus best bid.
func (tu *TickerUpdate) Spread() decimal.Decimal {
	return tu.Ask.Price.Sub(tu.Bid.Price)
}

// Mid returns the midpoint of best ask and best bid.
func (tu *TickerUpdate) Mid() decimal.Decimal {
	return tu.Ask.Price.Add(tu.Bid.Price).Div(decimal.NewFromInt(2))
}

// ParseTicker decodes a "ticker" channel message.
func ParseTicker(cm *ChannelMessage) (*TickerUpdate, error) {
	if cm.ChannelName != ChannelTicker {
		return nil, fmt.Errorf("not a ticker message | %s", cm.ChannelName)
	}
	if len(cm.Data) != 1 {
		return nil, fmt.Errorf("unexpected data length encountered | %d", len(cm.Data))
	}
	var tu TickerUpdate
	if err := json.Unmarshal(cm.Data[0], &tu); err != nil {
		return nil, fmt.Errorf("error unmarshalling ticker | %w", err)
	}
	tu.Pair = cm.Pair
	return &tu, nil
}
