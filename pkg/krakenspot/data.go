package krakenspot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// #region Public Market Data structs

type ServerTime struct {
	UnixTime int64  `json:"unixtime"`
	Rfc1123  string `json:"rfc1123"`
}

type SystemStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type TickerInfo struct {
	Ticker          string
	Ask             TickerBookInfo      `json:"a"`
	Bid             TickerBookInfo      `json:"b"`
	LastTradeClosed TickerLastTradeInfo `json:"c"`
	Volume          TickerDailyInfo     `json:"v"`
	VWAP            TickerDailyInfo     `json:"p"`
	NumberOfTrades  TickerDailyInfoInt  `json:"t"`
	Low             TickerDailyInfo     `json:"l"`
	High            TickerDailyInfo     `json:"h"`
	Open            decimal.Decimal     `json:"o"`
}

type TickerBookInfo struct {
	Price          decimal.Decimal
	WholeLotVolume decimal.Decimal
	LotVolume      decimal.Decimal
}

type TickerLastTradeInfo struct {
	Price     decimal.Decimal
	LotVolume decimal.Decimal
}

type TickerDailyInfo struct {
	Today       decimal.Decimal
	Last24Hours decimal.Decimal
}

type TickerDailyInfoInt struct {
	Today       int
	Last24Hours int
}

func (ti *TickerBookInfo) UnmarshalJSON(data []byte) error {
	v, err := decimalArray(data, 3)
	if err != nil {
		return err
	}
	ti.Price, ti.WholeLotVolume, ti.LotVolume = v[0], v[1], v[2]
	return nil
}

func (ti *TickerLastTradeInfo) UnmarshalJSON(data []byte) error {
	v, err := decimalArray(data, 2)
	if err != nil {
		return err
	}
	ti.Price, ti.LotVolume = v[0], v[1]
	return nil
}

func (ti *TickerDailyInfo) UnmarshalJSON(data []byte) error {
	v, err := decimalArray(data, 2)
	if err != nil {
		return err
	}
	ti.Today, ti.Last24Hours = v[0], v[1]
	return nil
}

func (ti *TickerDailyInfoInt) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v) < 2 {
		return fmt.Errorf("expected 2 values, got %d", len(v))
	}
	ti.Today, ti.Last24Hours = v[0], v[1]
	return nil
}

// decimalArray decodes the exchange's ["price","volume",...] string arrays.
func decimalArray(data []byte, n int) ([]decimal.Decimal, error) {
	var v []decimal.Decimal
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	if len(v) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(v))
	}
	return v, nil
}

// #endregion

// #region Authenticated Account Data structs

type TradeBalance struct {
	EquivalentBalance decimal.Decimal `json:"eb"`
	TradeBalance      decimal.Decimal `json:"tb"`
	OpenMargin        decimal.Decimal `json:"m"`
	UnrealizedPnL     decimal.Decimal `json:"n"`
	CostBasis         decimal.Decimal `json:"c"`
	FloatingValuation decimal.Decimal `json:"v"`
	Equity            decimal.Decimal `json:"e"`
	FreeMargin        decimal.Decimal `json:"mf"`
	MarginLevel       decimal.Decimal `json:"ml"`
	UnexecutedValue   decimal.Decimal `json:"uv"`
}

type WebSocketsToken struct {
	Token   string `json:"token"`
	Expires int    `json:"expires"`
}

// #endregion

// #region Typed helpers

// ServerTime calls "Time" and decodes the result.
func (kc *KrakenClient) ServerTime(ctx context.Context) (*ServerTime, error) {
	var serverTime ServerTime
	if err := kc.callInto(ctx, EndpointTime, nil, &serverTime); err != nil {
		return nil, err
	}
	return &serverTime, nil
}

// Calls Kraken API public market data "SystemStatus" endpoint and returns true
// if system is online. Returns false and current status as a string if not
// online.
//
// # Example Usage:
//
//	online, status, err := kc.SystemIsOnline(ctx)
//	if !online {
//		log.Println(status)
//	}
func (kc *KrakenClient) SystemIsOnline(ctx context.Context) (bool, string, error) {
	var status SystemStatus
	if err := kc.callInto(ctx, EndpointSystemStatus, nil, &status); err != nil {
		return false, "error", err
	}
	return status.Status == "online", status.Status, nil
}

// Tickers calls "Ticker" for 'pair' (comma separated for several) and returns
// the result keyed by the exchange's pair name.
func (kc *KrakenClient) Tickers(ctx context.Context, pair string) (map[string]TickerInfo, error) {
	tickers := make(map[string]TickerInfo)
	if err := kc.callInto(ctx, EndpointTicker, Options{"pair": pair}, &tickers); err != nil {
		return nil, err
	}
	for name, info := range tickers {
		info.Ticker = name
		tickers[name] = info
	}
	return tickers, nil
}

// Balances calls "Balance" and parses each asset amount.
func (kc *KrakenClient) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	balances := make(map[string]decimal.Decimal)
	if err := kc.callInto(ctx, EndpointBalance, nil, &balances); err != nil {
		return nil, err
	}
	return balances, nil
}

// TradeBalanceSummary calls "TradeBalance" with 'opts' and decodes the result.
func (kc *KrakenClient) TradeBalanceSummary(ctx context.Context, opts ...Options) (*TradeBalance, error) {
	if len(opts) > 1 {
		return nil, fmt.Errorf("%w; expected 0 or 1 Options", ErrTooManyArgs)
	}
	var o Options
	if len(opts) == 1 {
		o = opts[0]
	}
	var tb TradeBalance
	if err := kc.callInto(ctx, EndpointTradeBalance, o, &tb); err != nil {
		return nil, err
	}
	return &tb, nil
}

// WebSocketToken returns a fresh token for authenticating private WebSocket
// subscriptions.
func (kc *KrakenClient) WebSocketToken(ctx context.Context) (string, error) {
	var token WebSocketsToken
	if err := kc.callInto(ctx, EndpointWSToken, nil, &token); err != nil {
		return "", err
	}
	return token.Token, nil
}

func (kc *KrakenClient) callInto(ctx context.Context, endpoint string, opts Options, target any) error {
	resp, err := kc.Call(ctx, endpoint, opts)
	if err != nil {
		return err
	}
	if err := resp.Decode(target); err != nil {
		return fmt.Errorf("error decoding %s result | %w", endpoint, err)
	}
	return nil
}

// #endregion
