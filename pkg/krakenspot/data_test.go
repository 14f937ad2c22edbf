package krakenspot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func TestTickerBookInfo_UnmarshalJSON(t *testing.T) {
	// Test valid input
	validInput := `["1000", "2000.5", "3000"]`
	ti := &TickerBookInfo{}
	err := json.Unmarshal([]byte(validInput), ti)
	if err != nil {
		t.Errorf("UnmarshalJSON() returned an error for valid input: %v", err)
	}
	if !ti.Price.Equal(decimal.NewFromInt(1000)) ||
		!ti.WholeLotVolume.Equal(decimal.RequireFromString("2000.5")) ||
		!ti.LotVolume.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("UnmarshalJSON() didn't correctly unmarshal valid input")
	}

	// Test invalid input (not a JSON array)
	invalidInput := `"not an array"`
	err = json.Unmarshal([]byte(invalidInput), ti)
	if err == nil {
		t.Errorf("UnmarshalJSON() didn't return an error for invalid input")
	}

	// Test too few values
	err = json.Unmarshal([]byte(`["1000", "2000"]`), ti)
	if err == nil {
		t.Errorf("UnmarshalJSON() didn't return an error for short input")
	}
}

func TestTickerLastTradeInfo_UnmarshalJSON(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		validInput := `["30303.20000","0.00067643"]`
		var tickerLastTrade TickerLastTradeInfo
		err := json.Unmarshal([]byte(validInput), &tickerLastTrade)
		if err != nil {
			t.Fatalf("UnmarshalJSON() returned err | got: %v, want: nil", err)
		}
		got := tickerLastTrade.Price
		want := decimal.RequireFromString("30303.2")
		if !got.Equal(want) {
			t.Errorf("UnmarshalJSON() returned incorrect Price | got: %v, want: %v", got, want)
		}
		got = tickerLastTrade.LotVolume
		want = decimal.RequireFromString("0.00067643")
		if !got.Equal(want) {
			t.Errorf("UnmarshalJSON() returned incorrect LotVolume | got: %v, want: %v", got, want)
		}
	})

	t.Run("wrong length", func(t *testing.T) {
		var tickerLastTrade TickerLastTradeInfo
		err := json.Unmarshal([]byte(`["30303.20000"]`), &tickerLastTrade)
		if err == nil {
			t.Errorf("UnmarshalJSON() didn't return an error for wrong length")
		}
	})

	t.Run("not a number", func(t *testing.T) {
		var tickerLastTrade TickerLastTradeInfo
		err := json.Unmarshal([]byte(`["abc","0.1"]`), &tickerLastTrade)
		if err == nil {
			t.Errorf("UnmarshalJSON() didn't return an error for non numeric price")
		}
	})
}

func TestTickerDailyInfoInt_UnmarshalJSON(t *testing.T) {
	var daily TickerDailyInfoInt
	if err := json.Unmarshal([]byte(`[23329, 80463]`), &daily); err != nil {
		t.Fatalf("UnmarshalJSON() returned err | got: %v, want: nil", err)
	}
	if daily.Today != 23329 || daily.Last24Hours != 80463 {
		t.Errorf("UnmarshalJSON() got: %+v, want: {23329 80463}", daily)
	}
	if err := json.Unmarshal([]byte(`[1]`), &daily); err == nil {
		t.Errorf("UnmarshalJSON() didn't return an error for wrong length")
	}
}

// Response copied from the exchange's Ticker documentation.
const tickerResult = `{
	"error": [],
	"result": {
		"XXBTZUSD": {
			"a": ["30300.10000", "1", "1.000"],
			"b": ["30300.00000", "1", "1.000"],
			"c": ["30303.20000", "0.00067643"],
			"v": ["4083.67001100", "4412.73601799"],
			"p": ["30706.77771", "30689.13205"],
			"t": [34619, 38907],
			"l": ["29868.30000", "29868.30000"],
			"h": ["31631.00000", "31631.00000"],
			"o": "30502.80000"
		}
	}
}`

func newHelperClient(t *testing.T, body string) *KrakenClient {
	t.Helper()
	transport := TransportFunc(func(ctx context.Context, req *RequestEnvelope) ([]byte, error) {
		return []byte(body), nil
	})
	kc, err := NewKrakenClient(testAPIKey, testAPISecret, WithTransport(transport), WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewKrakenClient() returned err | got: %v, want: nil", err)
	}
	return kc
}

func TestTickers(t *testing.T) {
	kc := newHelperClient(t, tickerResult)

	tickers, err := kc.Tickers(context.Background(), "XBTUSD")
	if err != nil {
		t.Fatalf("Tickers() returned err | got: %v, want: nil", err)
	}
	ticker, ok := tickers["XXBTZUSD"]
	if !ok {
		t.Fatalf("Tickers() missing XXBTZUSD | got: %v", tickers)
	}
	if ticker.Ticker != "XXBTZUSD" {
		t.Errorf("Ticker name | got: %s, want: XXBTZUSD", ticker.Ticker)
	}
	if !ticker.Ask.Price.Equal(decimal.RequireFromString("30300.1")) {
		t.Errorf("Ask.Price | got: %v, want: 30300.1", ticker.Ask.Price)
	}
	if ticker.NumberOfTrades.Last24Hours != 38907 {
		t.Errorf("NumberOfTrades.Last24Hours | got: %d, want: 38907", ticker.NumberOfTrades.Last24Hours)
	}
	if !ticker.Open.Equal(decimal.RequireFromString("30502.8")) {
		t.Errorf("Open | got: %v, want: 30502.8", ticker.Open)
	}
}

func TestServerTime(t *testing.T) {
	kc := newHelperClient(t, `{"error":[],"result":{"unixtime":1688669448,"rfc1123":"Thu, 06 Jul 23 18:50:48 +0000"}}`)

	serverTime, err := kc.ServerTime(context.Background())
	if err != nil {
		t.Fatalf("ServerTime() returned err | got: %v, want: nil", err)
	}
	if serverTime.UnixTime != 1688669448 {
		t.Errorf("UnixTime | got: %d, want: 1688669448", serverTime.UnixTime)
	}
}

func TestSystemIsOnline(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOnline bool
		wantStatus string
	}{
		{"online", `{"error":[],"result":{"status":"online","timestamp":"2023-07-06T18:52:00Z"}}`, true, "online"},
		{"maintenance", `{"error":[],"result":{"status":"maintenance","timestamp":"2023-07-06T18:52:00Z"}}`, false, "maintenance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kc := newHelperClient(t, tt.body)
			online, status, err := kc.SystemIsOnline(context.Background())
			if err != nil {
				t.Fatalf("SystemIsOnline() returned err | got: %v, want: nil", err)
			}
			if online != tt.wantOnline || status != tt.wantStatus {
				t.Errorf("SystemIsOnline() | got: %v %s, want: %v %s", online, status, tt.wantOnline, tt.wantStatus)
			}
		})
	}
}

func TestBalances(t *testing.T) {
	kc := newHelperClient(t, `{"error":[],"result":{"ZUSD":"171288.6158","XXBT":"0.0011"}}`)

	balances, err := kc.Balances(context.Background())
	if err != nil {
		t.Fatalf("Balances() returned err | got: %v, want: nil", err)
	}
	if len(balances) != 2 {
		t.Errorf("Balances() length | got: %d, want: 2", len(balances))
	}
	if !balances["XXBT"].Equal(decimal.RequireFromString("0.0011")) {
		t.Errorf("XXBT balance | got: %v, want: 0.0011", balances["XXBT"])
	}
}

func TestTradeBalanceSummary(t *testing.T) {
	kc := newHelperClient(t, `{"error":[],"result":{"eb":"1101.3425","tb":"392.2264","m":"7.0354","n":"-10.0232","c":"21.1063","v":"31.1297","e":"382.2032","mf":"375.1678","ml":"5432.57"}}`)

	tb, err := kc.TradeBalanceSummary(context.Background(), Options{"asset": "ZUSD"})
	if err != nil {
		t.Fatalf("TradeBalanceSummary() returned err | got: %v, want: nil", err)
	}
	if !tb.UnrealizedPnL.Equal(decimal.RequireFromString("-10.0232")) {
		t.Errorf("UnrealizedPnL | got: %v, want: -10.0232", tb.UnrealizedPnL)
	}
	if !tb.UnexecutedValue.IsZero() {
		t.Errorf("UnexecutedValue | got: %v, want: 0", tb.UnexecutedValue)
	}

	_, err = kc.TradeBalanceSummary(context.Background(), Options{}, Options{})
	if !errors.Is(err, ErrTooManyArgs) {
		t.Errorf("TradeBalanceSummary() | got: %v, want: %v", err, ErrTooManyArgs)
	}
}

func TestWebSocketToken(t *testing.T) {
	kc := newHelperClient(t, `{"error":[],"result":{"token":"1Dwc4lzSwNWOAwkMdqhssNNFhs1ed606d1WcF3XfEMw","expires":900}}`)

	token, err := kc.WebSocketToken(context.Background())
	if err != nil {
		t.Fatalf("WebSocketToken() returned err | got: %v, want: nil", err)
	}
	if token != "1Dwc4lzSwNWOAwkMdqhssNNFhs1ed606d1WcF3XfEMw" {
		t.Errorf("WebSocketToken() | got: %s", token)
	}
}

func TestHelpers_ExchangeErrorPropagates(t *testing.T) {
	kc := newHelperClient(t, `{"error":["EAPI:Invalid key"]}`)

	_, err := kc.Balances(context.Background())
	var exErr *ExchangeError
	if !errors.As(err, &exErr) {
		t.Fatalf("Balances() | got: %v, want: *ExchangeError", err)
	}
	if exErr.Messages[0] != "EAPI:Invalid key" {
		t.Errorf("Messages | got: %v", exErr.Messages)
	}
}

func TestHelpers_EmptyResult(t *testing.T) {
	kc := newHelperClient(t, `{"error":[]}`)

	_, err := kc.ServerTime(context.Background())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("ServerTime() | got: %v, want: %v", err, ErrMalformedResponse)
	}
}
