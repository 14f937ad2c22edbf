package krakenspot

import (
	"maps"
	"slices"
)

const (
	msgPair      = "Pair option must be a string, could be all for all assets or a comma separated values such as ETHUSD,XRPUSD"
	msgInterval  = "Interval option must be a integer, and one of this intervals values 1 (default), 5, 15, 30, 60, 240, 1440, 10080, 21600"
	msgSinceOHLC = "Since option must be a unix time, for example 1495864800"
	msgSince     = "Since option must be a unix timestamp"
	msgCount     = "Count option must be a integer"

	msgAsset            = "Asset option must be a string, for example ZUSD"
	msgLedgerAsset      = "Asset option must be a string, could be all for all assets or a comma separated values such as XBT,ETH"
	msgTrades           = "Trades option must be a boolean"
	msgUserRef          = "Userref option must be a integer"
	msgStart            = "Start option must be a unix timestamp"
	msgEnd              = "End option must be a unix timestamp"
	msgOfs              = "Ofs option must be a integer"
	msgCloseTime        = "Closetime option must be one of open, close, both"
	msgConsolidateTaker = "Consolidate_taker option must be a boolean"
	msgTxID             = "Txid option must be a string, a comma separated list of transaction ids"
	msgDoCalcs          = "Docalcs option must be a boolean"
	msgConsolidation    = "Consolidation option must be market"
	msgTradeType        = "Type option must be one of all, any position, closed position, closing position, no position"
	msgLedgerType       = "Type option must be one of all, deposit, withdrawal, trade, margin, rollover, credit, transfer, settled, staking, sale"
	msgLedgerID         = "Id option must be a string, a comma separated list of ledger ids"
)

// Endpoint names as they appear in the request path.
const (
	EndpointTime          = "Time"
	EndpointSystemStatus  = "SystemStatus"
	EndpointAssets        = "Assets"
	EndpointAssetPairs    = "AssetPairs"
	EndpointTicker        = "Ticker"
	EndpointOHLC          = "OHLC"
	EndpointDepth         = "Depth"
	EndpointTrades        = "Trades"
	EndpointSpread        = "Spread"
	EndpointBalance       = "Balance"
	EndpointTradeBalance  = "TradeBalance"
	EndpointOpenOrders    = "OpenOrders"
	EndpointClosedOrders  = "ClosedOrders"
	EndpointQueryOrders   = "QueryOrders"
	EndpointTradesHistory = "TradesHistory"
	EndpointQueryTrades   = "QueryTrades"
	EndpointOpenPositions = "OpenPositions"
	EndpointLedgers       = "Ledgers"
	EndpointQueryLedgers  = "QueryLedgers"
	EndpointTradeVolume   = "TradeVolume"
	EndpointWSToken       = "GetWebSocketsToken"
)

// EndpointSpec is the static description of one exchange method.
type EndpointSpec struct {
	Name    string
	Private bool
	Rules   map[string]Rule
	// Cost is the REST rate-limit counter increment for private endpoints.
	// Public endpoints are limited per IP and cost 0.
	Cost uint8
}

// Path returns the signed URL path, e.g. /0/private/Balance.
func (es EndpointSpec) Path() string {
	if es.Private {
		return privatePrefix + es.Name
	}
	return publicPrefix + es.Name
}

var (
	ohlcIntervals = []int64{1, 5, 15, 30, 60, 240, 1440, 10080, 21600}
	ledgerTypes   = []string{"all", "deposit", "withdrawal", "trade", "margin", "rollover", "credit", "transfer", "settled", "staking", "sale"}
	tradeTypes    = []string{"all", "any position", "closed position", "closing position", "no position"}
)

var endpoints = map[string]EndpointSpec{
	EndpointTime:         {Name: EndpointTime},
	EndpointSystemStatus: {Name: EndpointSystemStatus},
	EndpointAssets: {Name: EndpointAssets, Rules: map[string]Rule{
		"asset": PairList(msgPair).OmitAll(),
	}},
	EndpointAssetPairs: {Name: EndpointAssetPairs, Rules: map[string]Rule{
		"pair": PairList(msgPair).OmitAll(),
	}},
	EndpointTicker: {Name: EndpointTicker, Rules: map[string]Rule{
		"pair": PairList(msgPair).Required().OmitAll(),
	}},
	EndpointOHLC: {Name: EndpointOHLC, Rules: map[string]Rule{
		"pair":     PairList(msgPair).Required(),
		"interval": Integer(msgInterval, ohlcIntervals...),
		"since":    UnixTime(msgSinceOHLC),
	}},
	EndpointDepth: {Name: EndpointDepth, Rules: map[string]Rule{
		"pair":  PairList(msgPair).Required(),
		"count": Integer(msgCount),
	}},
	EndpointTrades: {Name: EndpointTrades, Rules: map[string]Rule{
		"pair":  PairList(msgPair).Required(),
		"since": UnixTime(msgSince),
	}},
	EndpointSpread: {Name: EndpointSpread, Rules: map[string]Rule{
		"pair":  PairList(msgPair).Required(),
		"since": UnixTime(msgSince),
	}},

	EndpointBalance: {Name: EndpointBalance, Private: true, Cost: 1},
	EndpointTradeBalance: {Name: EndpointTradeBalance, Private: true, Cost: 1, Rules: map[string]Rule{
		"asset": String(msgAsset),
	}},
	EndpointOpenOrders: {Name: EndpointOpenOrders, Private: true, Cost: 1, Rules: map[string]Rule{
		"trades":  Boolean(msgTrades),
		"userref": Integer(msgUserRef),
	}},
	EndpointClosedOrders: {Name: EndpointClosedOrders, Private: true, Cost: 1, Rules: map[string]Rule{
		"trades":            Boolean(msgTrades),
		"userref":           Integer(msgUserRef),
		"start":             UnixTime(msgStart),
		"end":               UnixTime(msgEnd),
		"ofs":               Integer(msgOfs),
		"closetime":         Enum(msgCloseTime, "open", "close", "both"),
		"consolidate_taker": Boolean(msgConsolidateTaker),
	}},
	EndpointQueryOrders: {Name: EndpointQueryOrders, Private: true, Cost: 1, Rules: map[string]Rule{
		"trades":  Boolean(msgTrades),
		"userref": Integer(msgUserRef),
		"txid":    IDList(msgTxID),
	}},
	EndpointTradesHistory: {Name: EndpointTradesHistory, Private: true, Cost: 2, Rules: map[string]Rule{
		"type":              Enum(msgTradeType, tradeTypes...),
		"trades":            Boolean(msgTrades),
		"start":             UnixTime(msgStart),
		"end":               UnixTime(msgEnd),
		"ofs":               Integer(msgOfs),
		"consolidate_taker": Boolean(msgConsolidateTaker),
	}},
	EndpointQueryTrades: {Name: EndpointQueryTrades, Private: true, Cost: 1, Rules: map[string]Rule{
		"txid":   IDList(msgTxID),
		"trades": Boolean(msgTrades),
	}},
	EndpointOpenPositions: {Name: EndpointOpenPositions, Private: true, Cost: 1, Rules: map[string]Rule{
		"txid":          IDList(msgTxID),
		"docalcs":       Boolean(msgDoCalcs),
		"consolidation": Enum(msgConsolidation, "market"),
	}},
	EndpointLedgers: {Name: EndpointLedgers, Private: true, Cost: 2, Rules: map[string]Rule{
		"asset": PairList(msgLedgerAsset).OmitAll(),
		"type":  Enum(msgLedgerType, ledgerTypes...),
		"start": UnixTime(msgStart),
		"end":   UnixTime(msgEnd),
		"ofs":   Integer(msgOfs),
	}},
	EndpointQueryLedgers: {Name: EndpointQueryLedgers, Private: true, Cost: 2, Rules: map[string]Rule{
		"id":     IDList(msgLedgerID),
		"trades": Boolean(msgTrades),
	}},
	EndpointTradeVolume: {Name: EndpointTradeVolume, Private: true, Cost: 1, Rules: map[string]Rule{
		"pair": PairList(msgPair),
	}},
	EndpointWSToken: {Name: EndpointWSToken, Private: true, Cost: 1},
}

// LookupEndpoint returns a copy of the registered EndpointSpec for 'name'.
// Changing its Rules does not affect the registry.
func LookupEndpoint(name string) (EndpointSpec, bool) {
	es, ok := endpoints[name]
	if ok {
		es.Rules = maps.Clone(es.Rules)
	}
	return es, ok
}

// Endpoints lists every registered endpoint name.
func Endpoints() []string {
	names := make([]string, 0, len(endpoints))
	for name := range endpoints {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
