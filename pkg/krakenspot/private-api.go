package krakenspot

import "context"

// #region Authenticated Account Data endpoints

// Calls Kraken API private Account Data "Balance" endpoint. Returns all cash
// balances, net of pending withdrawals.
//
// # Required Permissions:
//
// Funding Permissions - Query;
func (kc *KrakenClient) GetBalance(ctx context.Context) (*Response, error) {
	return kc.call(ctx, EndpointBalance, nil)
}

// Calls Kraken API private Account Data "TradeBalance" endpoint. Option
// "asset" sets the base asset used for the balance, defaults to ZUSD.
//
// # Required Permissions:
//
// Order and Trades - Query open orders & trades;
func (kc *KrakenClient) GetTradeBalance(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointTradeBalance, opts)
}

// Calls Kraken API private Account Data "OpenOrders" endpoint.
//
// # Options:
//
// "trades": bool; "userref": integer
func (kc *KrakenClient) GetOpenOrders(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointOpenOrders, opts)
}

// Calls Kraken API private Account Data "ClosedOrders" endpoint. Results are
// paginated 50 at a time, use "ofs" to page.
//
// # Options:
//
// "trades", "userref", "start", "end", "ofs", "consolidate_taker";
// "closetime": open, close, both
func (kc *KrakenClient) GetClosedOrders(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointClosedOrders, opts)
}

// Calls Kraken API private Account Data "QueryOrders" endpoint. Option
// "txid" takes up to 50 comma separated transaction ids.
func (kc *KrakenClient) GetQueryOrders(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointQueryOrders, opts)
}

// Calls Kraken API private Account Data "TradesHistory" endpoint.
//
// # Options:
//
// "type": all, any position, closed position, closing position, no position;
// "trades", "start", "end", "ofs", "consolidate_taker"
func (kc *KrakenClient) GetTradesHistory(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointTradesHistory, opts)
}

// Calls Kraken API private Account Data "QueryTrades" endpoint.
func (kc *KrakenClient) GetQueryTrades(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointQueryTrades, opts)
}

// Calls Kraken API private Account Data "OpenPositions" endpoint.
//
// # Options:
//
// "txid"; "docalcs": bool; "consolidation": market
func (kc *KrakenClient) GetOpenPositions(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointOpenPositions, opts)
}

// Calls Kraken API private Account Data "Ledgers" endpoint.
//
// # Options:
//
// "asset", "aclass", "start", "end", "ofs";
// "type": all, deposit, withdrawal, trade, margin, rollover, credit, transfer,
// settled, staking, sale
func (kc *KrakenClient) GetLedgers(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointLedgers, opts)
}

// Calls Kraken API private Account Data "QueryLedgers" endpoint. Option "id"
// takes up to 20 comma separated ledger ids.
func (kc *KrakenClient) GetQueryLedgers(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointQueryLedgers, opts)
}

// Calls Kraken API private Account Data "TradeVolume" endpoint. Option "pair"
// adds fee info for the given pairs.
func (kc *KrakenClient) GetTradeVolume(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointTradeVolume, opts)
}

// Calls Kraken API private "GetWebSocketsToken" endpoint. The token should be
// used within 15 minutes of creation.
//
// # Required Permissions:
//
// WebSockets interface - On;
func (kc *KrakenClient) GetWebSocketsToken(ctx context.Context) (*Response, error) {
	return kc.call(ctx, EndpointWSToken, nil)
}

// #endregion
