package krakenspot

import "context"

// #region Public Market Data endpoints

// Calls Kraken API public market data "Time" endpoint. Gets the server's time.
func (kc *KrakenClient) GetTime(ctx context.Context) (*Response, error) {
	return kc.call(ctx, EndpointTime, nil)
}

// Calls Kraken API public market data "SystemStatus" endpoint. Gets the current
// system status or trading mode.
func (kc *KrakenClient) GetSystemStatus(ctx context.Context) (*Response, error) {
	return kc.call(ctx, EndpointSystemStatus, nil)
}

// Calls Kraken API public market data "Assets" endpoint. Gets information about
// assets available for deposit, withdrawal, trading and staking.
//
// # Options:
//
// "asset": "all" or comma separated assets, e.g. "ETH,XRP"; "aclass"
func (kc *KrakenClient) GetAssetInfo(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointAssets, opts)
}

// Calls Kraken API public market data "AssetPairs" endpoint.
//
// # Options:
//
// "pair": "all" or comma separated pairs; "info": info, leverage, fees, margin
func (kc *KrakenClient) GetTradableAssetPairs(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointAssetPairs, opts)
}

// Calls Kraken API public market data "Ticker" endpoint. Option "pair" is
// required.
func (kc *KrakenClient) GetTickerInformation(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointTicker, opts)
}

// Calls Kraken API public market data "OHLC" endpoint. Option "pair" is
// required.
//
// # Options:
//
// "interval": 1 (default), 5, 15, 30, 60, 240, 1440, 10080, 21600;
// "since": unix time, e.g. 1495864800
func (kc *KrakenClient) GetOHLC(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointOHLC, opts)
}

// Calls Kraken API public market data "Depth" endpoint. Option "pair" is
// required, "count" limits the number of asks and bids.
func (kc *KrakenClient) GetOrderBook(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointDepth, opts)
}

// Calls Kraken API public market data "Trades" endpoint. Option "pair" is
// required; "since" takes a unix timestamp or the "last" id of a previous call.
func (kc *KrakenClient) GetTrades(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointTrades, opts)
}

// Calls Kraken API public market data "Spread" endpoint. Option "pair" is
// required.
//
// Note: "since" is intended for incremental updates within the available
// dataset (does not contain all historical spreads)
func (kc *KrakenClient) GetSpread(ctx context.Context, opts ...Options) (*Response, error) {
	return kc.call(ctx, EndpointSpread, opts)
}

// #endregion
