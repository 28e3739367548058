package provider

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a provider transport failure (network error, bad
// status, malformed payload). Callers use it to tell "provider down" from
// "symbol genuinely absent" before the distinction collapses into
// null/empty/synthetic responses at the service boundary.
var ErrUnavailable = errors.New("market data provider unavailable")

// Quote is the provider-shaped quote payload before normalization.
type Quote struct {
	Symbol        string
	LongName      string
	ShortName     string
	Price         float64
	PreviousClose float64
	Change        float64
	ChangePercent float64
	DayHigh       float64
	DayLow        float64
	Volume        int64
	MarketCap     int64
	Currency      string
	Open          float64
}

// Candle is one raw OHLCV bucket. Pointer fields mirror the provider's
// nullable values; a candle without a close is invalid and gets discarded.
type Candle struct {
	Timestamp int64
	Open      *float64
	High      *float64
	Low       *float64
	Close     *float64
	Volume    *int64
}

// SearchResult is one raw symbol-search hit.
type SearchResult struct {
	Symbol    string
	LongName  string
	ShortName string
	Exchange  string
}

// Client abstracts the external market-data source. Implementations return
// ErrUnavailable (possibly wrapped) on any transport failure and never
// invent data.
type Client interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
	Chart(ctx context.Context, symbol, interval string, period1, period2 time.Time) ([]Candle, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
}
