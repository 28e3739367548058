package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"stock-tracker/internal/domain"
	"stock-tracker/internal/provider"
)

// ErrStockNotFound indicates that a symbol has no resolvable quote.
var ErrStockNotFound = errors.New("stock not found")

const (
	defaultInterval = "1d"
	defaultRange    = "1mo"
	fallbackName    = "N/A"
	defaultCurrency = "INR"
)

// recognized chart intervals, passed through to the provider as-is.
var validIntervals = map[string]struct{}{
	"1d":  {},
	"1wk": {},
	"1mo": {},
	"3mo": {},
}

// range token -> lookback window for the chart request.
var rangeWindows = map[string]time.Duration{
	"1d":  24 * time.Hour,
	"1mo": 30 * 24 * time.Hour,
	"3mo": 90 * 24 * time.Hour,
	"6mo": 180 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
	"5y":  5 * 365 * 24 * time.Hour,
}

// MarketService exposes normalized market data backed by the external
// provider, with fallback behavior on provider failure.
type MarketService interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
	GetQuotes(ctx context.Context, symbols []string) []domain.Quote
	GetHistory(ctx context.Context, symbol, interval, rng string) []domain.HistoricalPoint
	Search(ctx context.Context, query string) []domain.SearchResult
	TrackedStocks(ctx context.Context) []domain.Quote
	Indices(ctx context.Context) []domain.IndexQuote
}

type marketService struct {
	provider provider.Client
	logger   *logrus.Logger
}

func NewMarketService(client provider.Client, logger *logrus.Logger) MarketService {
	return &marketService{
		provider: client,
		logger:   logger,
	}
}

// GetQuote resolves a single symbol to its canonical quote. Provider
// failure and unknown symbol both come back as errors; only the log line
// keeps them apart.
func (s *marketService) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	raw, err := s.provider.Quote(ctx, symbol)
	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("quote fetch failed")
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if raw == nil || raw.Symbol == "" {
		return nil, fmt.Errorf("%w: %s", ErrStockNotFound, symbol)
	}

	name, ok := domain.CompanyName(symbol)
	if !ok {
		switch {
		case raw.LongName != "":
			name = raw.LongName
		case raw.ShortName != "":
			name = raw.ShortName
		default:
			name = fallbackName
		}
	}

	currency := raw.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	return &domain.Quote{
		Symbol:        raw.Symbol,
		CompanyName:   name,
		CurrentPrice:  raw.Price,
		PreviousClose: raw.PreviousClose,
		Change:        raw.Change,
		ChangePercent: raw.ChangePercent,
		High:          raw.DayHigh,
		Low:           raw.DayLow,
		Volume:        raw.Volume,
		MarketCap:     raw.MarketCap,
		Currency:      currency,
		Open:          raw.Open,
	}, nil
}

// GetQuotes fans out one quote fetch per symbol. Symbols that fail are
// omitted; the call itself never fails.
func (s *marketService) GetQuotes(ctx context.Context, symbols []string) []domain.Quote {
	slots := make([]*domain.Quote, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			quote, err := s.GetQuote(ctx, symbol)
			if err != nil {
				return
			}
			slots[i] = quote
		}(i, symbol)
	}
	wg.Wait()

	quotes := make([]domain.Quote, 0, len(symbols))
	for _, q := range slots {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}

// GetHistory returns a chart series for the symbol. Unrecognized interval
// or range tokens are coerced to defaults, and any provider failure or
// empty response falls back to a synthetic series; the result is never
// empty and always chronologically ascending.
func (s *marketService) GetHistory(ctx context.Context, symbol, interval, rng string) []domain.HistoricalPoint {
	if _, ok := validIntervals[interval]; !ok {
		interval = defaultInterval
	}
	window, ok := rangeWindows[rng]
	if !ok {
		rng = defaultRange
		window = rangeWindows[rng]
	}

	period2 := time.Now()
	period1 := period2.Add(-window)

	candles, err := s.provider.Chart(ctx, symbol, interval, period1, period2)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"symbol": symbol,
			"range":  rng,
		}).Warn("chart fetch failed, serving synthetic series")
		return SyntheticSeries(rng)
	}

	points := make([]domain.HistoricalPoint, 0, len(candles))
	for _, c := range candles {
		if c.Timestamp == 0 || c.Close == nil {
			continue
		}
		closePrice := *c.Close
		point := domain.HistoricalPoint{
			Timestamp: c.Timestamp * 1000,
			Date:      time.Unix(c.Timestamp, 0).UTC().Format(time.RFC3339),
			Open:      closePrice,
			High:      closePrice,
			Low:       closePrice,
			Close:     closePrice,
		}
		if c.Open != nil {
			point.Open = *c.Open
		}
		if c.High != nil {
			point.High = *c.High
		}
		if c.Low != nil {
			point.Low = *c.Low
		}
		if c.Volume != nil {
			point.Volume = *c.Volume
		}
		points = append(points, point)
	}

	if len(points) == 0 {
		s.logger.WithFields(logrus.Fields{
			"symbol": symbol,
			"range":  rng,
		}).Warn("no valid candles, serving synthetic series")
		return SyntheticSeries(rng)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})
	return points
}

// Search delegates free-text symbol search to the provider and keeps only
// hits on recognized Indian markets. Any failure yields an empty result.
func (s *marketService) Search(ctx context.Context, query string) []domain.SearchResult {
	raw, err := s.provider.Search(ctx, query)
	if err != nil {
		s.logger.WithError(err).WithField("query", query).Warn("symbol search failed")
		return []domain.SearchResult{}
	}

	results := make([]domain.SearchResult, 0, len(raw))
	for _, r := range raw {
		if r.Symbol == "" || !recognizedMarket(r) {
			continue
		}
		name := r.LongName
		if name == "" {
			name = r.ShortName
		}
		if name == "" {
			name = fallbackName
		}
		exchange := r.Exchange
		if exchange == "" {
			exchange = "NSE"
		}
		results = append(results, domain.SearchResult{
			Symbol:   r.Symbol,
			Name:     name,
			Exchange: exchange,
		})
	}
	return results
}

func recognizedMarket(r provider.SearchResult) bool {
	return strings.Contains(r.Symbol, ".NS") ||
		strings.Contains(r.Symbol, ".BO") ||
		r.Exchange == "NSI" ||
		r.Exchange == "BSE"
}

// TrackedStocks returns quotes for the fixed stock listing set.
func (s *marketService) TrackedStocks(ctx context.Context) []domain.Quote {
	return s.GetQuotes(ctx, domain.ListingSymbols(domain.Stocks))
}

// Indices returns quotes for the fixed index set annotated with index names.
func (s *marketService) Indices(ctx context.Context) []domain.IndexQuote {
	quotes := s.GetQuotes(ctx, domain.ListingSymbols(domain.Indices))

	indices := make([]domain.IndexQuote, 0, len(quotes))
	for _, q := range quotes {
		name, ok := domain.IndexName(q.Symbol)
		if !ok {
			name = fallbackName
		}
		indices = append(indices, domain.IndexQuote{
			Quote:     q,
			IndexName: name,
		})
	}
	return indices
}
