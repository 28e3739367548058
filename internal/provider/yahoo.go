package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// userAgent is sent on every request; Yahoo rejects clients without a
// browser-looking agent.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// YahooClient talks to Yahoo Finance. Quotes and symbol search go through
// the configured base URL; candles use the finance-go chart endpoint.
type YahooClient struct {
	rest *resty.Client
}

// NewYahooClient builds a client for the given base URL (empty means the
// public Yahoo endpoint) with a per-request timeout.
func NewYahooClient(baseURL string, timeout time.Duration) *YahooClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", userAgent)

	return &YahooClient{rest: client}
}

type yahooQuote struct {
	Symbol                     string  `json:"symbol"`
	LongName                   string  `json:"longName"`
	ShortName                  string  `json:"shortName"`
	RegularMarketPrice         float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
	RegularMarketChange        float64 `json:"regularMarketChange"`
	RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
	RegularMarketDayHigh       float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow        float64 `json:"regularMarketDayLow"`
	RegularMarketVolume        int64   `json:"regularMarketVolume"`
	RegularMarketOpen          float64 `json:"regularMarketOpen"`
	MarketCap                  int64   `json:"marketCap"`
	Currency                   string  `json:"currency"`
}

type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []yahooQuote `json:"result"`
		Error  any          `json:"error"`
	} `json:"quoteResponse"`
}

func (y *YahooClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	var out yahooQuoteResponse
	resp, err := y.rest.R().
		SetContext(ctx).
		SetQueryParam("symbols", symbol).
		SetResult(&out).
		Get("/v7/finance/quote")
	if err != nil {
		return nil, fmt.Errorf("%w: quote %s: %v", ErrUnavailable, symbol, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: quote %s: status %s", ErrUnavailable, symbol, resp.Status())
	}

	if len(out.QuoteResponse.Result) == 0 {
		return nil, nil
	}
	q := out.QuoteResponse.Result[0]
	return &Quote{
		Symbol:        q.Symbol,
		LongName:      q.LongName,
		ShortName:     q.ShortName,
		Price:         q.RegularMarketPrice,
		PreviousClose: q.RegularMarketPreviousClose,
		Change:        q.RegularMarketChange,
		ChangePercent: q.RegularMarketChangePercent,
		DayHigh:       q.RegularMarketDayHigh,
		DayLow:        q.RegularMarketDayLow,
		Volume:        q.RegularMarketVolume,
		MarketCap:     q.MarketCap,
		Currency:      q.Currency,
		Open:          q.RegularMarketOpen,
	}, nil
}

func (y *YahooClient) Chart(ctx context.Context, symbol, interval string, period1, period2 time.Time) ([]Candle, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&period1),
		End:      datetime.New(&period2),
		Interval: datetime.Interval(interval),
	}

	iter := chart.Get(params)

	var candles []Candle
	for iter.Next() {
		bar := iter.Bar()
		open, _ := bar.Open.Float64()
		high, _ := bar.High.Float64()
		low, _ := bar.Low.Float64()
		closePrice, _ := bar.Close.Float64()
		volume := int64(bar.Volume)
		candles = append(candles, Candle{
			Timestamp: int64(bar.Timestamp),
			Open:      &open,
			High:      &high,
			Low:       &low,
			Close:     &closePrice,
			Volume:    &volume,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: chart %s: %v", ErrUnavailable, symbol, err)
	}
	return candles, nil
}

type yahooSearchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		LongName  string `json:"longname"`
		ShortName string `json:"shortname"`
		Exchange  string `json:"exchange"`
	} `json:"quotes"`
}

func (y *YahooClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var out yahooSearchResponse
	resp, err := y.rest.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetResult(&out).
		Get("/v1/finance/search")
	if err != nil {
		return nil, fmt.Errorf("%w: search %q: %v", ErrUnavailable, query, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: search %q: status %s", ErrUnavailable, query, resp.Status())
	}

	results := make([]SearchResult, 0, len(out.Quotes))
	for _, q := range out.Quotes {
		results = append(results, SearchResult{
			Symbol:    q.Symbol,
			LongName:  q.LongName,
			ShortName: q.ShortName,
			Exchange:  q.Exchange,
		})
	}
	return results, nil
}
