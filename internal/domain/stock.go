package domain

// Quote is a point-in-time snapshot for one symbol. Every numeric field is
// always populated; a missing provider value becomes 0 so downstream
// arithmetic never has to deal with absent numbers.
type Quote struct {
	Symbol        string  `json:"symbol"`
	CompanyName   string  `json:"companyName"`
	CurrentPrice  float64 `json:"currentPrice"`
	PreviousClose float64 `json:"previousClose"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Volume        int64   `json:"volume"`
	MarketCap     int64   `json:"marketCap"`
	Currency      string  `json:"currency"`
	Open          float64 `json:"open"`
}

// IndexQuote is a Quote annotated with the display name of a market index.
type IndexQuote struct {
	Quote
	IndexName string `json:"indexName"`
}

// HistoricalPoint is one OHLCV bucket of a chart series. A series is either
// entirely provider-sourced or entirely synthetic, never mixed.
type HistoricalPoint struct {
	Timestamp int64   `json:"timestamp"`
	Date      string  `json:"date"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// SearchResult is one hit of a symbol search, already filtered to
// recognized markets.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// Listing pairs a tracked symbol with its display name.
type Listing struct {
	Symbol string
	Name   string
}

// Stocks is the fixed set of NSE symbols served by the stock listing
// endpoints, in display order.
var Stocks = []Listing{
	{"RELIANCE.NS", "Reliance Industries"},
	{"TCS.NS", "Tata Consultancy Services"},
	{"HDFCBANK.NS", "HDFC Bank"},
	{"INFY.NS", "Infosys"},
	{"HINDUNILVR.NS", "Hindustan Unilever"},
	{"ICICIBANK.NS", "ICICI Bank"},
	{"SBIN.NS", "State Bank of India"},
	{"BHARTIARTL.NS", "Bharti Airtel"},
	{"KOTAKBANK.NS", "Kotak Mahindra Bank"},
	{"ITC.NS", "ITC Limited"},
}

// Indices is the fixed set of tracked market indices.
var Indices = []Listing{
	{"^NSEI", "Nifty 50"},
	{"^BSESN", "Sensex"},
	{"^CNX100", "Nifty 100"},
}

// CompanyName resolves a tracked symbol to its display name.
func CompanyName(symbol string) (string, bool) {
	for _, l := range Stocks {
		if l.Symbol == symbol {
			return l.Name, true
		}
	}
	return "", false
}

// IndexName resolves an index symbol to its display name.
func IndexName(symbol string) (string, bool) {
	for _, l := range Indices {
		if l.Symbol == symbol {
			return l.Name, true
		}
	}
	return "", false
}

// ListingSymbols extracts the symbols of a listing set in order.
func ListingSymbols(listings []Listing) []string {
	symbols := make([]string, len(listings))
	for i, l := range listings {
		symbols[i] = l.Symbol
	}
	return symbols
}
