package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *YahooClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewYahooClient(server.URL, 5*time.Second)
}

func TestQuoteMapsResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v7/finance/quote" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbols"); got != "TCS.NS" {
			t.Errorf("unexpected symbols param %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quoteResponse":{"result":[{
			"symbol":"TCS.NS",
			"longName":"Tata Consultancy Services Limited",
			"shortName":"TCS",
			"regularMarketPrice":4123.5,
			"regularMarketPreviousClose":4100,
			"regularMarketChange":23.5,
			"regularMarketChangePercent":0.57,
			"regularMarketDayHigh":4150,
			"regularMarketDayLow":4090,
			"regularMarketVolume":2400000,
			"regularMarketOpen":4105,
			"marketCap":15000000000000,
			"currency":"INR"
		}],"error":null}}`))
	})

	quote, err := client.Quote(context.Background(), "TCS.NS")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if quote == nil {
		t.Fatal("expected a quote")
	}
	if quote.Symbol != "TCS.NS" || quote.LongName != "Tata Consultancy Services Limited" {
		t.Errorf("name fields mismatched: %+v", quote)
	}
	if quote.Price != 4123.5 || quote.PreviousClose != 4100 || quote.Change != 23.5 {
		t.Errorf("price fields mismatched: %+v", quote)
	}
	if quote.Volume != 2_400_000 || quote.MarketCap != 15_000_000_000_000 {
		t.Errorf("volume/marketCap mismatched: %+v", quote)
	}
	if quote.Currency != "INR" || quote.Open != 4105 {
		t.Errorf("currency/open mismatched: %+v", quote)
	}
}

func TestQuoteEmptyResultIsNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quoteResponse":{"result":[],"error":null}}`))
	})

	quote, err := client.Quote(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if quote != nil {
		t.Errorf("expected nil quote for empty result, got %+v", quote)
	}
}

func TestQuoteBadStatusIsUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	_, err := client.Quote(context.Background(), "TCS.NS")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSearchMapsResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/finance/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "tata" {
			t.Errorf("unexpected query param %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quotes":[
			{"symbol":"TCS.NS","longname":"Tata Consultancy Services Limited","shortname":"TCS","exchange":"NSI"},
			{"symbol":"TATAMOTORS.BO","shortname":"TATA MOTORS","exchange":"BSE"}
		]}`))
	})

	results, err := client.Search(context.Background(), "tata")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].LongName != "Tata Consultancy Services Limited" || results[0].Exchange != "NSI" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].Symbol != "TATAMOTORS.BO" || results[1].ShortName != "TATA MOTORS" {
		t.Errorf("unexpected second result: %+v", results[1])
	}
}

func TestSearchBadStatusIsUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := client.Search(context.Background(), "tata")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
