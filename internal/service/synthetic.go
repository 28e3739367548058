package service

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"stock-tracker/internal/domain"
)

// synthetic point counts per range token; a series has count+1 points.
var syntheticCounts = map[string]int{
	"1d":  24,
	"1wk": 7,
	"1mo": 30,
	"3mo": 90,
	"6mo": 180,
	"1y":  52,
	"5y":  60,
}

// SyntheticSeries generates a plausible random-walk series standing in for
// provider data. Values are random; only the shape (count, cadence,
// ordering, price floor) is fixed. Emitted oldest to newest.
func SyntheticSeries(rng string) []domain.HistoricalPoint {
	count, ok := syntheticCounts[rng]
	if !ok {
		count = syntheticCounts[defaultRange]
	}

	now := time.Now()
	price := 1500 + rand.Float64()*1000

	points := make([]domain.HistoricalPoint, 0, count+1)
	for i := count; i >= 0; i-- {
		var ts time.Time
		switch rng {
		case "1d":
			ts = now.Add(-time.Duration(i) * time.Hour)
		case "1y":
			// weekly cadence
			ts = now.AddDate(0, 0, -i*7)
		case "5y":
			// monthly cadence
			ts = now.AddDate(0, -i, 0)
		default:
			ts = now.AddDate(0, 0, -i)
		}

		price = math.Max(10, price+(rand.Float64()-0.5)*20)
		open := price + (rand.Float64()-0.5)*10
		closePrice := price
		high := math.Max(open, closePrice) + rand.Float64()*15
		low := math.Min(open, closePrice) - rand.Float64()*15

		points = append(points, domain.HistoricalPoint{
			Timestamp: ts.UnixMilli(),
			Date:      ts.UTC().Format(time.RFC3339),
			Open:      round2(open),
			High:      round2(high),
			Low:       round2(low),
			Close:     round2(closePrice),
			Volume:    1_000_000 + rand.Int64N(5_000_000),
		})
	}
	return points
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
