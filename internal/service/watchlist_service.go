package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"stock-tracker/internal/domain"
	"stock-tracker/internal/repository"
)

// ErrAlreadyInWatchlist is returned when adding a symbol twice.
var ErrAlreadyInWatchlist = errors.New("stock already in watchlist")

// WatchlistItem is a stored watchlist entry joined with its live price
// fields. When the quote fetch fails the price fields stay zero; the
// entry itself is never dropped.
type WatchlistItem struct {
	domain.WatchlistEntry
	CurrentPrice  float64 `json:"currentPrice"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// WatchlistService mutates and reads a user's watchlist.
type WatchlistService interface {
	List(ctx context.Context, userID string) ([]WatchlistItem, error)
	Add(ctx context.Context, userID, symbol string) (*domain.WatchlistEntry, error)
	Remove(ctx context.Context, userID, symbol string) error
}

type watchlistService struct {
	users  repository.UserRepository
	market MarketService
	logger *logrus.Logger
}

func NewWatchlistService(users repository.UserRepository, market MarketService, logger *logrus.Logger) WatchlistService {
	return &watchlistService{
		users:  users,
		market: market,
		logger: logger,
	}
}

// List joins each stored entry with a fresh quote, fetched concurrently.
func (s *watchlistService) List(ctx context.Context, userID string) ([]WatchlistItem, error) {
	entries, err := s.users.Watchlist(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	items := make([]WatchlistItem, len(entries))
	var wg sync.WaitGroup
	for i, entry := range entries {
		items[i] = WatchlistItem{WatchlistEntry: entry}
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			quote, err := s.market.GetQuote(ctx, symbol)
			if err != nil {
				// keep the entry with zeroed price fields
				return
			}
			items[i].CurrentPrice = quote.CurrentPrice
			items[i].Change = quote.Change
			items[i].ChangePercent = quote.ChangePercent
		}(i, entry.Symbol)
	}
	wg.Wait()

	return items, nil
}

// Add verifies the symbol resolves to a quote, rejects duplicates, and
// appends the entry using the quote's company name.
func (s *watchlistService) Add(ctx context.Context, userID, symbol string) (*domain.WatchlistEntry, error) {
	quote, err := s.market.GetQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStockNotFound, symbol)
	}

	entries, err := s.users.Watchlist(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	for _, entry := range entries {
		if entry.Symbol == symbol {
			return nil, ErrAlreadyInWatchlist
		}
	}

	entry := domain.WatchlistEntry{
		Symbol:      symbol,
		CompanyName: quote.CompanyName,
	}
	if err := s.users.AddWatchlistEntry(ctx, userID, entry); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user":   userID,
		"symbol": symbol,
	}).Info("watchlist entry added")
	return &entry, nil
}

// Remove deletes the symbol from the watchlist; removing an absent symbol
// is a no-op success.
func (s *watchlistService) Remove(ctx context.Context, userID, symbol string) error {
	return s.users.RemoveWatchlistEntry(ctx, userID, symbol)
}
