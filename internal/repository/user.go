package repository

import (
	"context"
	"errors"

	"stock-tracker/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// UserRepository defines persistence operations for User entities and their
// embedded watchlists.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	Watchlist(ctx context.Context, userID string) ([]domain.WatchlistEntry, error)
	AddWatchlistEntry(ctx context.Context, userID string, entry domain.WatchlistEntry) error
	RemoveWatchlistEntry(ctx context.Context, userID, symbol string) error
}
