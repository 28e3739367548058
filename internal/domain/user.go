package domain

import "time"

// User represents a registered account of the tracker.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Watchlist    []WatchlistEntry
}

// WatchlistEntry is one tracked symbol inside a user's watchlist. Price
// fields are never stored; they are joined in at read time.
type WatchlistEntry struct {
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"companyName"`
	AddedAt     time.Time `json:"addedAt"`
}
