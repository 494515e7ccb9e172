package db

import (
	"github.com/monadclick/monad_clicker/internal/economy"
)

// User is one player record, keyed by the opaque id issued on first visit.
type User struct {
	ID           string           `json:"id"`
	Username     string           `json:"username"`
	Score        int64            `json:"score"`
	Clicks       int64            `json:"clicks"`
	Boosters     economy.Boosters `json:"boosters"`
	NFTs         int              `json:"nfts"`
	TotalEarned  int64            `json:"totalEarned"`
	DailyMints   int              `json:"dailyMints"`
	LastMintDate string           `json:"lastMintDate"`
}

// LeaderboardKind selects one of the two ranked projections.
type LeaderboardKind string

const (
	// LeaderboardCurrent ranks by spendable score.
	LeaderboardCurrent LeaderboardKind = "current"
	// LeaderboardAlltime ranks by lifetime earnings.
	LeaderboardAlltime LeaderboardKind = "alltime"
)

// LeaderboardEntry is a derived row: Value holds score or totalEarned
// depending on the projection it came from.
type LeaderboardEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Value    int64  `json:"value"`
}
