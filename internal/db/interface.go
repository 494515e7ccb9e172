package db

// UserStore is the persistence boundary for user records and the two
// leaderboard projections. Save* methods persist an already-computed user
// snapshot together with the matching leaderboard upserts as one atomic
// unit; a score mutation that commits without its leaderboard row is a
// correctness defect.
type UserStore interface {
	GetUser(id string) (User, error)
	CreateUser(u User) error
	SetUsername(id, username string) error
	ResetDailyMints(id, date string) error

	// SaveClickResult persists score/clicks/totalEarned and upserts both
	// leaderboards.
	SaveClickResult(u User) error
	// SaveBoosterPurchase persists the nft balance and booster levels.
	SaveBoosterPurchase(u User) error
	// SaveMintResult persists score/nfts/daily mint accounting and upserts
	// the current-score leaderboard.
	SaveMintResult(u User) error

	GetLeaderboard(kind LeaderboardKind, limit int) ([]LeaderboardEntry, error)
	Close() error
}
