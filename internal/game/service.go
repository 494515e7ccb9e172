package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/monadclick/monad_clicker/internal/db"
	"github.com/monadclick/monad_clicker/internal/economy"
	"github.com/monadclick/monad_clicker/internal/errors"
	"github.com/monadclick/monad_clicker/internal/identity"
	"github.com/monadclick/monad_clicker/internal/nft"
	"github.com/monadclick/monad_clicker/internal/types"
	"github.com/monadclick/monad_clicker/pkg/logger"
)

// Service orchestrates the economy calculator against the store. Every
// mutating operation runs inside a per-account critical section so two
// concurrent clicks cannot race on the read-modify-write.
type Service struct {
	store    db.UserStore
	provider identity.Provider
	minter   *nft.Minter

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	// Injected so tests can pin the calendar date and force or forbid crits.
	now  func() time.Time
	roll func() float64
}

func NewService(store db.UserStore, provider identity.Provider, minter *nft.Minter) *Service {
	if provider == nil {
		provider = identity.NoopProvider{}
	}
	if minter == nil {
		minter = nft.NewMinter(nil)
	}
	return &Service{
		store:    store,
		provider: provider,
		minter:   minter,
		locks:    make(map[string]*sync.Mutex),
		now:      time.Now,
		roll:     rand.Float64,
	}
}

// NewAccountID issues the opaque identifier handed to a first-time visitor.
func NewAccountID() string {
	return uuid.NewString()
}

func (s *Service) lockAccount(id string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.locksMu.Unlock()

	l.Lock()
	return l.Unlock
}

// ClickResult is the outcome of one click action.
type ClickResult struct {
	Username    string `json:"-"`
	Score       int64  `json:"score"`
	Clicks      int64  `json:"clicks"`
	Gain        int64  `json:"gain"`
	TotalEarned int64  `json:"totalEarned"`
	Crit        bool   `json:"crit"`
}

// BoosterQuote prices one booster at the account's current level.
type BoosterQuote struct {
	Current     int    `json:"current"`
	MaxLevel    int    `json:"maxLevel"`
	Cost        *int   `json:"cost"`
	NextLevel   *int   `json:"nextLevel"`
	Description string `json:"description"`
}

// Quote is the full booster price sheet plus balances.
type Quote struct {
	Multiplier     BoosterQuote `json:"multiplier"`
	Autoclick      BoosterQuote `json:"autoclick"`
	Crit           BoosterQuote `json:"crit"`
	NFTs           int          `json:"nfts"`
	RemainingMints int          `json:"remainingMints"`
}

// PurchaseResult reports a successful booster upgrade.
type PurchaseResult struct {
	User     db.User `json:"user"`
	CostPaid int     `json:"costPaid"`
	NextCost int     `json:"nextCost"`
}

// MintResult reports a successful mint action.
type MintResult struct {
	User           db.User       `json:"user"`
	NFTsEarned     int           `json:"nftsEarned"`
	RemainingMints int           `json:"remainingMints"`
	Tokens         []types.Token `json:"tokens"`
	TxHash         string        `json:"txHash"`
}

// GetOrCreateAccount loads the account, creating it with defaults on first
// contact. A non-empty username differing from the stored one renames the
// account. The daily mint counter is reset lazily when the stored mint date
// is not today.
func (s *Service) GetOrCreateAccount(id, username string) (db.User, error) {
	unlock := s.lockAccount(id)
	defer unlock()
	return s.getOrCreateLocked(id, username)
}

func (s *Service) getOrCreateLocked(id, username string) (db.User, error) {
	today := economy.DateString(s.now())

	u, err := s.store.GetUser(id)
	if err != nil {
		if _, ok := err.(*errors.NotFoundError); !ok {
			return db.User{}, err
		}

		name := username
		if name == "" {
			name = placeholderName(id)
			if display, perr := s.provider.DisplayName(id); perr != nil {
				logger.Warn("Identity provider lookup failed for %s: %v", id, perr)
			} else if display != "" {
				name = display
			}
		}

		u = db.User{
			ID:           id,
			Username:     name,
			Boosters:     economy.DefaultBoosters(),
			LastMintDate: today,
		}
		if err := s.store.CreateUser(u); err != nil {
			return db.User{}, err
		}
		return u, nil
	}

	if username != "" && username != u.Username {
		if err := s.store.SetUsername(id, username); err != nil {
			return db.User{}, err
		}
		u.Username = username
	}

	if u.LastMintDate != today {
		if err := s.store.ResetDailyMints(id, today); err != nil {
			return db.User{}, err
		}
		u.DailyMints = 0
		u.LastMintDate = today
	}

	return u, nil
}

func placeholderName(id string) string {
	short := id
	if len(short) > 6 {
		short = short[:6]
	}
	return "Player-" + short
}

// PerformClick credits one click's gain to score and lifetime earnings and
// re-projects both leaderboards atomically with the user write.
func (s *Service) PerformClick(id string) (ClickResult, error) {
	unlock := s.lockAccount(id)
	defer unlock()

	u, err := s.getOrCreateLocked(id, "")
	if err != nil {
		return ClickResult{}, err
	}

	gain, crit := economy.ClickGain(u.Boosters, s.roll)

	u.Score += gain
	u.TotalEarned += gain
	u.Clicks++

	if err := s.store.SaveClickResult(u); err != nil {
		return ClickResult{}, err
	}

	return ClickResult{
		Username:    u.Username,
		Score:       u.Score,
		Clicks:      u.Clicks,
		Gain:        gain,
		TotalEarned: u.TotalEarned,
		Crit:        crit,
	}, nil
}

// QuoteBoosterCosts prices every booster at the account's current levels.
// Maxed boosters quote a nil cost.
func (s *Service) QuoteBoosterCosts(id string) (Quote, error) {
	unlock := s.lockAccount(id)
	defer unlock()

	u, err := s.getOrCreateLocked(id, "")
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		NFTs:           u.NFTs,
		RemainingMints: economy.RemainingMints(u.DailyMints, u.LastMintDate, economy.DateString(s.now())),
	}
	q.Multiplier = quoteBooster(economy.BoosterMultiplier, u.Boosters)
	q.Autoclick = quoteBooster(economy.BoosterAutoclick, u.Boosters)
	q.Crit = quoteBooster(economy.BoosterCrit, u.Boosters)
	return q, nil
}

func quoteBooster(t economy.BoosterType, b economy.Boosters) BoosterQuote {
	level := economy.Level(t, b)
	maxLevel := economy.MaxMultiplier
	switch t {
	case economy.BoosterAutoclick:
		maxLevel = economy.MaxAutoclick
	case economy.BoosterCrit:
		maxLevel = int(economy.MaxCritChance / economy.CritStep)
	}

	q := BoosterQuote{
		Current:     level,
		MaxLevel:    maxLevel,
		Description: describeBooster(t, b),
	}
	if !economy.MaxLevelReached(t, b) {
		cost := economy.Cost(t, level)
		next := level + 1
		q.Cost = &cost
		q.NextLevel = &next
	}
	return q
}

func describeBooster(t economy.BoosterType, b economy.Boosters) string {
	switch t {
	case economy.BoosterMultiplier:
		next := economy.Advance(t, b)
		return fmt.Sprintf("%dx → %dx click multiplier", b.Multiplier, next.Multiplier)
	case economy.BoosterAutoclick:
		next := economy.Advance(t, b)
		return fmt.Sprintf("+%d → +%d points per click", b.Autoclick, next.Autoclick)
	case economy.BoosterCrit:
		next := economy.Advance(t, b)
		return fmt.Sprintf("%.1f%% → %.1f%% critical hit chance (%dx payout)",
			b.CritChance*100, next.CritChance*100, economy.CritPayout)
	}
	return ""
}

// PurchaseBooster advances one booster by exactly one level or fails with no
// side effects. Preconditions in order: known type, below max level, enough
// NFTs.
func (s *Service) PurchaseBooster(id string, boosterType string) (PurchaseResult, error) {
	t := economy.BoosterType(boosterType)
	if !economy.ValidType(t) {
		return PurchaseResult{}, &errors.ValidationError{Field: "booster type", Reason: boosterType}
	}

	unlock := s.lockAccount(id)
	defer unlock()

	u, err := s.getOrCreateLocked(id, "")
	if err != nil {
		return PurchaseResult{}, err
	}

	if economy.MaxLevelReached(t, u.Boosters) {
		return PurchaseResult{}, &errors.MaxLevelError{Booster: boosterType}
	}

	cost := economy.CostFor(t, u.Boosters)
	if u.NFTs < cost {
		return PurchaseResult{}, &errors.InsufficientFundsError{
			Currency:  "nfts",
			Required:  int64(cost),
			Available: int64(u.NFTs),
		}
	}

	u.NFTs -= cost
	u.Boosters = economy.Advance(t, u.Boosters)

	if err := s.store.SaveBoosterPurchase(u); err != nil {
		return PurchaseResult{}, err
	}

	return PurchaseResult{
		User:     u,
		CostPaid: cost,
		NextCost: economy.CostFor(t, u.Boosters),
	}, nil
}

// MintNFTs converts score into NFTs at 1000 points apiece, capped at 5 mint
// actions per calendar day. Preconditions in order: spend is a positive
// multiple of 1000, daily quota remains, score covers the spend.
func (s *Service) MintNFTs(id string, spend int64) (MintResult, error) {
	if spend <= 0 || spend%economy.PointsPerNFT != 0 {
		return MintResult{}, &errors.ValidationError{
			Field:  "spend amount",
			Reason: "must be a positive multiple of 1000",
		}
	}

	unlock := s.lockAccount(id)
	defer unlock()

	u, err := s.getOrCreateLocked(id, "")
	if err != nil {
		return MintResult{}, err
	}

	today := economy.DateString(s.now())
	remaining := economy.RemainingMints(u.DailyMints, u.LastMintDate, today)
	if remaining <= 0 {
		return MintResult{}, &errors.QuotaExceededError{Limit: economy.MaxDailyMints}
	}

	if u.Score < spend {
		return MintResult{}, &errors.InsufficientFundsError{
			Currency:  "points",
			Required:  spend,
			Available: u.Score,
		}
	}

	earned := int(spend / economy.PointsPerNFT)

	batch, err := s.minter.Mint(id, earned)
	if err != nil {
		return MintResult{}, err
	}

	u.Score -= spend
	u.NFTs += earned
	u.DailyMints++
	u.LastMintDate = today

	if err := s.store.SaveMintResult(u); err != nil {
		return MintResult{}, err
	}

	return MintResult{
		User:           u,
		NFTsEarned:     earned,
		RemainingMints: remaining - 1,
		Tokens:         batch.Tokens,
		TxHash:         batch.Receipt.TxHash.Hex(),
	}, nil
}

// Leaderboard returns the ordered top entries for the given kind.
func (s *Service) Leaderboard(kind string, limit int) ([]db.LeaderboardEntry, error) {
	k := db.LeaderboardKind(kind)
	switch k {
	case db.LeaderboardCurrent, db.LeaderboardAlltime:
	default:
		return nil, &errors.ValidationError{Field: "leaderboard type", Reason: kind}
	}

	return s.store.GetLeaderboard(k, limit)
}
