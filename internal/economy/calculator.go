package economy

import (
	"math"
	"time"
)

// BoosterType identifies one of the three permanent upgrades.
type BoosterType string

const (
	BoosterMultiplier BoosterType = "multiplier"
	BoosterAutoclick  BoosterType = "autoclick"
	BoosterCrit       BoosterType = "crit"
)

const (
	MaxMultiplier = 10
	MaxAutoclick  = 20
	MaxCritChance = 0.5

	// CritStep is the exact increment a crit purchase applies.
	CritStep   = 0.05
	CritPayout = 5

	// PointsPerNFT is the mint exchange rate: every 1000 points spent
	// yields one NFT.
	PointsPerNFT = 1000

	MaxDailyMints = 5

	// critEpsilon absorbs float accumulation error from repeated
	// CritStep additions when comparing against MaxCritChance.
	critEpsilon = 1e-9
)

// Boosters is a user's current upgrade state.
type Boosters struct {
	Multiplier int     `json:"multiplier"`
	Autoclick  int     `json:"autoclick"`
	CritChance float64 `json:"critChance"`
}

// DefaultBoosters is the state of a freshly created account.
func DefaultBoosters() Boosters {
	return Boosters{Multiplier: 1, Autoclick: 0, CritChance: 0}
}

// ValidType reports whether t names a known booster.
func ValidType(t BoosterType) bool {
	switch t {
	case BoosterMultiplier, BoosterAutoclick, BoosterCrit:
		return true
	}
	return false
}

// ClickGain computes the points awarded for a single click:
// base = 1 * multiplier + autoclick, then x5 on a successful crit roll,
// truncated at the end. roll must return a uniform value in [0,1) and is
// only consulted when CritChance is positive, so a zero-chance click is
// fully deterministic.
func ClickGain(b Boosters, roll func() float64) (gain int64, crit bool) {
	base := float64(1 * b.Multiplier)
	base += float64(b.Autoclick)

	if b.CritChance > 0 && roll() < b.CritChance {
		base *= CritPayout
		crit = true
	}

	return int64(math.Floor(base)), crit
}

// Level returns the zero-based level of a booster: multiplier-1, autoclick
// as-is, and round(critChance/0.05) for crit. Rounding rather than flooring
// keeps the level stable when repeated 0.05 additions land just under a step
// boundary.
func Level(t BoosterType, b Boosters) int {
	switch t {
	case BoosterMultiplier:
		return b.Multiplier - 1
	case BoosterAutoclick:
		return b.Autoclick
	case BoosterCrit:
		return int(math.Round(b.CritChance / CritStep))
	}
	return 0
}

// Cost returns the NFT price to advance a booster from the given zero-based
// level: base cost plus one more NFT every two levels.
func Cost(t BoosterType, level int) int {
	base := 1
	if t == BoosterCrit {
		base = 2
	}
	return base + level/2
}

// CostFor is Cost at the booster's current level.
func CostFor(t BoosterType, b Boosters) int {
	return Cost(t, Level(t, b))
}

// MaxLevelReached reports whether the booster cannot advance further.
func MaxLevelReached(t BoosterType, b Boosters) bool {
	switch t {
	case BoosterMultiplier:
		return b.Multiplier >= MaxMultiplier
	case BoosterAutoclick:
		return b.Autoclick >= MaxAutoclick
	case BoosterCrit:
		return b.CritChance >= MaxCritChance-critEpsilon
	}
	return true
}

// Advance returns the booster state one step further, capped at the maximum.
func Advance(t BoosterType, b Boosters) Boosters {
	switch t {
	case BoosterMultiplier:
		b.Multiplier = min(b.Multiplier+1, MaxMultiplier)
	case BoosterAutoclick:
		b.Autoclick = min(b.Autoclick+1, MaxAutoclick)
	case BoosterCrit:
		b.CritChance = math.Min(b.CritChance+CritStep, MaxCritChance)
	}
	return b
}

// RemainingMints returns how many mint actions are left for the given day.
// The daily counter is reset lazily: a lastMintDate that differs from today
// counts as a fresh allotment.
func RemainingMints(dailyMints int, lastMintDate, today string) int {
	if lastMintDate != today {
		return MaxDailyMints
	}
	if dailyMints >= MaxDailyMints {
		return 0
	}
	return MaxDailyMints - dailyMints
}

// DateString formats a wall-clock instant as the calendar date used for
// quota accounting. UTC, so rollover does not depend on server locale.
func DateString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
