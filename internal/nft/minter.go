package nft

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/monadclick/monad_clicker/internal/errors"
	"github.com/monadclick/monad_clicker/internal/types"
)

// Rarity tiers, rolled per token. Thresholds are on a single uniform draw
// in [0,1): > 0.95 Legendary, > 0.85 Epic, > 0.65 Rare, > 0.35 Uncommon,
// else Common.
type Rarity struct {
	Name  string
	Color string
}

var (
	rarityCommon    = Rarity{Name: "Common", Color: "#64748b"}
	rarityUncommon  = Rarity{Name: "Uncommon", Color: "#10b981"}
	rarityRare      = Rarity{Name: "Rare", Color: "#3b82f6"}
	rarityEpic      = Rarity{Name: "Epic", Color: "#8b5cf6"}
	rarityLegendary = Rarity{Name: "Legendary", Color: "#fbbf24"}
)

func rollRarity(draw float64) Rarity {
	switch {
	case draw > 0.95:
		return rarityLegendary
	case draw > 0.85:
		return rarityEpic
	case draw > 0.65:
		return rarityRare
	case draw > 0.35:
		return rarityUncommon
	default:
		return rarityCommon
	}
}

// Batch is the outcome of one mint action.
type Batch struct {
	Tokens  []types.Token
	Receipt types.MintReceipt
}

// Minter fabricates decorative tokens and records them on the (mock) chain.
type Minter struct {
	chain ChainClient
	faker *gofakeit.Faker
	roll  func() float64
}

// NewMinter builds a minter over the given chain client. A nil chain gets
// the local mock.
func NewMinter(chain ChainClient) *Minter {
	if chain == nil {
		chain = NewMockChain()
	}
	f := gofakeit.New(0)
	return &Minter{
		chain: chain,
		faker: f,
		roll:  func() float64 { return f.Float64Range(0, 1) },
	}
}

// Mint generates count tokens for the account and submits the batch to the
// chain client. Token identity is cosmetic; nothing here persists.
func (m *Minter) Mint(accountID string, count int) (Batch, error) {
	if count <= 0 {
		return Batch{}, &errors.ValidationError{Field: "mint count", Reason: "must be positive"}
	}

	receipt, err := m.chain.SubmitMint(accountID, count)
	if err != nil {
		return Batch{}, &errors.ChainError{Operation: "submit mint", Err: err}
	}

	tokens := make([]types.Token, 0, count)
	for i := 0; i < count; i++ {
		rarity := rollRarity(m.roll())
		serial := m.faker.Number(0, 9999)
		seed := m.faker.UUID()

		tokens = append(tokens, types.Token{
			ID:     fmt.Sprintf("monad-%s", seed),
			Name:   fmt.Sprintf("Monad %s #%d", rarity.Name, serial),
			Rarity: rarity.Name,
			Color:  rarity.Color,
			Image:  fmt.Sprintf("https://api.dicebear.com/7.x/shapes/svg?seed=%s&backgroundColor=%s", seed, rarity.Color[1:]),
		})
	}

	return Batch{Tokens: tokens, Receipt: receipt}, nil
}
