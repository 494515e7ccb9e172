package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// Token is one decorative minted NFT. Tokens carry no gameplay effect and
// are not persisted; they exist for display only.
type Token struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rarity string `json:"rarity"`
	Color  string `json:"color"`
	Image  string `json:"image"`
}

// MintReceipt is the mock chain's answer to a mint submission.
type MintReceipt struct {
	TxHash common.Hash `json:"txHash"`
	Block  uint64      `json:"block"`
}

// MintEvent is broadcast to websocket clients after a successful mint.
type MintEvent struct {
	Username string  `json:"username"`
	Tokens   []Token `json:"tokens"`
	TxHash   string  `json:"txHash"`
}
