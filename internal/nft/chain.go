package nft

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/monadclick/monad_clicker/internal/types"
)

// ChainClient submits mint batches to "the chain". Nothing real is ever
// settled; the interface exists so the minter never depends on a concrete
// chain implementation.
type ChainClient interface {
	SubmitMint(accountID string, count int) (types.MintReceipt, error)
}

// MockChain fabricates plausible transaction receipts locally. Hashes are
// Keccak-256 over the account id and a per-process nonce, so consecutive
// mints from the same account still yield distinct hashes.
type MockChain struct {
	nonce uint64
	now   func() time.Time
}

func NewMockChain() *MockChain {
	return &MockChain{now: time.Now}
}

func (c *MockChain) SubmitMint(accountID string, count int) (types.MintReceipt, error) {
	n := atomic.AddUint64(&c.nonce, 1)

	buf := make([]byte, 0, len(accountID)+16)
	buf = append(buf, accountID...)
	buf = binary.BigEndian.AppendUint64(buf, n)
	buf = binary.BigEndian.AppendUint64(buf, uint64(count))

	// Fake block height: seconds since epoch keeps it monotone enough for
	// display purposes.
	return types.MintReceipt{
		TxHash: crypto.Keccak256Hash(buf),
		Block:  uint64(c.now().Unix()),
	}, nil
}
