package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/monadclick/monad_clicker/internal/db"
	"github.com/monadclick/monad_clicker/internal/game"
	"github.com/monadclick/monad_clicker/internal/types"
	"github.com/monadclick/monad_clicker/internal/websocket"
	"github.com/monadclick/monad_clicker/pkg/logger"
)

// cookieName carries the opaque account token issued on first contact.
const cookieName = "mc_uid"

const cookieMaxAge = 60 * 60 * 24 * 30 // 30 days

// GameService is the slice of the game layer the handlers use.
type GameService interface {
	GetOrCreateAccount(id, username string) (db.User, error)
	PerformClick(id string) (game.ClickResult, error)
	QuoteBoosterCosts(id string) (game.Quote, error)
	PurchaseBooster(id, boosterType string) (game.PurchaseResult, error)
	MintNFTs(id string, spend int64) (game.MintResult, error)
	Leaderboard(kind string, limit int) ([]db.LeaderboardEntry, error)
}

type Handler struct {
	svc             GameService
	ws              *websocket.Manager
	leaderboardSize int
}

// NewHandler wires the HTTP surface to the game service. wsManager may be
// nil, in which case no live updates are broadcast.
func NewHandler(svc GameService, wsManager *websocket.Manager, leaderboardSize int) *Handler {
	if leaderboardSize <= 0 {
		leaderboardSize = 100
	}
	return &Handler{svc: svc, ws: wsManager, leaderboardSize: leaderboardSize}
}

// accountID reads the identity cookie, issuing a fresh one when absent.
func (h *Handler) accountID(c *gin.Context) string {
	id, err := c.Cookie(cookieName)
	if err == nil && id != "" {
		return id
	}

	id = game.NewAccountID()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, id, cookieMaxAge, "/", "", false, false)
	return id
}

// GetUser handles GET /user
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.svc.GetOrCreateAccount(h.accountID(c), "")
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser handles POST /user with an optional username rename.
func (h *Handler) UpdateUser(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
	}
	// An empty or malformed body means "no rename".
	_ = c.ShouldBindJSON(&body)

	user, err := h.svc.GetOrCreateAccount(h.accountID(c), body.Username)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetScore handles GET /score
func (h *Handler) GetScore(c *gin.Context) {
	user, err := h.svc.GetOrCreateAccount(h.accountID(c), "")
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": user.Score, "user": user})
}

// Click handles POST /click
func (h *Handler) Click(c *gin.Context) {
	id := h.accountID(c)

	res, err := h.svc.PerformClick(id)
	if err != nil {
		c.Error(err)
		return
	}

	if h.ws != nil {
		if err := h.ws.BroadcastScoreUpdate(id, res.Username, res.Score, res.Gain, res.Crit); err != nil {
			logger.Error("Failed to broadcast score update: %v", err)
		}
	}

	c.JSON(http.StatusOK, res)
}

// GetBoosterPrices handles GET /booster/prices
func (h *Handler) GetBoosterPrices(c *gin.Context) {
	quote, err := h.svc.QuoteBoosterCosts(h.accountID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// PurchaseBooster handles POST /booster
func (h *Handler) PurchaseBooster(c *gin.Context) {
	var body struct {
		Type string `json:"type"`
	}
	_ = c.ShouldBindJSON(&body)

	res, err := h.svc.PurchaseBooster(h.accountID(c), body.Type)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     res.User,
		"costPaid": res.CostPaid,
		"nextCost": res.NextCost,
	})
}

// MintNFT handles POST /nft/mint
func (h *Handler) MintNFT(c *gin.Context) {
	var body struct {
		Amount int64 `json:"amount"`
	}
	_ = c.ShouldBindJSON(&body)

	res, err := h.svc.MintNFTs(h.accountID(c), body.Amount)
	if err != nil {
		c.Error(err)
		return
	}

	if h.ws != nil {
		event := types.MintEvent{Username: res.User.Username, Tokens: res.Tokens, TxHash: res.TxHash}
		if err := h.ws.BroadcastMintEvent(event); err != nil {
			logger.Error("Failed to broadcast mint event: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"tokens":         res.Tokens,
		"txHash":         res.TxHash,
		"user":           res.User,
		"nftsEarned":     res.NFTsEarned,
		"remainingMints": res.RemainingMints,
	})
}

// GetLeaderboard handles GET /leaderboard?type=current|alltime
func (h *Handler) GetLeaderboard(c *gin.Context) {
	kind := c.DefaultQuery("type", string(db.LeaderboardCurrent))

	entries, err := h.svc.Leaderboard(kind, h.leaderboardSize)
	if err != nil {
		c.Error(err)
		return
	}

	if entries == nil {
		entries = []db.LeaderboardEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries, "type": kind})
}

// Health handles GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
