package api

import (
	"github.com/gin-gonic/gin"

	"github.com/monadclick/monad_clicker/internal/websocket"
)

// SetupRouter initializes the Gin router and sets up the routes
func SetupRouter(h *Handler, wsManager *websocket.Manager) *gin.Engine {
	r := gin.Default()
	r.Use(ErrorMiddleware())

	// Account routes
	r.GET("/user", h.GetUser)
	r.POST("/user", h.UpdateUser)
	r.GET("/score", h.GetScore)

	// Game actions
	r.POST("/click", h.Click)
	r.GET("/booster/prices", h.GetBoosterPrices)
	r.POST("/booster", h.PurchaseBooster)
	r.POST("/nft/mint", h.MintNFT)

	// Leaderboard route
	r.GET("/leaderboard", h.GetLeaderboard)

	// Liveness probe
	r.GET("/healthz", h.Health)

	// WebSocket route
	if wsManager != nil {
		r.GET("/ws", func(c *gin.Context) {
			wsManager.HandleWebSocket(c.Writer, c.Request)
		})
	}

	return r
}
