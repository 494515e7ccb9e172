package main

import (
	"flag"
	"log"
	"time"

	"github.com/monadclick/monad_clicker/internal/api"
	"github.com/monadclick/monad_clicker/internal/config"
	"github.com/monadclick/monad_clicker/internal/db"
	"github.com/monadclick/monad_clicker/internal/game"
	"github.com/monadclick/monad_clicker/internal/identity"
	"github.com/monadclick/monad_clicker/internal/nft"
	"github.com/monadclick/monad_clicker/internal/websocket"
	"github.com/monadclick/monad_clicker/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	if cfg.Log.Directory != "" {
		if err := logger.EnableFileLogging(cfg.Log.Directory); err != nil {
			log.Fatalf("Failed to enable file logging: %v", err)
		}
	}

	logger.Info("Monad Clicker starting...")

	// Initialize the user store
	store, err := openStore(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to initialize store: %v", err)
	}
	defer store.Close()

	// External identity provider (display names); optional
	var provider identity.Provider = identity.NoopProvider{}
	if cfg.Game.IdentityURL != "" {
		provider = identity.NewFarcasterClient(cfg.Game.IdentityURL)
	}

	minter := nft.NewMinter(nft.NewMockChain())
	svc := game.NewService(store, provider, minter)

	// Initialize WebSocket manager
	wsManager := websocket.NewManager()
	go wsManager.Run()

	// Periodically push the current leaderboard to connected clients
	go broadcastLeaderboards(svc, wsManager, cfg.Game)

	// Set up and run the API server
	h := api.NewHandler(svc, wsManager, cfg.Game.LeaderboardSize)
	r := api.SetupRouter(h, wsManager)
	if err := r.Run(cfg.Server.Addr); err != nil {
		logger.Fatal("Failed to run server: %v", err)
	}
}

func openStore(cfg config.DBConfig) (db.UserStore, error) {
	if cfg.Driver == "memory" {
		logger.Warn("Using ephemeral in-memory store; all state is lost on restart")
		return db.NewMemoryStore(), nil
	}
	return db.NewPostgresStore(db.DefaultOperations{}, cfg.ConnString(), cfg.MigrationsPath)
}

func broadcastLeaderboards(svc *game.Service, wsManager *websocket.Manager, cfg config.GameConfig) {
	interval := cfg.BroadcastInterval.Duration
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		for _, kind := range []db.LeaderboardKind{db.LeaderboardCurrent, db.LeaderboardAlltime} {
			entries, err := svc.Leaderboard(string(kind), cfg.LeaderboardSize)
			if err != nil {
				logger.Error("Failed to get %s leaderboard: %v", kind, err)
				continue
			}
			if err := wsManager.BroadcastLeaderboardUpdate(kind, entries); err != nil {
				logger.Error("Failed to broadcast %s leaderboard: %v", kind, err)
			}
		}
	}
}
