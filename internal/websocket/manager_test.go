package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monadclick/monad_clicker/internal/db"
	"github.com/monadclick/monad_clicker/internal/types"
)

// capture drains one frame off the unbuffered broadcast channel while the
// broadcast call runs.
func capture(t *testing.T, m *Manager, send func() error) map[string]interface{} {
	t.Helper()

	errCh := make(chan error, 1)
	go func() { errCh <- send() }()

	select {
	case data := <-m.broadcast:
		require.NoError(t, <-errCh)
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &payload))
		return payload
	case <-time.After(time.Second):
		t.Fatal("broadcast never produced a frame")
		return nil
	}
}

func TestBroadcastScoreUpdatePayload(t *testing.T) {
	m := NewManager()

	payload := capture(t, m, func() error {
		return m.BroadcastScoreUpdate("u1", "alice", 105, 5, true)
	})

	assert.Equal(t, "score_update", payload["type"])
	assert.Equal(t, "u1", payload["id"])
	assert.Equal(t, "alice", payload["username"])
	assert.Equal(t, float64(105), payload["score"])
	assert.Equal(t, float64(5), payload["gain"])
	assert.Equal(t, true, payload["crit"])
}

func TestBroadcastLeaderboardUpdatePayload(t *testing.T) {
	m := NewManager()

	entries := []db.LeaderboardEntry{
		{ID: "a", Username: "alice", Value: 1000},
		{ID: "b", Username: "bob", Value: 800},
	}

	payload := capture(t, m, func() error {
		return m.BroadcastLeaderboardUpdate(db.LeaderboardCurrent, entries)
	})

	assert.Equal(t, "leaderboard_update", payload["type"])
	assert.Equal(t, "current", payload["kind"])

	board, ok := payload["leaderboard"].([]interface{})
	require.True(t, ok)
	require.Len(t, board, 2)
	first := board[0].(map[string]interface{})
	assert.Equal(t, "alice", first["username"])
}

func TestBroadcastMintEventPayload(t *testing.T) {
	m := NewManager()

	event := types.MintEvent{
		Username: "alice",
		Tokens:   []types.Token{{ID: "monad-1", Name: "Monad Rare #7", Rarity: "Rare", Color: "#3b82f6"}},
		TxHash:   "0xabc",
	}

	payload := capture(t, m, func() error {
		return m.BroadcastMintEvent(event)
	})

	assert.Equal(t, "nft_mint", payload["type"])
	inner, ok := payload["event"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice", inner["username"])
	assert.Equal(t, "0xabc", inner["txHash"])
}

func TestBroadcastReachesConnectedClient(t *testing.T) {
	m := NewManager()
	go m.Run()

	server := httptest.NewServer(http.HandlerFunc(m.HandleWebSocket))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration goes through the manager loop; give it a beat before
	// broadcasting so the frame has a recipient.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, m.BroadcastScoreUpdate("u1", "alice", 42, 1, false))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "score_update", payload["type"])
	assert.Equal(t, float64(42), payload["score"])
}
