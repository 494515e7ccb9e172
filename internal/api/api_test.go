package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/monadclick/monad_clicker/internal/db"
	"github.com/monadclick/monad_clicker/internal/errors"
	"github.com/monadclick/monad_clicker/internal/game"
)

// MockGameService is a mock implementation of GameService
type MockGameService struct {
	mock.Mock
}

func (m *MockGameService) GetOrCreateAccount(id, username string) (db.User, error) {
	args := m.Called(id, username)
	return args.Get(0).(db.User), args.Error(1)
}

func (m *MockGameService) PerformClick(id string) (game.ClickResult, error) {
	args := m.Called(id)
	return args.Get(0).(game.ClickResult), args.Error(1)
}

func (m *MockGameService) QuoteBoosterCosts(id string) (game.Quote, error) {
	args := m.Called(id)
	return args.Get(0).(game.Quote), args.Error(1)
}

func (m *MockGameService) PurchaseBooster(id, boosterType string) (game.PurchaseResult, error) {
	args := m.Called(id, boosterType)
	return args.Get(0).(game.PurchaseResult), args.Error(1)
}

func (m *MockGameService) MintNFTs(id string, spend int64) (game.MintResult, error) {
	args := m.Called(id, spend)
	return args.Get(0).(game.MintResult), args.Error(1)
}

func (m *MockGameService) Leaderboard(kind string, limit int) ([]db.LeaderboardEntry, error) {
	args := m.Called(kind, limit)
	result := args.Get(0)
	if result == nil {
		return nil, args.Error(1)
	}
	return result.([]db.LeaderboardEntry), args.Error(1)
}

func setupTestRouter(svc GameService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, nil, 100)
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/user", h.GetUser)
	r.POST("/user", h.UpdateUser)
	r.GET("/score", h.GetScore)
	r.POST("/click", h.Click)
	r.GET("/booster/prices", h.GetBoosterPrices)
	r.POST("/booster", h.PurchaseBooster)
	r.POST("/nft/mint", h.MintNFT)
	r.GET("/leaderboard", h.GetLeaderboard)
	r.GET("/healthz", h.Health)
	return r
}

func withCookie(req *http.Request, id string) *http.Request {
	req.AddCookie(&http.Cookie{Name: cookieName, Value: id})
	return req
}

func TestGetUserIssuesCookie(t *testing.T) {
	mockSvc := new(MockGameService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("GetOrCreateAccount", mock.AnythingOfType("string"), "").
		Return(db.User{ID: "generated", Username: "Player-genera"}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/user", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == cookieName && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "first contact must set the identity cookie")

	mockSvc.AssertExpectations(t)
}

func TestGetUserReusesCookie(t *testing.T) {
	mockSvc := new(MockGameService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("GetOrCreateAccount", "existing-id", "").
		Return(db.User{ID: "existing-id", Username: "alice"}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/user", nil)
	router.ServeHTTP(w, withCookie(req, "existing-id"))

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		User db.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "alice", response.User.Username)

	mockSvc.AssertExpectations(t)
}

func TestUpdateUserRename(t *testing.T) {
	mockSvc := new(MockGameService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("GetOrCreateAccount", "u1", "neo").
		Return(db.User{ID: "u1", Username: "neo"}, nil).Once()

	body, _ := json.Marshal(map[string]string{"username": "neo"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/user", bytes.NewReader(body))
	router.ServeHTTP(w, withCookie(req, "u1"))

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestClick(t *testing.T) {
	mockSvc := new(MockGameService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("PerformClick", "u1").
		Return(game.ClickResult{Score: 5, Clicks: 1, Gain: 5, TotalEarned: 5}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/click", nil)
	router.ServeHTTP(w, withCookie(req, "u1"))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(5), response["gain"])
	assert.Equal(t, float64(5), response["score"])

	mockSvc.AssertExpectations(t)
}

func TestPurchaseBoosterInvalidType(t *testing.T) {
	mockSvc := new(MockGameService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("PurchaseBooster", "u1", "megaclick").
		Return(game.PurchaseResult{}, &errors.ValidationError{Field: "booster type", Reason: "megaclick"}).Once()

	body, _ := json.Marshal(map[string]string{"type": "megaclick"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/booster", bytes.NewReader(body))
	router.ServeHTTP(w, withCookie(req, "u1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "booster type")

	mockSvc.AssertExpectations(t)
}

func TestPurchaseBoosterInsufficientNFTs(t *testing.T) {
	mockSvc := new(MockGameService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("PurchaseBooster", "u1", "crit").
		Return(game.PurchaseResult{}, &errors.InsufficientFundsError{
			Currency: "nfts", Required: 2, Available: 1,
		}).Once()

	body, _ := json.Marshal(map[string]string{"type": "crit"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/booster", bytes.NewReader(body))
	router.ServeHTTP(w, withCookie(req, "u1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response["required"])
	assert.Equal(t, float64(1), response["available"])

	mockSvc.AssertExpectations(t)
}

func TestMintQuotaExhausted(t *testing.T) {
	mockSvc := new(MockGameService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("MintNFTs", "u1", int64(1000)).
		Return(game.MintResult{}, &errors.QuotaExceededError{Limit: 5}).Once()

	body, _ := json.Marshal(map[string]int64{"amount": 1000})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/nft/mint", bytes.NewReader(body))
	router.ServeHTTP(w, withCookie(req, "u1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(5), response["limit"])

	mockSvc.AssertExpectations(t)
}

func TestGetLeaderboard(t *testing.T) {
	mockSvc := new(MockGameService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("Leaderboard", "alltime", 100).
		Return([]db.LeaderboardEntry{
			{ID: "a", Username: "alice", Value: 9000},
			{ID: "b", Username: "bob", Value: 7000},
		}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/leaderboard?type=alltime", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Leaderboard []db.LeaderboardEntry `json:"leaderboard"`
		Type        string                `json:"type"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "alltime", response.Type)
	assert.Len(t, response.Leaderboard, 2)
	assert.Equal(t, "alice", response.Leaderboard[0].Username)

	mockSvc.AssertExpectations(t)
}

func TestGetLeaderboardDefaultsToCurrent(t *testing.T) {
	mockSvc := new(MockGameService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("Leaderboard", "current", 100).
		Return([]db.LeaderboardEntry{}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/leaderboard", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestDatabaseErrorsAreOpaque(t *testing.T) {
	mockSvc := new(MockGameService)
	router := setupTestRouter(mockSvc)

	mockSvc.On("Leaderboard", "current", 100).
		Return(nil, &errors.DatabaseError{Operation: "query leaderboard"}).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/leaderboard", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Internal server error", response["error"])

	mockSvc.AssertExpectations(t)
}

func TestHealthz(t *testing.T) {
	mockSvc := new(MockGameService)
	router := setupTestRouter(mockSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
