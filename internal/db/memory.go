package db

import (
	"sort"
	"sync"

	"github.com/monadclick/monad_clicker/internal/errors"
)

// MemoryStore is an ephemeral UserStore used by tests and selectable as the
// "memory" driver. All mutations run under one lock, so a user write and its
// leaderboard upserts are observed atomically.
type MemoryStore struct {
	mu      sync.Mutex
	users   map[string]User
	current []LeaderboardEntry
	alltime []LeaderboardEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

func (s *MemoryStore) GetUser(id string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, &errors.NotFoundError{Resource: "user", Identifier: id}
	}
	return u, nil
}

func (s *MemoryStore) CreateUser(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) SetUsername(id, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return &errors.NotFoundError{Resource: "user", Identifier: id}
	}
	u.Username = username
	s.users[id] = u
	return nil
}

func (s *MemoryStore) ResetDailyMints(id, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return &errors.NotFoundError{Resource: "user", Identifier: id}
	}
	u.DailyMints = 0
	u.LastMintDate = date
	s.users[id] = u
	return nil
}

func (s *MemoryStore) SaveClickResult(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = u
	s.current = upsertProjection(s.current, LeaderboardEntry{ID: u.ID, Username: u.Username, Value: u.Score})
	s.alltime = upsertProjection(s.alltime, LeaderboardEntry{ID: u.ID, Username: u.Username, Value: u.TotalEarned})
	return nil
}

func (s *MemoryStore) SaveBoosterPurchase(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) SaveMintResult(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = u
	s.current = upsertProjection(s.current, LeaderboardEntry{ID: u.ID, Username: u.Username, Value: u.Score})
	return nil
}

// upsertProjection replaces the entry by id (or appends) and stable-sorts
// descending. The full projection is retained and capped only on read, like
// the SQL backend's LIMIT, so a user pushed past the visible cutoff resurfaces
// as soon as others fall below them. The stable sort keeps ties in their prior
// relative order rather than inventing a secondary key.
func upsertProjection(entries []LeaderboardEntry, e LeaderboardEntry) []LeaderboardEntry {
	found := false
	for i := range entries {
		if entries[i].ID == e.ID {
			entries[i] = e
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	return entries
}

func (s *MemoryStore) GetLeaderboard(kind LeaderboardKind, limit int) ([]LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var src []LeaderboardEntry
	switch kind {
	case LeaderboardCurrent:
		src = s.current
	case LeaderboardAlltime:
		src = s.alltime
	default:
		return nil, &errors.ValidationError{Field: "leaderboard kind", Reason: string(kind)}
	}

	if limit > len(src) {
		limit = len(src)
	}
	out := make([]LeaderboardEntry, limit)
	copy(out, src[:limit])
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
