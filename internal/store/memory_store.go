package store

import (
	"sync"
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
)

// MemoryStore keeps a thread-safe copy of the latest feed in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	feed  games.Feed
	index map[gameKey]games.Game
}

// gameKey scopes a game ID to its league; IDs may repeat across leagues.
type gameKey struct {
	league league.ID
	id     string
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[gameKey]games.Game),
	}
}

// Feed returns a copy of the current feed.
func (s *MemoryStore) Feed() games.Feed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feed.Clone()
}

// SetFeed replaces the stored feed with a copy of feed.
func (s *MemoryStore) SetFeed(feed games.Feed) {
	next := feed.Clone()
	index := make(map[gameKey]games.Game, len(next.AllGames))
	for _, g := range next.AllGames {
		index[gameKey{league: g.League, id: g.GameID}] = g
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed = next
	s.index = index
}

// LeagueGames returns a copy of one league's list and whether the league is shown.
func (s *MemoryStore) LeagueGames(id league.ID) ([]games.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gs, ok := s.feed.PerLeague[id]
	if !ok {
		return nil, false
	}
	out := games.CloneGames(gs)
	if out == nil {
		out = []games.Game{}
	}
	return out, true
}

// GetGame retrieves one league's game by ID.
func (s *MemoryStore) GetGame(id league.ID, gameID string) (games.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.index[gameKey{league: id, id: gameID}]
	if !ok {
		return games.Game{}, false
	}
	return games.CloneGames([]games.Game{g})[0], true
}

// Invalidate clears the fetch times and filters of ids so the next refresh re-fetches them.
func (s *MemoryStore) Invalidate(ids ...league.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) == 0 {
		return
	}
	if s.feed.FetchedAt == nil {
		s.feed.FetchedAt = make(map[league.ID]time.Time, len(ids))
	}
	for _, id := range ids {
		s.feed.FetchedAt[id] = time.Time{}
		delete(s.feed.Filters, id)
	}
}

// Clear drops the stored feed.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed = games.Feed{}
	s.index = make(map[gameKey]games.Game)
}
