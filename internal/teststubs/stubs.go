package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
	"github.com/preston-bernstein/sports-hub-service/internal/providers"
)

// StubProvider is a test double for providers.LeagueProvider with per-league responses.
type StubProvider struct {
	Calls  atomic.Int32
	Notify chan struct{}

	mu       sync.Mutex
	games    map[league.ID][]games.Game
	errs     map[league.ID]error
	calls    map[league.ID]int
	requests []providers.Request
}

// NewStubProvider returns a provider that yields no games until configured.
func NewStubProvider() *StubProvider {
	return &StubProvider{
		games: make(map[league.ID][]games.Game),
		errs:  make(map[league.ID]error),
		calls: make(map[league.ID]int),
	}
}

// SetGames configures the games returned for a league and clears its error.
func (s *StubProvider) SetGames(id league.ID, gs ...games.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[id] = gs
	delete(s.errs, id)
}

// SetErr makes the league fail with err.
func (s *StubProvider) SetErr(id league.ID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[id] = err
}

// FetchLeague returns configured games and error while tracking calls.
func (s *StubProvider) FetchLeague(ctx context.Context, req providers.Request) ([]games.Game, error) {
	_ = ctx
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.Calls.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	id := req.League.ID
	s.calls[id]++
	s.requests = append(s.requests, req)
	if err := s.errs[id]; err != nil {
		return nil, err
	}
	out := games.CloneGames(s.games[id])
	for i := range out {
		if out[i].League == "" {
			out[i].League = id
		}
	}
	return out, nil
}

// CallsFor returns how many times a league was fetched.
func (s *StubProvider) CallsFor(id league.ID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[id]
}

// Requests returns every request received, in arrival order.
func (s *StubProvider) Requests() []providers.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]providers.Request(nil), s.requests...)
}

// StubPublisher records every outbound event.
type StubPublisher struct {
	mu     sync.Mutex
	feeds  []games.Feed
	logs   []string
	warns  []string
	errors []string
}

// FeedUpdated records the feed.
func (p *StubPublisher) FeedUpdated(ctx context.Context, feed games.Feed) {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	p.feeds = append(p.feeds, feed.Clone())
}

// Log records an informational message.
func (p *StubPublisher) Log(ctx context.Context, msg string) {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logs = append(p.logs, msg)
}

// Warn records a warning.
func (p *StubPublisher) Warn(ctx context.Context, msg string) {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	p.warns = append(p.warns, msg)
}

// Error records an error message.
func (p *StubPublisher) Error(ctx context.Context, msg string) {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors = append(p.errors, msg)
}

// Feeds returns the published feeds.
func (p *StubPublisher) Feeds() []games.Feed {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]games.Feed(nil), p.feeds...)
}

// Warnings returns recorded warnings.
func (p *StubPublisher) Warnings() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.warns...)
}

// Errors returns recorded error messages.
func (p *StubPublisher) Errors() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.errors...)
}

// Logs returns recorded informational messages.
func (p *StubPublisher) Logs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.logs...)
}
