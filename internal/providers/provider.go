package providers

import (
	"context"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
)

// Request describes one league's scoreboard fetch.
type Request struct {
	League league.Entry
	// Date is the YYYY-MM-DD scoreboard day in the display timezone.
	Date string
	// Favorites is the league's favorite team set, used by opt-in leagues.
	Favorites map[string]struct{}
}

// LeagueProvider fetches and normalizes one league's games for a day.
type LeagueProvider interface {
	FetchLeague(ctx context.Context, req Request) ([]games.Game, error)
}

// LeagueProviderFunc adapts a function to LeagueProvider.
type LeagueProviderFunc func(ctx context.Context, req Request) ([]games.Game, error)

// FetchLeague calls f.
func (f LeagueProviderFunc) FetchLeague(ctx context.Context, req Request) ([]games.Game, error) {
	return f(ctx, req)
}
