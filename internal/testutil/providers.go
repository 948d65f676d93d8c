package testutil

import (
	"context"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/providers"
)

// GoodProvider returns the provided games for every league with no error.
type GoodProvider struct {
	Games []games.Game
}

func (p GoodProvider) FetchLeague(ctx context.Context, req providers.Request) ([]games.Game, error) {
	_ = ctx
	out := games.CloneGames(p.Games)
	for i := range out {
		out[i].League = req.League.ID
	}
	return out, nil
}

// ErrProvider always returns the provided error.
type ErrProvider struct {
	Err error
}

func (p ErrProvider) FetchLeague(ctx context.Context, req providers.Request) ([]games.Game, error) {
	_ = ctx
	_ = req
	return nil, p.Err
}

// EmptyProvider returns no games, no error.
type EmptyProvider struct{}

func (EmptyProvider) FetchLeague(ctx context.Context, req providers.Request) ([]games.Game, error) {
	_ = ctx
	_ = req
	return []games.Game{}, nil
}

// UnavailableProvider returns ErrProviderUnavailable.
type UnavailableProvider struct{}

func (UnavailableProvider) FetchLeague(ctx context.Context, req providers.Request) ([]games.Game, error) {
	_ = ctx
	_ = req
	return nil, providers.ErrProviderUnavailable
}
