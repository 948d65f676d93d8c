package testutil

import (
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/app/sportshub"
	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/feed"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
	"github.com/preston-bernstein/sports-hub-service/internal/preferences"
	"github.com/preston-bernstein/sports-hub-service/internal/providers"
	"github.com/preston-bernstein/sports-hub-service/internal/store"
)

// ServiceOptions tunes NewService.
type ServiceOptions struct {
	Provider    providers.LeagueProvider
	Publisher   sportshub.Publisher
	Preferences *preferences.Preferences
	Feed        *games.Feed
	Now         func() time.Time
}

// NewService builds a feed service over an in-memory store, optionally preloaded with a feed.
func NewService(opts ServiceOptions) *sportshub.Service {
	ms := store.NewMemoryStore()
	if opts.Feed != nil {
		ms.SetFeed(*opts.Feed)
	}
	provider := opts.Provider
	if provider == nil {
		provider = EmptyProvider{}
	}
	prefs := preferences.Default()
	if opts.Preferences != nil {
		prefs = *opts.Preferences
	}
	reg := league.Default()
	var reporter feed.Reporter
	if opts.Publisher != nil {
		reporter = opts.Publisher
	}
	agg := feed.NewAggregator(feed.AggregatorConfig{
		Registry: reg,
		Fetcher:  feed.NewFetcher(provider, reporter, nil, nil),
		Location: time.UTC,
	})
	return sportshub.NewService(sportshub.Options{
		Store:       ms,
		Aggregator:  agg,
		Publisher:   opts.Publisher,
		Registry:    reg,
		Preferences: prefs,
		Now:         opts.Now,
	})
}
