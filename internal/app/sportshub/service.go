package sportshub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/feed"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
	"github.com/preston-bernstein/sports-hub-service/internal/metrics"
	"github.com/preston-bernstein/sports-hub-service/internal/preferences"
)

// DefaultMaxAge is how old a feed may be before a read triggers a refresh.
const DefaultMaxAge = 15 * time.Minute

// ErrAllLeaguesFailed is returned by Refresh when every fetched league failed.
var ErrAllLeaguesFailed = errors.New("all league fetches failed")

// Store defines the contract for persisting and retrieving the feed.
type Store interface {
	Feed() games.Feed
	SetFeed(feed games.Feed)
	LeagueGames(id league.ID) ([]games.Game, bool)
	GetGame(id league.ID, gameID string) (games.Game, bool)
	Invalidate(ids ...league.ID)
	Clear()
}

// Publisher receives outbound events.
type Publisher interface {
	FeedUpdated(ctx context.Context, feed games.Feed)
	Log(ctx context.Context, msg string)
	Warn(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}

// Options wires a Service.
type Options struct {
	Store       Store
	Aggregator  *feed.Aggregator
	Publisher   Publisher
	Registry    *league.Registry
	Preferences preferences.Preferences
	Logger      *slog.Logger
	Metrics     *metrics.Recorder
	// MaxAge bounds how stale a feed read may be. Zero uses DefaultMaxAge.
	MaxAge time.Duration
	Now    func() time.Time
}

// Service owns the feed state and coordinates refreshes.
type Service struct {
	store     Store
	agg       *feed.Aggregator
	publisher Publisher
	registry  *league.Registry
	logger    *slog.Logger
	metrics   *metrics.Recorder
	maxAge    time.Duration
	now       func() time.Time

	// refreshMu serializes refreshes so at most one is in flight.
	refreshMu sync.Mutex

	prefsMu sync.RWMutex
	prefs   preferences.Preferences
}

// NewService constructs a Service from opts.
func NewService(opts Options) *Service {
	reg := opts.Registry
	if reg == nil {
		reg = league.Default()
	}
	agg := opts.Aggregator
	if agg == nil {
		agg = feed.NewAggregator(feed.AggregatorConfig{Registry: reg, Logger: opts.Logger, Metrics: opts.Metrics})
	}
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	prefs := opts.Preferences
	if prefs.LeaguesToShow == nil && prefs.FavoriteLeague == "" {
		prefs = preferences.Default()
	}
	return &Service{
		store:     opts.Store,
		agg:       agg,
		publisher: opts.Publisher,
		registry:  reg,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		maxAge:    maxAge,
		now:       now,
		prefs:     prefs.Clone(),
	}
}

// Refresh runs one aggregation cycle, stores the result and publishes it.
// It returns ErrAllLeaguesFailed without publishing when nothing could be fetched.
func (s *Service) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Service) refreshLocked(ctx context.Context) error {
	s.log(ctx, "Fetching sports data")
	start := s.now()
	prefs := s.Preferences()
	previous := s.store.Feed()

	next, report := s.agg.Refresh(ctx, prefs, previous, start)
	s.store.SetFeed(next)

	var err error
	if report.AllFailed() {
		err = fmt.Errorf("%w: %v", ErrAllLeaguesFailed, report.Failed)
	}
	s.metrics.RecordRefreshCycle(time.Since(start), err)
	if err != nil {
		logging.Warn(logging.FromContext(ctx, s.logger), "refresh produced no fresh data",
			slog.Int(logging.FieldCount, len(report.Failed)),
		)
		return err
	}

	if s.publisher != nil {
		s.publisher.FeedUpdated(ctx, next.Clone())
	}
	s.log(ctx, "Sports feed updated")
	return nil
}

func (s *Service) log(ctx context.Context, msg string) {
	if s.publisher != nil {
		s.publisher.Log(ctx, msg)
	}
}

// Feed returns the current feed, refreshing first when it was never built or is
// more than maxAge old.
func (s *Service) Feed(ctx context.Context) games.Feed {
	current := s.store.Feed()
	if s.fresh(current) {
		return current
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Another caller may have refreshed while we waited.
	current = s.store.Feed()
	if s.fresh(current) {
		return current
	}
	if err := s.refreshLocked(ctx); err != nil {
		logging.Warn(logging.FromContext(ctx, s.logger), "on-demand refresh failed", slog.Any("error", err))
	}
	return s.store.Feed()
}

// LeagueGames returns one league's ranked games and whether the league is shown.
func (s *Service) LeagueGames(ctx context.Context, id league.ID) ([]games.Game, bool) {
	f := s.Feed(ctx)
	gs, ok := f.League(id)
	if !ok {
		return nil, false
	}
	return gs, true
}

// GameByID returns one league's game from the current feed.
func (s *Service) GameByID(id league.ID, gameID string) (games.Game, bool) {
	return s.store.GetGame(id, gameID)
}

func (s *Service) fresh(f games.Feed) bool {
	if !f.Updated() {
		return false
	}
	return s.now().Sub(f.LastUpdated) <= s.maxAge
}

// UpdatePreferences validates and applies doc, then refreshes immediately.
// Invalid input is reported as a warning and leaves every setting untouched.
// The refresh lock is held throughout so an in-flight cycle built from the old
// preferences cannot land after the new ones take effect.
func (s *Service) UpdatePreferences(ctx context.Context, doc preferences.Document) (preferences.Preferences, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.log(ctx, "Updating preferences")

	s.prefsMu.Lock()
	current := s.prefs
	next, err := preferences.Apply(doc, s.registry, current)
	if err != nil {
		s.prefsMu.Unlock()
		if s.publisher != nil {
			s.publisher.Warn(ctx, fmt.Sprintf("Invalid preferences: %v", err))
		}
		return current.Clone(), err
	}
	s.prefs = next
	s.prefsMu.Unlock()

	if unknown := next.UnknownTeams(); len(unknown) > 0 && s.publisher != nil {
		s.publisher.Warn(ctx, fmt.Sprintf("Unknown favorite teams: %v", unknown))
	}

	if changed := s.changedOptIn(current, next); len(changed) > 0 {
		s.store.Invalidate(changed...)
	}

	if err := s.refreshLocked(ctx); err != nil {
		logging.Warn(logging.FromContext(ctx, s.logger), "refresh after preference change failed", slog.Any("error", err))
	}
	return next.Clone(), nil
}

// changedOptIn lists opt-in leagues whose favorite teams differ, since their cached
// lists were filtered by the old favorites.
func (s *Service) changedOptIn(before, after preferences.Preferences) []league.ID {
	var out []league.ID
	for _, entry := range s.registry.Entries() {
		if !entry.OptIn {
			continue
		}
		if !before.Favorites(entry.ID).Equal(after.Favorites(entry.ID)) {
			out = append(out, entry.ID)
		}
	}
	return out
}

// Preferences returns a copy of the active preferences.
func (s *Service) Preferences() preferences.Preferences {
	s.prefsMu.RLock()
	defer s.prefsMu.RUnlock()
	return s.prefs.Clone()
}

// Interval returns the active refresh interval.
func (s *Service) Interval() time.Duration {
	return s.Preferences().Interval()
}

// Registry returns the league registry the service was built with.
func (s *Service) Registry() *league.Registry {
	return s.registry
}

// Stop clears the last update and every cached league list. The next read refetches.
func (s *Service) Stop(ctx context.Context) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	s.store.Clear()
	logging.Info(logging.FromContext(ctx, s.logger), "feed state cleared")
}
