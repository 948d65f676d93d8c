package feed

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
	"github.com/preston-bernstein/sports-hub-service/internal/metrics"
	"github.com/preston-bernstein/sports-hub-service/internal/preferences"
	"github.com/preston-bernstein/sports-hub-service/internal/providers"
	"github.com/preston-bernstein/sports-hub-service/internal/timeutil"
)

// Report summarizes what happened to each shown league during a refresh.
type Report struct {
	Fetched []league.ID
	Failed  []league.ID
	Skipped []league.ID
}

// AllFailed reports whether leagues were fetched and none succeeded.
func (r Report) AllFailed() bool {
	return len(r.Failed) > 0 && len(r.Fetched) == 0
}

// Aggregator merges per-league results into one ranked feed.
type Aggregator struct {
	registry    *league.Registry
	fetcher     *Fetcher
	loc         *time.Location
	logger      *slog.Logger
	metrics     *metrics.Recorder
	concurrency int
}

// AggregatorConfig wires an Aggregator.
type AggregatorConfig struct {
	Registry *league.Registry
	Fetcher  *Fetcher
	Location *time.Location
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
	// Concurrency caps simultaneous league fetches. Zero fetches every stale league at once.
	Concurrency int
}

// NewAggregator builds an aggregator from cfg.
func NewAggregator(cfg AggregatorConfig) *Aggregator {
	reg := cfg.Registry
	if reg == nil {
		reg = league.Default()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher(nil, nil, cfg.Logger, cfg.Metrics)
	}
	return &Aggregator{
		registry:    reg,
		fetcher:     fetcher,
		loc:         loc,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		concurrency: cfg.Concurrency,
	}
}

// Location returns the display timezone used for day boundaries.
func (a *Aggregator) Location() *time.Location {
	return a.loc
}

// FilterKey renders a favorite-team set as a stable comparison key.
func FilterKey(favorites preferences.TeamSet) string {
	return strings.Join(favorites.Slice(), ",")
}

// keepFavorites drops games without a favorite team. A list kept from an
// earlier cycle or a failed fetch may predate the current favorites.
func keepFavorites(gs []games.Game, favorites preferences.TeamSet) []games.Game {
	out := make([]games.Game, 0, len(gs))
	for _, g := range gs {
		if g.HasTeam(favorites) {
			out = append(out, g)
		}
	}
	return out
}

type leagueSlot struct {
	entry    league.Entry
	previous []games.Game
	filter   string
	stale    bool
	result   []games.Game
	outcome  Outcome
}

// Refresh re-fetches stale shown leagues, retains fresh ones, drops leagues no longer shown
// and ranks the result. previous is not modified.
func (a *Aggregator) Refresh(ctx context.Context, prefs preferences.Preferences, previous games.Feed, now time.Time) (games.Feed, Report) {
	date := timeutil.FormatDate(now.In(a.loc))

	slots := make([]*leagueSlot, 0, len(prefs.LeaguesToShow))
	for _, entry := range a.registry.Entries() {
		if !prefs.Shows(entry.ID) {
			continue
		}
		prevGames, _ := previous.League(entry.ID)
		slot := &leagueSlot{
			entry:    entry,
			previous: prevGames,
			stale:    NeedsRefresh(prevGames, previous.LeagueFetchedAt(entry.ID), now, a.loc),
		}
		if entry.OptIn {
			// A list filtered by other favorites cannot be reused.
			slot.filter = FilterKey(prefs.Favorites(entry.ID))
			if !previous.FilteredWith(entry.ID, slot.filter) {
				slot.stale = true
			}
		}
		slots = append(slots, slot)
	}

	var g errgroup.Group
	if a.concurrency > 0 {
		g.SetLimit(a.concurrency)
	}
	for _, slot := range slots {
		if !slot.stale {
			continue
		}
		g.Go(func() error {
			req := providers.Request{
				League:    slot.entry,
				Date:      date,
				Favorites: prefs.Favorites(slot.entry.ID),
			}
			slot.result, slot.outcome = a.fetcher.Fetch(ctx, req, slot.previous)
			return nil
		})
	}
	_ = g.Wait()

	next := games.Feed{
		PerLeague: make(map[league.ID][]games.Game, len(slots)),
		FetchedAt: make(map[league.ID]time.Time, len(slots)),
		Filters:   make(map[league.ID]string),
	}
	var report Report
	merged := make([]games.Game, 0)

	for _, slot := range slots {
		id := slot.entry.ID
		list := slot.previous
		switch {
		case !slot.stale:
			report.Skipped = append(report.Skipped, id)
			a.metrics.RecordLeagueFetch(string(id), string(OutcomeSkipped))
			logging.Debug(a.logger, "league current, fetch skipped", slog.String(logging.FieldLeague, string(id)))
			if at, ok := previous.FetchedAt[id]; ok {
				next.FetchedAt[id] = at
			} else if !previous.LastUpdated.IsZero() {
				next.FetchedAt[id] = previous.LastUpdated
			}
			if slot.entry.OptIn {
				next.Filters[id] = slot.filter
			}
		case slot.outcome.Failed():
			report.Failed = append(report.Failed, id)
			list = slot.result
			// A zero time forces a retry next cycle.
			next.FetchedAt[id] = previous.FetchedAt[id]
		default:
			report.Fetched = append(report.Fetched, id)
			list = slot.result
			next.FetchedAt[id] = now
			if slot.entry.OptIn {
				next.Filters[id] = slot.filter
			}
		}
		if slot.entry.OptIn {
			list = keepFavorites(list, prefs.Favorites(id))
		}

		ranked := RankLeague(list, prefs.Favorites(id))
		next.PerLeague[id] = ranked
		merged = append(merged, ranked...)
	}

	next.AllGames = RankAll(merged, prefs)

	if report.AllFailed() {
		next.LastUpdated = previous.LastUpdated
		next.LastUpdatedDisplay = previous.LastUpdatedDisplay
	} else {
		next.LastUpdated = now
		next.LastUpdatedDisplay = now.In(a.loc).Format(timeutil.ClockLayout)
	}

	logging.Info(logging.FromContext(ctx, a.logger), "feed aggregated",
		slog.Int(logging.FieldCount, len(next.AllGames)),
		slog.Int("fetched", len(report.Fetched)),
		slog.Int("failed", len(report.Failed)),
		slog.Int("skipped", len(report.Skipped)),
	)
	return next, report
}
