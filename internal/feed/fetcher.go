package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
	"github.com/preston-bernstein/sports-hub-service/internal/metrics"
	"github.com/preston-bernstein/sports-hub-service/internal/providers"
)

// Outcome describes how a league's list was produced in a cycle.
type Outcome string

const (
	// OutcomeFetched means fresh upstream data replaced the list.
	OutcomeFetched Outcome = metrics.OutcomeFetched
	// OutcomeStale means the fetch failed and the previous list was kept.
	OutcomeStale Outcome = metrics.OutcomeStale
	// OutcomeEmpty means the fetch failed with nothing to fall back to.
	OutcomeEmpty Outcome = metrics.OutcomeEmpty
	// OutcomeSkipped means the cached list was still current and no fetch happened.
	OutcomeSkipped Outcome = metrics.OutcomeSkipped
)

// Failed reports whether the outcome came from a failed fetch.
func (o Outcome) Failed() bool {
	return o == OutcomeStale || o == OutcomeEmpty
}

// Reporter receives user-facing error text.
type Reporter interface {
	Error(ctx context.Context, msg string)
}

// Fetcher performs one league fetch and absorbs every failure.
type Fetcher struct {
	provider providers.LeagueProvider
	reporter Reporter
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// NewFetcher builds a fetcher. reporter, logger and recorder may be nil.
func NewFetcher(provider providers.LeagueProvider, reporter Reporter, logger *slog.Logger, recorder *metrics.Recorder) *Fetcher {
	return &Fetcher{
		provider: provider,
		reporter: reporter,
		logger:   logger,
		metrics:  recorder,
	}
}

// Fetch returns the league's games. On failure it reports the error and falls back
// to a copy of previous, or an empty list when there is none. It never returns nil.
func (f *Fetcher) Fetch(ctx context.Context, req providers.Request, previous []games.Game) ([]games.Game, Outcome) {
	leagueName := string(req.League.ID)

	var (
		fresh []games.Game
		err   error
	)
	if f.provider == nil {
		err = providers.ErrProviderUnavailable
	} else {
		fresh, err = f.provider.FetchLeague(ctx, req)
	}

	if err != nil {
		msg := fmt.Sprintf("Error fetching %s scoreboard: %v", leagueName, err)
		if f.reporter != nil {
			f.reporter.Error(ctx, msg)
		}
		logging.Error(logging.FromContext(ctx, f.logger), "league fetch failed", err,
			slog.String(logging.FieldLeague, leagueName),
			slog.String(logging.FieldDate, req.Date),
		)
		if len(previous) > 0 {
			f.metrics.RecordLeagueFetch(leagueName, string(OutcomeStale))
			return games.CloneGames(previous), OutcomeStale
		}
		f.metrics.RecordLeagueFetch(leagueName, string(OutcomeEmpty))
		return []games.Game{}, OutcomeEmpty
	}

	if fresh == nil {
		fresh = []games.Game{}
	}
	f.metrics.RecordLeagueFetch(leagueName, string(OutcomeFetched))
	return carryFinalPeriods(previous, fresh), OutcomeFetched
}

// carryFinalPeriods keeps the period breakdown of games that were already final.
func carryFinalPeriods(previous, fresh []games.Game) []games.Game {
	if len(previous) == 0 {
		return fresh
	}
	finals := make(map[string][]games.Period, len(previous))
	for _, g := range previous {
		if g.StatusType == games.StatusFinal && len(g.Periods) > 0 {
			finals[g.GameID] = g.Periods
		}
	}
	if len(finals) == 0 {
		return fresh
	}
	for i := range fresh {
		if periods, ok := finals[fresh[i].GameID]; ok {
			fresh[i].Periods = append([]games.Period(nil), periods...)
		}
	}
	return fresh
}
