package games

import (
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/teams"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
)

// StatusType is the normalized lifecycle state of a game.
type StatusType string

const (
	StatusPregame   StatusType = "pregame"
	StatusLive      StatusType = "live"
	StatusFinal     StatusType = "final"
	StatusPostponed StatusType = "postponed"
)

// Priority orders statuses for display. Lower sorts first; unknown values sort last.
func (s StatusType) Priority() int {
	switch s {
	case StatusLive:
		return 1
	case StatusPregame:
		return 2
	case StatusFinal:
		return 3
	case StatusPostponed:
		return 4
	default:
		return 5
	}
}

// Period is one scoring segment (quarter, half, inning...) of a game.
type Period struct {
	PeriodID   int    `json:"periodId"`
	Name       string `json:"name"`
	AwayPoints string `json:"awayPoints"`
	HomePoints string `json:"homePoints"`
}

// Game is the canonical game shape exposed by the service.
type Game struct {
	GameID           string     `json:"gameId"`
	League           league.ID  `json:"league"`
	StartTime        time.Time  `json:"startTime"`
	StartTimeDisplay string     `json:"startTimeDisplay"`
	HomeTeam         teams.Team `json:"homeTeam"`
	AwayTeam         teams.Team `json:"awayTeam"`
	HomeScore        *string    `json:"homeScore,omitempty"`
	AwayScore        *string    `json:"awayScore,omitempty"`
	Status           string     `json:"status"`
	StatusType       StatusType `json:"statusType"`
	GameType         string     `json:"gameType"`
	TVCoverage       string     `json:"tvCoverage"`
	Periods          []Period   `json:"periods"`
	Week             *int       `json:"week,omitempty"`
}

// LiveRelevant reports whether the game is in progress or should already have started.
func (g Game) LiveRelevant(now time.Time) bool {
	switch g.StatusType {
	case StatusLive:
		return true
	case StatusPregame:
		return !g.StartTime.IsZero() && !g.StartTime.After(now)
	default:
		return false
	}
}

// HasTeam reports whether either side's abbreviation is in set.
func (g Game) HasTeam(set map[string]struct{}) bool {
	if len(set) == 0 {
		return false
	}
	if _, ok := set[g.HomeTeam.Abbreviation]; ok {
		return true
	}
	_, ok := set[g.AwayTeam.Abbreviation]
	return ok
}

// CloneGames copies a slice of games including their period slices.
// A nil input returns nil.
func CloneGames(in []Game) []Game {
	if in == nil {
		return nil
	}
	out := make([]Game, len(in))
	for i, g := range in {
		if g.Periods != nil {
			g.Periods = append([]Period(nil), g.Periods...)
		}
		out[i] = g
	}
	return out
}

// Feed is the aggregate payload published to display clients.
// A league missing from PerLeague is not shown; a present empty slice is shown with no games.
type Feed struct {
	AllGames           []Game               `json:"allGames"`
	PerLeague          map[league.ID][]Game `json:"perLeague"`
	LastUpdated        time.Time            `json:"lastUpdated"`
	LastUpdatedDisplay string               `json:"lastUpdatedDisplay"`
	// FetchedAt records each league's last successful upstream fetch.
	FetchedAt map[league.ID]time.Time `json:"-"`
	// Filters records the favorite-team filter each opt-in league's list was fetched with.
	Filters map[league.ID]string `json:"-"`
}

// League returns the games for one league and whether the league is shown.
func (f Feed) League(id league.ID) ([]Game, bool) {
	gs, ok := f.PerLeague[id]
	return gs, ok
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (f Feed) Clone() Feed {
	out := Feed{
		AllGames:           CloneGames(f.AllGames),
		LastUpdated:        f.LastUpdated,
		LastUpdatedDisplay: f.LastUpdatedDisplay,
	}
	if f.FetchedAt != nil {
		out.FetchedAt = make(map[league.ID]time.Time, len(f.FetchedAt))
		for id, at := range f.FetchedAt {
			out.FetchedAt[id] = at
		}
	}
	if f.Filters != nil {
		out.Filters = make(map[league.ID]string, len(f.Filters))
		for id, key := range f.Filters {
			out.Filters[id] = key
		}
	}
	if f.PerLeague != nil {
		out.PerLeague = make(map[league.ID][]Game, len(f.PerLeague))
		for id, gs := range f.PerLeague {
			cloned := CloneGames(gs)
			if cloned == nil {
				cloned = []Game{}
			}
			out.PerLeague[id] = cloned
		}
	}
	return out
}

// LeagueFetchedAt returns when a league was last fetched, falling back to LastUpdated.
func (f Feed) LeagueFetchedAt(id league.ID) time.Time {
	if at, ok := f.FetchedAt[id]; ok {
		return at
	}
	return f.LastUpdated
}

// FilteredWith reports whether a league's list was fetched with the given filter.
// A league with no recorded filter never matches.
func (f Feed) FilteredWith(id league.ID, filter string) bool {
	got, ok := f.Filters[id]
	return ok && got == filter
}

// Updated reports whether the feed has ever been refreshed.
func (f Feed) Updated() bool {
	return !f.LastUpdated.IsZero()
}
