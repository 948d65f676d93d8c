package testutil

import (
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/domain/teams"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
	"github.com/preston-bernstein/sports-hub-service/internal/timeutil"
)

// SampleTeam returns a team fixture identified by its abbreviation.
func SampleTeam(abbr string) teams.Team {
	return teams.Team{
		ID:           "t." + abbr,
		FirstName:    abbr,
		LastName:     "Team",
		FullName:     abbr + " Team",
		Abbreviation: abbr,
		Conference:   teams.NotAvailable,
		Division:     teams.NotAvailable,
		Record:       "1-0",
	}
}

// SampleGame returns a minimal pregame fixture with the provided id.
func SampleGame(id string, lg league.ID) games.Game {
	return games.Game{
		GameID:           id,
		League:           lg,
		StartTime:        time.Date(2024, 11, 5, 23, 0, 0, 0, time.UTC),
		StartTimeDisplay: "6:00 PM EST",
		HomeTeam:         SampleTeam("HOM"),
		AwayTeam:         SampleTeam("AWY"),
		Status:           "6:00 PM EST",
		StatusType:       games.StatusPregame,
		Periods:          []games.Period{},
	}
}

// SampleFeed wraps games into a feed keyed by each game's league.
func SampleFeed(updated time.Time, gs ...games.Game) games.Feed {
	f := games.Feed{
		AllGames:           append([]games.Game{}, gs...),
		PerLeague:          make(map[league.ID][]games.Game),
		LastUpdated:        updated,
		LastUpdatedDisplay: updated.Format(timeutil.ClockLayout),
	}
	for _, g := range gs {
		f.PerLeague[g.League] = append(f.PerLeague[g.League], g)
	}
	return f
}
