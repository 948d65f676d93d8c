package feed

import (
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/domain/teams"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
)

var testNow = time.Date(2024, 11, 5, 20, 0, 0, 0, time.UTC)

func game(id string, lg league.ID, status games.StatusType, home, away string) games.Game {
	return games.Game{
		GameID:     id,
		League:     lg,
		StartTime:  testNow.Add(time.Hour),
		StatusType: status,
		HomeTeam:   teams.Team{Abbreviation: home},
		AwayTeam:   teams.Team{Abbreviation: away},
	}
}

func ids(gs []games.Game) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.GameID
	}
	return out
}
