package fixture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/domain/teams"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
	"github.com/preston-bernstein/sports-hub-service/internal/providers"
	"github.com/preston-bernstein/sports-hub-service/internal/timeutil"
)

var fallbackTeams = map[league.ID][]league.TeamOption{
	league.MLB:   {{Abbreviation: "NYY", Name: "New York Yankees"}, {Abbreviation: "BOS", Name: "Boston Red Sox"}, {Abbreviation: "LAD", Name: "Los Angeles Dodgers"}, {Abbreviation: "SF", Name: "San Francisco Giants"}, {Abbreviation: "CHC", Name: "Chicago Cubs"}, {Abbreviation: "STL", Name: "St. Louis Cardinals"}},
	league.NHL:   {{Abbreviation: "BOS", Name: "Boston Bruins"}, {Abbreviation: "TOR", Name: "Toronto Maple Leafs"}, {Abbreviation: "NYR", Name: "New York Rangers"}, {Abbreviation: "PIT", Name: "Pittsburgh Penguins"}, {Abbreviation: "EDM", Name: "Edmonton Oilers"}, {Abbreviation: "VGK", Name: "Vegas Golden Knights"}},
	league.WNBA:  {{Abbreviation: "LVA", Name: "Las Vegas Aces"}, {Abbreviation: "NYL", Name: "New York Liberty"}, {Abbreviation: "SEA", Name: "Seattle Storm"}, {Abbreviation: "CON", Name: "Connecticut Sun"}, {Abbreviation: "MIN", Name: "Minnesota Lynx"}, {Abbreviation: "IND", Name: "Indiana Fever"}},
	league.EPL:   {{Abbreviation: "ARS", Name: "Arsenal"}, {Abbreviation: "CHE", Name: "Chelsea"}, {Abbreviation: "LIV", Name: "Liverpool"}, {Abbreviation: "MCI", Name: "Manchester City"}, {Abbreviation: "MUN", Name: "Manchester United"}, {Abbreviation: "TOT", Name: "Tottenham Hotspur"}},
	league.NCAAF: {{Abbreviation: "MICH", Name: "Michigan Wolverines"}, {Abbreviation: "OSU", Name: "Ohio State Buckeyes"}, {Abbreviation: "BAMA", Name: "Alabama Crimson Tide"}, {Abbreviation: "UGA", Name: "Georgia Bulldogs"}, {Abbreviation: "TEX", Name: "Texas Longhorns"}, {Abbreviation: "ORE", Name: "Oregon Ducks"}},
	league.NCAAB: {{Abbreviation: "DUKE", Name: "Duke Blue Devils"}, {Abbreviation: "UNC", Name: "North Carolina Tar Heels"}, {Abbreviation: "UK", Name: "Kentucky Wildcats"}, {Abbreviation: "KU", Name: "Kansas Jayhawks"}, {Abbreviation: "UCONN", Name: "UConn Huskies"}, {Abbreviation: "GONZ", Name: "Gonzaga Bulldogs"}},
}

// Provider returns a static set of games per league, useful for local testing and bootstrapping.
type Provider struct {
	now func() time.Time
	loc *time.Location
}

// New creates a fixture provider with a time source. A nil location uses UTC.
func New(loc *time.Location) *Provider {
	if loc == nil {
		loc = time.UTC
	}
	return &Provider{
		now: time.Now,
		loc: loc,
	}
}

// FetchLeague returns three deterministic games: one final, one live, one upcoming.
func (p *Provider) FetchLeague(ctx context.Context, req providers.Request) ([]games.Game, error) {
	_ = ctx

	base := p.now().UTC().Truncate(time.Hour)
	if req.Date != "" {
		if parsed, err := timeutil.ParseDateIn(req.Date, p.loc); err == nil && !timeutil.SameDay(parsed, base, p.loc) {
			base = parsed.Add(18 * time.Hour).UTC()
		}
	}

	roster := teamsFor(req.League.ID)
	slots := []struct {
		offset time.Duration
		status games.StatusType
		label  string
	}{
		{-3 * time.Hour, games.StatusFinal, "Final"},
		{-1 * time.Hour, games.StatusLive, "In Progress"},
		{2 * time.Hour, games.StatusPregame, ""},
	}

	out := make([]games.Game, 0, len(slots))
	for i, slot := range slots {
		home := roster[(2*i)%len(roster)]
		away := roster[(2*i+1)%len(roster)]
		start := base.Add(slot.offset)
		g := games.Game{
			GameID:           fmt.Sprintf("fixture-%s-%d", strings.ToLower(string(req.League.ID)), i+1),
			League:           req.League.ID,
			StartTime:        start,
			StartTimeDisplay: start.In(p.loc).Format(timeutil.StartTimeLayout),
			HomeTeam:         home,
			AwayTeam:         away,
			Status:           slot.label,
			StatusType:       slot.status,
			GameType:         "season.type.regular",
			Periods:          []games.Period{},
		}
		if g.Status == "" {
			g.Status = g.StartTimeDisplay
		}
		if slot.status != games.StatusPregame {
			home, away := fmt.Sprint(10*(i+1)), fmt.Sprint(7*(i+1))
			g.HomeScore, g.AwayScore = &home, &away
			g.Periods = append(g.Periods, games.Period{PeriodID: 1, Name: "1st", HomePoints: home, AwayPoints: away})
		}
		if req.League.OptIn && !g.HasTeam(req.Favorites) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func teamsFor(id league.ID) []teams.Team {
	opts := league.Teams(id)
	if len(opts) == 0 {
		opts = fallbackTeams[id]
	}
	if len(opts) == 0 {
		opts = []league.TeamOption{{Abbreviation: "HOME", Name: "Home Team"}, {Abbreviation: "AWAY", Name: "Away Team"}}
	}
	out := make([]teams.Team, 0, len(opts))
	for _, o := range opts {
		out = append(out, teams.Team{
			ID:           strings.ToLower(string(id) + "-" + o.Abbreviation),
			FullName:     o.Name,
			Abbreviation: o.Abbreviation,
			Conference:   teams.NotAvailable,
			Division:     teams.NotAvailable,
			Record:       "0-0",
		})
	}
	return out
}
