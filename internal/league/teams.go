package league

import "strings"

// TeamOption is a selectable favorite team for a settings form.
type TeamOption struct {
	Abbreviation string `json:"value"`
	Name         string `json:"label"`
}

var teamCatalog = map[ID][]TeamOption{
	NBA: {
		{"ATL", "Atlanta Hawks"}, {"BKN", "Brooklyn Nets"}, {"BOS", "Boston Celtics"},
		{"CHA", "Charlotte Hornets"}, {"CHI", "Chicago Bulls"}, {"CLE", "Cleveland Cavaliers"},
		{"DAL", "Dallas Mavericks"}, {"DEN", "Denver Nuggets"}, {"DET", "Detroit Pistons"},
		{"GSW", "Golden State Warriors"}, {"HOU", "Houston Rockets"}, {"IND", "Indiana Pacers"},
		{"LAC", "Los Angeles Clippers"}, {"LAL", "Los Angeles Lakers"}, {"MEM", "Memphis Grizzlies"},
		{"MIA", "Miami Heat"}, {"MIL", "Milwaukee Bucks"}, {"MIN", "Minnesota Timberwolves"},
		{"NOH", "New Orleans Pelicans"}, {"NYK", "New York Knicks"}, {"OKC", "Oklahoma City Thunder"},
		{"ORL", "Orlando Magic"}, {"PHI", "Philadelphia 76ers"}, {"PHO", "Phoenix Suns"},
		{"POR", "Portland Trail Blazers"}, {"SAC", "Sacramento Kings"}, {"TOR", "Toronto Raptors"},
		{"UTH", "Utah Jazz"}, {"WAS", "Washington Wizards"},
	},
	NFL: {
		{"ARI", "Arizona Cardinals"}, {"ATL", "Atlanta Falcons"}, {"BAL", "Baltimore Ravens"},
		{"BUF", "Buffalo Bills"}, {"CAR", "Carolina Panthers"}, {"CHI", "Chicago Bears"},
		{"CIN", "Cincinnati Bengals"}, {"CLE", "Cleveland Browns"}, {"DAL", "Dallas Cowboys"},
		{"DEN", "Denver Broncos"}, {"DET", "Detroit Lions"}, {"GB", "Green Bay Packers"},
		{"HOU", "Houston Texans"}, {"IND", "Indianapolis Colts"}, {"JAX", "Jacksonville Jaguars"},
		{"KC", "Kansas City Chiefs"}, {"MIA", "Miami Dolphins"}, {"MIN", "Minnesota Vikings"},
		{"NE", "New England Patriots"}, {"NO", "New Orleans Saints"}, {"NYG", "New York Giants"},
		{"NYJ", "New York Jets"}, {"LV", "Las Vegas Raiders"}, {"PHI", "Philadelphia Eagles"},
		{"PIT", "Pittsburgh Steelers"}, {"LAC", "Los Angeles Chargers"}, {"SF", "San Francisco 49ers"},
		{"SEA", "Seattle Seahawks"}, {"LAR", "Los Angeles Rams"}, {"TB", "Tampa Bay Buccaneers"},
		{"TEN", "Tennessee Titans"}, {"WAS", "Washington Commanders"},
	},
	MLS: {
		{"ATL", "Atlanta United"}, {"ATX", "Austin FC"}, {"MTL", "CF Montreal"},
		{"CLT", "Charlotte FC"}, {"CHI", "Chicago Fire"}, {"COL", "Colorado Rapids"},
		{"CLB", "Columbus Crew SC"}, {"DC", "D.C. United"}, {"CIN", "FC Cincinnati"},
		{"DAL", "FC Dallas"}, {"HOU", "Houston Dynamo"}, {"MIA", "Inter Miami"},
		{"LAN", "Los Angeles FC"}, {"LA", "Los Angeles Galaxy"}, {"MIN", "Minnesota United FC"},
		{"NSH", "Nashville SC"}, {"NE", "New England Revolution"}, {"NYC", "New York City"},
		{"NYR", "New York Red Bulls"}, {"ORL", "Orlando City"}, {"PHI", "Philadelphia Union"},
		{"POR", "Portland Timbers"}, {"RSL", "Real Salt Lake"}, {"SJ", "San Jose Earthquakes"},
		{"SEA", "Seattle Sounders"}, {"SKC", "Sporting Kansas City"}, {"STL", "St Louis City SC"},
		{"TOR", "Toronto FC"}, {"VAN", "Vancouver Whitecaps"},
	},
}

// Teams returns the known team options for a league, or nil when no catalog exists.
func Teams(id ID) []TeamOption {
	opts := teamCatalog[id]
	if len(opts) == 0 {
		return nil
	}
	out := make([]TeamOption, len(opts))
	copy(out, opts)
	return out
}

// KnownTeam reports whether abbr appears in the league's catalog.
// Leagues without a catalog accept any abbreviation.
func KnownTeam(id ID, abbr string) bool {
	opts, ok := teamCatalog[id]
	if !ok {
		return true
	}
	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	for _, o := range opts {
		if o.Abbreviation == abbr {
			return true
		}
	}
	return false
}
