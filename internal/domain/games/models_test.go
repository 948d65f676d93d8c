package games

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/teams"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
)

func TestStatusTypeValuesAndPriority(t *testing.T) {
	expected := []struct {
		status   StatusType
		value    string
		priority int
	}{
		{StatusLive, "live", 1},
		{StatusPregame, "pregame", 2},
		{StatusFinal, "final", 3},
		{StatusPostponed, "postponed", 4},
		{StatusType("mystery"), "mystery", 5},
	}

	for _, tc := range expected {
		if string(tc.status) != tc.value {
			t.Fatalf("expected %q got %q", tc.value, tc.status)
		}
		if got := tc.status.Priority(); got != tc.priority {
			t.Fatalf("expected priority %d for %s, got %d", tc.priority, tc.status, got)
		}
	}
}

func TestGameJSONTags(t *testing.T) {
	type fieldCheck struct {
		name string
		tag  string
	}

	gameType := reflect.TypeOf(Game{})
	fields := []fieldCheck{
		{"GameID", "gameId"},
		{"League", "league"},
		{"StartTime", "startTime"},
		{"StartTimeDisplay", "startTimeDisplay"},
		{"HomeTeam", "homeTeam"},
		{"AwayTeam", "awayTeam"},
		{"HomeScore", "homeScore,omitempty"},
		{"AwayScore", "awayScore,omitempty"},
		{"Status", "status"},
		{"StatusType", "statusType"},
		{"GameType", "gameType"},
		{"TVCoverage", "tvCoverage"},
		{"Periods", "periods"},
		{"Week", "week,omitempty"},
	}

	for _, fc := range fields {
		field, ok := gameType.FieldByName(fc.name)
		if !ok {
			t.Fatalf("missing field %s", fc.name)
		}
		if jsonTag := field.Tag.Get("json"); jsonTag != fc.tag {
			t.Fatalf("field %s expected json tag %s, got %s", fc.name, fc.tag, jsonTag)
		}
	}
}

func TestLiveRelevant(t *testing.T) {
	now := time.Date(2024, 11, 5, 20, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		game Game
		want bool
	}{
		{"live", Game{StatusType: StatusLive}, true},
		{"pregame past start", Game{StatusType: StatusPregame, StartTime: now.Add(-10 * time.Minute)}, true},
		{"pregame at start", Game{StatusType: StatusPregame, StartTime: now}, true},
		{"pregame future", Game{StatusType: StatusPregame, StartTime: now.Add(time.Hour)}, false},
		{"pregame unknown start", Game{StatusType: StatusPregame}, false},
		{"final", Game{StatusType: StatusFinal, StartTime: now.Add(-3 * time.Hour)}, false},
		{"postponed", Game{StatusType: StatusPostponed, StartTime: now.Add(-time.Hour)}, false},
	}

	for _, tc := range cases {
		if got := tc.game.LiveRelevant(now); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestHasTeam(t *testing.T) {
	g := Game{
		HomeTeam: teams.Team{Abbreviation: "BOS"},
		AwayTeam: teams.Team{Abbreviation: "NYK"},
	}
	if !g.HasTeam(map[string]struct{}{"NYK": {}}) {
		t.Fatalf("expected away team match")
	}
	if !g.HasTeam(map[string]struct{}{"BOS": {}}) {
		t.Fatalf("expected home team match")
	}
	if g.HasTeam(map[string]struct{}{"LAL": {}}) {
		t.Fatalf("expected no match")
	}
	if g.HasTeam(nil) {
		t.Fatalf("expected nil set to never match")
	}
}

func TestCloneGamesCopiesPeriods(t *testing.T) {
	in := []Game{{GameID: "1", Periods: []Period{{PeriodID: 1, HomePoints: "7"}}}}
	out := CloneGames(in)
	out[0].Periods[0].HomePoints = "99"
	if in[0].Periods[0].HomePoints != "7" {
		t.Fatalf("expected original periods untouched")
	}
	if CloneGames(nil) != nil {
		t.Fatalf("expected nil clone of nil slice")
	}
}

func TestFeedCloneKeepsEmptyLeagues(t *testing.T) {
	f := Feed{
		PerLeague: map[league.ID][]Game{
			league.NBA: {{GameID: "1"}},
			league.NFL: {},
		},
	}
	cloned := f.Clone()

	nfl, ok := cloned.League(league.NFL)
	if !ok || nfl == nil || len(nfl) != 0 {
		t.Fatalf("expected shown empty league preserved, got %v (ok=%v)", nfl, ok)
	}
	if _, ok := cloned.League(league.MLB); ok {
		t.Fatalf("expected absent league to stay absent")
	}

	cloned.PerLeague[league.NBA][0].GameID = "changed"
	if f.PerLeague[league.NBA][0].GameID != "1" {
		t.Fatalf("expected deep copy")
	}
}

func TestFeedFilteredWith(t *testing.T) {
	f := Feed{Filters: map[league.ID]string{league.NCAAF: "OSU"}}

	if !f.FilteredWith(league.NCAAF, "OSU") {
		t.Fatalf("expected matching filter")
	}
	if f.FilteredWith(league.NCAAF, "MICH") {
		t.Fatalf("expected mismatch for a different favorite set")
	}
	if (Feed{}).FilteredWith(league.NCAAF, "") {
		t.Fatalf("expected feed without filters to need a refetch")
	}

	cloned := f.Clone()
	cloned.Filters[league.NCAAF] = "MICH"
	if !f.FilteredWith(league.NCAAF, "OSU") {
		t.Fatalf("expected clone to copy filters")
	}

	raw, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Feed
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.FilteredWith(league.NCAAF, "OSU") {
		t.Fatalf("expected filters to stay out of the persisted feed")
	}
}

func TestFeedJSONDistinguishesEmptyLeague(t *testing.T) {
	f := Feed{PerLeague: map[league.ID][]Game{league.NFL: {}}}
	raw, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(decoded["perLeague"]["NFL"]) != "[]" {
		t.Fatalf("expected empty array for shown league, got %s", decoded["perLeague"]["NFL"])
	}
	if _, ok := decoded["perLeague"]["NBA"]; ok {
		t.Fatalf("expected hidden league to be absent")
	}
}

func TestFeedUpdated(t *testing.T) {
	if (Feed{}).Updated() {
		t.Fatalf("expected zero feed to be not updated")
	}
	if !(Feed{LastUpdated: time.Now()}).Updated() {
		t.Fatalf("expected feed with timestamp to be updated")
	}
}

func TestLeagueFetchedAtFallsBackToLastUpdated(t *testing.T) {
	global := time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)
	nba := global.Add(-time.Hour)
	f := Feed{LastUpdated: global, FetchedAt: map[league.ID]time.Time{league.NBA: nba}}

	if got := f.LeagueFetchedAt(league.NBA); !got.Equal(nba) {
		t.Fatalf("expected league timestamp, got %s", got)
	}
	if got := f.LeagueFetchedAt(league.NFL); !got.Equal(global) {
		t.Fatalf("expected global fallback, got %s", got)
	}
	cloned := f.Clone()
	cloned.FetchedAt[league.NBA] = global
	if !f.FetchedAt[league.NBA].Equal(nba) {
		t.Fatalf("expected FetchedAt to be copied")
	}
}
