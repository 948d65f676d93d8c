package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/images"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
	"github.com/preston-bernstein/sports-hub-service/internal/metrics"
	"github.com/preston-bernstein/sports-hub-service/internal/preferences"
	"github.com/preston-bernstein/sports-hub-service/internal/providers/yahoo"
	"github.com/preston-bernstein/sports-hub-service/internal/teststubs"
)

func newTestAggregator(stub *teststubs.StubProvider, pub *teststubs.StubPublisher) *Aggregator {
	var reporter Reporter
	if pub != nil {
		reporter = pub
	}
	return NewAggregator(AggregatorConfig{
		Registry: league.Default(),
		Fetcher:  NewFetcher(stub, reporter, nil, nil),
		Location: time.UTC,
	})
}

func prefsShowing(ids ...league.ID) preferences.Preferences {
	p := preferences.Default()
	p.LeaguesToShow = ids
	return p
}

func TestRefreshBuildsFeedInRankedOrder(t *testing.T) {
	stub := teststubs.NewStubProvider()
	stub.SetGames(league.NBA,
		game("1", league.NBA, games.StatusFinal, "Y", "Z"),
		game("2", league.NBA, games.StatusPregame, "X", "W"),
	)
	stub.SetGames(league.NFL, game("3", league.NFL, games.StatusLive, "P", "Q"))

	prefs := prefsShowing(league.NBA, league.NFL)
	prefs.FavoriteLeague = league.NBA
	prefs.FavoriteTeams[league.NBA] = preferences.NewTeamSet("X")

	agg := newTestAggregator(stub, nil)
	feed, report := agg.Refresh(context.Background(), prefs, games.Feed{}, testNow)

	assert.Equal(t, []string{"2", "3", "1"}, ids(feed.AllGames))
	assert.Equal(t, []string{"2", "1"}, ids(feed.PerLeague[league.NBA]))
	assert.ElementsMatch(t, []league.ID{league.NBA, league.NFL}, report.Fetched)
	assert.Equal(t, testNow, feed.LastUpdated)
	assert.Equal(t, "08:00 PM", feed.LastUpdatedDisplay)
	assert.Equal(t, testNow, feed.FetchedAt[league.NBA])
}

func TestRefreshDropsDeselectedLeague(t *testing.T) {
	stub := teststubs.NewStubProvider()
	stub.SetGames(league.NBA, game("1", league.NBA, games.StatusLive, "A", "B"))
	stub.SetGames(league.NFL, game("2", league.NFL, games.StatusLive, "C", "D"))
	agg := newTestAggregator(stub, nil)

	first, _ := agg.Refresh(context.Background(), prefsShowing(league.NBA, league.NFL), games.Feed{}, testNow)
	require.Contains(t, first.PerLeague, league.NFL)

	second, _ := agg.Refresh(context.Background(), prefsShowing(league.NBA), first, testNow.Add(time.Minute))

	_, shown := second.League(league.NFL)
	assert.False(t, shown)
	for _, g := range second.AllGames {
		assert.NotEqual(t, league.NFL, g.League)
	}
	assert.Contains(t, first.PerLeague, league.NFL, "previous feed must not be modified")
}

func TestRefreshKeepsEmptyShownLeague(t *testing.T) {
	stub := teststubs.NewStubProvider()
	agg := newTestAggregator(stub, nil)

	feed, _ := agg.Refresh(context.Background(), prefsShowing(league.MLS), games.Feed{}, testNow)

	list, shown := feed.League(league.MLS)
	assert.True(t, shown)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.NotNil(t, feed.AllGames)
}

func TestRefreshSkipsSameDayFinalLeague(t *testing.T) {
	stub := teststubs.NewStubProvider()
	stub.SetGames(league.NBA, game("1", league.NBA, games.StatusFinal, "A", "B"))
	agg := newTestAggregator(stub, nil)
	prefs := prefsShowing(league.NBA)

	first, _ := agg.Refresh(context.Background(), prefs, games.Feed{}, testNow)
	require.Equal(t, 1, stub.CallsFor(league.NBA))

	second, report := agg.Refresh(context.Background(), prefs, first, testNow.Add(30*time.Minute))

	assert.Equal(t, 1, stub.CallsFor(league.NBA))
	assert.Equal(t, []league.ID{league.NBA}, report.Skipped)
	assert.Equal(t, []string{"1"}, ids(second.PerLeague[league.NBA]))
	assert.Equal(t, testNow, second.FetchedAt[league.NBA])
}

func TestRefreshRefetchesOverduePregame(t *testing.T) {
	overdue := game("1", league.NBA, games.StatusPregame, "A", "B")
	overdue.StartTime = testNow.Add(-10 * time.Minute)

	stub := teststubs.NewStubProvider()
	stub.SetGames(league.NBA, overdue)
	agg := newTestAggregator(stub, nil)
	prefs := prefsShowing(league.NBA)

	previous := games.Feed{
		PerLeague:   map[league.ID][]games.Game{league.NBA: {overdue}},
		LastUpdated: testNow.Add(-time.Minute),
	}
	_, report := agg.Refresh(context.Background(), prefs, previous, testNow)

	assert.Equal(t, 1, stub.CallsFor(league.NBA))
	assert.Equal(t, []league.ID{league.NBA}, report.Fetched)
}

func TestRefreshOnlyFetchesStaleLeagues(t *testing.T) {
	stub := teststubs.NewStubProvider()
	stub.SetGames(league.NBA, game("1", league.NBA, games.StatusFinal, "A", "B"))
	stub.SetGames(league.NFL, game("2", league.NFL, games.StatusLive, "C", "D"))
	rec := metrics.NewRecorder()
	agg := NewAggregator(AggregatorConfig{
		Fetcher:     NewFetcher(stub, nil, nil, rec),
		Location:    time.UTC,
		Metrics:     rec,
		Concurrency: 1,
	})
	prefs := prefsShowing(league.NBA, league.NFL)

	first, _ := agg.Refresh(context.Background(), prefs, games.Feed{}, testNow)
	_, report := agg.Refresh(context.Background(), prefs, first, testNow.Add(time.Minute))

	assert.Equal(t, 1, stub.CallsFor(league.NBA))
	assert.Equal(t, 2, stub.CallsFor(league.NFL))
	assert.Equal(t, []league.ID{league.NFL}, report.Fetched)
	assert.Equal(t, 1, rec.LeagueFetches("NBA", metrics.OutcomeSkipped))
}

func TestRefreshPassesFavoritesToOptInLeagues(t *testing.T) {
	stub := teststubs.NewStubProvider()
	agg := newTestAggregator(stub, nil)
	prefs := prefsShowing(league.NCAAF)
	prefs.FavoriteTeams[league.NCAAF] = preferences.NewTeamSet("mich")

	agg.Refresh(context.Background(), prefs, games.Feed{}, testNow)

	reqs := stub.Requests()
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].League.OptIn)
	assert.Equal(t, "2024-11-05", reqs[0].Date)
	assert.Contains(t, reqs[0].Favorites, "MICH")
}

func TestRefreshRefetchesOptInLeagueWithoutMatchingFilter(t *testing.T) {
	stub := teststubs.NewStubProvider()
	stub.SetGames(league.NCAAF, game("o", league.NCAAF, games.StatusFinal, "OSU", "PSU"))
	agg := newTestAggregator(stub, nil)
	prefs := prefsShowing(league.NCAAF)
	prefs.FavoriteTeams[league.NCAAF] = preferences.NewTeamSet("OSU")

	// A same-day Final list restored without a filter record, as after a warm start.
	restored := games.Feed{
		PerLeague:   map[league.ID][]games.Game{league.NCAAF: {game("m", league.NCAAF, games.StatusFinal, "MICH", "IOWA")}},
		LastUpdated: testNow,
		FetchedAt:   map[league.ID]time.Time{league.NCAAF: testNow},
	}
	next, report := agg.Refresh(context.Background(), prefs, restored, testNow.Add(time.Minute))

	assert.Equal(t, []league.ID{league.NCAAF}, report.Fetched)
	assert.Equal(t, []string{"o"}, ids(next.PerLeague[league.NCAAF]))
	assert.True(t, next.FilteredWith(league.NCAAF, "OSU"))

	// Same favorites on the next cycle reuse the list.
	_, report = agg.Refresh(context.Background(), prefs, next, testNow.Add(2*time.Minute))
	assert.Equal(t, []league.ID{league.NCAAF}, report.Skipped)
	assert.Equal(t, 1, stub.CallsFor(league.NCAAF))

	// Changed favorites invalidate it.
	prefs.FavoriteTeams[league.NCAAF] = preferences.NewTeamSet("OSU", "MICH")
	_, report = agg.Refresh(context.Background(), prefs, next, testNow.Add(3*time.Minute))
	assert.Equal(t, []league.ID{league.NCAAF}, report.Fetched)
	assert.Equal(t, 2, stub.CallsFor(league.NCAAF))
}

func TestRefreshFailedOptInFetchDropsStaleFavorites(t *testing.T) {
	stub := teststubs.NewStubProvider()
	stub.SetErr(league.NCAAF, fmt.Errorf("down"))
	agg := newTestAggregator(stub, nil)
	prefs := prefsShowing(league.NCAAF)
	prefs.FavoriteTeams[league.NCAAF] = preferences.NewTeamSet("OSU")

	previous := games.Feed{
		PerLeague:   map[league.ID][]games.Game{league.NCAAF: {game("m", league.NCAAF, games.StatusFinal, "MICH", "IOWA")}},
		LastUpdated: testNow,
		FetchedAt:   map[league.ID]time.Time{league.NCAAF: testNow},
		Filters:     map[league.ID]string{league.NCAAF: "MICH"},
	}
	next, report := agg.Refresh(context.Background(), prefs, previous, testNow.Add(time.Minute))

	assert.Equal(t, []league.ID{league.NCAAF}, report.Failed)
	shown, ok := next.League(league.NCAAF)
	assert.True(t, ok)
	assert.Empty(t, shown)
	assert.False(t, next.FilteredWith(league.NCAAF, "OSU"), "a failed fetch must be retried next cycle")
}

func TestRefreshAllFailedKeepsTimestamp(t *testing.T) {
	stub := teststubs.NewStubProvider()
	stub.SetGames(league.NBA, game("1", league.NBA, games.StatusLive, "A", "B"))
	pub := &teststubs.StubPublisher{}
	agg := newTestAggregator(stub, pub)
	prefs := prefsShowing(league.NBA)

	first, _ := agg.Refresh(context.Background(), prefs, games.Feed{}, testNow)

	stub.SetErr(league.NBA, fmt.Errorf("down"))
	second, report := agg.Refresh(context.Background(), prefs, first, testNow.Add(time.Minute))

	assert.True(t, report.AllFailed())
	assert.Equal(t, first.LastUpdated, second.LastUpdated)
	assert.Equal(t, first.LastUpdatedDisplay, second.LastUpdatedDisplay)
	assert.Equal(t, []string{"1"}, ids(second.PerLeague[league.NBA]))
	assert.Len(t, pub.Errors(), 1)
}

const liveScoreboard = `{"service":{"scoreboard":{
  "teams":{"t.1":{"team_id":"t.1","abbr":"AAA","full_name":"Team A"},"t.2":{"team_id":"t.2","abbr":"BBB","full_name":"Team B"}},
  "teamrecord":{},
  "teamLogo":{},
  "games":{"9":{"gameid":"9","start_time":"Tue, 05 Nov 2024 19:00:00 +0000","home_team_id":"t.1","away_team_id":"t.2",
    "total_home_points":"10","total_away_points":"7","status_display_name":"2nd","status_type":"status.type.in_progress",
    "game_type":"season.type.regular","tv_coverage":"","game_periods":[]}}
}}}`

const emptyScoreboard = `{"service":{"scoreboard":{"teams":{},"teamrecord":{},"teamLogo":{},"games":{}}}}`

func TestRefreshUpstreamErrorRetainsPreviousGames(t *testing.T) {
	var failNFL atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("leagues") {
		case "nfl":
			if failNFL.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(liveScoreboard))
		default:
			_, _ = w.Write([]byte(emptyScoreboard))
		}
	}))
	defer srv.Close()

	client := yahoo.NewClient(yahoo.Config{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		Timezone:   "UTC",
		Images:     images.Noop{},
	})
	pub := &teststubs.StubPublisher{}
	agg := NewAggregator(AggregatorConfig{
		Fetcher:  NewFetcher(client, pub, nil, nil),
		Location: time.UTC,
	})
	prefs := prefsShowing(league.NBA, league.NFL)

	first, _ := agg.Refresh(context.Background(), prefs, games.Feed{}, testNow)
	require.Equal(t, []string{"9"}, ids(first.PerLeague[league.NFL]))

	failNFL.Store(true)
	second, report := agg.Refresh(context.Background(), prefs, first, testNow.Add(time.Minute))

	assert.Equal(t, []string{"9"}, ids(second.PerLeague[league.NFL]))
	assert.Equal(t, []league.ID{league.NFL}, report.Failed)
	assert.False(t, report.AllFailed())

	errs := pub.Errors()
	require.Len(t, errs, 1)
	assert.True(t, strings.Contains(errs[0], "NFL"), errs[0])
}
