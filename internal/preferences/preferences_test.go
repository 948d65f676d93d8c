package preferences

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/domain/teams"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
)

func TestDefaultPreferences(t *testing.T) {
	p := Default()

	assert.Equal(t, 1, p.RefreshIntervalMinutes)
	assert.Equal(t, []league.ID{league.NFL, league.NBA, league.MLS}, p.LeaguesToShow)
	assert.Equal(t, league.None, p.FavoriteLeague)
	assert.False(t, p.HasFavoriteLeague())
	assert.NoError(t, p.Validate(league.Default()))
}

func TestIntervalClamps(t *testing.T) {
	tests := []struct {
		minutes int
		want    time.Duration
	}{
		{0, time.Minute},
		{-5, time.Minute},
		{1, time.Minute},
		{15, 15 * time.Minute},
		{60, time.Hour},
		{600, time.Hour},
	}
	for _, tt := range tests {
		p := Preferences{RefreshIntervalMinutes: tt.minutes}
		assert.Equal(t, tt.want, p.Interval(), "minutes=%d", tt.minutes)
	}
}

func TestTeamSetNormalizes(t *testing.T) {
	set := NewTeamSet(" bos", "NYK", "", "bos")

	assert.Len(t, set, 2)
	assert.True(t, set.Has("bos"))
	assert.Equal(t, []string{"BOS", "NYK"}, set.Slice())
	assert.True(t, set.Equal(NewTeamSet("NYK", "BOS")))
	assert.False(t, set.Equal(NewTeamSet("NYK")))
}

func TestIsFavoriteGameUsesGameLeague(t *testing.T) {
	p := Default()
	p.FavoriteTeams[league.NBA] = NewTeamSet("BOS")

	nbaGame := games.Game{League: league.NBA, HomeTeam: teams.Team{Abbreviation: "BOS"}}
	nflGame := games.Game{League: league.NFL, HomeTeam: teams.Team{Abbreviation: "BOS"}}

	assert.True(t, p.IsFavoriteGame(nbaGame))
	assert.False(t, p.IsFavoriteGame(nflGame))
	assert.NotNil(t, p.Favorites(league.MLB))
}

func TestCloneIsDeep(t *testing.T) {
	p := Default()
	p.FavoriteTeams[league.NBA] = NewTeamSet("BOS")

	c := p.Clone()
	c.LeaguesToShow[0] = league.NHL
	c.FavoriteTeams[league.NBA]["LAL"] = struct{}{}

	assert.Equal(t, league.NFL, p.LeaguesToShow[0])
	assert.False(t, p.FavoriteTeams[league.NBA].Has("LAL"))
}

func TestValidateRejectsUnknownLeagues(t *testing.T) {
	reg := league.Default()

	cases := map[string]Preferences{
		"unknown shown league": {RefreshIntervalMinutes: 1, LeaguesToShow: []league.ID{"CRICKET"}},
		"duplicate league":     {RefreshIntervalMinutes: 1, LeaguesToShow: []league.ID{league.NBA, league.NBA}},
		"unknown favorite":     {RefreshIntervalMinutes: 1, FavoriteLeague: "CRICKET"},
		"unknown team league":  {RefreshIntervalMinutes: 1, FavoriteTeams: map[league.ID]TeamSet{"CRICKET": NewTeamSet("X")}},
		"interval too large":   {RefreshIntervalMinutes: 61},
		"interval zero":        {RefreshIntervalMinutes: 0},
		"interval negative":    {RefreshIntervalMinutes: -5},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			err := p.Validate(reg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestDecodeRejectsIntervalBelowMinimum(t *testing.T) {
	reg := league.Default()
	base := Default()

	for _, body := range []string{`{"refreshInterval":0}`, `{"refreshInterval":-1}`} {
		got, err := Decode(strings.NewReader(body), reg, base)
		require.ErrorIs(t, err, ErrInvalid, body)
		assert.Equal(t, base.RefreshIntervalMinutes, got.RefreshIntervalMinutes, body)
	}
}

func TestDecodeOverlaysBase(t *testing.T) {
	reg := league.Default()
	base := Default()
	base.FavoriteTeams[league.NFL] = NewTeamSet("KC")

	body := `{"leaguesToShow":["nba","ncaaf"],"favoriteLeague":"nba","favoriteTeams":{"ncaaf":["mich"]}}`
	got, err := Decode(strings.NewReader(body), reg, base)
	require.NoError(t, err)

	assert.Equal(t, 1, got.RefreshIntervalMinutes)
	assert.Equal(t, []league.ID{league.NBA, league.NCAAF}, got.LeaguesToShow)
	assert.Equal(t, league.NBA, got.FavoriteLeague)
	assert.True(t, got.Favorites(league.NCAAF).Has("MICH"))
	assert.True(t, got.Favorites(league.NFL).Has("KC"))
}

func TestDecodeEmptyLeagueListShowsNothing(t *testing.T) {
	got, err := Decode(strings.NewReader(`{"leaguesToShow":[]}`), league.Default(), Default())
	require.NoError(t, err)
	assert.Empty(t, got.LeaguesToShow)
}

func TestDecodeRejectsWholeDocument(t *testing.T) {
	reg := league.Default()
	base := Default()

	bodies := []string{
		`{"refreshInterval":5,"leaguesToShow":["nba","cricket"]}`,
		`{"refreshInterval":"soon"}`,
		`{"favoriteLeague":"rugby"}`,
		`{"favoriteTeams":{"NONE":["X"]}}`,
		`{"unexpected":true}`,
		`not json`,
	}
	for _, body := range bodies {
		got, err := Decode(strings.NewReader(body), reg, base)
		require.Error(t, err, body)
		assert.True(t, errors.Is(err, ErrInvalid), body)
		assert.Equal(t, base, got, body)
	}
}

func TestMarshalJSONWireForm(t *testing.T) {
	p := Default()
	p.FavoriteTeams[league.NBA] = NewTeamSet("NYK", "BOS")

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.EqualValues(t, 1, doc["refreshInterval"])
	assert.Equal(t, "NONE", doc["favoriteLeague"])
	assert.Equal(t, []any{"NFL", "NBA", "MLS"}, doc["leaguesToShow"])
	assert.Equal(t, []any{"BOS", "NYK"}, doc["favoriteTeams"].(map[string]any)["NBA"])
}

func TestUnknownTeams(t *testing.T) {
	p := Default()
	p.FavoriteTeams[league.NBA] = NewTeamSet("BOS", "ZZZ")
	p.FavoriteTeams[league.NCAAF] = NewTeamSet("MICH")

	assert.Equal(t, []string{"NBA:ZZZ"}, p.UnknownTeams())
}
