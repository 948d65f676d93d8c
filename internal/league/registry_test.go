package league

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryOrderAndLookup(t *testing.T) {
	reg := Default()

	ids := reg.IDs()
	require.NotEmpty(t, ids)
	assert.Equal(t, NFL, ids[0])
	assert.Equal(t, NBA, ids[1])

	entry, ok := reg.Lookup(MLS)
	require.True(t, ok)
	assert.Equal(t, "soccer", entry.Endpoint)
	assert.Equal(t, "mls", entry.SubLeague)
	assert.True(t, entry.Shared())

	college, ok := reg.Lookup(NCAAF)
	require.True(t, ok)
	assert.True(t, college.OptIn)

	_, ok = reg.Lookup("CURLING")
	assert.False(t, ok)
}

func TestEntryURLIncludesLeagueAndDate(t *testing.T) {
	entry, ok := Default().Lookup(NBA)
	require.True(t, ok)

	raw := entry.URL("https://api.example.com/", "2024-11-05")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "api.example.com", parsed.Host)
	assert.Equal(t, scoreboardPath, parsed.Path)
	q := parsed.Query()
	assert.Equal(t, "nba", q.Get("leagues"))
	assert.Equal(t, "2024-11-05", q.Get("date"))
	assert.Equal(t, "2", q.Get("v"))
	assert.Equal(t, "en-US", q.Get("lang"))
}

func TestSoccerLeaguesShareEndpoint(t *testing.T) {
	reg := Default()
	mls, _ := reg.Lookup(MLS)
	epl, _ := reg.Lookup(EPL)

	assert.Equal(t, mls.URL("http://x", "2024-01-01"), epl.URL("http://x", "2024-01-01"))
	assert.NotEqual(t, mls.SubLeague, epl.SubLeague)
}

func TestParse(t *testing.T) {
	reg := Default()

	tests := []struct {
		raw  string
		want ID
		ok   bool
	}{
		{"nba", NBA, true},
		{" NFL ", NFL, true},
		{"none", None, true},
		{"Ncaaf", NCAAF, true},
		{"cricket", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := reg.Parse(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewSkipsDuplicatesAndSentinel(t *testing.T) {
	reg := New(
		Entry{ID: NBA, Endpoint: "nba"},
		Entry{ID: NBA, Endpoint: "other"},
		Entry{ID: None, Endpoint: "none"},
	)

	assert.Equal(t, []ID{NBA}, reg.IDs())
	entry, _ := reg.Lookup(NBA)
	assert.Equal(t, "nba", entry.Endpoint)
}

func TestEntriesReturnsCopy(t *testing.T) {
	reg := Default()
	entries := reg.Entries()
	entries[0].Endpoint = "mutated"

	entry, _ := reg.Lookup(entries[0].ID)
	assert.NotEqual(t, "mutated", entry.Endpoint)
}

func TestNilRegistryIsSafe(t *testing.T) {
	var reg *Registry
	_, ok := reg.Lookup(NBA)
	assert.False(t, ok)
	assert.Nil(t, reg.IDs())
	assert.Nil(t, reg.Entries())
}

func TestTeamsCatalog(t *testing.T) {
	nba := Teams(NBA)
	require.NotEmpty(t, nba)
	assert.Equal(t, "ATL", nba[0].Abbreviation)

	nba[0].Abbreviation = "XXX"
	assert.Equal(t, "ATL", Teams(NBA)[0].Abbreviation)

	assert.Nil(t, Teams(NCAAF))
	assert.True(t, KnownTeam(NFL, "kc"))
	assert.False(t, KnownTeam(NFL, "ZZZ"))
	assert.True(t, KnownTeam(NCAAF, "MICH"))
}
