package league

import (
	"net/url"
	"strings"
)

// ID identifies a supported league (e.g. "NBA").
type ID string

const (
	NFL   ID = "NFL"
	NBA   ID = "NBA"
	MLB   ID = "MLB"
	NHL   ID = "NHL"
	WNBA  ID = "WNBA"
	MLS   ID = "MLS"
	EPL   ID = "EPL"
	NCAAF ID = "NCAAF"
	NCAAB ID = "NCAAB"

	// None is the favorite-league sentinel meaning "no favorite".
	None ID = "NONE"
)

const scoreboardPath = "/v1/editorial/s/scoreboard"

// Entry is the static description of one league's upstream source.
type Entry struct {
	ID          ID
	DisplayName string
	// Endpoint is the upstream "leagues" parameter. Several entries may share one.
	Endpoint string
	// SubLeague filters a shared endpoint down to this league's games. Empty keeps all.
	SubLeague string
	// OptIn leagues only yield games involving a favorite team.
	OptIn bool
}

// URL builds the scoreboard request URL for the given YYYY-MM-DD date.
func (e Entry) URL(baseURL, date string) string {
	q := url.Values{}
	q.Set("lang", "en-US")
	q.Set("region", "US")
	q.Set("ysp_redesign", "1")
	q.Set("ysp_platform", "desktop")
	q.Set("leagues", e.Endpoint)
	q.Set("date", date)
	q.Set("v", "2")
	q.Set("ysp_enable_last_update", "1")
	return strings.TrimSuffix(baseURL, "/") + scoreboardPath + "?" + q.Encode()
}

// Shared reports whether the entry filters a multi-league endpoint.
func (e Entry) Shared() bool {
	return e.SubLeague != ""
}

var defaultEntries = []Entry{
	{ID: NFL, DisplayName: "NFL", Endpoint: "nfl"},
	{ID: NBA, DisplayName: "NBA", Endpoint: "nba"},
	{ID: MLB, DisplayName: "MLB", Endpoint: "mlb"},
	{ID: NHL, DisplayName: "NHL", Endpoint: "nhl"},
	{ID: WNBA, DisplayName: "WNBA", Endpoint: "wnba"},
	{ID: MLS, DisplayName: "MLS", Endpoint: "soccer", SubLeague: "mls"},
	{ID: EPL, DisplayName: "Premier League", Endpoint: "soccer", SubLeague: "epl"},
	{ID: NCAAF, DisplayName: "College Football", Endpoint: "ncaaf", OptIn: true},
	{ID: NCAAB, DisplayName: "College Basketball", Endpoint: "ncaab", OptIn: true},
}

// Registry is an ordered, read-only table of league entries.
type Registry struct {
	entries []Entry
	byID    map[ID]int
}

// New builds a registry from entries; later duplicates of an ID are ignored.
func New(entries ...Entry) *Registry {
	r := &Registry{byID: make(map[ID]int, len(entries))}
	for _, e := range entries {
		if _, exists := r.byID[e.ID]; exists || e.ID == "" || e.ID == None {
			continue
		}
		r.byID[e.ID] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r
}

// Default returns the registry of every league the service knows how to fetch.
func Default() *Registry {
	return New(defaultEntries...)
}

// Lookup returns the entry for id.
func (r *Registry) Lookup(id ID) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	idx, ok := r.byID[id]
	if !ok {
		return Entry{}, false
	}
	return r.entries[idx], true
}

// Entries returns a copy of all entries in table order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// IDs returns league IDs in table order.
func (r *Registry) IDs() []ID {
	if r == nil {
		return nil
	}
	out := make([]ID, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.ID
	}
	return out
}

// Parse resolves a case-insensitive league name. "NONE" parses to None.
func (r *Registry) Parse(raw string) (ID, bool) {
	id := ID(strings.ToUpper(strings.TrimSpace(raw)))
	if id == None {
		return None, true
	}
	if _, ok := r.Lookup(id); ok {
		return id, true
	}
	return "", false
}
