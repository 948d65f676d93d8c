package preferences

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
)

const (
	MinIntervalMinutes     = 1
	MaxIntervalMinutes     = 60
	DefaultIntervalMinutes = 1
)

// ErrInvalid marks a preference update that was rejected as a whole.
var ErrInvalid = errors.New("invalid preferences")

// TeamSet is a set of upper-case team abbreviations.
type TeamSet map[string]struct{}

// NewTeamSet builds a set from abbreviations, trimming and upper-casing each one.
// Blank entries are dropped.
func NewTeamSet(abbrs ...string) TeamSet {
	set := make(TeamSet, len(abbrs))
	for _, a := range abbrs {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		set[a] = struct{}{}
	}
	return set
}

// Has reports whether abbr is in the set.
func (s TeamSet) Has(abbr string) bool {
	_, ok := s[strings.ToUpper(abbr)]
	return ok
}

// Slice returns the abbreviations sorted.
func (s TeamSet) Slice() []string {
	out := make([]string, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold the same abbreviations.
func (s TeamSet) Equal(other TeamSet) bool {
	if len(s) != len(other) {
		return false
	}
	for a := range s {
		if _, ok := other[a]; !ok {
			return false
		}
	}
	return true
}

func (s TeamSet) clone() TeamSet {
	out := make(TeamSet, len(s))
	for a := range s {
		out[a] = struct{}{}
	}
	return out
}

// Preferences is the viewer configuration driving filtering and ranking.
type Preferences struct {
	RefreshIntervalMinutes int
	LeaguesToShow          []league.ID
	FavoriteLeague         league.ID
	FavoriteTeams          map[league.ID]TeamSet
}

// Default mirrors the out-of-the-box settings of the display plugin.
func Default() Preferences {
	return Preferences{
		RefreshIntervalMinutes: DefaultIntervalMinutes,
		LeaguesToShow:          []league.ID{league.NFL, league.NBA, league.MLS},
		FavoriteLeague:         league.None,
		FavoriteTeams:          map[league.ID]TeamSet{},
	}
}

// Interval returns the refresh interval clamped to the supported range.
func (p Preferences) Interval() time.Duration {
	minutes := p.RefreshIntervalMinutes
	if minutes < MinIntervalMinutes {
		minutes = MinIntervalMinutes
	}
	if minutes > MaxIntervalMinutes {
		minutes = MaxIntervalMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// Shows reports whether id is one of the leagues to show.
func (p Preferences) Shows(id league.ID) bool {
	for _, l := range p.LeaguesToShow {
		if l == id {
			return true
		}
	}
	return false
}

// Favorites returns the favorite team set for a league. Never nil.
func (p Preferences) Favorites(id league.ID) TeamSet {
	if set, ok := p.FavoriteTeams[id]; ok && set != nil {
		return set
	}
	return TeamSet{}
}

// IsFavoriteGame reports whether g features a favorite team of g's own league.
func (p Preferences) IsFavoriteGame(g games.Game) bool {
	return g.HasTeam(p.Favorites(g.League))
}

// HasFavoriteLeague reports whether a favorite league is configured.
func (p Preferences) HasFavoriteLeague() bool {
	return p.FavoriteLeague != "" && p.FavoriteLeague != league.None
}

// Clone returns a deep copy.
func (p Preferences) Clone() Preferences {
	out := p
	out.LeaguesToShow = append([]league.ID(nil), p.LeaguesToShow...)
	out.FavoriteTeams = make(map[league.ID]TeamSet, len(p.FavoriteTeams))
	for id, set := range p.FavoriteTeams {
		out.FavoriteTeams[id] = set.clone()
	}
	return out
}

// Validate checks every league reference against reg.
func (p Preferences) Validate(reg *league.Registry) error {
	if p.RefreshIntervalMinutes < MinIntervalMinutes || p.RefreshIntervalMinutes > MaxIntervalMinutes {
		return fmt.Errorf("%w: refresh interval %d outside %d-%d minutes", ErrInvalid, p.RefreshIntervalMinutes, MinIntervalMinutes, MaxIntervalMinutes)
	}
	seen := make(map[league.ID]struct{}, len(p.LeaguesToShow))
	for _, id := range p.LeaguesToShow {
		if _, ok := reg.Lookup(id); !ok {
			return fmt.Errorf("%w: unknown league %q", ErrInvalid, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: league %q listed twice", ErrInvalid, id)
		}
		seen[id] = struct{}{}
	}
	if p.FavoriteLeague != "" && p.FavoriteLeague != league.None {
		if _, ok := reg.Lookup(p.FavoriteLeague); !ok {
			return fmt.Errorf("%w: unknown favorite league %q", ErrInvalid, p.FavoriteLeague)
		}
	}
	for id := range p.FavoriteTeams {
		if _, ok := reg.Lookup(id); !ok {
			return fmt.Errorf("%w: favorite teams for unknown league %q", ErrInvalid, id)
		}
	}
	return nil
}

// UnknownTeams lists favorite abbreviations missing from the league team catalogs,
// formatted as "LEAGUE:ABBR".
func (p Preferences) UnknownTeams() []string {
	var out []string
	for id, set := range p.FavoriteTeams {
		for _, abbr := range set.Slice() {
			if !league.KnownTeam(id, abbr) {
				out = append(out, string(id)+":"+abbr)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Document is the wire form of preferences. Omitted fields keep their current value.
type Document struct {
	RefreshInterval *int                `json:"refreshInterval,omitempty"`
	LeaguesToShow   []string            `json:"leaguesToShow,omitempty"`
	FavoriteLeague  *string             `json:"favoriteLeague,omitempty"`
	FavoriteTeams   map[string][]string `json:"favoriteTeams,omitempty"`
}

// Document renders p in wire form with every field populated.
func (p Preferences) Document() Document {
	interval := p.RefreshIntervalMinutes
	fav := string(p.FavoriteLeague)
	if fav == "" {
		fav = string(league.None)
	}
	doc := Document{
		RefreshInterval: &interval,
		LeaguesToShow:   make([]string, 0, len(p.LeaguesToShow)),
		FavoriteLeague:  &fav,
		FavoriteTeams:   make(map[string][]string, len(p.FavoriteTeams)),
	}
	for _, id := range p.LeaguesToShow {
		doc.LeaguesToShow = append(doc.LeaguesToShow, string(id))
	}
	for id, set := range p.FavoriteTeams {
		doc.FavoriteTeams[string(id)] = set.Slice()
	}
	return doc
}

// MarshalJSON encodes preferences in wire form.
func (p Preferences) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Document())
}

// Apply overlays doc onto base. Any unparseable field rejects the whole document.
func Apply(doc Document, reg *league.Registry, base Preferences) (Preferences, error) {
	out := base.Clone()

	if doc.RefreshInterval != nil {
		out.RefreshIntervalMinutes = *doc.RefreshInterval
	}
	if doc.LeaguesToShow != nil {
		ids := make([]league.ID, 0, len(doc.LeaguesToShow))
		for _, raw := range doc.LeaguesToShow {
			id, ok := reg.Parse(raw)
			if !ok || id == league.None {
				return base, fmt.Errorf("%w: unknown league %q", ErrInvalid, raw)
			}
			ids = append(ids, id)
		}
		out.LeaguesToShow = ids
	}
	if doc.FavoriteLeague != nil {
		id, ok := reg.Parse(*doc.FavoriteLeague)
		if !ok {
			return base, fmt.Errorf("%w: unknown favorite league %q", ErrInvalid, *doc.FavoriteLeague)
		}
		out.FavoriteLeague = id
	}
	for raw, abbrs := range doc.FavoriteTeams {
		id, ok := reg.Parse(raw)
		if !ok || id == league.None {
			return base, fmt.Errorf("%w: favorite teams for unknown league %q", ErrInvalid, raw)
		}
		out.FavoriteTeams[id] = NewTeamSet(abbrs...)
	}

	if err := out.Validate(reg); err != nil {
		return base, err
	}
	return out, nil
}

// DecodeDocument reads a JSON document from r, rejecting unknown fields.
func DecodeDocument(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return doc, nil
}

// Decode reads a JSON document from r and applies it to base.
func Decode(r io.Reader, reg *league.Registry, base Preferences) (Preferences, error) {
	doc, err := DecodeDocument(r)
	if err != nil {
		return base, err
	}
	return Apply(doc, reg, base)
}
