package teams

import (
	"github.com/preston-bernstein/sports-hub-service/internal/league"
	"github.com/preston-bernstein/sports-hub-service/internal/preferences"
)

// PreferencesSource exposes the active preferences.
type PreferencesSource interface {
	Preferences() preferences.Preferences
}

// LeagueInfo describes one league for a settings screen.
type LeagueInfo struct {
	ID            league.ID           `json:"id"`
	Name          string              `json:"name"`
	OptIn         bool                `json:"optIn"`
	Shown         bool                `json:"shown"`
	Favorite      bool                `json:"favorite"`
	FavoriteTeams []string            `json:"favoriteTeams"`
	Teams         []league.TeamOption `json:"teams,omitempty"`
}

// Service answers league and team catalog questions against the active preferences.
type Service struct {
	registry *league.Registry
	prefs    PreferencesSource
}

// NewService constructs a Service. prefs may be nil, in which case defaults are used.
func NewService(registry *league.Registry, prefs PreferencesSource) *Service {
	if registry == nil {
		registry = league.Default()
	}
	return &Service{registry: registry, prefs: prefs}
}

// Leagues returns every registered league in registry order.
func (s *Service) Leagues() []LeagueInfo {
	prefs := s.preferences()
	entries := s.registry.Entries()
	out := make([]LeagueInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, LeagueInfo{
			ID:            e.ID,
			Name:          e.DisplayName,
			OptIn:         e.OptIn,
			Shown:         prefs.Shows(e.ID),
			Favorite:      prefs.FavoriteLeague == e.ID,
			FavoriteTeams: prefs.Favorites(e.ID).Slice(),
			Teams:         league.Teams(e.ID),
		})
	}
	return out
}

// Teams returns a league's selectable teams. ok is false for unknown leagues.
func (s *Service) Teams(id league.ID) ([]league.TeamOption, bool) {
	if _, ok := s.registry.Lookup(id); !ok {
		return nil, false
	}
	opts := league.Teams(id)
	if opts == nil {
		opts = []league.TeamOption{}
	}
	return opts, true
}

func (s *Service) preferences() preferences.Preferences {
	if s.prefs == nil {
		return preferences.Default()
	}
	return s.prefs.Preferences()
}
