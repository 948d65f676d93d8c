package feed

import (
	"sort"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/preferences"
)

// RankLeague orders one league's games: favorite-team games first, then by status priority.
// The input is not modified and ties keep their input order.
func RankLeague(gs []games.Game, favorites map[string]struct{}) []games.Game {
	out := games.CloneGames(gs)
	if out == nil {
		return []games.Game{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		fi, fj := out[i].HasTeam(favorites), out[j].HasTeam(favorites)
		if fi != fj {
			return fi
		}
		return out[i].StatusType.Priority() < out[j].StatusType.Priority()
	})
	return out
}

// RankAll applies the feed-wide total order: favorite team for the game's own league,
// then status priority, then the favorite league when one is set.
// The input is not modified and ties keep their input order.
func RankAll(gs []games.Game, prefs preferences.Preferences) []games.Game {
	out := games.CloneGames(gs)
	if out == nil {
		return []games.Game{}
	}
	useLeague := prefs.HasFavoriteLeague()
	sort.SliceStable(out, func(i, j int) bool {
		fi, fj := prefs.IsFavoriteGame(out[i]), prefs.IsFavoriteGame(out[j])
		if fi != fj {
			return fi
		}
		pi, pj := out[i].StatusType.Priority(), out[j].StatusType.Priority()
		if pi != pj {
			return pi < pj
		}
		if useLeague {
			li, lj := out[i].League == prefs.FavoriteLeague, out[j].League == prefs.FavoriteLeague
			if li != lj {
				return li
			}
		}
		return false
	})
	return out
}
