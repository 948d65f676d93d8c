package feed

import (
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/timeutil"
)

// NeedsRefresh decides whether a league's cached games must be re-fetched.
// It is true when nothing is cached, when lastUpdate falls on a different local
// calendar day than now, or when any cached game is live-relevant.
func NeedsRefresh(previous []games.Game, lastUpdate, now time.Time, loc *time.Location) bool {
	if len(previous) == 0 || lastUpdate.IsZero() {
		return true
	}
	if loc == nil {
		loc = time.Local
	}
	if !timeutil.SameDay(lastUpdate, now, loc) {
		return true
	}
	for _, g := range previous {
		if g.LiveRelevant(now) {
			return true
		}
	}
	return false
}
