package yahoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/domain/teams"
	"github.com/preston-bernstein/sports-hub-service/internal/images"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
	"github.com/preston-bernstein/sports-hub-service/internal/providers"
	"github.com/preston-bernstein/sports-hub-service/internal/timeutil"
)

var startTimeLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

// Normalizer converts one league's scoreboard payload into canonical games.
type Normalizer struct {
	images          images.Encoder
	loc             *time.Location
	logger          *slog.Logger
	logoConcurrency int
}

// NewNormalizer builds a normalizer. A nil encoder leaves logos empty; a nil location uses UTC.
func NewNormalizer(enc images.Encoder, loc *time.Location, logger *slog.Logger, logoConcurrency int) *Normalizer {
	if enc == nil {
		enc = images.Noop{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{
		images:          enc,
		loc:             loc,
		logger:          logger,
		logoConcurrency: resolveConcurrency(logoConcurrency),
	}
}

// Normalize decodes body and returns the request's games ordered by start time.
func (n *Normalizer) Normalize(ctx context.Context, req providers.Request, body []byte) ([]games.Game, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", providers.ErrMalformedPayload, err)
	}
	if env.Service == nil || env.Service.Scoreboard == nil {
		return nil, providers.MalformedPayload("service.scoreboard")
	}
	sb := env.Service.Scoreboard

	rawTeams, err := decodeSection[teamResponse](sb.Teams, "teams", false)
	if err != nil {
		return nil, err
	}
	records, err := decodeStringMap(sb.TeamRecord, "teamrecord")
	if err != nil {
		return nil, err
	}
	logos, err := decodeStringMap(sb.TeamLogo, "teamLogo")
	if err != nil {
		return nil, err
	}
	rawGames, err := decodeSection[gameResponse](sb.Games, "games", true)
	if err != nil {
		return nil, err
	}

	teamsByID := make(map[string]teams.Team, len(rawTeams))
	for _, rt := range rawTeams {
		id := rt.TeamID.String()
		if id == "" {
			continue
		}
		teamsByID[id] = mapTeam(rt, records[id])
	}

	kept := make([]gameResponse, 0, len(rawGames))
	for _, rg := range rawGames {
		if n.keep(req, rg, teamsByID) {
			kept = append(kept, rg)
		}
	}

	n.resolveLogos(ctx, req, referencedTeams(kept), teamsByID, logos)

	out := make([]games.Game, 0, len(kept))
	for _, rg := range kept {
		out = append(out, n.mapGame(req, rg, teamsByID))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].GameID < out[j].GameID
	})
	return out, nil
}

// keep applies the league's filter policy to a raw game.
func (n *Normalizer) keep(req providers.Request, rg gameResponse, teamsByID map[string]teams.Team) bool {
	entry := req.League
	if entry.Shared() && !strings.EqualFold(strings.TrimSpace(rg.SubLeague), entry.SubLeague) {
		return false
	}
	if entry.OptIn {
		if len(req.Favorites) == 0 {
			return false
		}
		home := lookupTeam(teamsByID, rg.HomeTeamID.String())
		away := lookupTeam(teamsByID, rg.AwayTeamID.String())
		_, homeFav := req.Favorites[home.Abbreviation]
		_, awayFav := req.Favorites[away.Abbreviation]
		return homeFav || awayFav
	}
	return true
}

func referencedTeams(gs []gameResponse) []string {
	seen := make(map[string]struct{}, len(gs)*2)
	ids := make([]string, 0, len(gs)*2)
	for _, g := range gs {
		for _, id := range []string{g.HomeTeamID.String(), g.AwayTeamID.String()} {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// resolveLogos encodes team logos concurrently. A failed logo stays empty.
func (n *Normalizer) resolveLogos(ctx context.Context, req providers.Request, ids []string, teamsByID map[string]teams.Team, logos map[string]string) {
	refs := make([]string, len(ids))

	var g errgroup.Group
	g.SetLimit(n.logoConcurrency)
	for i, id := range ids {
		if _, ok := teamsByID[id]; !ok {
			continue
		}
		url := unescapeURL(logos[id])
		if url == "" {
			continue
		}
		g.Go(func() error {
			ref, err := n.images.Encode(ctx, url)
			if err != nil {
				logging.Warn(n.logger, "team logo unavailable",
					slog.String(logging.FieldLeague, string(req.League.ID)),
					slog.Any("err", providers.ImageResolution(id, err)),
				)
				return nil
			}
			refs[i] = ref
			return nil
		})
	}
	_ = g.Wait()

	for i, id := range ids {
		if t, ok := teamsByID[id]; ok {
			t.Logo = refs[i]
			teamsByID[id] = t
		}
	}
}

func (n *Normalizer) mapGame(req providers.Request, rg gameResponse, teamsByID map[string]teams.Team) games.Game {
	start, ok := parseStartTime(rg.StartTime)
	display := ""
	if ok {
		display = start.In(n.loc).Format(timeutil.StartTimeLayout)
	}

	g := games.Game{
		GameID:           rg.GameID.String(),
		League:           req.League.ID,
		StartTime:        start,
		StartTimeDisplay: display,
		HomeTeam:         lookupTeam(teamsByID, rg.HomeTeamID.String()),
		AwayTeam:         lookupTeam(teamsByID, rg.AwayTeamID.String()),
		HomeScore:        optionalString(rg.TotalHomePoints),
		AwayScore:        optionalString(rg.TotalAwayPoints),
		Status:           rg.StatusDisplayName,
		StatusType:       NormalizeStatusType(rg.StatusType),
		GameType:         rg.GameType,
		TVCoverage:       rg.TVCoverage,
		Periods:          make([]games.Period, 0, len(rg.GamePeriods)),
	}
	for _, p := range rg.GamePeriods {
		id, _ := p.PeriodID.Int()
		g.Periods = append(g.Periods, games.Period{
			PeriodID:   id,
			Name:       p.DisplayName,
			AwayPoints: p.AwayPoints.String(),
			HomePoints: p.HomePoints.String(),
		})
	}
	if rg.Week != nil {
		if week, ok := rg.Week.Int(); ok {
			g.Week = &week
		}
	}
	return g
}

func mapTeam(rt teamResponse, record string) teams.Team {
	full := rt.FullName
	if full == "" {
		full = strings.TrimSpace(rt.FirstName + " " + rt.LastName)
	}
	return teams.Team{
		ID:           rt.TeamID.String(),
		FirstName:    rt.FirstName,
		LastName:     rt.LastName,
		FullName:     full,
		Abbreviation: strings.ToUpper(rt.Abbr),
		Conference:   teams.OrNotAvailable(rt.Conference),
		Division:     teams.OrNotAvailable(rt.Division),
		Record:       teams.OrNotAvailable(record),
	}
}

func lookupTeam(teamsByID map[string]teams.Team, id string) teams.Team {
	if t, ok := teamsByID[id]; ok {
		return t
	}
	return teams.Placeholder(id)
}

// NormalizeStatusType strips the upstream namespace and maps to a canonical status.
// Unknown values are treated as not yet started.
func NormalizeStatusType(raw string) games.StatusType {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, statusTypePrefix)
	switch s {
	case "in_progress", "in-progress", "live", "delayed", "suspended":
		return games.StatusLive
	case "final", "completed":
		return games.StatusFinal
	case "postponed", "cancelled", "canceled":
		return games.StatusPostponed
	default:
		return games.StatusPregame
	}
}

func parseStartTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func unescapeURL(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, `\/`, "/"))
}

func optionalString(f *flexString) *string {
	if f == nil || *f == "" {
		return nil
	}
	s := f.String()
	return &s
}

// decodeSection reads a section that upstream sends either as an ID-keyed object or an array.
// Absent sections are malformed; null is accepted only when allowNull is set.
func decodeSection[T any](raw json.RawMessage, section string, allowNull bool) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, providers.MalformedPayload(section)
	}
	switch raw[0] {
	case 'n':
		if allowNull && bytes.Equal(raw, []byte("null")) {
			return nil, nil
		}
	case '[':
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", providers.ErrMalformedPayload, section, err)
		}
		return items, nil
	case '{':
		var byKey map[string]T
		if err := json.Unmarshal(raw, &byKey); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", providers.ErrMalformedPayload, section, err)
		}
		keys := make([]string, 0, len(byKey))
		for k := range byKey {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]T, 0, len(byKey))
		for _, k := range keys {
			items = append(items, byKey[k])
		}
		return items, nil
	}
	return nil, providers.MalformedPayload(section)
}

// decodeStringMap reads an ID-keyed map of strings. An empty array counts as an empty map.
func decodeStringMap(raw json.RawMessage, section string) (map[string]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, providers.MalformedPayload(section)
	}
	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil || len(items) > 0 {
			return nil, fmt.Errorf("%w: %s: expected object", providers.ErrMalformedPayload, section)
		}
		return map[string]string{}, nil
	}
	var byKey map[string]flexString
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", providers.ErrMalformedPayload, section, err)
	}
	out := make(map[string]string, len(byKey))
	for k, v := range byKey {
		out[k] = v.String()
	}
	return out, nil
}
