package yahoo

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type envelope struct {
	Service *struct {
		Scoreboard *scoreboard `json:"scoreboard"`
	} `json:"service"`
}

// Sections stay raw so absent, null and empty can be told apart.
type scoreboard struct {
	Teams      json.RawMessage `json:"teams"`
	TeamRecord json.RawMessage `json:"teamrecord"`
	TeamLogo   json.RawMessage `json:"teamLogo"`
	Games      json.RawMessage `json:"games"`
}

type teamResponse struct {
	TeamID     flexString `json:"team_id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	FullName   string     `json:"full_name"`
	Abbr       string     `json:"abbr"`
	Conference string     `json:"conference"`
	Division   string     `json:"division"`
}

type gameResponse struct {
	GameID            flexString       `json:"gameid"`
	StartTime         string           `json:"start_time"`
	HomeTeamID        flexString       `json:"home_team_id"`
	AwayTeamID        flexString       `json:"away_team_id"`
	TotalHomePoints   *flexString      `json:"total_home_points"`
	TotalAwayPoints   *flexString      `json:"total_away_points"`
	StatusDisplayName string           `json:"status_display_name"`
	StatusType        string           `json:"status_type"`
	GameType          string           `json:"game_type"`
	TVCoverage        string           `json:"tv_coverage"`
	GamePeriods       []periodResponse `json:"game_periods"`
	SubLeague         string           `json:"sub_league"`
	Week              *flexString      `json:"week"`
}

type periodResponse struct {
	PeriodID    flexString `json:"period_id"`
	DisplayName string     `json:"display_name"`
	AwayPoints  flexString `json:"away_points"`
	HomePoints  flexString `json:"home_points"`
}

// flexString accepts JSON strings, numbers and booleans; null decodes to "".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

func (f flexString) String() string { return string(f) }

func (f flexString) Int() (int, bool) {
	n, err := strconv.Atoi(string(f))
	return n, err == nil
}
