package handlers

import (
	"errors"
	"log/slog"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/sports-hub-service/internal/app/sportshub"
	"github.com/preston-bernstein/sports-hub-service/internal/app/teams"
	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
	"github.com/preston-bernstein/sports-hub-service/internal/poller"
	"github.com/preston-bernstein/sports-hub-service/internal/preferences"
)

// maxPreferencesBody bounds PUT /preferences payloads.
const maxPreferencesBody = 64 << 10

// LeagueResponse is the payload of GET /feed/{league}.
type LeagueResponse struct {
	League             league.ID    `json:"league"`
	Games              []games.Game `json:"games"`
	LastUpdated        time.Time    `json:"lastUpdated"`
	LastUpdatedDisplay string       `json:"lastUpdatedDisplay"`
}

// Handler wires HTTP routes to the feed service.
type Handler struct {
	svc      *sportshub.Service
	catalog  *teams.Service
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. statusFn may be nil, in which case /ready always succeeds.
func NewHandler(svc *sportshub.Service, catalog *teams.Service, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	if catalog == nil {
		catalog = teams.NewService(svc.Registry(), svc)
	}
	return &Handler{
		svc:      svc,
		catalog:  catalog,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if !status.Running {
		writeError(w, r, nethttp.StatusServiceUnavailable, "refresh stopped", h.logger)
		return
	}
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Feed returns the aggregate feed, refreshing first when it is missing or too old.
func (h *Handler) Feed(w nethttp.ResponseWriter, r *nethttp.Request) {
	f := h.svc.Feed(r.Context())
	logging.Info(loggerFromContext(r, h.logger), "served feed",
		slog.Int(logging.FieldCount, len(f.AllGames)),
		slog.Int("leagues", len(f.PerLeague)),
	)
	writeJSON(w, nethttp.StatusOK, f, h.logger)
}

// LeagueFeed returns one shown league's ranked games.
func (h *Handler) LeagueFeed(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := h.svc.Registry().Parse(chi.URLParam(r, "league"))
	if !ok || id == league.None {
		writeError(w, r, nethttp.StatusBadRequest, "unknown league", h.logger)
		return
	}

	f := h.svc.Feed(r.Context())
	gs, shown := f.League(id)
	if !shown {
		writeError(w, r, nethttp.StatusNotFound, "league not shown", h.logger)
		return
	}
	if gs == nil {
		gs = []games.Game{}
	}
	writeJSON(w, nethttp.StatusOK, LeagueResponse{
		League:             id,
		Games:              gs,
		LastUpdated:        f.LastUpdated,
		LastUpdatedDisplay: f.LastUpdatedDisplay,
	}, h.logger)
}

// GameByID returns one league's game if present. Game IDs are only unique within a league.
func (h *Handler) GameByID(w nethttp.ResponseWriter, r *nethttp.Request) {
	lg, ok := h.svc.Registry().Parse(chi.URLParam(r, "league"))
	if !ok || lg == league.None {
		writeError(w, r, nethttp.StatusBadRequest, "unknown league", h.logger)
		return
	}
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || id == "" || strings.ContainsAny(id, " \t/") {
		writeError(w, r, nethttp.StatusBadRequest, "invalid game id", h.logger)
		return
	}

	game, found := h.svc.GameByID(lg, id)
	if !found {
		writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, game, h.logger)
}

// Leagues lists every supported league with its settings state.
func (h *Handler) Leagues(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, h.catalog.Leagues(), h.logger)
}

// LeagueTeams lists the selectable teams of one league.
func (h *Handler) LeagueTeams(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := h.svc.Registry().Parse(chi.URLParam(r, "league"))
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "unknown league", h.logger)
		return
	}
	opts, ok := h.catalog.Teams(id)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "league not found", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, opts, h.logger)
}

// GetPreferences returns the active preferences.
func (h *Handler) GetPreferences(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, h.svc.Preferences(), h.logger)
}

// PutPreferences applies a partial preferences document and refreshes the feed.
func (h *Handler) PutPreferences(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	doc, err := preferences.DecodeDocument(nethttp.MaxBytesReader(w, r.Body, maxPreferencesBody))
	if err != nil {
		logging.Warn(logger, "preferences rejected", slog.Any("error", err))
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), logger)
		return
	}

	prefs, err := h.svc.UpdatePreferences(r.Context(), doc)
	if err != nil {
		status := nethttp.StatusInternalServerError
		if errors.Is(err, preferences.ErrInvalid) {
			status = nethttp.StatusBadRequest
		}
		writeError(w, r, status, err.Error(), logger)
		return
	}
	logging.Info(logger, "preferences updated",
		slog.Int64(logging.FieldInterval, int64(prefs.Interval().Minutes())),
		slog.Int("leagues", len(prefs.LeaguesToShow)),
	)
	writeJSON(w, nethttp.StatusOK, prefs, logger)
}
