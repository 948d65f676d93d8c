package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/sports-hub-service/internal/app/sportshub"
	"github.com/preston-bernstein/sports-hub-service/internal/http/requestutil"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
)

// Lifecycle is the start/stop/refresh surface of the running service.
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// ControlHandler exposes token-guarded lifecycle endpoints.
type ControlHandler struct {
	lifecycle Lifecycle
	token     string
	logger    *slog.Logger
}

// NewControlHandler constructs a ControlHandler.
func NewControlHandler(lifecycle Lifecycle, token string, logger *slog.Logger) *ControlHandler {
	return &ControlHandler{
		lifecycle: lifecycle,
		token:     token,
		logger:    logger,
	}
}

// Start re-arms the refresh schedule after a stop.
func (h *ControlHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "start", h.lifecycle.Start)
}

// Stop halts scheduled refreshes and clears cached state.
func (h *ControlHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "stop", h.lifecycle.Stop)
}

// Refresh runs one refresh cycle immediately.
func (h *ControlHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "refresh", h.lifecycle.Refresh)
}

func (h *ControlHandler) run(w http.ResponseWriter, r *http.Request, action string, fn func(context.Context) error) {
	if !h.authorize(r) {
		logging.Warn(h.logger, "control unauthorized",
			slog.String("path", r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.lifecycle == nil {
		writeError(w, r, http.StatusServiceUnavailable, "lifecycle not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	if err := fn(r.Context()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sportshub.ErrAllLeaguesFailed) {
			status = http.StatusBadGateway
		}
		logging.Warn(logger, "control action failed", slog.String("action", action), slog.Any("error", err))
		writeError(w, r, status, err.Error(), logger)
		return
	}

	logging.Info(logger, "control action complete", slog.String("action", action))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "action": action}, logger)
}

func (h *ControlHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	want := "Bearer " + h.token
	got := r.Header.Get("Authorization")
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
