package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/preston-bernstein/sports-hub-service/internal/http/handlers"
	"github.com/preston-bernstein/sports-hub-service/internal/http/middleware"
	"github.com/preston-bernstein/sports-hub-service/internal/metrics"
)

// RouterConfig collects everything NewRouter mounts.
type RouterConfig struct {
	Handler *handlers.Handler
	// Control is optional; lifecycle routes are only mounted when set.
	Control *handlers.ControlHandler
	// Hub serves the websocket endpoint when set.
	Hub            nethttp.Handler
	Logger         *slog.Logger
	Metrics        *metrics.Recorder
	AllowedOrigins []string
}

// NewRouter registers HTTP routes on a chi router.
func NewRouter(cfg RouterConfig) nethttp.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Middleware(cfg.Logger, cfg.Metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "PUT", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := cfg.Handler
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Get("/feed", h.Feed)
	r.Get("/feed/{league}", h.LeagueFeed)
	r.Get("/games/{league}/{id}", h.GameByID)

	r.Route("/leagues", func(r chi.Router) {
		r.Get("/", h.Leagues)
		r.Get("/{league}/teams", h.LeagueTeams)
	})

	r.Get("/preferences", h.GetPreferences)
	r.Put("/preferences", h.PutPreferences)

	if cfg.Control != nil {
		r.Route("/control", func(r chi.Router) {
			r.Post("/start", cfg.Control.Start)
			r.Post("/stop", cfg.Control.Stop)
			r.Post("/refresh", cfg.Control.Refresh)
		})
	}

	if cfg.Hub != nil {
		r.Handle("/ws", cfg.Hub)
	}
	return r
}
