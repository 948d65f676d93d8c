package server

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/sports-hub-service/internal/app/sportshub"
	"github.com/preston-bernstein/sports-hub-service/internal/app/teams"
	"github.com/preston-bernstein/sports-hub-service/internal/config"
	"github.com/preston-bernstein/sports-hub-service/internal/feed"
	httpserver "github.com/preston-bernstein/sports-hub-service/internal/http"
	"github.com/preston-bernstein/sports-hub-service/internal/http/handlers"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
	"github.com/preston-bernstein/sports-hub-service/internal/metrics"
	"github.com/preston-bernstein/sports-hub-service/internal/poller"
	"github.com/preston-bernstein/sports-hub-service/internal/preferences"
	"github.com/preston-bernstein/sports-hub-service/internal/providers"
	"github.com/preston-bernstein/sports-hub-service/internal/publish"
	"github.com/preston-bernstein/sports-hub-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.MemoryStore
	service       *sportshub.Service
	hub           *publish.Hub
	redis         *redis.Client
	redisPub      *publish.RedisPublisher
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	lifecycle     *lifecycle
	metricsStop   func(context.Context) error
}

// New constructs a server with default provider and poller wiring.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithMetrics(cfg, logger, nil, nil)
}

func newServerWithProvider(cfg config.Config, logger *slog.Logger, provider providers.LeagueProvider) *Server {
	return newServerWithMetrics(cfg, logger, provider, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, provider providers.LeagueProvider, recorder *metrics.Recorder) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)
	loc := resolveLocation(cfg.Timezone, logger)

	if provider == nil {
		provider = newProviderFactory(logger, recorder, loc).build(cfg)
	} else {
		provider = providers.NewRetryingProvider(provider, logger, recorder, providerName(cfg.Provider, provider), 0, 0)
	}

	reg := league.Default()
	hub := publish.NewHub(logger, recorder, originChecker(cfg.AllowedOrigins))
	redisClient, redisPub := buildRedis(cfg, loc, logger)
	pub := buildPublisher(logger, hub, redisPub)

	memoryStore := store.NewMemoryStore()
	agg := feed.NewAggregator(feed.AggregatorConfig{
		Registry: reg,
		Fetcher:  feed.NewFetcher(provider, pub, logger, recorder),
		Location: loc,
		Logger:   logger,
		Metrics:  recorder,
	})
	svc := sportshub.NewService(sportshub.Options{
		Store:       memoryStore,
		Aggregator:  agg,
		Publisher:   pub,
		Registry:    reg,
		Preferences: initialPreferences(cfg, reg, logger),
		Logger:      logger,
		Metrics:     recorder,
		MaxAge:      cfg.OnDemandMaxAge,
	})
	hub.SetSource(svc.Feed)

	plr := poller.New(svc, logger, poller.DefaultMinInterval)
	lc := newLifecycle(svc, plr, logger)
	httpSrv := buildHTTPServer(cfg, svc, reg, hub, lc, logger, recorder, plr)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         memoryStore,
		service:       svc,
		hub:           hub,
		redis:         redisClient,
		redisPub:      redisPub,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		poller:        plr,
		lifecycle:     lc,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *sportshub.Service, httpSrv httpServer, plr Poller) *Server {
	var lc *lifecycle
	if svc != nil {
		lc = newLifecycle(svc, plr, logger)
	}
	return &Server{
		cfg:        cfg,
		logger:     logger,
		service:    svc,
		httpServer: httpSrv,
		poller:     plr,
		lifecycle:  lc,
	}
}

// initialPreferences overlays the environment seed on the defaults. An invalid
// seed is logged and ignored so the service still starts.
func initialPreferences(cfg config.Config, reg *league.Registry, logger *slog.Logger) preferences.Preferences {
	prefs, err := preferences.Apply(cfg.Preferences.Document(), reg, preferences.Default())
	if err != nil {
		logging.Warn(logger, "ignoring configured preferences", slog.Any("error", err))
		return preferences.Default()
	}
	for _, unknown := range prefs.UnknownTeams() {
		logging.Warn(logger, "unknown favorite team", slog.String("team", unknown))
	}
	return prefs
}

func buildPublisher(logger *slog.Logger, hub *publish.Hub, redisPub *publish.RedisPublisher) publish.Publisher {
	pubs := []publish.Publisher{publish.NewLogPublisher(logger), hub}
	if redisPub != nil {
		pubs = append(pubs, redisPub)
	}
	return publish.Multi(pubs...)
}

// originChecker limits websocket upgrades to the configured origins. Requests
// without an Origin header come from non-browser clients and are allowed.
func originChecker(origins []string) func(*http.Request) bool {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(origins, origin)
	}
}

func buildHTTPServer(cfg config.Config, svc *sportshub.Service, reg *league.Registry, hub *publish.Hub, lc *lifecycle, logger *slog.Logger, recorder *metrics.Recorder, plr Poller) httpServer {
	var statusFn func() poller.Status
	if plr != nil {
		statusFn = plr.Status
	}

	handler := handlers.NewHandler(svc, teams.NewService(reg, svc), logger, statusFn)
	var control *handlers.ControlHandler
	if cfg.AdminToken != "" {
		control = handlers.NewControlHandler(lc, cfg.AdminToken, logger)
	}
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Handler:        handler,
		Control:        control,
		Hub:            hub,
		Logger:         logger,
		Metrics:        recorder,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run warms the cache, starts the poller and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.warmStart(ctx)
	s.startServer(stop)
	if s.lifecycle != nil {
		s.lifecycle.bind(ctx)
	}
	s.poller.Start(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("failed to stop poller", "error", err)
	}

	// Hijacked websocket connections are not tracked by http.Server.Shutdown.
	if s.hub != nil {
		s.hub.Close()
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.service != nil {
		s.service.Stop(shutdownCtx)
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil && s.logger != nil {
			s.logger.Warn("redis close failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              cfg.Metrics.Addr(),
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

