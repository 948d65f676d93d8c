package server

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/config"
	"github.com/preston-bernstein/sports-hub-service/internal/metrics"
	"github.com/preston-bernstein/sports-hub-service/internal/providers"
)

// providerFactory assembles the provider with the shared retry wrapper.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	loc     *time.Location
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder, loc *time.Location) providerFactory {
	return providerFactory{logger: logger, metrics: metrics, loc: loc}
}

func (f providerFactory) build(cfg config.Config) providers.LeagueProvider {
	base := selectProvider(cfg, f.logger, f.loc)
	return providers.NewRetryingProvider(base, f.logger, f.metrics, providerName(cfg.Provider, base), 0, 0)
}

// providerName labels a provider in logs and metrics. The configured name wins;
// otherwise the implementation's package name is used ("yahoo", "fixture").
func providerName(configured string, provider providers.LeagueProvider) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return strings.ToLower(configured)
	}
	if provider == nil {
		return "provider"
	}
	typ := strings.TrimPrefix(fmt.Sprintf("%T", provider), "*")
	pkg, _, _ := strings.Cut(typ, ".")
	return strings.ToLower(pkg)
}
