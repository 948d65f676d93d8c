package server

import (
	"log/slog"
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/config"
	"github.com/preston-bernstein/sports-hub-service/internal/images"
	"github.com/preston-bernstein/sports-hub-service/internal/providers"
	"github.com/preston-bernstein/sports-hub-service/internal/providers/fixture"
	"github.com/preston-bernstein/sports-hub-service/internal/providers/yahoo"
	"github.com/preston-bernstein/sports-hub-service/internal/timeutil"
)

func selectProvider(cfg config.Config, logger *slog.Logger, loc *time.Location) providers.LeagueProvider {
	switch cfg.Provider {
	case config.ProviderFixture:
		return fixture.New(loc)
	case config.ProviderYahoo, "":
		return yahoo.NewClient(yahoo.Config{
			BaseURL:  cfg.Yahoo.BaseURL,
			Timezone: cfg.Timezone,
			Images:   images.New(cfg.ImageMode, nil),
			Logger:   logger,
		})
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixture.New(loc)
	}
}

// resolveLocation loads the display timezone, falling back to UTC.
func resolveLocation(name string, logger *slog.Logger) *time.Location {
	if loc, ok := timeutil.LoadLocation(name); ok {
		return loc
	}
	if name != "" && logger != nil {
		logger.Warn("unknown display timezone, using UTC", slog.String("timezone", name))
	}
	return time.UTC
}
