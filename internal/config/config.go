package config

import (
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/preferences"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port           string
	Provider       string
	Yahoo          YahooConfig
	Timezone       string
	Preferences    PreferencesConfig
	OnDemandMaxAge time.Duration
	ImageMode      string
	AdminToken     string
	AllowedOrigins []string
	Redis          RedisConfig
	Metrics        MetricsConfig
	Log            LogConfig
}

// Addr returns the listen address of the API server.
func (c Config) Addr() string {
	return listenAddr(c.Port)
}

// YahooConfig controls how we talk to the scoreboard API.
type YahooConfig struct {
	BaseURL string
}

// RedisConfig enables the redis publisher when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a redis address was configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string
	Format string
}

// PreferencesConfig seeds the startup preferences. Unset values keep the defaults.
type PreferencesConfig struct {
	RefreshIntervalMinutes int
	LeaguesToShow          []string
	FavoriteLeague         string
	FavoriteTeams          map[string][]string
}

// Document converts the seed into a partial preferences document.
func (c PreferencesConfig) Document() preferences.Document {
	var doc preferences.Document
	if c.RefreshIntervalMinutes > 0 {
		minutes := c.RefreshIntervalMinutes
		doc.RefreshInterval = &minutes
	}
	if len(c.LeaguesToShow) > 0 {
		doc.LeaguesToShow = append([]string(nil), c.LeaguesToShow...)
	}
	if c.FavoriteLeague != "" {
		fav := c.FavoriteLeague
		doc.FavoriteLeague = &fav
	}
	if len(c.FavoriteTeams) > 0 {
		doc.FavoriteTeams = make(map[string][]string, len(c.FavoriteTeams))
		for k, v := range c.FavoriteTeams {
			doc.FavoriteTeams[k] = append([]string(nil), v...)
		}
	}
	return doc
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:     envOrDefault(envPort, defaultPort),
		Provider: envOrDefault(envProvider, defaultProvider),
		Yahoo: YahooConfig{
			BaseURL: envOrDefault(envYahooBaseURL, ""),
		},
		Timezone:       envOrDefault(envTimezone, defaultTimezone),
		Preferences:    loadPreferences(),
		OnDemandMaxAge: durationEnvOrDefault(envOnDemandMaxAge, defaultMaxAge),
		ImageMode:      envOrDefault(envImageMode, defaultImageMode),
		AdminToken:     envOrDefault(envAdminToken, ""),
		AllowedOrigins: listEnv(envAllowedOrigins),
		Redis:          loadRedis(),
		Metrics:        loadMetrics(),
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, defaultLogLevel),
			Format: envOrDefault(envLogFormat, defaultLogFormat),
		},
	}
}

func loadPreferences() PreferencesConfig {
	interval := intEnvOrDefault(envRefreshInterval, 0)
	if interval > 0 {
		interval = clamp(interval, minIntervalMinutes, maxIntervalMinutes)
	}
	return PreferencesConfig{
		RefreshIntervalMinutes: interval,
		LeaguesToShow:          listEnv(envLeaguesToShow),
		FavoriteLeague:         envOrDefault(envFavoriteLeague, ""),
		FavoriteTeams:          prefixedListEnv(envFavoriteTeams),
	}
}

func loadRedis() RedisConfig {
	return RedisConfig{
		Addr:     envOrDefault(envRedisAddr, ""),
		Password: envOrDefault(envRedisPassword, ""),
		DB:       intEnvOrDefault(envRedisDB, 0),
		TTL:      durationEnvOrDefault(envRedisTTL, defaultRedisTTL),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
