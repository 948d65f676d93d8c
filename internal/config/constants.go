package config

import "time"

const (
	envPort            = "PORT"
	envProvider        = "PROVIDER"
	envYahooBaseURL    = "YAHOO_BASE_URL"
	envTimezone        = "DISPLAY_TIMEZONE"
	envRefreshInterval = "REFRESH_INTERVAL_MINUTES"
	envLeaguesToShow   = "LEAGUES_TO_SHOW"
	envFavoriteLeague  = "FAVORITE_LEAGUE"
	envFavoriteTeams   = "FAVORITE_TEAMS_"
	envOnDemandMaxAge  = "ON_DEMAND_MAX_AGE"
	envImageMode       = "IMAGE_MODE"
	envAdminToken      = "ADMIN_TOKEN"
	envAllowedOrigins  = "CORS_ALLOWED_ORIGINS"
	envRedisAddr       = "REDIS_ADDR"
	envRedisPassword   = "REDIS_PASSWORD"
	envRedisDB         = "REDIS_DB"
	envRedisTTL        = "REDIS_TTL"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"

	defaultPort        = "4000"
	defaultProvider    = ProviderYahoo
	defaultTimezone    = "America/New_York"
	defaultMaxAge      = 15 * time.Minute
	defaultImageMode   = "encode"
	defaultRedisTTL    = 24 * time.Hour
	defaultMetricsPort = "9090"
	defaultServiceName = "sports-hub-service"
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
	minIntervalMinutes = 1
	maxIntervalMinutes = 60
)

// Provider names accepted by PROVIDER.
const (
	ProviderYahoo   = "yahoo"
	ProviderFixture = "fixture"
)
