package yahoo

import "time"

const (
	providerName           = "yahoo"
	defaultBaseURL         = "https://api-secure.sports.yahoo.com"
	defaultHTTPTimeout     = 10 * time.Second
	defaultTimezone        = "America/New_York"
	defaultLogoConcurrency = 8
	maxBodyBytes           = 8 << 20
	userAgent              = "sports-hub-service/1.0"

	statusTypePrefix = "status.type."
)
