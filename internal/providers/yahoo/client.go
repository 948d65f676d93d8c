package yahoo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/images"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
	"github.com/preston-bernstein/sports-hub-service/internal/providers"
	"github.com/preston-bernstein/sports-hub-service/internal/timeutil"
)

// Config controls how the Yahoo scoreboard client reaches the upstream API.
type Config struct {
	BaseURL         string
	HTTPClient      *http.Client
	Timezone        string
	Images          images.Encoder
	Logger          *slog.Logger
	LogoConcurrency int
}

// Client fetches league scoreboards from the Yahoo editorial API.
type Client struct {
	baseURL    string
	httpClient httpDoer
	now        func() time.Time
	loc        *time.Location
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewClient constructs a Yahoo client with the provided configuration.
func NewClient(cfg Config) *Client {
	loc := resolveLocation(cfg.Timezone)
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		now:        time.Now,
		loc:        loc,
		normalizer: NewNormalizer(cfg.Images, loc, cfg.Logger, cfg.LogoConcurrency),
		logger:     cfg.Logger,
	}
}

// FetchLeague retrieves and normalizes one league's scoreboard.
func (c *Client) FetchLeague(ctx context.Context, req providers.Request) ([]games.Game, error) {
	if req.Date == "" {
		req.Date = timeutil.FormatDate(c.now().In(c.loc))
	}
	leagueName := string(req.League.ID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.League.URL(c.baseURL, req.Date), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &providers.NetworkError{League: leagueName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Message:    leagueName + ": yahoo rate limited",
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &providers.NetworkError{
			League:     leagueName,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("yahoo: %s", strings.TrimSpace(string(snippet))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &providers.NetworkError{League: leagueName, StatusCode: resp.StatusCode, Err: err}
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%s: %w: response exceeds %d bytes", leagueName, providers.ErrMalformedPayload, maxBodyBytes)
	}

	gs, err := c.normalizer.Normalize(ctx, req, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", leagueName, err)
	}

	if logger := logging.FromContext(ctx, c.logger); logger != nil {
		logger.Debug("league scoreboard fetched",
			slog.String(logging.FieldProvider, providerName),
			slog.String(logging.FieldLeague, leagueName),
			slog.String(logging.FieldDate, req.Date),
			slog.Int(logging.FieldCount, len(gs)),
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
		)
	}
	return gs, nil
}
