package providers

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
	"github.com/preston-bernstein/sports-hub-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingProvider wraps a LeagueProvider with retry/backoff behavior.
type retryingProvider struct {
	inner        LeagueProvider
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	maxAttempts  int
	backoffFn    backoffFunc

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingProvider(inner LeagueProvider, logger *slog.Logger, recorder *metrics.Recorder, name string, maxAttempts int, backoff time.Duration) LeagueProvider {
	return NewRetryingProviderWithRNG(inner, logger, recorder, name, nil, maxAttempts, backoff)
}

// NewRetryingProviderWithRNG is NewRetryingProvider with a caller-supplied jitter source.
func NewRetryingProviderWithRNG(inner LeagueProvider, logger *slog.Logger, recorder *metrics.Recorder, name string, rng *rand.Rand, maxAttempts int, backoff time.Duration) LeagueProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if name == "" {
		name = "provider"
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &retryingProvider{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: name,
		maxAttempts:  maxAttempts,
		rng:          rng,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (r *retryingProvider) FetchLeague(ctx context.Context, req Request) ([]games.Game, error) {
	if r.inner == nil {
		return nil, ErrProviderUnavailable
	}
	leagueName := string(req.League.ID)
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		gs, err := r.inner.FetchLeague(ctx, req)
		r.metrics.RecordProviderAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			return gs, nil
		}
		lastErr = err

		if rlErr, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.providerName, rlErr.RetryAfter)
		}
		if !retryable(err) || attempt == r.maxAttempts {
			break
		}

		r.logWarn(ctx, "provider fetch retry",
			slog.String(logging.FieldLeague, leagueName),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", r.maxAttempts),
			slog.Any("err", err),
		)

		delay := r.computeDelay(err, attempt)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	r.logWarn(ctx, "provider fetch failed",
		slog.String(logging.FieldLeague, leagueName),
		slog.Any("err", lastErr),
	)
	return nil, lastErr
}

// retryable excludes failures a second attempt cannot fix. An upstream that
// answered with an error status is left for the next cycle; only connection
// failures and rate limits carrying Retry-After are retried in place.
func retryable(err error) bool {
	if netErr, ok := AsNetworkError(err); ok && netErr.StatusCode > 0 {
		return false
	}
	return !errors.Is(err, ErrMalformedPayload) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// computeDelay honors Retry-After, otherwise applies equal jitter over the backoff.
func (r *retryingProvider) computeDelay(err error, attempt int) time.Duration {
	if rlErr, ok := AsRateLimitError(err); ok && rlErr.RetryAfter > 0 {
		return rlErr.RetryAfter
	}
	base := r.backoffFn(attempt)
	if base <= 0 {
		return 0
	}
	half := base / 2
	r.rngMu.Lock()
	jitter := time.Duration(r.rng.Int63n(int64(half) + 1))
	r.rngMu.Unlock()
	return half + jitter
}

func (r *retryingProvider) logWarn(ctx context.Context, msg string, args ...any) {
	logWithProvider(ctx, logging.FromContext(ctx, r.logger), slog.LevelWarn, r.providerName, msg, args...)
}
