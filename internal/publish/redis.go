package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/sports-hub-service/internal/domain/games"
	"github.com/preston-bernstein/sports-hub-service/internal/league"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
	"github.com/preston-bernstein/sports-hub-service/internal/timeutil"
)

const (
	keyPrefix          = "sportshub:feed:"
	latestKey          = keyPrefix + "latest"
	feedStream         = "sportshub.feed.updated"
	eventStream        = "sportshub.events"
	defaultRedisTTL    = 24 * time.Hour
	defaultStreamLimit = 1000
)

// LeagueKey is the cache key for one league's games on a YYYY-MM-DD date.
func LeagueKey(id league.ID, date string) string {
	return keyPrefix + strings.ToLower(string(id)) + ":" + date
}

// RedisConfig tunes the redis publisher.
type RedisConfig struct {
	TTL         time.Duration
	Location    *time.Location
	StreamLimit int64
}

// RedisPublisher caches feeds under per-league keys and appends events to redis streams.
type RedisPublisher struct {
	client      redis.Cmdable
	ttl         time.Duration
	loc         *time.Location
	streamLimit int64
	logger      *slog.Logger
}

// NewRedisPublisher builds a publisher on top of client.
func NewRedisPublisher(client redis.Cmdable, cfg RedisConfig, logger *slog.Logger) *RedisPublisher {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	limit := cfg.StreamLimit
	if limit <= 0 {
		limit = defaultStreamLimit
	}
	return &RedisPublisher{
		client:      client,
		ttl:         ttl,
		loc:         loc,
		streamLimit: limit,
		logger:      logger,
	}
}

// FeedUpdated writes every league list, the full feed, and a stream entry in one pipeline.
func (p *RedisPublisher) FeedUpdated(ctx context.Context, feed games.Feed) {
	full, err := json.Marshal(feed)
	if err != nil {
		logging.Error(logging.FromContext(ctx, p.logger), "redis encode feed failed", err)
		return
	}
	date := timeutil.FormatDate(feed.LastUpdated.In(p.loc))

	pipe := p.client.Pipeline()
	for id, gs := range feed.PerLeague {
		data, err := json.Marshal(gs)
		if err != nil {
			logging.Error(logging.FromContext(ctx, p.logger), "redis encode league failed", err,
				slog.String(logging.FieldLeague, string(id)))
			continue
		}
		pipe.Set(ctx, LeagueKey(id, date), data, p.ttl)
	}
	pipe.Set(ctx, latestKey, full, p.ttl)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: feedStream,
		MaxLen: p.streamLimit,
		Values: map[string]interface{}{
			"last_updated": feed.LastUpdated.UTC().Format(time.RFC3339),
			"games":        len(feed.AllGames),
			"leagues":      len(feed.PerLeague),
		},
	})

	if _, err := pipe.Exec(ctx); err != nil {
		logging.Warn(logging.FromContext(ctx, p.logger), "redis feed publish failed", slog.Any("error", err))
	}
}

func (p *RedisPublisher) Log(ctx context.Context, msg string) {
	p.event(ctx, EventLog, msg)
}

func (p *RedisPublisher) Warn(ctx context.Context, msg string) {
	p.event(ctx, EventWarn, msg)
}

func (p *RedisPublisher) Error(ctx context.Context, msg string) {
	p.event(ctx, EventError, msg)
}

func (p *RedisPublisher) event(ctx context.Context, level, msg string) {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: eventStream,
		MaxLen: p.streamLimit,
		Values: map[string]interface{}{
			"level":   level,
			"message": msg,
		},
	}).Err()
	if err != nil {
		logging.Warn(logging.FromContext(ctx, p.logger), "redis event publish failed",
			slog.String("level", level), slog.Any("error", err))
	}
}

// LatestFeed reads back the last published feed. ok is false when none is cached.
func (p *RedisPublisher) LatestFeed(ctx context.Context) (games.Feed, bool, error) {
	data, err := p.client.Get(ctx, latestKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return games.Feed{}, false, nil
	}
	if err != nil {
		return games.Feed{}, false, fmt.Errorf("redis get latest feed: %w", err)
	}
	var feed games.Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		return games.Feed{}, false, fmt.Errorf("decode latest feed: %w", err)
	}
	return feed, true, nil
}

// LeagueGames reads one league's cached list for a date.
func (p *RedisPublisher) LeagueGames(ctx context.Context, id league.ID, date string) ([]games.Game, bool, error) {
	data, err := p.client.Get(ctx, LeagueKey(id, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", id, err)
	}
	var gs []games.Game
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, false, fmt.Errorf("decode %s games: %w", id, err)
	}
	return gs, true, nil
}
