package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/sports-hub-service/internal/config"
	"github.com/preston-bernstein/sports-hub-service/internal/logging"
	"github.com/preston-bernstein/sports-hub-service/internal/publish"
)

func buildRedis(cfg config.Config, loc *time.Location, logger *slog.Logger) (*redis.Client, *publish.RedisPublisher) {
	if !cfg.Redis.Enabled() {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pub := publish.NewRedisPublisher(client, publish.RedisConfig{
		TTL:      cfg.Redis.TTL,
		Location: loc,
	}, logger)
	return client, pub
}

// warmStart seeds the store with the last feed cached in redis so the first
// cycle can reuse same-day results instead of refetching every league.
func (s *Server) warmStart(ctx context.Context) {
	if s.redisPub == nil || s.store == nil {
		return
	}
	readCtx, cancel := context.WithTimeout(ctx, warmStartTimeout)
	defer cancel()

	feed, ok, err := s.redisPub.LatestFeed(readCtx)
	if err != nil {
		logging.Warn(s.logger, "warm start from redis failed", slog.Any("error", err))
		return
	}
	if !ok {
		return
	}
	s.store.SetFeed(feed)
	logging.Info(s.logger, "warm start from redis",
		slog.Int(logging.FieldCount, len(feed.AllGames)),
		slog.String("last_updated", feed.LastUpdatedDisplay),
	)
}
